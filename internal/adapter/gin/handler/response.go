package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// handleError writes err as an ErrorResponse with the status of its kind.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		logger.WithContext(c.Request.Context(), log).Error("request failed", zap.Error(err))
	}
	c.JSON(status, ErrorResponse{
		Error:   apperrors.Kind(err),
		Message: apperrors.Message(err),
	})
}
