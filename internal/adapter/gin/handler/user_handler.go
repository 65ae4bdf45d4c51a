package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/adapter/gin/middleware"
	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/userlist"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// Controllers hands out the list controller of a session.
type Controllers interface {
	Get(sessionID string) *userlist.Controller
}

// UserHandler handles HTTP requests for the user list view. Every response
// carries the controller snapshot so the view can re-render from it.
type UserHandler struct {
	controllers Controllers
	log         *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(controllers Controllers, log *zap.Logger) *UserHandler {
	return &UserHandler{
		controllers: controllers,
		log:         log,
	}
}

func (h *UserHandler) controller(c *gin.Context) *userlist.Controller {
	return h.controllers.Get(middleware.SessionFrom(c).ID())
}

// respond writes the snapshot with the status matching err.
func (h *UserHandler) respond(c *gin.Context, ctrl *userlist.Controller, err error) {
	snap := ctrl.Snapshot()
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status >= 500 {
			logger.WithContext(c.Request.Context(), h.log).Warn("user list action failed", zap.Error(err))
		}
		c.JSON(status, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ListUsers handles GET /users?page=N. Without a page it shows the current page.
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctrl := h.controller(c)

	pageStr := c.Query("page")
	if pageStr == "" {
		h.respond(c, ctrl, ctrl.Mount(c.Request.Context()))
		return
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid page", zap.String("page", pageStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_page",
			Message: "Page must be a valid number",
		})
		return
	}
	h.respond(c, ctrl, ctrl.GoTo(c.Request.Context(), page))
}

// NextPage handles POST /users/next
func (h *UserHandler) NextPage(c *gin.Context) {
	ctrl := h.controller(c)
	h.respond(c, ctrl, ctrl.Next(c.Request.Context()))
}

// PreviousPage handles POST /users/previous
func (h *UserHandler) PreviousPage(c *gin.Context) {
	ctrl := h.controller(c)
	h.respond(c, ctrl, ctrl.Previous(c.Request.Context()))
}

// BeginEdit handles POST /users/:id/edit
func (h *UserHandler) BeginEdit(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	ctrl := h.controller(c)
	h.respond(c, ctrl, ctrl.BeginEdit(id))
}

// ChangeDraft handles PATCH /users/draft
func (h *UserHandler) ChangeDraft(c *gin.Context) {
	var change userlist.DraftChange
	if err := c.ShouldBindJSON(&change); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid draft change", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body could not be read",
		})
		return
	}
	ctrl := h.controller(c)
	h.respond(c, ctrl, ctrl.ChangeDraft(change))
}

// CancelEdit handles POST /users/draft/cancel
func (h *UserHandler) CancelEdit(c *gin.Context) {
	ctrl := h.controller(c)
	ctrl.CancelEdit()
	h.respond(c, ctrl, nil)
}

// SaveDraft handles POST /users/draft/save
func (h *UserHandler) SaveDraft(c *gin.Context) {
	ctrl := h.controller(c)
	h.respond(c, ctrl, ctrl.Save(c.Request.Context()))
}

// DeleteUser handles DELETE /users/:id. The browser collects the confirmation
// and passes it as confirm=true; anything else leaves the row in place.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	confirmed := c.Query("confirm") == "true"
	confirmer := userlist.ConfirmFunc(func(context.Context, domain.User) bool { return confirmed })

	ctrl := h.controller(c)
	h.respond(c, ctrl, ctrl.Delete(c.Request.Context(), id, confirmer))
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}
