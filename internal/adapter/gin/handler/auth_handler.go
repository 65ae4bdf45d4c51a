package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/session"
	"user-console/internal/usecase/auth"
	"user-console/pkg/logger"
)

// UsersPath is where a successful login lands.
const UsersPath = "/users"

// LoginService is the login/logout flow used by AuthHandler.
type LoginService interface {
	Login(ctx context.Context, sess *session.Session, in auth.LoginRequest) error
	Logout(ctx context.Context, sess *session.Session) error
}

// SessionReleaser forgets per-session state on logout.
type SessionReleaser interface {
	Drop(sessionID string)
}

// AuthHandler serves the login view and the login/logout actions.
type AuthHandler struct {
	svc      LoginService
	releaser SessionReleaser
	log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(svc LoginService, releaser SessionReleaser, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		releaser: releaser,
		log:      log,
	}
}

// LoginRequest represents the login form, posted as a form or as JSON
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// ViewResponse names the view the client should render
type ViewResponse struct {
	View    string `json:"view"`
	Message string `json:"message,omitempty"`
}

// LoginView handles GET /login
func (h *AuthHandler) LoginView(c *gin.Context) {
	resp := ViewResponse{View: "login"}
	if c.Query("logged_out") != "" {
		resp.Message = "Logged out successfully"
	}
	c.JSON(http.StatusOK, resp)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body could not be read",
		})
		return
	}

	err := h.svc.Login(c.Request.Context(), middleware.SessionFrom(c), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.Redirect(http.StatusSeeOther, UsersPath)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if err := h.svc.Logout(c.Request.Context(), sess); err != nil {
		handleError(c, h.log, err)
		return
	}
	h.releaser.Drop(sess.ID())

	c.Redirect(http.StatusSeeOther, auth.LoginPath+"?logged_out=1")
}
