package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/session"
	"user-console/internal/usecase/auth"
	apperrors "user-console/pkg/errors"
)

// MockLoginService is a mock implementation of LoginService
type MockLoginService struct {
	mock.Mock
}

func (m *MockLoginService) Login(ctx context.Context, sess *session.Session, in auth.LoginRequest) error {
	args := m.Called(ctx, sess, in)
	return args.Error(0)
}

func (m *MockLoginService) Logout(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

type recordingReleaser struct {
	dropped []string
}

func (r *recordingReleaser) Drop(sessionID string) {
	r.dropped = append(r.dropped, sessionID)
}

func setupAuthTest(t *testing.T) (*gin.Engine, *MockLoginService, *recordingReleaser) {
	gin.SetMode(gin.TestMode)
	svc := new(MockLoginService)
	releaser := &recordingReleaser{}
	h := NewAuthHandler(svc, releaser, zaptest.NewLogger(t))

	r := gin.New()
	r.Use(middleware.Session(session.NewMemoryStore(), middleware.CookieConfig{Name: "console_session"}))
	r.GET("/login", h.LoginView)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	return r, svc, releaser
}

func TestLoginView(t *testing.T) {
	r, _, _ := setupAuthTest(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"view":"login"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?logged_out=1", nil))
	assert.JSONEq(t, `{"view":"login","message":"Logged out successfully"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	creds := auth.LoginRequest{Email: "eve.holt@reqres.in", Password: "cityslicka"}

	t.Run("SuccessForm", func(t *testing.T) {
		r, svc, _ := setupAuthTest(t)
		svc.On("Login", mock.Anything, mock.AnythingOfType("*session.Session"), creds).Return(nil)

		form := url.Values{"email": {creds.Email}, "password": {creds.Password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/users", w.Header().Get("Location"))
		svc.AssertExpectations(t)
	})

	t.Run("SuccessJSON", func(t *testing.T) {
		r, svc, _ := setupAuthTest(t)
		svc.On("Login", mock.Anything, mock.Anything, creds).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"eve.holt@reqres.in","password":"cityslicka"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		r, svc, _ := setupAuthTest(t)
		svc.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(apperrors.NewOperationError(apperrors.ErrAuth, errors.New("unexpected status code: 400")))

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"peter@klaven","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"auth_error","message":"Invalid credentials"}`, w.Body.String())
	})

	t.Run("MissingFields", func(t *testing.T) {
		r, svc, _ := setupAuthTest(t)
		svc.On("Login", mock.Anything, mock.Anything, auth.LoginRequest{Email: "eve.holt@reqres.in"}).
			Return(apperrors.NewValidationError("", "Please enter both email and password"))

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"eve.holt@reqres.in"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Please enter both email and password")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		r, svc, _ := setupAuthTest(t)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc, releaser := setupAuthTest(t)
		svc.On("Logout", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: "console_session", Value: "6f1c2a8e-7a55-4a8f-9a57-1f0f3c0b9d11"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?logged_out=1", w.Header().Get("Location"))
		assert.Equal(t, []string{"6f1c2a8e-7a55-4a8f-9a57-1f0f3c0b9d11"}, releaser.dropped)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		r, svc, releaser := setupAuthTest(t)
		svc.On("Logout", mock.Anything, mock.Anything).Return(errors.New("logout: connection refused"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, releaser.dropped)
	})
}
