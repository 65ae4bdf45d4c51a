package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/session"
	domain "user-console/internal/domain/user"
	"user-console/internal/usecase/userlist"
	apperrors "user-console/pkg/errors"
)

// MockAPI is a mock implementation of userlist.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListUsers(ctx context.Context, page, pageSize int) (*domain.PageResult, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PageResult), args.Error(1)
}

func (m *MockAPI) UpdateUser(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var firstPage = &domain.PageResult{
	TotalPages: 2,
	Items: []domain.User{
		{ID: 1, FirstName: "George", LastName: "Bluth", Email: "george.bluth@reqres.in", Avatar: "https://reqres.in/img/faces/1-image.jpg"},
		{ID: 2, FirstName: "Jane", LastName: "Weaver", Email: "janet.weaver@reqres.in", Avatar: "https://reqres.in/img/faces/2-image.jpg"},
		{ID: 3, FirstName: "Emma", LastName: "Wong", Email: "emma.wong@reqres.in", Avatar: "https://reqres.in/img/faces/3-image.jpg"},
	},
}

type userTest struct {
	r      *gin.Engine
	api    *MockAPI
	cookie *http.Cookie
}

func setupUserTest(t *testing.T) *userTest {
	gin.SetMode(gin.TestMode)
	api := new(MockAPI)
	h := NewUserHandler(userlist.NewRegistry(api, 9, zaptest.NewLogger(t)), zaptest.NewLogger(t))

	r := gin.New()
	users := r.Group("/users", middleware.Session(session.NewMemoryStore(), middleware.CookieConfig{Name: "console_session"}))
	users.GET("", h.ListUsers)
	users.POST("/next", h.NextPage)
	users.POST("/previous", h.PreviousPage)
	users.POST("/:id/edit", h.BeginEdit)
	users.DELETE("/:id", h.DeleteUser)
	users.PATCH("/draft", h.ChangeDraft)
	users.POST("/draft/cancel", h.CancelEdit)
	users.POST("/draft/save", h.SaveDraft)

	return &userTest{
		r:      r,
		api:    api,
		cookie: &http.Cookie{Name: "console_session", Value: uuid.New().String()},
	}
}

func (ut *userTest) do(t *testing.T, method, target, body string) (int, userlist.Snapshot) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(ut.cookie)
	w := httptest.NewRecorder()
	ut.r.ServeHTTP(w, req)

	var snap userlist.Snapshot
	if w.Code != http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	}
	return w.Code, snap
}

func (ut *userTest) loaded(t *testing.T) {
	ut.api.On("ListUsers", mock.Anything, 1, 9).Return(firstPage, nil).Once()
	code, _ := ut.do(t, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, code)
}

func TestListUsers(t *testing.T) {
	t.Run("Mount", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.api.On("ListUsers", mock.Anything, 1, 9).Return(firstPage, nil).Once()

		code, snap := ut.do(t, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, userlist.StatusLoaded, snap.Status)
		assert.Len(t, snap.Items, 3)
		assert.True(t, snap.HasNext)
		assert.False(t, snap.HasPrevious)
	})

	t.Run("ExplicitPage", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.api.On("ListUsers", mock.Anything, 2, 9).Return(&domain.PageResult{TotalPages: 2, Items: []domain.User{{ID: 10}}}, nil).Once()

		code, snap := ut.do(t, http.MethodGet, "/users?page=2", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, 2, snap.CurrentPage)
	})

	t.Run("InvalidPage", func(t *testing.T) {
		ut := setupUserTest(t)

		code, _ := ut.do(t, http.MethodGet, "/users?page=two", "")

		assert.Equal(t, http.StatusBadRequest, code)
		ut.api.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("FetchError", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.api.On("ListUsers", mock.Anything, 1, 9).
			Return(nil, apperrors.NewOperationError(apperrors.ErrFetch, errors.New("unexpected status code: 500"))).Once()

		code, snap := ut.do(t, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, userlist.StatusLoadError, snap.Status)
		assert.Equal(t, "Error fetching users", snap.Message)
		assert.Empty(t, snap.Items)
	})
}

func TestNavigation(t *testing.T) {
	ut := setupUserTest(t)
	ut.loaded(t)
	ut.api.On("ListUsers", mock.Anything, 2, 9).Return(&domain.PageResult{TotalPages: 2, Items: []domain.User{{ID: 10}}}, nil).Once()

	code, snap := ut.do(t, http.MethodPost, "/users/next", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, snap.CurrentPage)
	assert.False(t, snap.HasNext)

	// no-op on the last page
	code, snap = ut.do(t, http.MethodPost, "/users/next", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, snap.CurrentPage)

	ut.api.On("ListUsers", mock.Anything, 1, 9).Return(firstPage, nil).Once()
	_, snap = ut.do(t, http.MethodPost, "/users/previous", "")
	assert.Equal(t, 1, snap.CurrentPage)
	ut.api.AssertExpectations(t)
}

func TestEditAndSave(t *testing.T) {
	ut := setupUserTest(t)
	ut.loaded(t)

	code, snap := ut.do(t, http.MethodPost, "/users/2/edit", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, snap.Editing(2))
	assert.Equal(t, "Jane", snap.Draft.FirstName)

	code, snap = ut.do(t, http.MethodPatch, "/users/draft", `{"first_name":"Janet"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Janet", snap.Draft.FirstName)
	assert.Equal(t, "Weaver", snap.Draft.LastName)

	patch := domain.Patch{FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"}
	ut.api.On("UpdateUser", mock.Anything, int64(2), patch).
		Return(&domain.User{ID: 2, FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"}, nil).Once()

	code, snap = ut.do(t, http.MethodPost, "/users/draft/save", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, snap.Draft)
	assert.Equal(t, "User updated successfully", snap.Message)
	assert.Equal(t, "Janet", snap.Items[1].FirstName)
	assert.Equal(t, "https://reqres.in/img/faces/2-image.jpg", snap.Items[1].Avatar)
}

func TestSave_EmptyField(t *testing.T) {
	ut := setupUserTest(t)
	ut.loaded(t)
	ut.do(t, http.MethodPost, "/users/2/edit", "")
	ut.do(t, http.MethodPatch, "/users/draft", `{"email":""}`)

	code, snap := ut.do(t, http.MethodPost, "/users/draft/save", "")

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "All fields are required", snap.Message)
	assert.True(t, snap.Editing(2))
	ut.api.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelEdit(t *testing.T) {
	ut := setupUserTest(t)
	ut.loaded(t)
	ut.do(t, http.MethodPost, "/users/2/edit", "")

	code, snap := ut.do(t, http.MethodPost, "/users/draft/cancel", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, snap.Draft)
	assert.Equal(t, "Jane", snap.Items[1].FirstName)
}

func TestInvalidStateActions(t *testing.T) {
	ut := setupUserTest(t)

	code, snap := ut.do(t, http.MethodPost, "/users/2/edit", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "invalid_state", snap.Error)

	code, _ = ut.do(t, http.MethodPatch, "/users/draft", `{"first_name":"x"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = ut.do(t, http.MethodPost, "/users/draft/save", "")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = ut.do(t, http.MethodPost, "/users/abc/edit", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteUser(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.loaded(t)
		ut.api.On("DeleteUser", mock.Anything, int64(3)).Return(nil).Once()

		code, snap := ut.do(t, http.MethodDelete, "/users/3?confirm=true", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, snap.Items, 2)
		assert.Equal(t, "User deleted successfully", snap.Message)
	})

	t.Run("NotConfirmed", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.loaded(t)

		code, snap := ut.do(t, http.MethodDelete, "/users/3", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, snap.Items, 3)
		ut.api.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})

	t.Run("RemoteFailure", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.loaded(t)
		ut.api.On("DeleteUser", mock.Anything, int64(3)).
			Return(apperrors.NewOperationError(apperrors.ErrDelete, errors.New("unexpected status code: 403"))).Once()

		code, snap := ut.do(t, http.MethodDelete, "/users/3?confirm=true", "")

		assert.Equal(t, http.StatusBadGateway, code)
		assert.Len(t, snap.Items, 3)
		assert.Equal(t, "Error deleting user", snap.Message)
	})

	t.Run("RowInEditMode", func(t *testing.T) {
		ut := setupUserTest(t)
		ut.loaded(t)
		ut.do(t, http.MethodPost, "/users/3/edit", "")

		code, _ := ut.do(t, http.MethodDelete, "/users/3?confirm=true", "")

		assert.Equal(t, http.StatusConflict, code)
		ut.api.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	ut := setupUserTest(t)
	ut.loaded(t)
	ut.do(t, http.MethodPost, "/users/2/edit", "")

	other := *ut
	other.cookie = &http.Cookie{Name: "console_session", Value: uuid.New().String()}
	code, snap := other.do(t, http.MethodPost, "/users/draft/cancel", "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, userlist.StatusIdle, snap.Status)

	_, snap = ut.do(t, http.MethodPost, "/users/draft/cancel", "")
	assert.Nil(t, snap.Draft)
}
