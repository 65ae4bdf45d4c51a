package reqres

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-console/internal/domain/user"
	apperrors "user-console/pkg/errors"
)

func setupClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.Client(), Config{BaseURL: srv.URL + "/api/", APIKey: "reqres-free-v1"}, zaptest.NewLogger(t))
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestLogin_Success(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "reqres-free-v1", r.Header.Get("x-api-key"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "eve.holt@reqres.in", body.Email)
		assert.Equal(t, "cityslicka", body.Password)

		_, _ = w.Write([]byte(`{"token":"QpwL5tke4Pnpja7X4"}`))
	})

	token, err := client.Login(context.Background(), "eve.holt@reqres.in", "cityslicka")

	require.NoError(t, err)
	assert.Equal(t, "QpwL5tke4Pnpja7X4", token)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad credentials", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"user not found"}`))
		}},
		{"empty token", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupClient(t, tt.handler)

			token, err := client.Login(context.Background(), "peter@klaven", "wrong")

			assert.Empty(t, token)
			assert.ErrorIs(t, err, apperrors.ErrAuth)
		})
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	client := New(failingDoer{}, Config{BaseURL: "http://reqres.invalid/api"}, zaptest.NewLogger(t))

	_, err := client.Login(context.Background(), "eve.holt@reqres.in", "cityslicka")

	assert.ErrorIs(t, err, apperrors.ErrAuth)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListUsers_Success(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "9", r.URL.Query().Get("per_page"))

		_, _ = w.Write([]byte(`{
			"page": 1, "per_page": 9, "total": 12, "total_pages": 2,
			"data": [
				{"id": 1, "email": "george.bluth@reqres.in", "first_name": "George", "last_name": "Bluth", "avatar": "https://reqres.in/img/faces/1-image.jpg"},
				{"id": 2, "email": "janet.weaver@reqres.in", "first_name": "Janet", "last_name": "Weaver", "avatar": "https://reqres.in/img/faces/2-image.jpg"}
			]
		}`))
	})

	res, err := client.ListUsers(context.Background(), 1, 9)

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Items, 2)
	assert.Equal(t, domain.User{
		ID:        2,
		FirstName: "Janet",
		LastName:  "Weaver",
		Email:     "janet.weaver@reqres.in",
		Avatar:    "https://reqres.in/img/faces/2-image.jpg",
	}, res.Items[1])
}

func TestListUsers_NormalisesEmptyResponse(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page": 7, "total_pages": 0}`))
	})

	res, err := client.ListUsers(context.Background(), 7, 9)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalPages)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestListUsers_ServerError(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	res, err := client.ListUsers(context.Background(), 1, 9)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrFetch)
}

func TestUpdateUser_Success(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/2", r.URL.Path)

		var body domain.Patch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.Patch{FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"}, body)

		_, _ = w.Write([]byte(`{"first_name":"Janet","last_name":"Weaver","email":"janet.weaver@reqres.in","updatedAt":"2026-10-16T10:00:00.000Z"}`))
	})

	u, err := client.UpdateUser(context.Background(), 2, domain.Patch{FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)
	assert.Equal(t, "Janet", u.FirstName)
}

func TestUpdateUser_Failure(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	u, err := client.UpdateUser(context.Background(), 99, domain.Patch{FirstName: "a", LastName: "b", Email: "c"})

	assert.Nil(t, u)
	assert.ErrorIs(t, err, apperrors.ErrUpdate)
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/users/3", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.DeleteUser(context.Background(), 3))
	})

	t.Run("Failure", func(t *testing.T) {
		client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		assert.ErrorIs(t, client.DeleteUser(context.Background(), 3), apperrors.ErrDelete)
	})
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	client := New(srv.Client(), Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, zaptest.NewLogger(t))

	_, err := client.ListUsers(context.Background(), 1, 9)

	assert.ErrorIs(t, err, apperrors.ErrFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
