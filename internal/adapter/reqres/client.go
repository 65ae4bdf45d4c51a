package reqres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "user-console/internal/domain/user"
	apperrors "user-console/pkg/errors"
	"user-console/pkg/logger"
)

// Doer abstracts http.Client so tests can substitute their own transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the remote API settings.
type Config struct {
	BaseURL string        // e.g. https://reqres.in/api
	APIKey  string        // sent as x-api-key when set
	Timeout time.Duration // per request; zero means no timeout
}

// Client wraps the remote user-management API. Every call is a single
// request/response cycle with no retry.
type Client struct {
	doer    Doer
	baseURL string
	apiKey  string
	timeout time.Duration
	log     *zap.Logger
}

// New creates a new API client. A nil doer falls back to http.DefaultClient.
func New(doer Doer, cfg Config, log *zap.Logger) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		doer:    doer,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type listResponse struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Data       []domain.User `json:"data"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/login", nil, loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", apperrors.NewOperationError(apperrors.ErrAuth, err)
	}
	if out.Token == "" {
		return "", apperrors.NewOperationError(apperrors.ErrAuth, fmt.Errorf("empty token in response"))
	}
	return out.Token, nil
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, page, pageSize int) (*domain.PageResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(pageSize))

	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, apperrors.NewOperationError(apperrors.ErrFetch, err)
	}

	totalPages := out.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	items := out.Data
	if items == nil {
		items = []domain.User{}
	}
	return &domain.PageResult{Items: items, TotalPages: totalPages}, nil
}

// UpdateUser replaces the editable fields of user id and returns the user as
// echoed by the remote API. The remote API does not echo the id, so it is
// filled in from the request.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, userPath(id), nil, patch, &out); err != nil {
		return nil, apperrors.NewOperationError(apperrors.ErrUpdate, err)
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}

// DeleteUser removes user id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil); err != nil {
		return apperrors.NewOperationError(apperrors.ErrDelete, err)
	}
	return nil
}

func userPath(id int64) string {
	return "/users/" + strconv.FormatInt(id, 10)
}

// do performs one request. A non-2xx status, a transport failure or an
// undecodable body all produce an error; callers wrap it in their kind.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	urlStr := c.baseURL + path
	if len(query) > 0 {
		urlStr += "?" + query.Encode()
	}
	log := logger.WithContext(ctx, c.log).With(zap.String("method", method), zap.String("url", urlStr))

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("unable to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		log.Error("unable to create request", zap.Error(err))
		return fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return fmt.Errorf("unable to do request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("remote api responded", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode/100 != 2 {
		log.Warn("unexpected status code", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("unable to decode response", zap.Error(err))
		return fmt.Errorf("unable to decode response: %w", err)
	}
	return nil
}
