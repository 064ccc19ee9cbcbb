// Package api is the HTTP client for the remote users collection.
//
// The collection follows json-server conventions:
//
//	GET    /users?_page=N&_per_page=M   -> {"data": [...], "items": total}
//	POST   /users                       -> created user
//	PUT    /users/{id}                  -> updated user
//	DELETE /users/{id}                  -> empty body, status signals success
//
// The client is stateless: no caching and no retries. A failed attempt is
// returned to the caller as a *NetworkError or *ParseError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/marcus/userdash/internal/models"
)

const maxBodyBytes = 10 << 20

// Client talks to one users collection URL
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the collection at baseURL (e.g. https://host/users)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		userAgent: "userdash",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the collection URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// listResponse is the paginated envelope returned by json-server v1
type listResponse struct {
	Data  []models.User `json:"data"`
	Items int           `json:"items"`
}

// ListPage fetches one page of users. page and pageSize must be >= 1.
func (c *Client) ListPage(ctx context.Context, page, pageSize int) (models.Page, error) {
	const op = "list users"
	if page < 1 {
		return models.Page{}, fmt.Errorf("%s: page must be >= 1, got %d", op, page)
	}
	if pageSize < 1 {
		return models.Page{}, fmt.Errorf("%s: page size must be >= 1, got %d", op, pageSize)
	}

	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_per_page", strconv.Itoa(pageSize))

	body, err := c.do(ctx, op, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.Page{}, err
	}

	trimmed := bytes.TrimSpace(body)
	// Older json-server versions ignore _per_page and return a bare array
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.User
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return models.Page{}, &ParseError{Op: op, Err: err}
		}
		return models.Page{Items: items, TotalCount: len(items)}, nil
	}

	var resp listResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return models.Page{}, &ParseError{Op: op, Err: err}
	}
	if resp.Data == nil {
		resp.Data = []models.User{}
	}
	return models.Page{Items: resp.Data, TotalCount: resp.Items}, nil
}

// Get fetches a single user
func (c *Client) Get(ctx context.Context, id models.ID) (models.User, error) {
	const op = "get user"
	if id == "" {
		return models.User{}, fmt.Errorf("%s: empty id", op)
	}
	body, err := c.do(ctx, op, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser(op, body)
}

// Create posts a draft and returns the server-assigned record
func (c *Client) Create(ctx context.Context, draft models.Draft) (models.User, error) {
	const op = "create user"
	body, err := c.do(ctx, op, http.MethodPost, c.baseURL, draft)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser(op, body)
}

// Update replaces every field of the user with the given id.
// Existence is not checked beforehand; a 404 surfaces as a NetworkError.
func (c *Client) Update(ctx context.Context, id models.ID, draft models.Draft) (models.User, error) {
	const op = "update user"
	if id == "" {
		return models.User{}, fmt.Errorf("%s: empty id", op)
	}
	body, err := c.do(ctx, op, http.MethodPut, c.itemURL(id), draft)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser(op, body)
}

// Remove deletes the user with the given id. It returns true when the
// server answered with a success status.
func (c *Client) Remove(ctx context.Context, id models.ID) (bool, error) {
	const op = "delete user"
	if id == "" {
		return false, fmt.Errorf("%s: empty id", op)
	}
	if _, err := c.do(ctx, op, http.MethodDelete, c.itemURL(id), nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) itemURL(id models.ID) string {
	return c.baseURL + "/" + url.PathEscape(id.String())
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, op, method, target string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}

	slog.Debug("api request", "op", op, "method", method, "url", target,
		"status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: serverMessage(body),
		}
	}
	return body, nil
}

func decodeUser(op string, body []byte) (models.User, error) {
	var u models.User
	if err := json.Unmarshal(body, &u); err != nil {
		return models.User{}, &ParseError{Op: op, Err: err}
	}
	return u, nil
}

// IsTransient reports whether err is a transport failure or 5xx, i.e. the
// request might succeed if the user tries again.
func IsTransient(err error) bool {
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		return false
	}
	return netErr.Status == 0 || netErr.Status >= 500
}
