package client

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
)

const requestTimeout = 10 * time.Second

// APIError is a non-2xx response carrying the server-provided message
// where one was available.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Client is a thin wrapper over the todo REST API. All calls share a
// fixed request timeout.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client for the API at base (e.g. "http://localhost:8080/api").
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: requestTimeout},
	}
}

// Params is the raw query for a listing fetch.
type Params struct {
	Search string
	Status string
	SortBy string
	Page   int
	Limit  int
}

func (p Params) values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(p.Search); s != "" {
		v.Set("search", s)
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// ListTodos fetches one page of todos with filtering and sorting applied.
func (c *Client) ListTodos(ctx context.Context, p Params) (ListResult, error) {
	var res ListResult
	path := "/todos"
	if q := p.values().Encode(); q != "" {
		path += "?" + q
	}
	err := c.do(ctx, http.MethodGet, path, nil, &res)
	return res, err
}

// CreateTodo creates a new item and returns it as stored.
func (c *Client) CreateTodo(ctx context.Context, f Form) (Todo, error) {
	var t Todo
	err := c.do(ctx, http.MethodPost, "/todos", f, &t)
	return t, err
}

// UpdateTodo applies a partial update.
func (c *Client) UpdateTodo(ctx context.Context, id string, u Updates) (Todo, error) {
	var t Todo
	err := c.do(ctx, http.MethodPut, "/todos/"+id, u, &t)
	return t, err
}

// DeleteTodo removes an item and returns the record as it was before
// deletion.
func (c *Client) DeleteTodo(ctx context.Context, id string) (Todo, error) {
	var res struct {
		Message string `json:"message"`
		Todo    Todo   `json:"todo"`
	}
	err := c.do(ctx, http.MethodDelete, "/todos/"+id, nil, &res)
	return res.Todo, err
}

// CheckHealth queries the health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &h)
	return h, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
