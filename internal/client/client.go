// Package client implements the HTTP client for the remote notes service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 15 * time.Second

// Client talks to a notes service over a configured base endpoint.
// It performs no retries; retry policy belongs to the caller.
type Client struct {
	base string
	hc   *http.Client
}

// New creates a Client for the given base endpoint (no trailing slash).
func New(endpoint string) *Client {
	return &Client{
		base: endpoint,
		hc:   &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// Endpoint returns the configured base endpoint.
func (c *Client) Endpoint() string { return c.base }

// Health checks GET /health. Any transport failure or non-2xx response is
// reported as an UnreachableError.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &apperr.UnreachableError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperr.UnreachableError{}
	}
	var h models.Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, &apperr.UnreachableError{Err: err}
	}
	return &h, nil
}

// List fetches all notes in server order. Context cancellation surfaces as
// context.Canceled so callers can discard the call silently.
func (c *Client) List(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Get fetches a single note by id.
func (c *Client) Get(ctx context.Context, id int64) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/notes/%d", id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create posts a new note and returns it with its server-assigned id.
func (c *Client) Create(ctx context.Context, title, content string) (*models.Note, error) {
	body := map[string]string{"title": title, "content": content}
	var n models.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Update puts a partial patch and returns the authoritative note.
func (c *Client) Update(ctx context.Context, id int64, patch models.NotePatch) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/notes/%d", id), patch, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes a note. A 204 No Content response is success.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notes/%d", id), nil, nil)
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses become RequestError; transport failures become
// UnreachableError, except context cancellation which passes through.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &apperr.UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return requestError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// requestError builds a RequestError from a non-2xx response, pulling the
// message out of a structured error body when one is present.
func requestError(resp *http.Response) error {
	msg := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(data) > 0 {
		var body struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			switch {
			case body.Detail != "":
				msg = body.Detail
			case body.Message != "":
				msg = body.Message
			case body.Error != "":
				msg = body.Error
			}
		}
	}
	return &apperr.RequestError{Status: resp.StatusCode, Message: msg}
}
