// Package backend is the HTTP client for the booking backend. Everything
// data-bearing in the app goes through here; failures surface as a single
// displayable message and are never retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client issues authenticated JSON requests against the backend base URL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

// APIError is a non-2xx backend response reduced to something a page can
// show.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Get issues an authenticated GET and decodes the JSON response as T.
func Get[T any](ctx context.Context, c *Client, path string, token string) (T, error) {
	return do[T](ctx, c, http.MethodGet, path, nil, token)
}

// Post issues an authenticated POST with a JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body any, token string) (T, error) {
	return do[T](ctx, c, http.MethodPost, path, body, token)
}

// Put issues an authenticated PUT with a JSON body.
func Put[T any](ctx context.Context, c *Client, path string, body any, token string) (T, error) {
	return do[T](ctx, c, http.MethodPut, path, body, token)
}

// Delete issues an authenticated DELETE.
func Delete[T any](ctx context.Context, c *Client, path string, token string) (T, error) {
	return do[T](ctx, c, http.MethodDelete, path, nil, token)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, token string) (T, error) {
	var zero T

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("Backend request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return zero, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%s %s read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(method, path, resp.StatusCode, data),
		}
	}

	// Several write endpoints answer 2xx with no body at all.
	if len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}
	if err := json.Unmarshal(data, &zero); err != nil {
		var empty T
		return empty, fmt.Errorf("%s %s decode response: %w", method, path, err)
	}
	return zero, nil
}

// errorMessage pulls the backend's {"message": "..."} out of an error body
// when it is present and a string, otherwise falls back to a generic line
// carrying the status code.
func errorMessage(method, path string, status int, body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg, ok := parsed["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%s %s failed with status %d", method, path, status)
}
