// Package client is a Go client for the Krushak API. It carries the auth
// cookies and transparently refreshes an expired access token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Envelope is the standard response wrapper of the API.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Krushak API. Tokens live in httpOnly cookies held by
// the jar, so the caller never touches them.
type Client struct {
	baseURL string
	http    *http.Client

	// OnBusy, when set, is called with true while a request (including any
	// transparent refresh) is in flight and false when it settles. UIs use
	// it to drive a loading indicator.
	OnBusy func(busy bool)
}

// New creates a client for the given API base URL, e.g. "http://localhost:8080".
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Get performs a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request with an optional JSON body.
func (c *Client) Delete(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, body, out)
}

// Do performs one API call. On a 401 caused by an expired or rejected access
// token it refreshes the session and retries the request exactly once; a
// second 401 is returned to the caller.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.OnBusy != nil {
		c.OnBusy(true)
		defer c.OnBusy(false)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	return c.doOnce(ctx, method, path, payload, out, false)
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out interface{}, retried bool) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("unexpected response (status %d)", resp.StatusCode)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !retried && tokenRejected(env.Message) {
		if err := c.refresh(ctx); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Errors: env.Errors}
		}
		return c.doOnce(ctx, method, path, payload, out, true)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// tokenRejected reports whether a 401 message indicates a stale access token
// worth refreshing, as opposed to bad credentials.
func tokenRejected(message string) bool {
	return message == "jwt expired" || message == "Unauthorized user request"
}

// refresh rotates the session via the refresh-token endpoint. New cookies
// land in the jar as a side effect.
func (c *Client) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/users/refresh-token", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh failed with status %d", resp.StatusCode)
	}
	return nil
}
