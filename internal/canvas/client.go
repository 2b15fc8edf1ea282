package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"canvas-course-tools/internal/httpx"
)

// Client issues single requests against one Canvas server. All I/O is
// synchronous and blocking; no request is ever retried — server errors are
// surfaced to the caller as-is.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 2 * time.Minute,
			// Redirects are handled explicitly: the file upload protocol
			// requires re-attaching the authorization header on the
			// confirmation redirect, which Go strips for cross-host targets.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

// do issues one request with the authorization header attached and returns
// the response and its fully-read body.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, []byte, error) {
	req, err := c.newRequest(ctx, method, rawURL, body)
	if err != nil {
		return nil, nil, err
	}
	return httpx.Do(c.http, req)
}

// getJSON fetches a single resource and decodes it through the schema layer.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values, decode func(json.RawMessage) (T, error)) (T, error) {
	var zero T
	_, body, err := c.do(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return zero, err
	}
	return decode(body)
}

// postJSON sends a JSON payload and decodes the validated response.
func postJSON[T any](ctx context.Context, c *Client, path string, payload any, decode func(json.RawMessage) (T, error)) (T, error) {
	var zero T
	body, err := c.send(ctx, http.MethodPost, path, payload)
	if err != nil {
		return zero, err
	}
	return decode(body)
}

// putJSON sends a JSON payload with PUT and decodes the validated response.
func putJSON[T any](ctx context.Context, c *Client, path string, payload any, decode func(json.RawMessage) (T, error)) (T, error) {
	var zero T
	body, err := c.send(ctx, http.MethodPut, path, payload)
	if err != nil {
		return zero, err
	}
	return decode(body)
}

// postStatus sends a JSON payload and validates only the response status.
func (c *Client) postStatus(ctx context.Context, path string, payload any) error {
	_, err := c.send(ctx, http.MethodPost, path, payload)
	return err
}

// delete removes a resource, validating only the response status.
func (c *Client) delete(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.url(path, nil), nil)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, c.url(path, nil), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	_, respBody, err := httpx.Do(c.http, req)
	return respBody, err
}
