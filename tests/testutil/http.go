package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope mirrors the JSON envelope of every API response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

// Response is a recorded response with its decoded envelope
type Response struct {
	*httptest.ResponseRecorder
	Envelope Envelope
}

// ErrorCode returns the error code of a failed response, or ""
func (r *Response) ErrorCode() string {
	if r.Envelope.Error == nil {
		return ""
	}
	return r.Envelope.Error.Code
}

// Decode unmarshals the data field into out
func (r *Response) Decode(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Envelope.Data, out), r.Body.String())
}

// Client sends JSON requests to a handler
type Client struct {
	Handler http.Handler
	Headers map[string]string
}

// NewClient creates a Client for h
func NewClient(h http.Handler) *Client {
	return &Client{Handler: h, Headers: map[string]string{}}
}

// WithHeader returns a copy of the client that also sends key: value
func (c *Client) WithHeader(key, value string) *Client {
	headers := make(map[string]string, len(c.Headers)+1)
	for k, v := range c.Headers {
		headers[k] = v
	}
	headers[key] = value
	return &Client{Handler: c.Handler, Headers: headers}
}

// WithBearer returns a copy of the client authenticated with token
func (c *Client) WithBearer(token string) *Client {
	return c.WithHeader("Authorization", "Bearer "+token)
}

// Do sends the request. JSON bodies are decoded into the envelope.
func (c *Client) Do(t *testing.T, method, path string, body any) *Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)

	resp := &Response{ResponseRecorder: w}
	if json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Envelope))
	}
	return resp
}

// Expect sends the request, requires status and decodes data into out when out is not nil
func (c *Client) Expect(t *testing.T, status int, method, path string, body, out any) *Response {
	t.Helper()
	resp := c.Do(t, method, path, body)
	require.Equal(t, status, resp.Code, resp.Body.String())
	if out != nil {
		resp.Decode(t, out)
	}
	return resp
}
