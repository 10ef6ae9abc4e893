// Package httputil provides HTTP client abstractions for testability.
package httputil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// HTTPClient abstracts HTTP operations so callers can be tested without
// a network. Use a StandardClient in production; MockHTTPClient in tests.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// StandardClient wraps *http.Client to implement HTTPClient.
type StandardClient struct {
	*http.Client
}

// NewStandardClient wraps c, defaulting to http.DefaultClient when nil.
func NewStandardClient(c *http.Client) *StandardClient {
	if c == nil {
		c = http.DefaultClient
	}
	return &StandardClient{Client: c}
}

// Do sends an HTTP request.
func (c *StandardClient) Do(req *http.Request) (*http.Response, error) {
	return c.Client.Do(req)
}

// MockResponse is a canned response returned by MockHTTPClient.
type MockResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// MockHTTPClient replays canned responses in order and records the
// requests it saw.
type MockHTTPClient struct {
	mu        sync.Mutex
	Responses []*MockResponse
	Err       error

	Requests []*http.Request
	next     int
}

// Do records the request and returns the next canned response.
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.next >= len(m.Responses) {
		return nil, fmt.Errorf("mock http client: no response configured for request %d (%s)", m.next, req.URL)
	}
	r := m.Responses[m.next]
	m.next++

	header := r.Header
	if header == nil {
		header = make(http.Header)
	}
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		Header:        header,
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}, nil
}
