package httputil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockHTTPClient_ReplaysInOrder(t *testing.T) {
	t.Parallel()

	m := &MockHTTPClient{
		Responses: []*MockResponse{
			{StatusCode: 200, Body: []byte("first")},
			{StatusCode: 404, Body: []byte("second")},
		},
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.test/a", nil)
	require.NoError(t, err)

	resp, err := m.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "first", string(body))

	resp, err = m.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)

	// Third call has no canned response.
	_, err = m.Do(req)
	assert.Error(t, err)

	assert.Len(t, m.Requests, 3)
}

func TestMockHTTPClient_DefaultStatus(t *testing.T) {
	t.Parallel()

	m := &MockHTTPClient{Responses: []*MockResponse{{Body: []byte("ok")}}}
	req, err := http.NewRequest(http.MethodGet, "http://example.test", nil)
	require.NoError(t, err)

	resp, err := m.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewStandardClient_NilDefaults(t *testing.T) {
	t.Parallel()

	c := NewStandardClient(nil)
	assert.Same(t, http.DefaultClient, c.Client)
}
