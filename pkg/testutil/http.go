// Package testutil provides helpers shared by handler and integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewJSONRequest creates a request whose body is body marshaled as JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequestWithBody creates a request with a raw body and content type.
func NewRequestWithBody(t *testing.T, method, path, contentType, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", contentType)
	return req
}

// DoRequest executes req against handler and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the response body into T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "failed to unmarshal response: %s", rr.Body.String())
	return &result
}

// AssertStatusAndError asserts the status and the "error" code of the envelope.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code, "unexpected status code: %s", rr.Body.String())
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "failed to unmarshal error response")
	assert.Equal(t, expectedCode, body["error"], "unexpected error code")
}

// AssertJSONContains asserts the top-level key of the JSON body equals expected.
// Numbers decode as float64.
func AssertJSONContains(t *testing.T, rr *httptest.ResponseRecorder, key string, expected any) {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "failed to unmarshal response")
	assert.Equal(t, expected, result[key], "unexpected value for key %q", key)
}

// Get issues a GET for path against handler.
func Get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return DoRequest(handler, httptest.NewRequest(http.MethodGet, path, nil))
}
