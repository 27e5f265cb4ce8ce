// Package e2e drives a running lifeclock server with godog scenarios.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TestContext holds the HTTP state of one scenario.
type TestContext struct {
	BaseURL string
	client  *http.Client
	runID   string

	token      string
	lastStatus int
	lastBody   []byte
	statuses   []int
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		runID:   strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

// Reset clears per-scenario state. Emails stay unique across scenarios.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.statuses = nil
	tc.runID = strconv.FormatInt(time.Now().UnixNano(), 36)
}

// Email returns a per-scenario address for local, so reruns never collide.
func (tc *TestContext) Email(local string) string {
	return fmt.Sprintf("%s-%s@e2e.lifeclock.test", local, tc.runID)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil)
}

func (tc *TestContext) do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.statuses = append(tc.statuses, resp.StatusCode)
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetStatuses returns every status seen in the scenario, oldest first.
func (tc *TestContext) GetStatuses() []int { return tc.statuses }

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.lastBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", tc.lastBody)
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q missing from %s", field, tc.lastBody)
	}
	return v, nil
}

func (tc *TestContext) GetAccessToken() string { return tc.token }

func (tc *TestContext) SetAccessToken(token string) { tc.token = token }
