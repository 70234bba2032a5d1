// Package testutil holds HTTP helpers shared by handler and server tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// CSRF cookie and header names used by the middleware package.
const (
	CSRFCookie = "csrf_token"
	CSRFHeader = "X-CSRF-Token"
)

// AssertStatusCode checks if the response has the expected status code.
func AssertStatusCode(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// AssertContains fails the test if s does not contain substr.
func AssertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: expected %q to contain %q", msg, s, substr)
	}
}

// NewJSONRequest builds a request whose body is data encoded as JSON.
// A nil data sends no body.
func NewJSONRequest(t *testing.T, method, path string, data interface{}) *http.Request {
	t.Helper()
	if data == nil {
		return httptest.NewRequest(method, path, nil)
	}
	body, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithCSRF attaches a matching double-submit cookie and header.
func WithCSRF(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: token})
	req.Header.Set(CSRFHeader, token)
	return req
}

// DecodeJSON parses a recorded response body into T.
func DecodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse JSON response %q: %v", rr.Body.String(), err)
	}
	return v
}
