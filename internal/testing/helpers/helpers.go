// Package helpers provides common test utilities for HTTP and store tests.
//
// This package includes request builders, response validators, token
// helpers and record assertions shared across packages.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forgo/notes/api/internal/database"
	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/pkg/jwt"
)

// Secrets used by NewTestJWTService
const (
	TestAccessSecret  = "test-access-secret"
	TestRefreshSecret = "test-refresh-secret"
)

// ============================================================================
// JWT Helpers
// ============================================================================

// NewTestJWTService creates a JWT service with fixed test secrets
func NewTestJWTService(t *testing.T) *jwt.Service {
	t.Helper()

	svc, err := jwt.NewService(jwt.Config{
		AccessSecret:  TestAccessSecret,
		RefreshSecret: TestRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("helpers: failed to create JWT service: %v", err)
	}
	return svc
}

// AccessToken signs an access token for user
func AccessToken(t *testing.T, svc *jwt.Service, user *model.User) string {
	t.Helper()

	token, err := svc.GenerateAccessToken(user.Username, user.RoleStrings())
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

// ============================================================================
// Request Builder
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	headers map[string]string
	cookies []*http.Cookie
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithBearer sets the Authorization header
func (rb *RequestBuilder) WithBearer(token string) *RequestBuilder {
	return rb.WithHeader("Authorization", "Bearer "+token)
}

// WithCookie attaches a cookie
func (rb *RequestBuilder) WithCookie(name, value string) *RequestBuilder {
	rb.cookies = append(rb.cookies, &http.Cookie{Name: name, Value: value})
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	if rb.body != nil {
		bodyBytes, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)
	if rb.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	for _, c := range rb.cookies {
		req.AddCookie(c)
	}
	return req
}

// Do builds the request, serves it with h and returns the recorder
func (rb *RequestBuilder) Do(h http.Handler) *httptest.ResponseRecorder {
	rb.t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, rb.Build())
	return rr
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertProblemDetails validates an RFC 9457 Problem Details error response
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode model.ErrorCode) *model.ProblemDetails {
	t.Helper()

	var problem model.ProblemDetails
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v. Body: %s", err, resp.Body.String())
	}
	if problem.Status != expectedStatus {
		t.Errorf("expected problem status %d, got %d", expectedStatus, problem.Status)
	}
	if problem.Code != expectedCode {
		t.Errorf("expected problem code %d, got %d", expectedCode, problem.Code)
	}
	if problem.Type == "" || problem.Title == "" {
		t.Errorf("problem details missing type or title: %+v", problem)
	}
	return &problem
}

// AssertValidationError checks for a validation problem naming field
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	problem := AssertProblemDetails(t, resp, http.StatusBadRequest, model.ErrCodeValidation)
	for _, e := range problem.Errors {
		if e.Field == field {
			return
		}
	}
	t.Errorf("expected validation error for field %q, got %+v", field, problem.Errors)
}

// DecodeResponse decodes the JSON response body into v
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
}

// GetDataFromResponse extracts the data field from a {"data": [...]} response
func GetDataFromResponse(t *testing.T, resp *httptest.ResponseRecorder) []interface{} {
	t.Helper()

	var response struct {
		Data []interface{} `json:"data"`
	}
	DecodeResponse(t, resp, &response)
	return response.Data
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// AssertRecordExists checks that a record with the full id ("note:abc") exists
func AssertRecordExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	if !recordExists(t, db, id) {
		t.Errorf("expected record %s to exist, but it doesn't", id)
	}
}

// AssertRecordNotExists checks that a record does not exist
func AssertRecordNotExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	if recordExists(t, db, id) {
		t.Errorf("expected record %s to not exist, but it does", id)
	}
}

func recordExists(t *testing.T, db database.Database, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, err := db.Query(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{"id": id})
	if err != nil {
		t.Fatalf("failed to query for record: %v", err)
	}
	return hasResults(results)
}

// hasResults checks if SurrealDB query returned any results
func hasResults(results []interface{}) bool {
	if len(results) == 0 {
		return false
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return false
	}

	switch v := resp["result"].(type) {
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return true
	case nil:
		return false
	default:
		return true
	}
}
