//nolint:unused
package httpserver_test

import (
	"movieapi/pkg/config"
	"movieapi/pkg/jwt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test-jwt-secret"
	testUserID    = "user-1"
)

type apiResponse struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testJWTSecret
	return cfg
}

func signTestToken() (string, error) {
	return signTestTokenFor(testUserID)
}

func signTestTokenFor(userID string) (string, error) {
	return jwt.NewProvider(testJWTSecret, "", time.Hour).Sign(userID)
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "Failed to decode response")
	return resp
}

func decodeAPIResult(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), "Failed to decode result")
}

func newAuthRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	token, err := signTestToken()
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(t *testing.T, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
