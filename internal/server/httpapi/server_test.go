package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/dmitrijs2005/learnpoke/internal/cryptox"
	"github.com/dmitrijs2005/learnpoke/internal/logging"
	"github.com/dmitrijs2005/learnpoke/internal/server/auth"
	"github.com/dmitrijs2005/learnpoke/internal/server/repositories/users"
	"github.com/dmitrijs2005/learnpoke/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testEnv struct {
	handler http.Handler
	issuer  *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewTokenValidator([]byte(testSecret))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc := services.NewAuthService(users.NewInMemoryRepository(), cryptox.NewPBKDF2Hasher(nil, 0), issuer, nopLogger(), services.NewMetrics(reg))
	s := NewHTTPServer(":0", nopLogger(), svc, validator, reg)

	return &testEnv{handler: s.Routes(), issuer: issuer}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var msg string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg), rec.Body.String())
	return msg
}

func bearer(token string) http.Header {
	return http.Header{common.AuthorizationHeaderName: []string{common.BearerPrefix + token}}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgRunning, decodeMessage(t, rec))
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)
	body := registerRequest{Username: "ash", Password: "pikachu1", RecoveryAnswer: "Naruto"}

	rec := e.do(t, http.MethodPost, "/api/auth/register", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgRegistered, decodeMessage(t, rec))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	rec = e.do(t, http.MethodPost, "/api/auth/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgUsernameTaken, decodeMessage(t, rec))
}

func TestRegister_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"username":`},
		{"missing answer", registerRequest{Username: "ash", Password: "pw"}},
		{"blank answer", registerRequest{Username: "ash", Password: "pw", RecoveryAnswer: "   "}},
		{"missing username", registerRequest{Password: "pw", RecoveryAnswer: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			rec := e.do(t, http.MethodPost, "/api/auth/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeMessage(t, rec))
		})
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/auth/register", registerRequest{Username: "ash", Password: "pikachu1", RecoveryAnswer: "Naruto"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", loginRequest{Username: "ash", Password: "pikachu1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	for _, req := range []loginRequest{
		{Username: "ash", Password: "wrong"},
		{Username: "nobody", Password: "pikachu1"},
	} {
		rec = e.do(t, http.MethodPost, "/api/auth/login", req, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, msgInvalidCredentials, decodeMessage(t, rec))
	}
}

func TestResetPassword_Failures(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/auth/register", registerRequest{Username: "ash", Password: "pikachu1", RecoveryAnswer: "Naruto"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name string
		req  resetRequest
		want string
	}{
		{"unknown user", resetRequest{Username: "misty", RecoveryAnswer: "naruto", NewPassword: "x", ConfirmNewPassword: "x"}, msgUserNotFound},
		{"wrong answer", resetRequest{Username: "ash", RecoveryAnswer: "bleach", NewPassword: "x", ConfirmNewPassword: "x"}, msgWrongAnswer},
		{"confirmation differs", resetRequest{Username: "ash", RecoveryAnswer: "naruto", NewPassword: "x", ConfirmNewPassword: "y"}, msgPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/auth/reset", tt.req, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeMessage(t, rec))
		})
	}
}

func TestScenario_RegisterLoginResetOverHTTP(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/register", registerRequest{Username: "ash", Password: "pikachu1", RecoveryAnswer: "Naruto"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/reset", resetRequest{Username: "ash", RecoveryAnswer: "NARUTO", NewPassword: "raichu2", ConfirmNewPassword: "raichu2"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgPasswordReset, decodeMessage(t, rec))

	rec = e.do(t, http.MethodPost, "/api/auth/login", loginRequest{Username: "ash", Password: "pikachu1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", loginRequest{Username: "ash", Password: "raichu2"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var login loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = e.do(t, http.MethodGet, "/api/auth/session", nil, bearer(login.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	var session sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "ash", session.Username)
	assert.NotEmpty(t, session.TokenID)
	assert.Equal(t, int64(time.Hour/time.Second), session.ExpiresAt-session.IssuedAt)
}

type stubAuth struct {
	err error
}

func (s stubAuth) Register(context.Context, string, string, string) error { return s.err }
func (s stubAuth) Login(context.Context, string, string) (string, error)  { return "", s.err }
func (s stubAuth) ResetPassword(context.Context, string, string, string, string) error {
	return s.err
}

func TestHandlers_InternalErrorIs500(t *testing.T) {
	validator, err := auth.NewTokenValidator([]byte(testSecret))
	require.NoError(t, err)
	s := NewHTTPServer(":0", nopLogger(), stubAuth{err: common.ErrorInternal}, validator, nil)
	h := s.Routes()

	for _, path := range []string{"/api/auth/register", "/api/auth/login", "/api/auth/reset"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, msgInternal, decodeMessage(t, rec))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodPost, "/api/auth/login", loginRequest{Username: "x", Password: "y"}, nil)

	rec := e.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "learnpoke_auth_operations_total")
}

func TestMetricsEndpoint_DisabledWithoutGatherer(t *testing.T) {
	validator, err := auth.NewTokenValidator([]byte(testSecret))
	require.NoError(t, err)
	h := NewHTTPServer(":0", nopLogger(), stubAuth{}, validator, nil).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	validator, err := auth.NewTokenValidator([]byte(testSecret))
	require.NoError(t, err)
	s := NewHTTPServer("127.0.0.1:0", nopLogger(), stubAuth{}, validator, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
