package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/notebook-api/internal/auth"
	"github.com/redmonkez12/notebook-api/internal/config"
	"github.com/redmonkez12/notebook-api/internal/data/datatest"
	"github.com/redmonkez12/notebook-api/internal/logging"
)

const testSecret = "router-test-secret-0123456789abcdef"

func newTestRouter(t *testing.T, env string) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Env: env, TrustedOrigins: []string{"http://localhost:3000"}},
		Jwt:    config.JWTConfig{Secret: testSecret},
	}

	jwtService, err := auth.NewJWTService(cfg.Jwt)
	require.NoError(t, err)

	logger := logging.Discard()
	svc := auth.NewService(datatest.NewStore(), jwtService, logger)

	return NewRouter(cfg, auth.NewHandler(svc, nil), auth.NewMiddleware(jwtService), logger)
}

func send(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, "prod")

	rec := send(r, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
}

func TestRouter_SwaggerOnlyInDevelopment(t *testing.T) {
	r := newTestRouter(t, "prod")

	rec := send(r, http.MethodGet, "/swagger/index.html", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, "prod")

	rec := send(r, http.MethodGet, "/api/v1/Accounts/Login", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_RegisterLoginProfile(t *testing.T) {
	r := newTestRouter(t, "prod")

	reg := send(r, http.MethodPost, "/api/v1/Accounts/Register",
		`{"email":"carol@example.com","password":"N0tebook!","firstName":"Carol","lastName":"King"}`, "")
	require.Equal(t, http.StatusOK, reg.Code, reg.Body.String())

	login := send(r, http.MethodPost, "/api/v1/Accounts/Login",
		`{"email":"carol@example.com","password":"N0tebook!"}`, "")
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	var res auth.AuthResult
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.NotEmpty(t, res.Token)

	profile := send(r, http.MethodGet, "/api/v1/Users/Profile", "", res.Token)
	require.Equal(t, http.StatusOK, profile.Code, profile.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(profile.Body.Bytes(), &body))
	assert.Equal(t, "Carol", body["firstName"])
	assert.Equal(t, "King", body["lastName"])
	assert.Equal(t, "", body["phone"])
}

func TestRouter_ProfileRequiresToken(t *testing.T) {
	r := newTestRouter(t, "prod")

	rec := send(r, http.MethodGet, "/api/v1/Users/Profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = send(r, http.MethodGet, "/api/v1/Users/Profile", "", "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t, "prod")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/Accounts/Login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
