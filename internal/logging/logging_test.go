package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFields_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, false).WithFields(map[string]any{"email": "alice@example.com"})

	l.Info("user logged in")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "user logged in", line["msg"])
	assert.Equal(t, "alice@example.com", line["email"])
}

func TestGetLoggerFromContext(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)

	assert.Same(t, l, GetLoggerFromContext(ctx))
	assert.NotNil(t, GetLoggerFromContext(context.Background()))
}

func TestGetLoggerFromContext_Default(t *testing.T) {
	prev := GetLoggerFromContext(context.Background())
	t.Cleanup(func() { SetDefault(prev) })

	assert.Same(t, prev, GetLoggerFromContext(context.Background()), "fallback is shared, not rebuilt")

	l := Discard()
	SetDefault(l)
	assert.Same(t, l, GetLoggerFromContext(context.Background()))

	SetDefault(nil)
	assert.Same(t, l, GetLoggerFromContext(context.Background()))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, false)

	var inner *Logger
	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/Accounts/Login", nil))

	require.NotNil(t, inner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "/api/v1/Accounts/Login", line["path"])
	assert.EqualValues(t, 400, line["status"])
	assert.EqualValues(t, 4, line["bytes"])
}
