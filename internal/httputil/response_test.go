package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, map[string]bool{"success": true}, http.StatusOK)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestRespondJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondJSON(rec, map[string]any{"bad": make(chan int)}, http.StatusOK)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRespondErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondErrorWithCode(rec, "invalid token", CodeInvalidToken, http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid token","code":"INVALID_TOKEN"}`, rec.Body.String())
}
