package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithCode(rec, http.StatusTooManyRequests, "demasiadas solicitudes", "RATE_LIMIT_EXCEEDED")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Code)
}

func TestRespondError_OmitsEmptyCode(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNotFound(rec, "turno no encontrado")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"turno no encontrado"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Token string `json:"token"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"abc","extra":1}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "abc", v.Token)

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":`))
	assert.Error(t, DecodeJSON(bad, &v))
}
