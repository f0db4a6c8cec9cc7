package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondRejection(t *testing.T) {
	w := httptest.NewRecorder()

	RespondRejection(w, http.StatusBadRequest, "нет поля", "missing_field", "city")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"нет поля","reason":"missing_field","field":"city"}`, w.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Minutes int `json:"minutes"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"minutes": 15}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, 15, dst.Minutes)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrEmptyBody)
	assert.NoError(t, DecodeOptionalJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeOptionalJSON(r, &dst))
}
