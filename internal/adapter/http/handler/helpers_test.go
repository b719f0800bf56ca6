package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"/audit-logs?limit=50", 50},
		{"/audit-logs?limit=invalid", 10},
		{"/audit-logs", 10},
		{"/audit-logs?limit=-3", -3},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.query, nil)
		assert.Equal(t, tt.want, parseIntQuery(req, "limit", 10), tt.query)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.KindInvalid))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.KindNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(domain.KindConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(domain.KindUnprocessable))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.KindInternal))
}

func TestRespondError(t *testing.T) {
	var logs bytes.Buffer
	serve := hlog.NewHandler(zerolog.New(&logs))

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		logged bool
	}{
		{"domain error", domain.ErrIncompatibleJournal, http.StatusUnprocessableEntity, "incompatible_journal", false},
		{"unknown error", errors.New("pool closed"), http.StatusInternalServerError, "internal", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			rec := httptest.NewRecorder()
			serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondError(w, r, tt.err)
			})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/s1/allocate", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, tt.err.Error(), resp.Message)
			assert.Equal(t, tt.logged, bytes.Contains(logs.Bytes(), []byte("request failed")))
		})
	}
}
