package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
)

// Error codes for failures that do not come from the domain.
const (
	codeInvalidBody        = "invalid_request_body"
	codeValidation         = "validation_failed"
	codeInvalidQuery       = "invalid_query"
	codeInconsistentLedger = "inconsistent_ledger"
	codeUnavailable        = "unavailable"
)

// maxRequestBody bounds every JSON request body.
const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes {"error": code, "message": message}.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: code, Message: message})
}

// respondError answers with the status and code of a domain error.
// Server-side failures are logged on the request logger.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code, kind := domain.Classify(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("code", code).Msg("request failed")
	}
	writeError(w, status, code, err.Error())
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type validatable interface {
	Validate() error
}

// decodeRequest decodes the JSON body into req and validates it.
// On failure it writes a 400 response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidBody, err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

// parseIntQuery returns the integer query value for key, or def when it is
// missing or malformed.
func parseIntQuery(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}
