package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/carrylink/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMapping ties a domain sentinel to its HTTP status and code.
type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrParse, http.StatusUnprocessableEntity, "invalid_date"},
	{domain.ErrUnauthorized, http.StatusForbidden, "forbidden"},
	{domain.ErrDuplicateMatch, http.StatusConflict, "duplicate_match"},
	{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{domain.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
}

// writeError maps err onto a status and body. Unknown errors are logged and
// answered with a generic 500 so internals never leak to clients.
// notFound names the resource for 404 messages, e.g. "trip not found".
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := unwrapMessage(err, m.target)
		if m.target == domain.ErrNotFound && notFound != "" {
			msg = notFound
		}
		writeJSON(w, m.status, errorBody(m.code, msg))
		return
	}

	slog.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// requestBody answers a request rejected before reaching the service layer
// (malformed body, bad path or query parameter).
func requestBody(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody("bad_request", message))
}

// unwrapMessage extracts the human-readable part following the sentinel.
// e.g. "service.TripService.Update: validation error: trip is closed" → "trip is closed"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst. It answers the request itself and
// returns false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("body_too_large", "request body too large"))
			return false
		}
		requestBody(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}
