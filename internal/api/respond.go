package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gibbs-bakehouse/stampcard/internal/engine"
	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one rejected request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// statusFor maps a ledger error code to an HTTP status.
func statusFor(code loyalty.ErrorCode) int {
	switch code {
	case loyalty.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case loyalty.ErrCodeInsufficientStamps:
		return http.StatusConflict
	case loyalty.ErrCodeNotFound:
		return http.StatusNotFound
	case loyalty.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// result writes v with status, or the error engine returned next to it.
// A save failure still returns v, flagged with WarningHeader.
func (h *Handler) result(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err == nil {
		JSON(w, status, v)
		return
	}

	if engine.IsSaveError(err) {
		w.Header().Set(WarningHeader, err.Error())
		JSON(w, status, v)
		return
	}

	var le *loyalty.Error
	if errors.As(err, &le) {
		JSON(w, statusFor(le.Code), ErrorBody{Error: ErrorDetail{
			Code:    string(le.Code),
			Message: le.Message,
			Field:   le.Field,
		}})
		return
	}

	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	Error(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
