package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
)

// ResultEnvelope is the {success, message} result shape the web UI consumes.
// VerificationCode is populated only outside production, for test/dev
// convenience.
type ResultEnvelope struct {
	Success              bool   `json:"success"`
	Message              string `json:"message,omitempty"`
	UID                  string `json:"uid,omitempty"`
	Email                string `json:"email,omitempty"`
	RequiresVerification bool   `json:"requiresVerification,omitempty"`
	VerificationCode     string `json:"verificationCode,omitempty"`
}

// UserEnvelope wraps current-user responses.
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ResultEnvelope{Success: false, Message: msg})
}

// httpError maps domain sentinel errors to HTTP status codes. Unexpected
// errors are logged and reported generically so collaborator failures never
// leak to the caller.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrAlreadyPending),
		errors.Is(err, domain.ErrAccountInconsistent):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoSuchAccount):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrResendCooldown):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrEmailDelivery):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected error", "err", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
