package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/careconnect-health/careconnect-api/internal/usecase"
)

type response struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

type errorResponse struct {
	StatusCode int      `json:"status_code"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		StatusCode: status,
		Message:    message,
	})
}

func respondValidationErrors(w http.ResponseWriter, messages []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "validation failed",
		Errors:     messages,
	})
}

// respondUsecaseError maps workflow errors onto HTTP statuses. Lookup and
// credential failures are distinguishable by status only; infrastructure
// errors are logged and collapse into a generic 500.
func respondUsecaseError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		respondError(w, http.StatusConflict, "user with this email already exists")
	case errors.Is(err, usecase.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, usecase.ErrRoleMismatch):
		respondError(w, http.StatusForbidden, "account role does not match")
	case errors.Is(err, usecase.ErrCodeInvalidOrExpired):
		respondError(w, http.StatusBadRequest, "invalid or expired code")
	default:
		logger.Error().Err(err).Msg("unexpected workflow error")
		respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
