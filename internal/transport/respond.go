package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/repository"
)

// ErrorBody is the JSON error envelope of every failed request.
type ErrorBody struct {
	Error Error `json:"error"`
}

// Error describes one failure.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteErrorMessage writes an error envelope.
func WriteErrorMessage(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Error: Error{Code: code, Message: message}})
}

// StatusFor maps a domain error to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, tenant.ErrMismatch):
		return http.StatusForbidden, "TENANT_MISMATCH"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.Is(err, contract.ErrContractNotFound):
		return http.StatusNotFound, "CONTRACT_NOT_FOUND"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, repository.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// WriteError maps err and writes it. Internal errors are logged and their
// message is not exposed.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		message = "internal error"
	}
	WriteErrorMessage(w, status, code, message)
}
