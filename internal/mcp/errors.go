package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, tenant.ErrMismatch):
		return &APIError{Code: "TENANT_MISMATCH", Message: "resource belongs to another tenant", RecoveryHint: "Check the ID against your own tenant's data"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "List projects with project_portfolio"}
	case errors.Is(err, contract.ErrContractNotFound):
		return &APIError{Code: "CONTRACT_NOT_FOUND", Message: "contract not found", RecoveryHint: "Find contract IDs with cost_overrun_table"}
	case errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check argument names and types"}
	default:
		return nil
	}
}
