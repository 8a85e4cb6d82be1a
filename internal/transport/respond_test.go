package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/rpggio/costwatch/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{tenant.Check("a", "b", "project", "p1"), http.StatusForbidden, "TENANT_MISMATCH"},
		{fmt.Errorf("wrapped: %w", project.ErrProjectNotFound), http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{contract.ErrContractNotFound, http.StatusNotFound, "CONTRACT_NOT_FOUND"},
		{repository.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{repository.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := StatusFor(tc.err)
		require.Equal(t, tc.status, status, tc.err.Error())
		require.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestWriteError_HidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil, errors.New("sql: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INTERNAL", body.Error.Code)
	require.Equal(t, "internal error", body.Error.Message)
}
