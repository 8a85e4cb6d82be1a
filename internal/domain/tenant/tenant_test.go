package tenant_test

import (
	"testing"

	"github.com/rpggio/costwatch/internal/domain/tenant"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	require.NoError(t, tenant.Check("t1", "t1", "contract", "c1"))

	err := tenant.Check("t1", "t2", "contract", "c1")
	require.ErrorIs(t, err, tenant.ErrMismatch)
	require.Contains(t, err.Error(), "contract c1")

	require.ErrorIs(t, tenant.Check("", "", "project", "p1"), tenant.ErrMismatch)
}
