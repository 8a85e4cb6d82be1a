// Package tenant holds the isolation boundary check shared by all reports.
package tenant

import (
	"errors"
	"fmt"
)

// ErrMismatch indicates an entity referenced by a caller belongs to another tenant.
var ErrMismatch = errors.New("tenant mismatch")

// Check returns ErrMismatch when owner differs from the calling tenant.
func Check(callerTenantID, ownerTenantID, kind, id string) error {
	if callerTenantID == "" || callerTenantID != ownerTenantID {
		return fmt.Errorf("%w: %s %s", ErrMismatch, kind, id)
	}
	return nil
}
