package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/costwatch/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertError maps constraint failures of an insert to repository errors.
func insertError(what string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to create %s: %w", what, repository.ErrForeignKeyViolation)
	case isUniqueViolation(err):
		return fmt.Errorf("failed to create %s: %w", what, repository.ErrInvalidInput)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}
