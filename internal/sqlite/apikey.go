package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rpggio/costwatch/internal/repository"
)

// APIKeyRepository stores hashed API keys and resolves them to tenants.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// HashToken returns the stored form of an API key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Add registers an API key for a tenant.
func (r *APIKeyRepository) Add(ctx context.Context, tenantID, token, description string) error {
	if tenantID == "" || token == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, description) VALUES (?, ?, ?)`,
		HashToken(token), tenantID, description)
	if err != nil {
		return insertError("api key", err)
	}
	return nil
}

// ResolveTenant returns the tenant owning token and records its use.
func (r *APIKeyRepository) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var tenantID string
	err := r.db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && tenantID == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return tenantID, nil
}
