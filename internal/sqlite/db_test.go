package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/costwatch/internal/domain/client"
	"github.com/rpggio/costwatch/internal/domain/contract"
	"github.com/rpggio/costwatch/internal/domain/project"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"clients",
		"projects",
		"contracts",
		"budget_lines",
		"expenses",
		"payments",
		"tasks",
		"project_health_snapshots",
		"report_events",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	require.NoError(t, db.RunMigrations(), "migrations must be re-runnable")
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "costwatch.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM contracts").Scan(&count))
	require.Zero(t, count)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestContractsTableConstraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO contracts (id, tenant_id, code, name, status, project_id) VALUES (?, ?, ?, ?, ?, ?)`,
		"c1", "tenant1", "C-1", "Contract", "active", "missing")
	require.Error(t, err, "should fail with invalid project_id")

	_, err = db.ExecContext(ctx,
		`INSERT INTO contracts (id, tenant_id, code, name, status) VALUES (?, ?, ?, ?, ?)`,
		"c2", "tenant1", "C-2", "Contract", "archived")
	require.Error(t, err, "should fail with invalid status")
}

func insertClient(t *testing.T, db *DB, id, tenantID string) {
	t.Helper()
	repo := NewClientRepository(db)
	require.NoError(t, repo.Create(context.Background(), tenantID, &client.Client{
		ID:   id,
		Code: "CL-" + id,
		Name: "Client " + id,
	}))
}

func insertProject(t *testing.T, db *DB, id, tenantID string, clientID *string) {
	t.Helper()
	repo := NewProjectRepository(db)
	require.NoError(t, repo.Create(context.Background(), tenantID, &project.Project{
		ID:       id,
		Code:     "P-" + id,
		Name:     "Project " + id,
		ClientID: clientID,
	}))
}

func insertContract(t *testing.T, db *DB, tenantID string, c contract.Contract) {
	t.Helper()
	if c.Status == "" {
		c.Status = contract.StatusActive
	}
	if c.Code == "" {
		c.Code = "C-" + c.ID
	}
	if c.Name == "" {
		c.Name = "Contract " + c.ID
	}
	repo := NewContractRepository(db)
	require.NoError(t, repo.CreateContract(context.Background(), tenantID, &c))
}

func value(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func strPtr(s string) *string { return &s }

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
