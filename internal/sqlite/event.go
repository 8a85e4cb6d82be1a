package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/costwatch/internal/domain/event"
)

// EventRepository implements event.Repository for SQLite
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Log inserts a new event
func (r *EventRepository) Log(ctx context.Context, tenantID string, entry *event.Event) error {
	createdAt := timestamp(entry.CreatedAt)

	query := `
		INSERT INTO report_events (
			tenant_id, event_type, project_count, duration_ms, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var details any
	if entry.Details != "" {
		details = entry.Details
	}
	result, err := r.db.ExecContext(ctx, query,
		tenantID,
		string(entry.Type),
		entry.ProjectCount,
		entry.DurationMS,
		details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.TenantID = tenantID
	entry.CreatedAt = createdAt

	return nil
}

// List returns events matching the given filters, newest first
func (r *EventRepository) List(ctx context.Context, tenantID string, opts event.ListOptions) ([]event.Event, error) {
	query := `
		SELECT id, tenant_id, event_type, project_count, duration_ms, details, created_at
		FROM report_events
		WHERE tenant_id = ?
	`

	args := []any{tenantID}
	if opts.Type != nil {
		query += " AND event_type = ?"
		args = append(args, string(*opts.Type))
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var entries []event.Event
	for rows.Next() {
		var entry event.Event
		var details sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.Type,
			&entry.ProjectCount,
			&entry.DurationMS,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		entry.Details = details.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return entries, nil
}
