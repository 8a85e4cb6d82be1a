package event

import "time"

// Type identifies a report event.
type Type string

const (
	TypePortfolioRebuilt Type = "health_portfolio_rebuilt"
	TypeSnapshotSweep    Type = "health_snapshot_sweep"
)

// Event is one entry of the report event log.
type Event struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Type         Type      `json:"type"`
	ProjectCount int       `json:"project_count"`
	DurationMS   int64     `json:"duration_ms"`
	Details      string    `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time `json:"created_at"`
}
