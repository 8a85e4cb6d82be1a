package event

import "context"

// Repository provides persistence operations for report events.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *Event) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Event, error)
}
