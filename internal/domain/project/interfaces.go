package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	// Lookup ignores tenant scope; it only backs mismatch detection.
	Lookup(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Project, error)
}
