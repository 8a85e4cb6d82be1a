package client

import "context"

// Repository provides persistence for clients.
type Repository interface {
	Get(ctx context.Context, tenantID, id string) (*Client, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Client, error)
}

// ListOptions provides filtering options for listing clients.
type ListOptions struct {
	ID string
	// Search matches code or name, case-insensitively.
	Search string
}
