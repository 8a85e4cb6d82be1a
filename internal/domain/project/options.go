package project

// ListOptions provides filtering options for listing projects.
// Soft-deleted projects are never listed.
type ListOptions struct {
	ID       string
	ClientID string
	Status   string
	// Search matches code or name, case-insensitively.
	Search string
}
