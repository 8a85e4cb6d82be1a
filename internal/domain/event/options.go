package event

// ListOptions provides filtering options for listing events.
type ListOptions struct {
	Type   *Type
	Limit  int
	Offset int
}
