package contract

// Filter narrows a contract listing. Empty fields match everything.
type Filter struct {
	Status    Status
	ClientID  string
	ProjectID string
	// Search matches code, name or client name, case-insensitively.
	Search string
	// ValuedOnly drops contracts without a total value.
	ValuedOnly bool
}

// PaymentFilter narrows an overdue payment listing.
type PaymentFilter struct {
	ContractID string
	ProjectID  string
	ClientID   string
}
