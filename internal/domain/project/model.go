package project

import "time"

// Project groups contracts for one client engagement.
type Project struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"-"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	ClientID   *string    `json:"client_id,omitempty"`
	ClientName string     `json:"client_name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"-"`
}
