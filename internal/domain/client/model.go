package client

import "time"

// Client owns contracts directly and projects transitively.
type Client struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"-"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}
