package domain

import "time"

// Customer is a stored customer record. The customer table shown in the
// console is derived from orders; this collection exists for records entered
// directly.
type Customer struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
