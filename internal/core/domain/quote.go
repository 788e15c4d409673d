package domain

import "time"

// Quote is a display quote shown on the storefront. At most one quote is
// active at a time; the quote service enforces this on activation, the
// document format does not.
type Quote struct {
	ID        int        `json:"id"`
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	Active    bool       `json:"active,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
