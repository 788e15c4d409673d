package ports

import (
	"context"
	"time"
)

// QuoteView is the read view of a display quote.
type QuoteView struct {
	ID        int
	Text      string
	Author    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// QuoteUpdateInput carries a partial quote update; nil fields are unchanged.
type QuoteUpdateInput struct {
	Text   *string
	Author *string
}

// QuoteService defines use-case operations for display quotes.
type QuoteService interface {
	List(ctx context.Context) ([]QuoteView, error)
	Create(ctx context.Context, text, author, actor string) (*QuoteView, error)
	Update(ctx context.Context, id int, in QuoteUpdateInput, actor string) (*QuoteView, error)
	// Activate marks one quote active and deactivates every other quote in
	// the same write.
	Activate(ctx context.Context, id int, actor string) (*QuoteView, error)
	Delete(ctx context.Context, id int, actor string) error
}
