package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// QuoteService implements display-quote CRUD and the single-active-quote
// convention.
type QuoteService struct {
	registry ports.Registry
	log      zerolog.Logger
}

func NewQuoteService(registry ports.Registry, log zerolog.Logger) *QuoteService {
	return &QuoteService{registry: registry, log: log}
}

func (s *QuoteService) List(_ context.Context) ([]ports.QuoteView, error) {
	quotes := s.registry.Quotes()
	views := make([]ports.QuoteView, 0, len(quotes))
	for _, q := range quotes {
		views = append(views, quoteView(q))
	}
	return views, nil
}

func (s *QuoteService) Create(ctx context.Context, text, author, actor string) (*ports.QuoteView, error) {
	quote := domain.Quote{
		ID:        s.registry.GenerateID(domain.CollectionQuotes),
		Text:      text,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}

	quotes := append(s.registry.Quotes(), quote)
	commit := domain.Commit{
		Message: fmt.Sprintf("Add quote #%d by %s", quote.ID, author),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionQuotes, quotes, commit); err != nil {
		return nil, err
	}

	v := quoteView(quote)
	return &v, nil
}

func (s *QuoteService) Update(ctx context.Context, id int, in ports.QuoteUpdateInput, actor string) (*ports.QuoteView, error) {
	quotes := s.registry.Quotes()
	idx := -1
	for i, q := range quotes {
		if q.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrQuoteNotFound
	}

	if in.Text != nil {
		quotes[idx].Text = *in.Text
	}
	if in.Author != nil {
		quotes[idx].Author = *in.Author
	}
	now := time.Now().UTC()
	quotes[idx].UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Update quote #%d", id),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionQuotes, quotes, commit); err != nil {
		return nil, err
	}

	v := quoteView(quotes[idx])
	return &v, nil
}

// Activate marks one quote active and clears the flag on every other quote in
// the same write, keeping at most one quote active.
func (s *QuoteService) Activate(ctx context.Context, id int, actor string) (*ports.QuoteView, error) {
	quotes := s.registry.Quotes()
	idx := -1
	for i := range quotes {
		if quotes[i].ID == id {
			idx = i
		}
		quotes[i].Active = false
	}
	if idx < 0 {
		return nil, domain.ErrQuoteNotFound
	}

	now := time.Now().UTC()
	quotes[idx].Active = true
	quotes[idx].UpdatedAt = &now

	commit := domain.Commit{
		Message: fmt.Sprintf("Activate quote #%d", id),
		Actor:   actor,
	}
	if err := s.registry.Put(ctx, domain.CollectionQuotes, quotes, commit); err != nil {
		return nil, err
	}

	v := quoteView(quotes[idx])
	return &v, nil
}

func (s *QuoteService) Delete(ctx context.Context, id int, actor string) error {
	quotes := s.registry.Quotes()
	kept := quotes[:0]
	for _, q := range quotes {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(quotes) {
		return domain.ErrQuoteNotFound
	}

	commit := domain.Commit{
		Message: fmt.Sprintf("Delete quote #%d", id),
		Actor:   actor,
	}
	return s.registry.Put(ctx, domain.CollectionQuotes, kept, commit)
}

func quoteView(q domain.Quote) ports.QuoteView {
	return ports.QuoteView{
		ID:        q.ID,
		Text:      q.Text,
		Author:    q.Author,
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}
