package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// stubRemote scripts FetchDocument/WriteDocument behaviour and counts calls.
type stubRemote struct {
	mu          sync.Mutex
	fetchCalls  int
	writeCalls  int
	fetchFn     func(call int) (*domain.Document, string, error)
	writeFn     func(doc *domain.Document, token, message string) (string, error)
	lastToken   string
	lastMessage string
}

func (s *stubRemote) FetchDocument(ctx context.Context) (*domain.Document, string, error) {
	s.mu.Lock()
	s.fetchCalls++
	call := s.fetchCalls
	s.mu.Unlock()
	return s.fetchFn(call)
}

func (s *stubRemote) WriteDocument(ctx context.Context, doc *domain.Document, token, message string) (string, error) {
	s.mu.Lock()
	s.writeCalls++
	s.lastToken = token
	s.lastMessage = message
	s.mu.Unlock()
	if s.writeFn == nil {
		return "", errors.New("unexpected write")
	}
	return s.writeFn(doc, token, message)
}

func (s *stubRemote) fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

func testDocument() *domain.Document {
	return &domain.Document{
		Users: []domain.User{{ID: 1, Username: "admin", Role: domain.RoleAdmin}},
		Products: []domain.Product{
			{ID: 1, Name: "Oak board", Stock: 10, MinStock: 2},
			{ID: 3, Name: "Walnut slab", Stock: 4, MinStock: 1},
		},
		Orders:    []domain.Order{},
		Customers: []domain.Customer{},
		Quotes:    []domain.Quote{{ID: 1, Text: "q", Author: "a", Active: true}},
		Metadata:  domain.Metadata{Version: "1.0"},
	}
}

func newTestRepository(remote ports.RemoteStore, opts Options) *Repository {
	if opts.RetryDelay == 0 {
		opts.RetryDelay = time.Millisecond
	}
	return New(remote, zerolog.Nop(), opts)
}

func TestInitialize_Success(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return testDocument(), "sha-1", nil
		},
	}
	repo := newTestRepository(remote, Options{})

	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := repo.State(); got != ports.StateReady {
		t.Fatalf("expected ready, got %s", got)
	}
	if got := repo.VersionToken(); got != "sha-1" {
		t.Fatalf("expected token sha-1, got %q", got)
	}
	if got := len(repo.Products()); got != 2 {
		t.Fatalf("expected 2 products, got %d", got)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return testDocument(), "sha-1", nil
		},
	}
	repo := newTestRepository(remote, Options{})

	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if got := remote.fetches(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestInitialize_RetriesThenDegrades(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return nil, "", domain.ErrRemoteUnavailable
		},
	}
	repo := newTestRepository(remote, Options{MaxRetries: 3})

	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := remote.fetches(); got != 3 {
		t.Fatalf("expected exactly 3 fetch attempts, got %d", got)
	}
	if got := repo.State(); got != ports.StateDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}
	if got := repo.VersionToken(); got != "" {
		t.Fatalf("expected empty token while degraded, got %q", got)
	}

	// Fallback dataset: one admin account, one seed quote.
	users := repo.Users()
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("unexpected fallback users: %+v", users)
	}
	quotes := repo.Quotes()
	if len(quotes) != 1 || quotes[0].Author != "Le Corbusier" {
		t.Fatalf("unexpected fallback quotes: %+v", quotes)
	}
	if note := repo.Metadata().Note; note != fallbackNote {
		t.Fatalf("expected fallback note, got %q", note)
	}
}

type stubMirror struct {
	mu     sync.Mutex
	stored map[domain.CollectionKey][]byte
	doc    *domain.Document
}

func (m *stubMirror) WriteCollection(ctx context.Context, key domain.CollectionKey, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = make(map[domain.CollectionKey][]byte)
	}
	m.stored[key] = append([]byte(nil), data...)
	return nil
}

func (m *stubMirror) ReadDocument(ctx context.Context) (*domain.Document, error) {
	return m.doc, nil
}

func TestInitialize_DegradesOntoMirror(t *testing.T) {
	mirrored := testDocument()
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return nil, "", domain.ErrRemoteUnavailable
		},
	}
	repo := newTestRepository(remote, Options{Mirror: &stubMirror{doc: mirrored}})

	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := repo.State(); got != ports.StateDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}
	if got := len(repo.Products()); got != 2 {
		t.Fatalf("expected mirrored products, got %d", got)
	}
	if note := repo.Metadata().Note; note != fallbackNote {
		t.Fatalf("mirrored data must carry the fallback note, got %q", note)
	}
}

func TestPut_CommitsAndAdvancesToken(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return testDocument(), "sha-1", nil
		},
		writeFn: func(doc *domain.Document, token, message string) (string, error) {
			return "sha-2", nil
		},
	}
	repo := newTestRepository(remote, Options{})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	quotes := repo.Quotes()
	quotes = append(quotes, domain.Quote{ID: 2, Text: "new", Author: "b"})
	err := repo.Put(context.Background(), domain.CollectionQuotes, quotes, domain.Commit{Message: "Add quote", Actor: "admin"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if got := repo.VersionToken(); got != "sha-2" {
		t.Fatalf("expected token sha-2 after commit, got %q", got)
	}
	if remote.lastToken != "sha-1" {
		t.Fatalf("expected write under token sha-1, got %q", remote.lastToken)
	}
	if remote.lastMessage != "Add quote" {
		t.Fatalf("unexpected commit message %q", remote.lastMessage)
	}
	if got := len(repo.Quotes()); got != 2 {
		t.Fatalf("expected 2 quotes after put, got %d", got)
	}
}

func TestPut_VersionConflict(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return testDocument(), "sha-1", nil
		},
		writeFn: func(doc *domain.Document, token, message string) (string, error) {
			return "", domain.ErrVersionConflict
		},
	}
	repo := newTestRepository(remote, Options{})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	err := repo.Put(context.Background(), domain.CollectionQuotes, []domain.Quote{}, domain.Commit{})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	// The token must not advance on conflict.
	if got := repo.VersionToken(); got != "sha-1" {
		t.Fatalf("token advanced on conflict: %q", got)
	}
}

func TestPut_WhileDegraded(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return nil, "", domain.ErrRemoteUnavailable
		},
	}
	repo := newTestRepository(remote, Options{})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	err := repo.Put(context.Background(), domain.CollectionQuotes,
		[]domain.Quote{{ID: 9, Text: "kept in memory"}}, domain.Commit{Actor: "admin"})
	if !errors.Is(err, domain.ErrNotPersistent) {
		t.Fatalf("expected ErrNotPersistent, got %v", err)
	}

	// The mutation is applied in memory even though it is not durable.
	quotes := repo.Quotes()
	if len(quotes) != 1 || quotes[0].ID != 9 {
		t.Fatalf("expected in-memory mutation to be visible, got %+v", quotes)
	}
	if remote.writeCalls != 0 {
		t.Fatalf("no remote write expected while degraded, got %d", remote.writeCalls)
	}
}

func TestPut_BeforeInitialize(t *testing.T) {
	repo := newTestRepository(&stubRemote{}, Options{})
	err := repo.Put(context.Background(), domain.CollectionQuotes, []domain.Quote{}, domain.Commit{})
	if !errors.Is(err, domain.ErrStillLoading) {
		t.Fatalf("expected ErrStillLoading, got %v", err)
	}
}

func TestReload_RecoversFromDegraded(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(call int) (*domain.Document, string, error) {
			if call <= 3 {
				return nil, "", domain.ErrRemoteUnavailable
			}
			return testDocument(), "sha-9", nil
		},
	}
	repo := newTestRepository(remote, Options{})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := repo.State(); got != ports.StateDegraded {
		t.Fatalf("expected degraded before reload, got %s", got)
	}

	// Edits made while degraded are discarded by a successful reload.
	_ = repo.Put(context.Background(), domain.CollectionQuotes,
		[]domain.Quote{{ID: 9, Text: "ephemeral"}}, domain.Commit{})

	if err := repo.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := repo.State(); got != ports.StateReady {
		t.Fatalf("expected ready after reload, got %s", got)
	}
	if got := repo.VersionToken(); got != "sha-9" {
		t.Fatalf("expected token sha-9, got %q", got)
	}
	quotes := repo.Quotes()
	if len(quotes) != 1 || quotes[0].ID != 1 {
		t.Fatalf("degraded edits must be discarded on reload, got %+v", quotes)
	}
}

func TestReload_FailureRestoresState(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(call int) (*domain.Document, string, error) {
			if call == 1 {
				return testDocument(), "sha-1", nil
			}
			return nil, "", domain.ErrRemoteUnavailable
		},
	}
	repo := newTestRepository(remote, Options{})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if err := repo.Reload(context.Background()); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable, got %v", err)
	}
	if got := repo.State(); got != ports.StateReady {
		t.Fatalf("expected state restored to ready, got %s", got)
	}
	if got := repo.VersionToken(); got != "sha-1" {
		t.Fatalf("expected token kept, got %q", got)
	}
}

func TestGenerateID(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return testDocument(), "sha-1", nil
		},
	}
	repo := newTestRepository(remote, Options{})

	if got := repo.GenerateID(domain.CollectionProducts); got != 1 {
		t.Fatalf("expected 1 before load, got %d", got)
	}

	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	// Ids 1 and 3 exist; the next id is max+1, not len+1.
	if got := repo.GenerateID(domain.CollectionProducts); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := repo.GenerateID(domain.CollectionOrders); got != 1 {
		t.Fatalf("expected 1 for empty collection, got %d", got)
	}
}

func TestSnapshots_DoNotAliasLiveDocument(t *testing.T) {
	remote := &stubRemote{
		fetchFn: func(int) (*domain.Document, string, error) {
			return testDocument(), "sha-1", nil
		},
	}
	repo := newTestRepository(remote, Options{})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	products := repo.Products()
	products[0].Stock = 999

	if got := repo.Products()[0].Stock; got != 10 {
		t.Fatalf("snapshot mutation leaked into repository: stock=%d", got)
	}
}
