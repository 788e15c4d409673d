// Package registry owns the in-memory registry document, its version token,
// and the retry/fallback policy around the remote document store. It is the
// single serialization point for every read-modify-write in the process.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/api/metrics"
	"github.com/atelier-studio/registry-api/internal/core/domain"
	"github.com/atelier-studio/registry-api/internal/core/ports"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Options tunes the repository. The zero value gives the production defaults
// (3 attempts, 1 s apart) with no mirror or audit trail.
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	// Mirror is consulted once, after all fetch retries are exhausted.
	Mirror ports.CacheMirror
	// MirrorQueue receives write-behind mirror refreshes.
	MirrorQueue ports.MirrorEnqueuer
	// Audit records successful commits, best-effort.
	Audit ports.AuditTrail
}

// Repository implements ports.Registry.
type Repository struct {
	remote     ports.RemoteStore
	mirror     ports.CacheMirror
	queue      ports.MirrorEnqueuer
	audit      ports.AuditTrail
	maxRetries int
	retryDelay time.Duration
	log        zerolog.Logger

	// writeMu serializes Initialize/Reload/Put end to end so that no two
	// read-modify-write cycles interleave. mu guards the fields below and is
	// never held across a remote call, keeping reads non-blocking.
	writeMu sync.Mutex
	mu      sync.Mutex
	state   ports.RegistryState
	doc     *domain.Document
	token   string
}

// New builds a Repository around the given remote store.
func New(remote ports.RemoteStore, log zerolog.Logger, opts Options) *Repository {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Repository{
		remote:     remote,
		mirror:     opts.Mirror,
		queue:      opts.MirrorQueue,
		audit:      opts.Audit,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		log:        log,
		state:      ports.StateUninitialized,
	}
}

// Initialize loads the document from the remote store. It is idempotent: a
// call while a load is already in flight, or after the repository reached
// Ready or Degraded, returns immediately without a second fetch sequence.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	if r.state != ports.StateUninitialized {
		r.mu.Unlock()
		return nil
	}
	r.state = ports.StateLoading
	r.mu.Unlock()

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.load(ctx)
}

// load runs the bounded retry loop and, on exhaustion, degrades onto mirror
// or fallback data. Retries are sequential; the delay yields to ctx.
func (r *Repository) load(ctx context.Context) error {
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		doc, token, err := r.remote.FetchDocument(ctx)
		if err == nil {
			metrics.SyncAttemptsTotal.WithLabelValues("success").Inc()
			r.install(doc, token, ports.StateReady)
			r.log.Info().
				Str("token", token).
				Int("users", len(doc.Users)).
				Int("products", len(doc.Products)).
				Int("orders", len(doc.Orders)).
				Int("quotes", len(doc.Quotes)).
				Msg("registry loaded")
			r.refreshMirror(doc)
			return nil
		}

		metrics.SyncAttemptsTotal.WithLabelValues("failure").Inc()
		r.log.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_retries", r.maxRetries).
			Msg("registry fetch failed")

		if attempt < r.maxRetries {
			select {
			case <-ctx.Done():
				r.setState(ports.StateUninitialized)
				return ctx.Err()
			case <-time.After(r.retryDelay):
			}
		}
	}

	r.degrade(ctx)
	return nil
}

// degrade installs the best data still available: the cache mirror if it has
// anything, otherwise the hard-coded fallback dataset.
func (r *Repository) degrade(ctx context.Context) {
	metrics.DegradedMode.Set(1)

	if r.mirror != nil {
		doc, err := r.mirror.ReadDocument(ctx)
		if err != nil {
			r.log.Warn().Err(err).Msg("cache mirror read failed")
		} else if doc != nil {
			doc.Metadata.Note = fallbackNote
			r.install(doc, "", ports.StateDegraded)
			r.log.Warn().Msg("registry degraded: serving mirrored data")
			return
		}
	}

	r.install(fallbackDocument(time.Now().UTC()), "", ports.StateDegraded)
	r.log.Warn().Msg("registry degraded: serving fallback dataset")
}

// Reload re-fetches the document and refreshes the version token in a single
// attempt. It is the recovery path after a version conflict; a success also
// lifts a degraded repository back to Ready, discarding non-durable edits.
func (r *Repository) Reload(ctx context.Context) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	if r.state == ports.StateLoading {
		r.mu.Unlock()
		return domain.ErrStillLoading
	}
	prev := r.state
	r.state = ports.StateLoading
	r.mu.Unlock()

	doc, token, err := r.remote.FetchDocument(ctx)
	if err != nil {
		metrics.SyncAttemptsTotal.WithLabelValues("failure").Inc()
		r.setState(prev)
		return err
	}

	metrics.SyncAttemptsTotal.WithLabelValues("success").Inc()
	metrics.DegradedMode.Set(0)
	r.install(doc, token, ports.StateReady)
	r.log.Info().Str("token", token).Msg("registry reloaded")
	r.refreshMirror(doc)
	return nil
}

// Put replaces a collection and commits the whole document to the remote
// store under the held version token.
//
// The in-memory mutation is applied first and is never rolled back: on
// ErrVersionConflict the caller must Reload and redo, on a persistence
// failure the caller may retry the same Put. While degraded the mutation is
// kept and ErrNotPersistent tells the caller durability is gone.
func (r *Repository) Put(ctx context.Context, key domain.CollectionKey, value any, commit domain.Commit) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	switch r.state {
	case ports.StateUninitialized, ports.StateLoading:
		r.mu.Unlock()
		return domain.ErrStillLoading
	}
	if err := r.doc.Set(key, value); err != nil {
		r.mu.Unlock()
		return err
	}
	r.doc.Metadata.LastUpdated = time.Now().UTC()
	if r.state == ports.StateDegraded {
		r.mu.Unlock()
		return domain.ErrNotPersistent
	}
	snapshot := r.doc.Clone()
	token := r.token
	r.mu.Unlock()

	message := commit.Message
	if message == "" {
		message = fmt.Sprintf("Update %s - %s", key, time.Now().UTC().Format(time.RFC3339))
	}

	start := time.Now()
	newToken, err := r.remote.WriteDocument(ctx, snapshot, token, message)
	metrics.CommitDuration.WithLabelValues(string(key)).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			metrics.VersionConflictsTotal.Inc()
			r.log.Warn().Str("collection", string(key)).Msg("registry write conflict")
			return err
		}
		return fmt.Errorf("persist %s: %w", key, err)
	}

	r.mu.Lock()
	r.token = newToken
	r.mu.Unlock()
	metrics.CommitsTotal.WithLabelValues(string(key)).Inc()
	r.log.Info().
		Str("collection", string(key)).
		Str("actor", commit.Actor).
		Str("token", newToken).
		Msg("registry committed")

	if r.audit != nil {
		rec := ports.CommitRecord{
			Token:      newToken,
			Message:    message,
			Actor:      commit.Actor,
			Collection: key,
			At:         time.Now().UTC(),
		}
		if err := r.audit.Record(ctx, rec); err != nil {
			r.log.Warn().Err(err).Msg("audit record failed")
		}
	}

	if r.queue != nil {
		if data, err := snapshot.CollectionJSON(key); err == nil {
			r.queue.Enqueue(ports.MirrorJob{Collection: key, Data: data})
		}
	}
	return nil
}

// GenerateID returns the next id for a collection: 1 when empty, otherwise
// max+1. Safe only because all read-modify-writes funnel through this
// repository.
func (r *Repository) GenerateID(key domain.CollectionKey) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return 1
	}
	return r.doc.NextID(key)
}

// State returns the current lifecycle state.
func (r *Repository) State() ports.RegistryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// VersionToken returns the held token, empty while degraded or unloaded.
func (r *Repository) VersionToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// Metadata returns the document metadata block.
func (r *Repository) Metadata() domain.Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return domain.Metadata{}
	}
	return r.doc.Metadata
}

// Users returns a snapshot of the users collection; empty before the first
// load completes. Never blocks and never triggers a load.
func (r *Repository) Users() []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil
	}
	return append([]domain.User(nil), r.doc.Users...)
}

func (r *Repository) Products() []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil
	}
	return append([]domain.Product(nil), r.doc.Products...)
}

func (r *Repository) Orders() []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil
	}
	return domain.CloneOrders(r.doc.Orders)
}

func (r *Repository) Customers() []domain.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil
	}
	return append([]domain.Customer(nil), r.doc.Customers...)
}

func (r *Repository) Quotes() []domain.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil
	}
	return append([]domain.Quote(nil), r.doc.Quotes...)
}

func (r *Repository) install(doc *domain.Document, token string, state ports.RegistryState) {
	r.mu.Lock()
	r.doc = doc
	r.token = token
	r.state = state
	r.mu.Unlock()
}

func (r *Repository) setState(s ports.RegistryState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// refreshMirror enqueues a write-behind refresh of every collection.
func (r *Repository) refreshMirror(doc *domain.Document) {
	if r.queue == nil {
		return
	}
	jobs := make([]ports.MirrorJob, 0, len(domain.CollectionKeys))
	for _, key := range domain.CollectionKeys {
		data, err := doc.CollectionJSON(key)
		if err != nil {
			continue
		}
		jobs = append(jobs, ports.MirrorJob{Collection: key, Data: data})
	}
	r.queue.EnqueueAll(jobs)
}
