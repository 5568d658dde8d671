package datastore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/observability"
)

const (
	// ShowsFile is the document holding the show collection.
	ShowsFile = "shows.json"
	// LocationsFile is the document holding the location collection.
	LocationsFile = "locations.json"

	defaultAttempts = 3
	defaultUnit     = 500 * time.Millisecond
)

// State tracks the lifecycle of one collection.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Options tune the retry policy. Zero values fall back to 3 attempts and a 500ms unit.
type Options struct {
	Attempts    int
	BackoffUnit time.Duration
	Logger      *zap.Logger
}

// Store loads collection documents once per process and caches successes.
// Failures are kept only as state so a later call can try again.
type Store struct {
	src    Source
	opts   Options
	tracer trace.Tracer

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	load  sync.Mutex
	state State
	value any
	err   error
}

// New constructs a Store over src.
func New(src Source, opts Options) *Store {
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = defaultUnit
	}
	return &Store{
		src:     src,
		opts:    opts,
		tracer:  observability.Tracer("datastore"),
		entries: make(map[string]*entry),
	}
}

func (s *Store) entry(name string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		e = &entry{}
		s.entries[name] = e
	}
	return e
}

// State reports the lifecycle state of a collection document.
func (s *Store) State(name string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[name]; ok {
		return e.state
	}
	return StateEmpty
}

// Reset forgets a failed collection so its state returns to empty.
// Loaded snapshots are kept.
func (s *Store) Reset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[name]; ok && e.state == StateFailed {
		delete(s.entries, name)
	}
}

// Load returns the cached value for name or fetches and decodes it with the
// retry policy. Concurrent callers for the same name share one load.
func (s *Store) Load(ctx context.Context, name string, decode func([]byte) (any, error)) (any, error) {
	if s == nil || s.src == nil {
		return nil, &LoadError{Name: name, Kind: ErrTransport, Err: ErrNotConfigured}
	}
	e := s.entry(name)
	e.load.Lock()
	defer e.load.Unlock()

	s.mu.Lock()
	if e.state == StateLoaded {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	e.state = StateLoading
	s.mu.Unlock()

	v, err := s.fetch(ctx, name, decode)

	s.mu.Lock()
	if err != nil {
		e.state, e.err = StateFailed, err
	} else {
		e.state, e.value, e.err = StateLoaded, v, nil
	}
	s.mu.Unlock()
	return v, err
}

func (s *Store) fetch(ctx context.Context, name string, decode func([]byte) (any, error)) (any, error) {
	ctx, span := s.tracer.Start(ctx, "datastore.load", trace.WithAttributes(attribute.String("datastore.name", name)))
	defer span.End()

	logger := s.opts.Logger
	if logger == nil {
		logger = observability.FromContext(ctx)
	}
	logger = logger.With(zap.String("collection", name))

	var (
		attempts int
		kind     error
		lastErr  error
		value    any
	)
	op := func() error {
		attempts++
		data, err := s.src.Fetch(ctx, name)
		if err != nil {
			kind, lastErr = ErrTransport, err
			return err
		}
		v, err := decode(data)
		if err != nil {
			kind, lastErr = ErrDecode, err
			return err
		}
		value = v
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("collection load attempt failed",
			zap.Int("attempt", attempts),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(newRetryPolicy(s.opts.Attempts, s.opts.BackoffUnit), ctx)
	err := backoff.RetryNotify(op, policy, notify)
	span.SetAttributes(attribute.Int("datastore.attempts", attempts))
	if err == nil {
		logger.Debug("collection loaded", zap.Int("attempts", attempts))
		span.SetStatus(codes.Ok, "")
		return value, nil
	}

	if lastErr == nil {
		kind, lastErr = ErrTransport, err
	} else if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(lastErr, ctxErr) {
		lastErr = errors.Join(lastErr, ctxErr)
	}
	loadErr := &LoadError{Name: name, Attempts: attempts, Kind: kind, Err: lastErr}
	logger.Error("collection load failed", zap.Int("attempts", attempts), zap.Error(loadErr))
	span.RecordError(loadErr)
	span.SetStatus(codes.Error, loadErr.Error())
	return nil, loadErr
}

// Shows loads the show collection.
func (s *Store) Shows(ctx context.Context) ([]catalog.Show, error) {
	v, err := s.Load(ctx, ShowsFile, func(b []byte) (any, error) { return catalog.DecodeShows(b) })
	if err != nil {
		return nil, err
	}
	return v.([]catalog.Show), nil
}

// Locations loads the location collection.
func (s *Store) Locations(ctx context.Context) ([]catalog.Location, error) {
	v, err := s.Load(ctx, LocationsFile, func(b []byte) (any, error) { return catalog.DecodeLocations(b) })
	if err != nil {
		return nil, err
	}
	return v.([]catalog.Location), nil
}

// Snapshot is the pair of collections for one request. A failed collection is
// empty in Catalog and its error is kept alongside.
type Snapshot struct {
	Catalog      *catalog.Catalog
	ShowsErr     error
	LocationsErr error
}

// Snapshot loads both collections independently.
func (s *Store) Snapshot(ctx context.Context) Snapshot {
	shows, showsErr := s.Shows(ctx)
	locations, locationsErr := s.Locations(ctx)
	return Snapshot{
		Catalog:      catalog.New(shows, locations),
		ShowsErr:     showsErr,
		LocationsErr: locationsErr,
	}
}

// Catalog is Snapshot for callers that need both collections. The error joins
// whichever loads failed; the catalog is still usable with the survivors.
func (s *Store) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	snap := s.Snapshot(ctx)
	return snap.Catalog, errors.Join(snap.ShowsErr, snap.LocationsErr)
}
