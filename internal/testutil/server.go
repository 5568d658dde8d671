package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/datastore"
	"github.com/fantravel1/realitytvtravel/internal/favorites"
	"github.com/fantravel1/realitytvtravel/internal/httpserver"
	"github.com/fantravel1/realitytvtravel/internal/lazyload"
	"github.com/fantravel1/realitytvtravel/internal/presentation"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

type serverSettings struct {
	source datastore.Source
	cfg    httpserver.Config
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverSettings)

// WithSource replaces the fixture directory with src.
func WithSource(src datastore.Source) ServerOption {
	return func(s *serverSettings) {
		s.source = src
	}
}

// WithoutCollection serves the fixtures minus the named documents, so loading them fails.
func WithoutCollection(t testing.TB, names ...string) ServerOption {
	return func(s *serverSettings) {
		s.source = datastore.DirSource{Dir: DataDir(t, names...)}
	}
}

// WithFavorites wires a custom favorites provider.
func WithFavorites(p favorites.Provider) ServerOption {
	return func(s *serverSettings) {
		s.cfg.Favorites = p
	}
}

// WithEagerImages forces eager lazy-load mode.
func WithEagerImages() ServerOption {
	return func(s *serverSettings) {
		s.cfg.LazyLoad = lazyload.NewController(true, "")
	}
}

// WithLogger routes server logs to logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *serverSettings) {
		s.cfg.Logger = logger
	}
}

// WithCORSOrigins allows the given origins on the favorites API.
func WithCORSOrigins(origins ...string) ServerOption {
	return func(s *serverSettings) {
		s.cfg.CORSOrigins = origins
	}
}

// WithFavoritesRate overrides the toggle rate limit.
func WithFavoritesRate(perSecond float64, burst int) ServerOption {
	return func(s *serverSettings) {
		s.cfg.FavoritesRate = perSecond
		s.cfg.FavoritesBurst = burst
	}
}

// NewServer constructs an httptest server running the site over the fixture data.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	settings := serverSettings{
		cfg: httpserver.Config{
			FavoritesRate:  1000,
			FavoritesBurst: 1000,
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.source == nil {
		settings.source = datastore.DirSource{Dir: DataDir(t)}
	}

	renderer, err := render.New(presentation.Default(), render.DefaultOptions())
	if err != nil {
		t.Fatalf("build renderer: %v", err)
	}
	cfg := settings.cfg
	cfg.Store = datastore.New(settings.source, datastore.Options{Attempts: 3, BackoffUnit: time.Millisecond})
	cfg.Renderer = renderer

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
