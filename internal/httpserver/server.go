package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/datastore"
	"github.com/fantravel1/realitytvtravel/internal/favorites"
	custommw "github.com/fantravel1/realitytvtravel/internal/httpserver/middleware"
	"github.com/fantravel1/realitytvtravel/internal/lazyload"
	"github.com/fantravel1/realitytvtravel/internal/observability"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

const (
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultHandlerTimeout = 20 * time.Second
)

// Config holds runtime options and collaborators for the site server.
type Config struct {
	Address string

	Store     *datastore.Store
	Renderer  *render.Renderer
	Favorites favorites.Provider
	LazyLoad  *lazyload.Controller
	Logger    *zap.Logger

	CSRFCookieName   string
	CSRFCookieSecure bool

	FavoritesRate  float64
	FavoritesBurst int
	CORSOrigins    []string

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	HandlerTimeout time.Duration
}

// New constructs the HTTP server with middleware stack and embedded assets.
// Store and Renderer are required; the remaining collaborators have defaults.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	favs := cfg.Favorites
	if favs == nil {
		favs = favorites.NewMemoryProvider(cfg.CSRFCookieSecure)
	}
	lazy := cfg.LazyLoad
	if lazy == nil {
		lazy = lazyload.NewController(false, "")
	}
	rate := cfg.FavoritesRate
	if rate <= 0 {
		rate = 5
	}

	h := &handlers{
		store:    cfg.Store,
		renderer: cfg.Renderer,
		favs:     favs,
		lazy:     lazy,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.TraceMiddleware())
	router.Use(observability.RequestLogger())
	router.Use(observability.Recovery(logger))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(durationOr(cfg.HandlerTimeout, defaultHandlerTimeout)))

	router.Handle("/assets/*", custommw.AssetsWithCache("/assets", lazyload.Assets()))
	router.Get("/healthz", h.Health)
	router.With(corsMiddleware(cfg.CORSOrigins)).Get("/api/favorites", h.FavoritesAPI)

	limiter := custommw.NewRateLimiter(rate, cfg.FavoritesBurst)
	router.Group(func(r chi.Router) {
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.HTMX())
		r.Use(custommw.CSRF(custommw.CSRFConfig{
			CookieName: cfg.CSRFCookieName,
			Secure:     cfg.CSRFCookieSecure,
		}))

		r.Get("/", h.Home)
		r.Get("/shows", h.ShowsPage)
		r.Get("/locations", h.LocationsPage)
		RegisterFragment(r, "/shows/grid", h.ShowsGrid)
		RegisterFragment(r, "/locations/grid", h.LocationsGrid)
		r.Get("/show", h.ShowPage)
		r.Get("/location", h.LocationPage)
		r.Post("/retry/{collection}", h.Retry)
		r.Get("/favorites", h.FavoritesPage)
		r.With(limiter.Limit).Post("/favorites/{id}", h.ToggleFavorite)
		r.NotFound(h.NotFoundPage)
	})

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadTimeout:       durationOr(cfg.ReadTimeout, defaultReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      durationOr(cfg.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:       durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Get(pattern, handler)
}

// corsMiddleware is a pass-through when no origins are configured.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
