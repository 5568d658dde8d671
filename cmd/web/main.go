package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/config"
	"github.com/fantravel1/realitytvtravel/internal/datastore"
	"github.com/fantravel1/realitytvtravel/internal/favorites"
	"github.com/fantravel1/realitytvtravel/internal/httpserver"
	"github.com/fantravel1/realitytvtravel/internal/lazyload"
	"github.com/fantravel1/realitytvtravel/internal/observability"
	"github.com/fantravel1/realitytvtravel/internal/presentation"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load(ctx)
	if err != nil {
		var vErr *config.ValidationError
		if errors.As(err, &vErr) {
			logger.Fatal("invalid configuration", zap.Strings("fields", vErr.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	src, closeSource, err := datastore.OpenSource(ctx, cfg.Data.Source, cfg.Data.HTTPTimeout)
	if err != nil {
		logger.Fatal("failed to open data source", zap.String("source", cfg.Data.Source), zap.Error(err))
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("data source close error", zap.Error(err))
		}
	}()
	store := datastore.New(src, datastore.Options{
		Attempts:    cfg.Data.Attempts,
		BackoffUnit: cfg.Data.BackoffUnit,
		Logger:      logger.Named("datastore"),
	})

	tables := presentation.Default()
	if cfg.Data.PresentationFile != "" {
		tables, err = presentation.Load(cfg.Data.PresentationFile)
		if err != nil {
			logger.Fatal("failed to load presentation tables", zap.String("path", cfg.Data.PresentationFile), zap.Error(err))
		}
	}
	renderer, err := render.New(tables, render.Options{
		TruncateChars: cfg.Render.TruncateChars,
		MaxHighlights: cfg.Render.CardHighlights,
		MaxCardShows:  cfg.Render.CardShows,
		SimilarCount:  cfg.Render.SimilarCount,
	})
	if err != nil {
		logger.Fatal("failed to build renderer", zap.Error(err))
	}

	favs, closeFavorites, err := buildFavorites(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise favorites backend", zap.String("backend", cfg.Favorites.Backend), zap.Error(err))
	}
	defer closeFavorites()

	srv := httpserver.New(httpserver.Config{
		Address:          cfg.Server.Addr,
		Store:            store,
		Renderer:         renderer,
		Favorites:        favs,
		LazyLoad:         lazyload.NewController(cfg.LazyLoad.Eager, cfg.LazyLoad.RootMargin),
		Logger:           logger,
		CSRFCookieSecure: cfg.SecureCookies(),
		FavoritesRate:    cfg.Favorites.RatePerSecond,
		FavoritesBurst:   cfg.Favorites.RateBurst,
		CORSOrigins:      cfg.CORS.AllowedOrigins,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
		HandlerTimeout:   cfg.Server.HandlerTimeout,
	})

	// Warm the cache so the first visitor does not pay for the load.
	go func() {
		snap := store.Snapshot(ctx)
		if snap.ShowsErr != nil || snap.LocationsErr != nil {
			logger.Warn("initial catalog load incomplete", zap.NamedError("shows", snap.ShowsErr), zap.NamedError("locations", snap.LocationsErr))
			return
		}
		if drift := tables.Validate(snap.Catalog); len(drift) > 0 {
			logger.Warn("presentation tables reference unknown records", zap.Strings("entries", drift))
		}
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("env", cfg.Environment),
		zap.String("data_source", cfg.Data.Source),
		zap.String("favorites_backend", cfg.Favorites.Backend),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildFavorites(ctx context.Context, cfg config.Config, logger *zap.Logger) (favorites.Provider, func(), error) {
	noop := func() {}
	secure := cfg.SecureCookies()

	switch cfg.Favorites.Backend {
	case config.BackendRedis:
		client, err := favorites.NewRedisClient(ctx, cfg.Favorites.RedisAddr, cfg.Favorites.RedisPassword, cfg.Favorites.RedisDB)
		if err != nil {
			return nil, noop, err
		}
		return favorites.NewRedisProvider(client, secure), func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close error", zap.Error(err))
			}
		}, nil
	case config.BackendMemory:
		return favorites.NewMemoryProvider(secure), noop, nil
	default:
		hashKey := []byte(cfg.Favorites.CookieHashKey)
		if len(hashKey) == 0 {
			// local only; config validation requires a key elsewhere
			hashKey = securecookie.GenerateRandomKey(32)
			logger.Warn("RTV_COOKIE_HASH_KEY not set; favorites cookies will not survive a restart")
		}
		provider, err := favorites.NewCookieProvider(favorites.CookieConfig{
			HashKey:  hashKey,
			BlockKey: []byte(cfg.Favorites.CookieBlockKey),
			Secure:   secure,
		})
		if err != nil {
			return nil, noop, err
		}
		return provider, noop, nil
	}
}
