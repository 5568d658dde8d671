package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultHTTPAddr        = ":8080"
	defaultEnvironment     = "local"
	defaultDataSource      = "./data"
	defaultDataAttempts    = 3
	defaultBackoffUnit     = 500 * time.Millisecond
	defaultDataHTTPTimeout = 5 * time.Second
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultHandlerTimeout  = 20 * time.Second
	defaultTruncateChars   = 150
	defaultSimilarCount    = 3
	defaultCardHighlights  = 2
	defaultCardShows       = 2
	defaultLazyMargin      = "200px"
	defaultFavoritesRate   = 5.0
	defaultFavoritesBurst  = 10
)

// Favorites backends.
const (
	BackendCookie = "cookie"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	Server      ServerConfig
	Data        DataConfig
	Render      RenderConfig
	Favorites   FavoritesConfig
	LazyLoad    LazyLoadConfig
	CORS        CORSConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	HandlerTimeout time.Duration
}

// DataConfig locates the catalog files and tunes the loader.
type DataConfig struct {
	Source      string
	Attempts    int
	BackoffUnit time.Duration
	HTTPTimeout time.Duration
	// PresentationFile overrides the embedded presentation tables when set.
	PresentationFile string
}

// RenderConfig holds card and detail limits.
type RenderConfig struct {
	TruncateChars  int
	SimilarCount   int
	CardHighlights int
	CardShows      int
}

// FavoritesConfig selects and configures favorites persistence.
type FavoritesConfig struct {
	Backend        string
	CookieHashKey  string
	CookieBlockKey string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RatePerSecond  float64
	RateBurst      int
}

// LazyLoadConfig controls deferred card images.
type LazyLoadConfig struct {
	Eager      bool
	RootMargin string
}

// CORSConfig lists origins allowed to read the favorites API.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c Config) SecureCookies() bool {
	return c.Environment != defaultEnvironment && c.Environment != "test"
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles configuration from defaults, the .env file, environment variables
// and the explicit map, in increasing order of precedence.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		Environment: strings.ToLower(stringWithDefault(lookup, "RTV_ENV", defaultEnvironment)),
		Server: ServerConfig{
			Addr:           stringWithDefault(lookup, "RTV_HTTP_ADDR", defaultHTTPAddr),
			ReadTimeout:    durationWithDefault(lookup, "RTV_HTTP_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   durationWithDefault(lookup, "RTV_HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    durationWithDefault(lookup, "RTV_HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
			HandlerTimeout: durationWithDefault(lookup, "RTV_HTTP_HANDLER_TIMEOUT", defaultHandlerTimeout),
		},
		Data: DataConfig{
			Source:           stringWithDefault(lookup, "RTV_DATA_SOURCE", defaultDataSource),
			Attempts:         intWithDefault(lookup, "RTV_DATA_ATTEMPTS", defaultDataAttempts),
			BackoffUnit:      durationWithDefault(lookup, "RTV_DATA_BACKOFF_UNIT", defaultBackoffUnit),
			HTTPTimeout:      durationWithDefault(lookup, "RTV_DATA_HTTP_TIMEOUT", defaultDataHTTPTimeout),
			PresentationFile: stringWithDefault(lookup, "RTV_PRESENTATION_FILE", ""),
		},
		Render: RenderConfig{
			TruncateChars:  intWithDefault(lookup, "RTV_TRUNCATE_CHARS", defaultTruncateChars),
			SimilarCount:   intWithDefault(lookup, "RTV_SIMILAR_COUNT", defaultSimilarCount),
			CardHighlights: intWithDefault(lookup, "RTV_CARD_HIGHLIGHTS", defaultCardHighlights),
			CardShows:      intWithDefault(lookup, "RTV_CARD_SHOWS", defaultCardShows),
		},
		Favorites: FavoritesConfig{
			Backend:        strings.ToLower(stringWithDefault(lookup, "RTV_FAVORITES_BACKEND", BackendCookie)),
			CookieHashKey:  stringWithDefault(lookup, "RTV_COOKIE_HASH_KEY", ""),
			CookieBlockKey: stringWithDefault(lookup, "RTV_COOKIE_BLOCK_KEY", ""),
			RedisAddr:      stringWithDefault(lookup, "RTV_REDIS_ADDR", ""),
			RedisPassword:  stringWithDefault(lookup, "RTV_REDIS_PASSWORD", ""),
			RedisDB:        intWithDefault(lookup, "RTV_REDIS_DB", 0),
			RatePerSecond:  floatWithDefault(lookup, "RTV_FAVORITES_RATE", defaultFavoritesRate),
			RateBurst:      intWithDefault(lookup, "RTV_FAVORITES_BURST", defaultFavoritesBurst),
		},
		LazyLoad: LazyLoadConfig{
			Eager:      boolWithDefault(lookup, "RTV_LAZYLOAD_EAGER", false),
			RootMargin: stringWithDefault(lookup, "RTV_LAZYLOAD_MARGIN", defaultLazyMargin),
		},
		CORS: CORSConfig{
			AllowedOrigins: csvWithDefault(lookup, "RTV_CORS_ORIGINS"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		missing = append(missing, "Server.Addr")
	}
	if strings.TrimSpace(cfg.Data.Source) == "" {
		missing = append(missing, "Data.Source")
	}
	if cfg.Data.Attempts <= 0 {
		missing = append(missing, "Data.Attempts")
	}
	if cfg.Data.BackoffUnit < 0 {
		missing = append(missing, "Data.BackoffUnit")
	}
	if cfg.Render.TruncateChars <= 0 {
		missing = append(missing, "Render.TruncateChars")
	}
	if cfg.Render.SimilarCount <= 0 {
		missing = append(missing, "Render.SimilarCount")
	}
	if cfg.Render.CardHighlights <= 0 {
		missing = append(missing, "Render.CardHighlights")
	}
	if cfg.Render.CardShows <= 0 {
		missing = append(missing, "Render.CardShows")
	}
	if cfg.Favorites.RatePerSecond <= 0 {
		missing = append(missing, "Favorites.RatePerSecond")
	}
	if cfg.Favorites.RateBurst <= 0 {
		missing = append(missing, "Favorites.RateBurst")
	}

	switch cfg.Favorites.Backend {
	case BackendCookie:
		if cfg.Favorites.CookieHashKey == "" && cfg.SecureCookies() {
			missing = append(missing, "Favorites.CookieHashKey")
		}
	case BackendRedis:
		if strings.TrimSpace(cfg.Favorites.RedisAddr) == "" {
			missing = append(missing, "Favorites.RedisAddr")
		}
	case BackendMemory:
	default:
		missing = append(missing, "Favorites.Backend")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatWithDefault(lookup func(string) (string, bool), key string, fallback float64) float64 {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
