package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Environment != "local" {
		t.Errorf("expected local environment, got %s", cfg.Environment)
	}
	if cfg.SecureCookies() {
		t.Errorf("expected insecure cookies for local environment")
	}
	if cfg.Data.Source != "./data" {
		t.Errorf("unexpected data source: %s", cfg.Data.Source)
	}
	if cfg.Data.Attempts != 3 || cfg.Data.BackoffUnit != 500*time.Millisecond {
		t.Errorf("unexpected retry policy: %d × %s", cfg.Data.Attempts, cfg.Data.BackoffUnit)
	}
	if cfg.Data.HTTPTimeout != 5*time.Second {
		t.Errorf("unexpected http timeout: %s", cfg.Data.HTTPTimeout)
	}
	if cfg.Render.TruncateChars != 150 || cfg.Render.SimilarCount != 3 || cfg.Render.CardHighlights != 2 {
		t.Errorf("unexpected render limits: %+v", cfg.Render)
	}
	if cfg.Favorites.Backend != BackendCookie {
		t.Errorf("expected cookie backend, got %s", cfg.Favorites.Backend)
	}
	if cfg.Favorites.RatePerSecond != 5 {
		t.Errorf("unexpected favorites rate: %v", cfg.Favorites.RatePerSecond)
	}
	if cfg.LazyLoad.Eager || cfg.LazyLoad.RootMargin != "200px" {
		t.Errorf("unexpected lazy-load config: %+v", cfg.LazyLoad)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Errorf("expected no cors origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"RTV_HTTP_ADDR":         "127.0.0.1:9090",
		"RTV_ENV":               "Production",
		"RTV_DATA_SOURCE":       "gs://rtv-data/catalog",
		"RTV_DATA_ATTEMPTS":     "5",
		"RTV_DATA_BACKOFF_UNIT": "250ms",
		"RTV_TRUNCATE_CHARS":    "90",
		"RTV_FAVORITES_BACKEND": "REDIS",
		"RTV_REDIS_ADDR":        "localhost:6379",
		"RTV_REDIS_DB":          "2",
		"RTV_LAZYLOAD_EAGER":    "yes",
		"RTV_CORS_ORIGINS":      "https://a.example.com, ,https://b.example.com",
		"RTV_HTTP_READ_TIMEOUT": "not-a-duration",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Environment != "production" || !cfg.SecureCookies() {
		t.Errorf("expected secure production config, got %s", cfg.Environment)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("invalid duration should fall back, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Data.Attempts != 5 || cfg.Data.BackoffUnit != 250*time.Millisecond {
		t.Errorf("unexpected retry policy: %d × %s", cfg.Data.Attempts, cfg.Data.BackoffUnit)
	}
	if cfg.Render.TruncateChars != 90 {
		t.Errorf("unexpected truncate chars: %d", cfg.Render.TruncateChars)
	}
	if cfg.Favorites.Backend != BackendRedis || cfg.Favorites.RedisDB != 2 {
		t.Errorf("unexpected favorites config: %+v", cfg.Favorites)
	}
	if !cfg.LazyLoad.Eager {
		t.Errorf("expected eager lazy-load")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected cors origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadValidation(t *testing.T) {
	env := map[string]string{
		"RTV_ENV":               "production",
		"RTV_DATA_ATTEMPTS":     "0",
		"RTV_FAVORITES_BACKEND": "sqlite",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := vErr.Fields()
	want := map[string]bool{"Data.Attempts": false, "Favorites.Backend": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("expected %s in %v", f, fields)
		}
	}

	env = map[string]string{
		"RTV_SIMILAR_COUNT":   "0",
		"RTV_CARD_HIGHLIGHTS": "0",
		"RTV_CARD_SHOWS":      "-1",
	}
	_, err = Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for display budgets, got %v", err)
	}
	if got := strings.Join(vErr.Fields(), ","); got != "Render.SimilarCount,Render.CardHighlights,Render.CardShows" {
		t.Errorf("unexpected budget fields: %s", got)
	}

	env = map[string]string{"RTV_ENV": "production"}
	_, err = Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if !errors.As(err, &vErr) || vErr.Fields()[0] != "Favorites.CookieHashKey" {
		t.Fatalf("expected missing cookie hash key, got %v", err)
	}

	env = map[string]string{"RTV_FAVORITES_BACKEND": "redis"}
	_, err = Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if !errors.As(err, &vErr) || vErr.Fields()[0] != "Favorites.RedisAddr" {
		t.Fatalf("expected missing redis addr, got %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "RTV_HTTP_ADDR=:7000\nRTV_DATA_SOURCE=\"./fixtures\"\n# comment\nexport RTV_SIMILAR_COUNT=4\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("RTV_DATA_SOURCE", "https://cdn.example.com/data")

	cfg, err := Load(context.Background(),
		WithEnvFile(envFile),
		WithEnvMap(map[string]string{"RTV_SIMILAR_COUNT": "1"}),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected dotenv addr, got %s", cfg.Server.Addr)
	}
	if cfg.Data.Source != "https://cdn.example.com/data" {
		t.Errorf("expected system env to override dotenv, got %s", cfg.Data.Source)
	}
	if cfg.Render.SimilarCount != 1 {
		t.Errorf("expected env map to win, got %d", cfg.Render.SimilarCount)
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}
