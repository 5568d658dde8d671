package favorites

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/observability"
)

const (
	cookiePrefix = "rtv_"
	// browsers clamp cookie lifetimes to about 400 days
	cookieLifetime = 400 * 24 * time.Hour
	cookieRefresh  = 30 * 24 * time.Hour
	// raw bytes per shard; the signed and encoded shard stays under securecookie's 4096 byte cap
	shardBytes = 1800
	maxShards  = 16
)

var (
	// ErrInvalidConfig reports a provider built without its required settings.
	ErrInvalidConfig = errors.New("favorites: invalid config")
	// ErrValueTooLarge reports a value that does not fit in maxShards cookies.
	ErrValueTooLarge = errors.New("favorites: value too large for cookies")
)

// CookieConfig controls the signed favorites cookie.
type CookieConfig struct {
	HashKey  []byte
	BlockKey []byte
	Secure   bool
	Path     string
}

// cookieShard is one signed piece of a value. Every shard repeats the total so
// pieces from different writes never combine.
type cookieShard struct {
	Total   int    `json:"t"`
	Part    string `json:"p"`
	Written int64  `json:"w,omitempty"`
}

// CookieKV stores each key in one or more signed cookies on the current request.
// Values never expire: cookies are reissued once they are older than cookieRefresh.
// Writes are visible to later reads within the same request.
type CookieKV struct {
	codec   *securecookie.SecureCookie
	cfg     CookieConfig
	now     func() time.Time
	w       http.ResponseWriter
	r       *http.Request
	written map[string]*string
	sent    map[string]int
}

func (c *CookieKV) name(key string, shard int) string {
	if shard == 0 {
		return cookiePrefix + key
	}
	return fmt.Sprintf("%s%s_%d", cookiePrefix, key, shard)
}

func (c *CookieKV) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := c.written[key]; ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	value, written, ok := c.read(key)
	if !ok {
		return "", false, nil
	}
	if c.now().Sub(written) > cookieRefresh {
		if err := c.Set(ctx, key, value); err != nil {
			observability.FromContext(ctx).Debug("favorites cookie refresh failed", zap.Error(err))
		}
	}
	return value, true, nil
}

// read joins the request's shards for key. Missing, tampered or mismatched
// shards read as absent.
func (c *CookieKV) read(key string) (string, time.Time, bool) {
	first, ok := c.decode(c.name(key, 0))
	if !ok || first.Total < 1 || first.Total > maxShards {
		return "", time.Time{}, false
	}
	var b strings.Builder
	b.WriteString(first.Part)
	for i := 1; i < first.Total; i++ {
		shard, ok := c.decode(c.name(key, i))
		if !ok || shard.Total != first.Total {
			return "", time.Time{}, false
		}
		b.WriteString(shard.Part)
	}
	return b.String(), time.Unix(first.Written, 0), true
}

func (c *CookieKV) decode(name string) (cookieShard, bool) {
	var shard cookieShard
	cookie, err := c.r.Cookie(name)
	if err != nil {
		return shard, false
	}
	if err := c.codec.Decode(name, cookie.Value, &shard); err != nil {
		// tampered or signed with an old key
		return shard, false
	}
	return shard, true
}

func (c *CookieKV) Set(_ context.Context, key, value string) error {
	parts := splitShards(value, shardBytes)
	if len(parts) > maxShards {
		return fmt.Errorf("%w: %d bytes", ErrValueTooLarge, len(value))
	}
	written := c.now().Unix()
	encoded := make([]string, len(parts))
	for i, part := range parts {
		var err error
		encoded[i], err = c.codec.Encode(c.name(key, i), cookieShard{Total: len(parts), Part: part, Written: written})
		if err != nil {
			return fmt.Errorf("encode %s cookie: %w", key, err)
		}
	}
	for i, v := range encoded {
		http.SetCookie(c.w, c.cookie(c.name(key, i), v, int(cookieLifetime.Seconds())))
	}
	c.expire(key, len(parts))
	c.written[key] = &value
	c.sent[key] = len(parts)
	return nil
}

func (c *CookieKV) Remove(_ context.Context, key string) error {
	c.expire(key, 0)
	c.written[key] = nil
	c.sent[key] = 0
	return nil
}

// expire clears the shards of key from index from onward that the browser holds
// or this request already sent.
func (c *CookieKV) expire(key string, from int) {
	for i := from; i < maxShards; i++ {
		name := c.name(key, i)
		if _, err := c.r.Cookie(name); err != nil && i >= c.sent[key] {
			continue
		}
		expired := c.cookie(name, "", -1)
		expired.Expires = time.Unix(0, 0)
		http.SetCookie(c.w, expired)
	}
}

func (c *CookieKV) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.cfg.Path,
		MaxAge:   maxAge,
		Secure:   c.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// splitShards cuts value into pieces of at most size bytes on rune boundaries.
func splitShards(value string, size int) []string {
	parts := make([]string, 0, len(value)/size+1)
	for len(value) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		if cut == 0 {
			_, cut = utf8.DecodeRuneInString(value)
		}
		parts = append(parts, value[:cut])
		value = value[cut:]
	}
	return append(parts, value)
}

// CookieProvider hands out a CookieKV per request.
type CookieProvider struct {
	codec *securecookie.SecureCookie
	cfg   CookieConfig
	now   func() time.Time
}

// NewCookieProvider validates the keys and builds the codec.
func NewCookieProvider(cfg CookieConfig) (*CookieProvider, error) {
	if len(cfg.HashKey) < 32 {
		return nil, fmt.Errorf("%w: cookie hash key must be at least 32 bytes", ErrInvalidConfig)
	}
	if n := len(cfg.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		return nil, fmt.Errorf("%w: cookie block key must be 16, 24 or 32 bytes", ErrInvalidConfig)
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	var block []byte
	if len(cfg.BlockKey) > 0 {
		block = cfg.BlockKey
	}
	codec := securecookie.New(cfg.HashKey, block)
	codec.SetSerializer(securecookie.JSONEncoder{})
	// no server-side expiry; the browser lifetime is refreshed on read
	codec.MaxAge(0)
	return &CookieProvider{codec: codec, cfg: cfg, now: time.Now}, nil
}

func (p *CookieProvider) KV(w http.ResponseWriter, r *http.Request) KV {
	return &CookieKV{
		codec:   p.codec,
		cfg:     p.cfg,
		now:     p.now,
		w:       w,
		r:       r,
		written: map[string]*string{},
		sent:    map[string]int{},
	}
}
