package favorites

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// VisitorCookie identifies a browser for server-side backends.
const VisitorCookie = "rtv_visitor"

var visitorPattern = regexp.MustCompile(`^[0-9a-f-]{36}$`)

// Provider resolves the KV that belongs to the requesting visitor.
type Provider interface {
	KV(w http.ResponseWriter, r *http.Request) KV
}

// VisitorID returns the visitor id cookie value, issuing a new UUID when it is missing or malformed.
// The cookie is reissued on every call so an active visitor keeps the same id.
func VisitorID(w http.ResponseWriter, r *http.Request, secure bool) string {
	var id string
	if c, err := r.Cookie(VisitorCookie); err == nil && visitorPattern.MatchString(c.Value) {
		id = c.Value
	} else {
		id = uuid.NewString()
		// later reads in this request see the new id
		r.AddCookie(&http.Cookie{Name: VisitorCookie, Value: id})
	}
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieLifetime.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// MemoryProvider keeps every visitor's favorites in one shared MemoryKV.
type MemoryProvider struct {
	kv     *MemoryKV
	secure bool
}

func NewMemoryProvider(secure bool) *MemoryProvider {
	return &MemoryProvider{kv: NewMemoryKV(), secure: secure}
}

func (p *MemoryProvider) KV(w http.ResponseWriter, r *http.Request) KV {
	return prefixKV{kv: p.kv, prefix: VisitorID(w, r, p.secure) + ":"}
}

// RedisProvider namespaces a redis client by visitor id.
type RedisProvider struct {
	client redis.Cmdable
	secure bool
}

func NewRedisProvider(client redis.Cmdable, secure bool) *RedisProvider {
	return &RedisProvider{client: client, secure: secure}
}

func (p *RedisProvider) KV(w http.ResponseWriter, r *http.Request) KV {
	return NewRedisKV(p.client, VisitorID(w, r, p.secure))
}
