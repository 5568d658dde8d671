package favorites

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestToggleRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv)

	before, err := store.Get(ctx)
	require.NoError(t, err)
	require.Zero(t, before.Len())

	on, set, err := store.Toggle(ctx, "bachelor-mansion")
	require.NoError(t, err)
	require.True(t, on)
	require.True(t, set.Has("bachelor-mansion"))
	require.True(t, store.IsFavorite(ctx, "bachelor-mansion"))

	_, _, err = store.Toggle(ctx, "casa-amor-fiji")
	require.NoError(t, err)
	raw, ok, _ := kv.Get(ctx, Key)
	require.True(t, ok)
	require.JSONEq(t, `["bachelor-mansion","casa-amor-fiji"]`, raw)

	on, _, err = store.Toggle(ctx, "bachelor-mansion")
	require.NoError(t, err)
	require.False(t, on)
	on, _, err = store.Toggle(ctx, "casa-amor-fiji")
	require.NoError(t, err)
	require.False(t, on)

	after, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, before.IDs(), after.IDs())
	_, ok, _ = kv.Get(ctx, Key)
	require.False(t, ok)

	_, _, err = store.Toggle(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestCorruptValueReadsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, raw := range []string{`not json`, `{"ids":["a"]}`, `[1,2,3]`, `"a"`} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, Key, raw))
		store := NewStore(kv)

		set, err := store.Get(ctx)
		require.NoError(t, err, raw)
		require.Zero(t, set.Len(), raw)

		on, set, err := store.Toggle(ctx, "villa")
		require.NoError(t, err)
		require.True(t, on)
		require.Equal(t, []string{"villa"}, set.IDs())
	}
}

func TestCookieKVRoundTrip(t *testing.T) {
	t.Parallel()

	provider, err := NewCookieProvider(CookieConfig{HashKey: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/favorites/villa", nil)
	store := NewStore(provider.KV(rec, req))
	on, _, err := store.Toggle(req.Context(), "villa")
	require.NoError(t, err)
	require.True(t, on)
	require.True(t, store.IsFavorite(req.Context(), "villa"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "rtv_favorites", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	next.AddCookie(cookies[0])
	set, err := NewStore(provider.KV(httptest.NewRecorder(), next)).Get(next.Context())
	require.NoError(t, err)
	require.Equal(t, []string{"villa"}, set.IDs())

	tampered := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	tampered.AddCookie(&http.Cookie{Name: "rtv_favorites", Value: cookies[0].Value + "x"})
	set, err = NewStore(provider.KV(httptest.NewRecorder(), tampered)).Get(tampered.Context())
	require.NoError(t, err)
	require.Zero(t, set.Len())
}

// cookieJar carries response cookies into the next request like a browser would.
type cookieJar map[string]*http.Cookie

func (j cookieJar) request(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range j {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func (j cookieJar) absorb(rec *httptest.ResponseRecorder) {
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(j, c.Name)
			continue
		}
		j[c.Name] = c
	}
}

func TestCookieKVHoldsManyFavorites(t *testing.T) {
	t.Parallel()

	provider, err := NewCookieProvider(CookieConfig{
		HashKey:  []byte("0123456789abcdef0123456789abcdef"),
		BlockKey: []byte("fedcba9876543210"),
	})
	require.NoError(t, err)

	jar := cookieJar{}
	var want []string
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("playa-escondida-resort-%03d", i)
		want = append(want, id)
		rec := httptest.NewRecorder()
		req := jar.request(http.MethodPost, "/favorites/"+id)
		on, _, err := NewStore(provider.KV(rec, req)).Toggle(req.Context(), id)
		require.NoError(t, err, id)
		require.True(t, on, id)
		jar.absorb(rec)
	}
	require.Greater(t, len(jar), 1)
	for name, c := range jar {
		require.True(t, strings.HasPrefix(name, "rtv_favorites"))
		require.LessOrEqual(t, len(c.String()), 4096, name)
		require.Greater(t, c.MaxAge, 365*24*60*60)
	}

	req := jar.request(http.MethodGet, "/favorites")
	set, err := NewStore(provider.KV(httptest.NewRecorder(), req)).Get(req.Context())
	require.NoError(t, err)
	require.Equal(t, want, set.IDs())

	shards := len(jar)
	for _, id := range want[:190] {
		rec := httptest.NewRecorder()
		req := jar.request(http.MethodPost, "/favorites/"+id)
		on, _, err := NewStore(provider.KV(rec, req)).Toggle(req.Context(), id)
		require.NoError(t, err)
		require.False(t, on)
		jar.absorb(rec)
	}
	require.Less(t, len(jar), shards)

	req = jar.request(http.MethodGet, "/favorites")
	set, err = NewStore(provider.KV(httptest.NewRecorder(), req)).Get(req.Context())
	require.NoError(t, err)
	require.Equal(t, want[190:], set.IDs())
}

func TestCookieKVRefreshesAgingCookies(t *testing.T) {
	t.Parallel()

	provider, err := NewCookieProvider(CookieConfig{HashKey: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	provider.now = func() time.Time { return clock }

	jar := cookieJar{}
	rec := httptest.NewRecorder()
	req := jar.request(http.MethodPost, "/favorites/villa")
	_, _, err = NewStore(provider.KV(rec, req)).Toggle(req.Context(), "villa")
	require.NoError(t, err)
	jar.absorb(rec)

	clock = start.Add(24 * time.Hour)
	rec = httptest.NewRecorder()
	req = jar.request(http.MethodGet, "/")
	require.True(t, NewStore(provider.KV(rec, req)).IsFavorite(req.Context(), "villa"))
	require.Empty(t, rec.Result().Cookies())

	clock = start.Add(2 * 365 * 24 * time.Hour)
	rec = httptest.NewRecorder()
	req = jar.request(http.MethodGet, "/")
	require.True(t, NewStore(provider.KV(rec, req)).IsFavorite(req.Context(), "villa"))
	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)
	require.Equal(t, "rtv_favorites", refreshed[0].Name)
	require.Positive(t, refreshed[0].MaxAge)
}

func TestSplitShardsKeepsRunes(t *testing.T) {
	t.Parallel()

	parts := splitShards(strings.Repeat("é", 5), 3)
	require.Equal(t, []string{"é", "é", "é", "é", "é"}, parts)
	require.Equal(t, []string{""}, splitShards("", 4))
	require.Equal(t, []string{"abcd", "ef"}, splitShards("abcdef", 4))
}

func TestCookieProviderValidatesKeys(t *testing.T) {
	t.Parallel()

	_, err := NewCookieProvider(CookieConfig{HashKey: []byte("short")})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCookieProvider(CookieConfig{HashKey: make([]byte, 32), BlockKey: make([]byte, 7)})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRedisKVNamespacesVisitors(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	alice := NewStore(NewRedisKV(client, "alice"))
	bob := NewStore(NewRedisKV(client, "bob"))

	_, _, err := alice.Toggle(ctx, "villa")
	require.NoError(t, err)
	require.True(t, alice.IsFavorite(ctx, "villa"))
	require.False(t, bob.IsFavorite(ctx, "villa"))

	raw, err := mr.Get("rtv:favorites:alice:favorites")
	require.NoError(t, err)
	require.Equal(t, `["villa"]`, raw)
	require.Zero(t, mr.TTL("rtv:favorites:alice:favorites"))

	_, _, err = alice.Toggle(ctx, "villa")
	require.NoError(t, err)
	require.False(t, mr.Exists("rtv:favorites:alice:favorites"))
}

func TestRedisErrorsSurface(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewStore(NewRedisKV(client, "alice")).Get(context.Background())
	require.Error(t, err)
}

func TestMemoryProviderUsesVisitorCookie(t *testing.T) {
	t.Parallel()

	provider := NewMemoryProvider(false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/favorites/villa", nil)
	_, _, err := NewStore(provider.KV(rec, req)).Toggle(req.Context(), "villa")
	require.NoError(t, err)

	var visitor *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == VisitorCookie {
			visitor = c
		}
	}
	require.NotNil(t, visitor)

	same := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	same.AddCookie(visitor)
	sameRec := httptest.NewRecorder()
	require.True(t, NewStore(provider.KV(sameRec, same)).IsFavorite(same.Context(), "villa"))
	reissued := sameRec.Result().Cookies()
	require.Len(t, reissued, 1)
	require.Equal(t, visitor.Value, reissued[0].Value)
	require.Positive(t, reissued[0].MaxAge)

	stranger := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	require.False(t, NewStore(provider.KV(httptest.NewRecorder(), stranger)).IsFavorite(stranger.Context(), "villa"))
}
