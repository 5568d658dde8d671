package lazyload

import (
	"io/fs"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteDeferredLeavesMarkup(t *testing.T) {
	t.Parallel()

	c := NewController(false, "")
	in := []byte(`<div class="lazy-bg" data-bg="/img/a.jpg"></div>`)
	out, err := c.Rewrite(in, ModeDeferred)
	require.NoError(t, err)
	require.Equal(t, string(in), string(out))
}

func TestRewriteEagerFragment(t *testing.T) {
	t.Parallel()

	c := NewController(false, "")
	in := []byte(`<article><div class="lazy-bg" data-bg="https://cdn.example.com/a.jpg" style="color: #111;">x</div></article><p>tail</p>`)
	out, err := c.Rewrite(in, ModeEager)
	require.NoError(t, err)

	got := string(out)
	require.NotContains(t, got, "data-bg")
	require.Contains(t, got, `style="color: #111; background-image: url(&#34;https://cdn.example.com/a.jpg&#34;)"`)
	require.Contains(t, got, "<p>tail</p>")

	again, err := c.Rewrite(out, ModeEager)
	require.NoError(t, err)
	require.Equal(t, got, string(again))
}

func TestRewriteEagerDocument(t *testing.T) {
	t.Parallel()

	c := NewController(false, "")
	in := []byte(`<!DOCTYPE html><html><head><title>t</title></head><body><div data-bg="/img/b.jpg"></div></body></html>`)
	out, err := c.Rewrite(in, ModeEager)
	require.NoError(t, err)

	got := string(out)
	require.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	require.Contains(t, got, "<title>t</title>")
	require.Contains(t, got, `background-image: url(&#34;/img/b.jpg&#34;)`)
	require.NotContains(t, got, "data-bg")
}

func TestRewriteDropsUnsafeSchemes(t *testing.T) {
	t.Parallel()

	c := NewController(false, "")
	out, err := c.Rewrite([]byte(`<div data-bg="javascript:alert(1)"></div>`), ModeEager)
	require.NoError(t, err)
	require.Equal(t, "<div></div>", string(out))
}

func TestControllerMode(t *testing.T) {
	t.Parallel()

	c := NewController(false, " ")
	require.Equal(t, "200px", c.RootMargin())
	require.Equal(t, ModeDeferred, c.Mode(httptest.NewRequest("GET", "/locations", nil)))
	require.Equal(t, ModeEager, c.Mode(httptest.NewRequest("GET", "/locations?eager=1", nil)))

	forced := NewController(true, "400px")
	require.Equal(t, "400px", forced.RootMargin())
	require.Equal(t, ModeEager, forced.Mode(httptest.NewRequest("GET", "/", nil)))
}

func TestEagerURL(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("/locations?q=fiji")
	require.NoError(t, err)
	require.Equal(t, "/locations?eager=1&q=fiji", EagerURL(u))
}

func TestAssetsContainScript(t *testing.T) {
	t.Parallel()

	body, err := fs.ReadFile(Assets(), "lazyload.js")
	require.NoError(t, err)
	require.Contains(t, string(body), "IntersectionObserver")
	require.Contains(t, string(body), "youtube.com/embed/")
	require.Contains(t, string(body), "htmx:oobAfterSwap")
	require.Contains(t, string(body), "data-dismiss-after")
}
