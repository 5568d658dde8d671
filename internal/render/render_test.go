package render_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/render"
	"github.com/fantravel1/realitytvtravel/internal/testutil"
)

type favSet map[string]bool

func (f favSet) Has(id string) bool { return f[id] }

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(nil, render.Options{})
	require.NoError(t, err)
	return r
}

func mustLocation(t *testing.T, cat *catalog.Catalog, id string) catalog.Location {
	t.Helper()
	loc, ok := cat.LocationByID(id)
	require.True(t, ok, "fixture location %s", id)
	return loc
}

func mustShow(t *testing.T, cat *catalog.Catalog, id string) catalog.Show {
	t.Helper()
	show, ok := cat.ShowByID(id)
	require.True(t, ok, "fixture show %s", id)
	return show
}

func TestCardsAreDeterministic(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)
	res := catalog.NewResolver(cat)

	for _, s := range cat.Shows {
		a, err := r.ShowCard(s)
		require.NoError(t, err)
		b, err := r.ShowCard(s)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
	for _, l := range cat.Locations {
		a, err := r.LocationCard(l, res, nil)
		require.NoError(t, err)
		b, err := r.LocationCard(l, res, nil)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}
}

func TestShowCard(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)

	html, err := r.ShowCard(mustShow(t, cat, "the-bachelor"))
	require.NoError(t, err)
	doc := testutil.ParseFragment(t, html)

	require.Equal(t, "/show?id=the-bachelor", doc.Find("a.show-card").AttrOr("href", ""))
	require.Equal(t, "🌹", doc.Find(".show-card-emoji").Text())
	require.Equal(t, "28 Seasons • 2 Locations", doc.Find(".show-card-meta").Text())

	desc := doc.Find(".show-card-description").Text()
	require.True(t, strings.HasSuffix(desc, "…"))
	require.LessOrEqual(t, len([]rune(desc)), 151)

	html, err = r.ShowCard(mustShow(t, cat, "temptation-island"))
	require.NoError(t, err)
	doc = testutil.ParseFragment(t, html)
	require.Equal(t, "📺", doc.Find(".show-card-emoji").Text())
	require.Equal(t, "5 Seasons • 0 Locations", doc.Find(".show-card-meta").Text())
	require.False(t, strings.HasSuffix(doc.Find(".show-card-description").Text(), "…"))
}

func TestShowCardBadges(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)

	html, err := r.ShowCard(mustShow(t, cat, "love-island-usa"))
	require.NoError(t, err)
	doc := testutil.ParseFragment(t, html)
	require.Equal(t, 1, doc.Find(".badge-trending").Length())
	require.Equal(t, 0, doc.Find(".badge-new").Length())
}

func TestLocationCardLimitsShowsAndHighlights(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)
	res := catalog.NewResolver(cat)

	html, err := r.LocationCard(mustLocation(t, cat, "sandals-grande-st-lucian"), res, favSet{"sandals-grande-st-lucian": true})
	require.NoError(t, err)
	doc := testutil.ParseFragment(t, html)

	require.Equal(t, "The Bachelor, Love Is Blind", doc.Find(".badge-show").Text())
	require.Equal(t, 2, doc.Find(".location-card-highlights li").Length())
	require.Equal(t, "$600", doc.Find(".price-value").Text())
	require.Equal(t, "/night", doc.Find(".price-unit").Text())
	require.Equal(t, 1, doc.Find(".badge-bookable").Length())

	btn := doc.Find("button.favorite-toggle")
	require.Equal(t, "true", btn.AttrOr("aria-pressed", ""))
	require.Equal(t, "/favorites/sandals-grande-st-lucian", btn.AttrOr("hx-post", ""))
	require.Equal(t, 0, doc.Find("[data-bg]").Length())
}

func TestLocationCardUnresolvedShowUsesID(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)

	html, err := r.LocationCard(mustLocation(t, cat, "bachelor-mansion"), catalog.NewResolver(cat), nil)
	require.NoError(t, err)
	doc := testutil.ParseFragment(t, html)

	require.Equal(t, "The Bachelor, ghost-show", doc.Find(".badge-show").Text())
	require.Equal(t, "$1,500", doc.Find(".price-value").Text())
	require.Equal(t, "false", doc.Find("button.favorite-toggle").AttrOr("aria-pressed", ""))

	img := doc.Find(".location-card-image")
	require.True(t, img.HasClass("lazy-bg"))
	require.Equal(t, "https://images.example.com/bachelor-mansion.jpg", img.AttrOr("data-bg", ""))
}

func TestLocationCardWithoutPrice(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)

	html, err := r.LocationCard(mustLocation(t, cat, "turks-caicos-villa"), catalog.NewResolver(cat), nil)
	require.NoError(t, err)
	doc := testutil.ParseFragment(t, html)
	require.Equal(t, 0, doc.Find(".location-card-price").Length())
	require.Equal(t, 0, doc.Find(".badge-bookable").Length())
	require.Equal(t, "📍", doc.Find(".location-card-emoji").Text())
}

func TestGridsAndRegion(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cat := testutil.Catalog(t)

	html, err := r.LocationGrid("locations-grid", cat.Locations, catalog.NewResolver(cat), nil)
	require.NoError(t, err)
	doc := testutil.ParseFragment(t, html)
	require.Equal(t, len(cat.Locations), doc.Find("#locations-grid .location-card").Length())

	html, err = r.ShowGrid("shows-grid", cat.Shows)
	require.NoError(t, err)
	doc = testutil.ParseFragment(t, html)
	require.Equal(t, len(cat.Shows), doc.Find("#shows-grid .show-card").Length())

	inner, err := r.NoResults("zzz")
	require.NoError(t, err)
	html, err = r.Region("shows-grid", "shows-grid", inner)
	require.NoError(t, err)
	doc = testutil.ParseFragment(t, html)
	require.Equal(t, 1, doc.Find("#shows-grid [data-state=no-results]").Length())
}

func TestCardEscapesMarkup(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	html, err := r.ShowCard(catalog.Show{ID: "x", Name: `<script>alert(1)</script>`})
	require.NoError(t, err)
	require.NotContains(t, string(html), "<script>")

	doc := testutil.ParseFragment(t, html)
	require.Equal(t, `<script>alert(1)</script>`, doc.Find(".show-card-title").Text())
}

func badgeTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) { out = append(out, strings.TrimSpace(s.Text())) })
	return out
}

func attrs(sel *goquery.Selection, name string) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) { out = append(out, s.AttrOr(name, "")) })
	return out
}
