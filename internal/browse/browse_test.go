package browse_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fantravel1/realitytvtravel/internal/browse"
	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/testutil"
)

func ids(locs []catalog.Location) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		out = append(out, l.ID)
	}
	return out
}

func TestParseState(t *testing.T) {
	t.Parallel()

	s := browse.ParseState(url.Values{"region": {" Caribbean "}, "q": {"resort"}, "sort": {"bogus"}})
	require.Equal(t, browse.State{Region: "Caribbean", Query: "resort", Sort: browse.SortName}, s)
	require.Equal(t, url.Values{"region": {"Caribbean"}, "q": {"resort"}}, s.Values())

	s = browse.ParseState(url.Values{"category": {"all"}, "sort": {"price-high"}})
	require.Equal(t, browse.SortPriceHigh, s.Sort)
	require.Equal(t, url.Values{"sort": {"price-high"}}, s.Values())
}

func TestFilterCaribbeanResort(t *testing.T) {
	t.Parallel()

	cat := testutil.Catalog(t)
	res := catalog.NewResolver(cat)

	got := browse.FilterLocations(cat.Locations, res, browse.State{Region: "Caribbean", Query: "resort"})
	require.Equal(t, []string{"sandals-grande-st-lucian"}, ids(got))
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	cat := testutil.Catalog(t)
	res := catalog.NewResolver(cat)

	lower := browse.FilterLocations(cat.Locations, res, browse.State{Query: "love island"})
	upper := browse.FilterLocations(cat.Locations, res, browse.State{Query: "LOVE ISLAND"})
	require.Equal(t, ids(lower), ids(upper))
	require.ElementsMatch(t, []string{"sandals-grande-st-lucian", "casa-amor-fiji"}, ids(lower))

	accented := browse.FilterLocations(cat.Locations, res, browse.State{Query: "CANCÚN"})
	require.Equal(t, []string{"emerald-pavilion"}, ids(accented))

	require.Empty(t, browse.FilterLocations(cat.Locations, res, browse.State{Query: "antarctica"}))
}

func TestPriceSortIsMonotonic(t *testing.T) {
	t.Parallel()

	cat := testutil.Catalog(t)
	res := catalog.NewResolver(cat)

	low := browse.FilterLocations(cat.Locations, res, browse.State{Sort: browse.SortPriceLow})
	require.Len(t, low, len(cat.Locations))
	for i := 1; i < len(low); i++ {
		require.LessOrEqual(t, low[i-1].MinPrice(), low[i].MinPrice())
	}
	require.Equal(t, "turks-caicos-villa", low[0].ID)

	high := browse.FilterLocations(cat.Locations, res, browse.State{Sort: browse.SortPriceHigh})
	for i := 1; i < len(high); i++ {
		require.GreaterOrEqual(t, high[i-1].MinPrice(), high[i].MinPrice())
	}
}

func TestRatingAndNameSorts(t *testing.T) {
	t.Parallel()

	cat := testutil.Catalog(t)
	res := catalog.NewResolver(cat)

	byRating := browse.FilterLocations(cat.Locations, res, browse.State{Sort: browse.SortRating})
	require.Equal(t, []string{
		"casa-amor-fiji",
		"sandals-grande-st-lucian",
		"emerald-pavilion",
		"playa-escondida-resort",
		"bachelor-mansion",
		"turks-caicos-villa",
	}, ids(byRating))

	byName := browse.FilterLocations(cat.Locations, res, browse.State{Sort: browse.SortName})
	require.Equal(t, "Bachelor Mansion", byName[0].Name)
	require.Equal(t, "Sandals Grande St. Lucian", byName[len(byName)-1].Name)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	cat := testutil.Catalog(t)
	before := ids(cat.Locations)
	_ = browse.FilterLocations(cat.Locations, catalog.NewResolver(cat), browse.State{Sort: browse.SortPriceHigh})
	require.Equal(t, before, ids(cat.Locations))
}

func TestFilterShows(t *testing.T) {
	t.Parallel()

	shows := testutil.Shows(t)

	netflix := browse.FilterShows(shows, browse.State{Category: "netflix", Region: "Caribbean"})
	require.Len(t, netflix, 2)
	require.Equal(t, "Love Is Blind", netflix[0].Name)

	bySeasons := browse.FilterShows(shows, browse.State{Sort: browse.SortSeasons})
	require.Equal(t, "the-bachelor", bySeasons[0].ID)

	byRating := browse.FilterShows(shows, browse.State{Query: "LOVE", Sort: browse.SortRating})
	require.Equal(t, "love-island-usa", byRating[0].ID)
}

func TestFacets(t *testing.T) {
	t.Parallel()

	cat := testutil.Catalog(t)
	f := browse.LocationFacets(cat.Locations)
	require.Equal(t, []string{"mansion", "resort", "villa"}, f.Categories)
	require.Equal(t, []string{"Caribbean", "Latin America", "North America", "South Pacific"}, f.Regions)

	require.Equal(t, []string{"ABC", "Netflix", "Peacock", "USA Network"}, browse.ShowFacets(cat.Shows).Categories)
}
