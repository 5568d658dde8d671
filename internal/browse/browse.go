package browse

import (
	"sort"
	"strings"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
)

// FilterLocations applies the category and region filters and the text query,
// then sorts. The input slice is never modified.
func FilterLocations(locs []catalog.Location, res *catalog.Resolver, s State) []catalog.Location {
	needle := strings.ToLower(s.Query)
	out := make([]catalog.Location, 0, len(locs))
	for _, l := range locs {
		if !matchesFilter(s.Category, l.Category) || !matchesFilter(s.Region, l.Region) {
			continue
		}
		if needle != "" && !locationMatches(l, res, needle) {
			continue
		}
		out = append(out, l)
	}
	SortLocations(out, res, s.Sort)
	return out
}

func locationMatches(l catalog.Location, res *catalog.Resolver, needle string) bool {
	for _, field := range []string{l.Name, l.City, l.Country, l.Tagline} {
		if containsFold(field, needle) {
			return true
		}
	}
	for _, name := range res.ShowNames(l) {
		if containsFold(name, needle) {
			return true
		}
	}
	return false
}

// SortLocations orders locs in place. Ties keep their collection order.
func SortLocations(locs []catalog.Location, res *catalog.Resolver, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(locs, func(i, j int) bool { return locs[i].MinPrice() < locs[j].MinPrice() })
	case SortPriceHigh:
		sort.SliceStable(locs, func(i, j int) bool { return locs[i].MinPrice() > locs[j].MinPrice() })
	case SortRating:
		ratings := make(map[string]float64, len(locs))
		for _, l := range locs {
			ratings[l.ID] = res.ShowRating(l)
		}
		sort.SliceStable(locs, func(i, j int) bool { return ratings[locs[i].ID] > ratings[locs[j].ID] })
	default:
		sort.SliceStable(locs, func(i, j int) bool { return lessFold(locs[i].Name, locs[j].Name) })
	}
}

// FilterShows filters shows. Category matches the network; region does not apply.
func FilterShows(shows []catalog.Show, s State) []catalog.Show {
	needle := strings.ToLower(s.Query)
	out := make([]catalog.Show, 0, len(shows))
	for _, sh := range shows {
		if !matchesFilter(s.Category, sh.Network) {
			continue
		}
		if needle != "" && !showMatches(sh, needle) {
			continue
		}
		out = append(out, sh)
	}
	SortShows(out, s.Sort)
	return out
}

func showMatches(s catalog.Show, needle string) bool {
	for _, field := range []string{s.Name, s.Network, s.Tagline, s.Description} {
		if containsFold(field, needle) {
			return true
		}
	}
	return false
}

// SortShows orders shows in place. Price keys do not apply to shows and sort by name.
func SortShows(shows []catalog.Show, key SortKey) {
	switch key {
	case SortRating:
		sort.SliceStable(shows, func(i, j int) bool { return shows[i].ViewerRating > shows[j].ViewerRating })
	case SortSeasons:
		sort.SliceStable(shows, func(i, j int) bool { return shows[i].Seasons > shows[j].Seasons })
	default:
		sort.SliceStable(shows, func(i, j int) bool { return lessFold(shows[i].Name, shows[j].Name) })
	}
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
