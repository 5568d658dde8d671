package browse

import (
	"sort"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
)

// Facets are the distinct filter values present in a collection.
type Facets struct {
	Categories []string
	Regions    []string
}

// LocationFacets collects sorted distinct categories and regions.
func LocationFacets(locs []catalog.Location) Facets {
	cats := map[string]struct{}{}
	regions := map[string]struct{}{}
	for _, l := range locs {
		if l.Category != "" {
			cats[l.Category] = struct{}{}
		}
		if l.Region != "" {
			regions[l.Region] = struct{}{}
		}
	}
	return Facets{Categories: sortedKeys(cats), Regions: sortedKeys(regions)}
}

// ShowFacets collects the sorted distinct networks as categories.
func ShowFacets(shows []catalog.Show) Facets {
	networks := map[string]struct{}{}
	for _, s := range shows {
		if s.Network != "" {
			networks[s.Network] = struct{}{}
		}
	}
	return Facets{Categories: sortedKeys(networks)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortOption pairs a sort key with its control label.
type SortOption struct {
	Key   SortKey
	Label string
}

var (
	// LocationSorts are the orderings offered on the locations listing.
	LocationSorts = []SortOption{
		{SortName, "Name"},
		{SortPriceLow, "Price: low to high"},
		{SortPriceHigh, "Price: high to low"},
		{SortRating, "Show rating"},
	}
	// ShowSorts are the orderings offered on the shows listing.
	ShowSorts = []SortOption{
		{SortName, "Name"},
		{SortRating, "Viewer rating"},
		{SortSeasons, "Most seasons"},
	}
)
