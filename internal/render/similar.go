package render

import "github.com/fantravel1/realitytvtravel/internal/catalog"

// pickSimilar walks items once per preference, then once more unfiltered, and
// collects up to n distinct records other than self in collection order.
func pickSimilar[T any](items []T, id func(T) string, selfID string, n int, prefs ...func(T) bool) []T {
	if n <= 0 {
		return nil
	}
	seen := map[string]struct{}{selfID: {}}
	var out []T
	passes := append(append([]func(T) bool{}, prefs...), func(T) bool { return true })
	for _, match := range passes {
		for _, it := range items {
			if len(out) == n {
				return out
			}
			key := id(it)
			if _, dup := seen[key]; dup || !match(it) {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

// SimilarShows prefers shows on the same network and backfills from the rest.
func SimilarShows(s catalog.Show, all []catalog.Show, n int) []catalog.Show {
	return pickSimilar(all, func(x catalog.Show) string { return x.ID }, s.ID, n,
		func(x catalog.Show) bool { return x.Network == s.Network },
	)
}

// SimilarLocations prefers the same region, then the same category, then anything else.
func SimilarLocations(l catalog.Location, all []catalog.Location, n int) []catalog.Location {
	return pickSimilar(all, func(x catalog.Location) string { return x.ID }, l.ID, n,
		func(x catalog.Location) bool { return x.Region != "" && x.Region == l.Region },
		func(x catalog.Location) bool { return x.Category != "" && x.Category == l.Category },
	)
}
