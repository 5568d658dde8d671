// Package browse filters and sorts the collections for the listing pages.
// Every function here is a pure function of its inputs.
package browse

import (
	"net/url"
	"strings"
)

// SortKey names an ordering of a listing.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortSeasons   SortKey = "seasons"
)

const allValue = "all"

// State is the full set of listing controls.
type State struct {
	Category string
	Region   string
	Query    string
	Sort     SortKey
}

// ParseState reads category, region, q and sort. Unknown sort keys fall back to name.
func ParseState(v url.Values) State {
	s := State{
		Category: strings.TrimSpace(v.Get("category")),
		Region:   strings.TrimSpace(v.Get("region")),
		Query:    strings.TrimSpace(v.Get("q")),
		Sort:     SortKey(strings.TrimSpace(v.Get("sort"))),
	}
	switch s.Sort {
	case SortName, SortPriceLow, SortPriceHigh, SortRating, SortSeasons:
	default:
		s.Sort = SortName
	}
	return s
}

// Values encodes the state back into query parameters, omitting defaults.
func (s State) Values() url.Values {
	v := url.Values{}
	if active(s.Category) {
		v.Set("category", s.Category)
	}
	if active(s.Region) {
		v.Set("region", s.Region)
	}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Sort != "" && s.Sort != SortName {
		v.Set("sort", string(s.Sort))
	}
	return v
}

func active(filter string) bool {
	return filter != "" && !strings.EqualFold(filter, allValue)
}

func matchesFilter(filter, value string) bool {
	return !active(filter) || strings.EqualFold(filter, value)
}

// containsFold lower-cases haystack with Unicode rules; needle must already be lower-cased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
