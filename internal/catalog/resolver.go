package catalog

// Resolver joins shows and locations through the id lists locations carry.
// Lookups are linear over the snapshot; nothing is cached between calls.
type Resolver struct {
	cat *Catalog
}

// NewResolver wraps a catalog snapshot. A nil catalog behaves as empty.
func NewResolver(cat *Catalog) *Resolver {
	if cat == nil {
		cat = New(nil, nil)
	}
	return &Resolver{cat: cat}
}

// Catalog returns the underlying snapshot.
func (r *Resolver) Catalog() *Catalog {
	return r.cat
}

// ShowsFeaturingLocation returns the shows a location lists, in the location's
// order, skipping ids that do not resolve. An unknown location yields nil.
func (r *Resolver) ShowsFeaturingLocation(locationID string) []Show {
	loc, ok := r.cat.LocationByID(locationID)
	if !ok {
		return nil
	}
	return r.showsOf(loc)
}

func (r *Resolver) showsOf(loc Location) []Show {
	var out []Show
	for _, id := range loc.Shows {
		if s, ok := r.cat.ShowByID(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// LocationsForShow returns every location listing the show id, in collection order.
func (r *Resolver) LocationsForShow(showID string) []Location {
	var out []Location
	for _, l := range r.cat.Locations {
		if l.HasShow(showID) {
			out = append(out, l)
		}
	}
	return out
}

// ResolveShowName returns the show name, or the id itself when it does not resolve.
func (r *Resolver) ResolveShowName(id string) string {
	if s, ok := r.cat.ShowByID(id); ok {
		return s.Name
	}
	return id
}

// ShowNames resolves every show id on the location.
func (r *Resolver) ShowNames(loc Location) []string {
	names := make([]string, 0, len(loc.Shows))
	for _, id := range loc.Shows {
		names = append(names, r.ResolveShowName(id))
	}
	return names
}

// ShowRating is the mean viewer rating of the location's resolved shows, 0 when none resolve.
func (r *Resolver) ShowRating(loc Location) float64 {
	shows := r.showsOf(loc)
	if len(shows) == 0 {
		return 0
	}
	var sum float64
	for _, s := range shows {
		sum += s.ViewerRating
	}
	return sum / float64(len(shows))
}
