package catalog

// Catalog is an immutable snapshot of both collections with id indexes.
// Either collection may be empty when its load failed.
type Catalog struct {
	Shows     []Show
	Locations []Location

	showIdx     map[string]int
	locationIdx map[string]int
}

// New builds a Catalog. The first record wins when ids repeat; listing order is untouched.
func New(shows []Show, locations []Location) *Catalog {
	c := &Catalog{
		Shows:       shows,
		Locations:   locations,
		showIdx:     make(map[string]int, len(shows)),
		locationIdx: make(map[string]int, len(locations)),
	}
	for i, s := range shows {
		if _, ok := c.showIdx[s.ID]; !ok {
			c.showIdx[s.ID] = i
		}
	}
	for i, l := range locations {
		if _, ok := c.locationIdx[l.ID]; !ok {
			c.locationIdx[l.ID] = i
		}
	}
	return c
}

// ShowByID looks up a show.
func (c *Catalog) ShowByID(id string) (Show, bool) {
	if c == nil {
		return Show{}, false
	}
	i, ok := c.showIdx[id]
	if !ok {
		return Show{}, false
	}
	return c.Shows[i], true
}

// LocationByID looks up a location.
func (c *Catalog) LocationByID(id string) (Location, bool) {
	if c == nil {
		return Location{}, false
	}
	i, ok := c.locationIdx[id]
	if !ok {
		return Location{}, false
	}
	return c.Locations[i], true
}
