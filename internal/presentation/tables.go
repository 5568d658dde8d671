// Package presentation holds the lookup tables that decorate cards: emoji,
// colour schemes and badge membership, all keyed by literal ids.
package presentation

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
)

//go:embed tables.yaml
var defaultTables []byte

// Scheme is a background/foreground colour pair.
type Scheme struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

type glyphTable struct {
	DefaultEmoji string            `yaml:"default_emoji"`
	Emoji        map[string]string `yaml:"emoji"`
	Trending     []string          `yaml:"trending"`
	New          []string          `yaml:"new"`

	trending map[string]struct{}
	fresh    map[string]struct{}
}

type schemeTable struct {
	Default Scheme            `yaml:"default"`
	Schemes map[string]Scheme `yaml:"schemes"`
}

type amenityTable struct {
	Default string            `yaml:"default"`
	Emoji   map[string]string `yaml:"emoji"`
}

// Tables is the full set of presentation lookups.
type Tables struct {
	Shows      glyphTable   `yaml:"shows"`
	Locations  glyphTable   `yaml:"locations"`
	Networks   schemeTable  `yaml:"networks"`
	Categories schemeTable  `yaml:"categories"`
	Amenities  amenityTable `yaml:"amenities"`
}

// Default returns the embedded tables. It panics only if the embedded file is broken.
func Default() *Tables {
	t, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("presentation: embedded tables: %v", err))
	}
	return t
}

// Load reads tables from path, or the embedded defaults when path is empty.
func Load(path string) (*Tables, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("presentation: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a tables document and fills in missing default glyphs.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("presentation: parse tables: %w", err)
	}
	t.Shows.prepare("📺")
	t.Locations.prepare("📍")
	if t.Amenities.Default == "" {
		t.Amenities.Default = "✨"
	}
	return &t, nil
}

func (g *glyphTable) prepare(fallback string) {
	if g.DefaultEmoji == "" {
		g.DefaultEmoji = fallback
	}
	g.trending = toSet(g.Trending)
	g.fresh = toSet(g.New)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (g glyphTable) emoji(id string) string {
	if e, ok := g.Emoji[id]; ok && e != "" {
		return e
	}
	return g.DefaultEmoji
}

func (s schemeTable) lookup(key string) Scheme {
	if sc, ok := s.Schemes[key]; ok {
		return sc
	}
	return s.Default
}

func (t *Tables) ShowEmoji(id string) string     { return t.Shows.emoji(id) }
func (t *Tables) LocationEmoji(id string) string { return t.Locations.emoji(id) }

// NetworkScheme returns the colours for a network, or the default scheme.
func (t *Tables) NetworkScheme(network string) Scheme { return t.Networks.lookup(network) }

// CategoryScheme returns the colours for a location category, or the default scheme.
func (t *Tables) CategoryScheme(category string) Scheme {
	return t.Categories.lookup(strings.ToLower(category))
}

// ShowBadges lists the badges a show card carries, trending first.
func (t *Tables) ShowBadges(id string) []string { return t.Shows.badges(id) }

// LocationBadges lists the badges a location card carries, trending first.
func (t *Tables) LocationBadges(id string) []string { return t.Locations.badges(id) }

func (g glyphTable) badges(id string) []string {
	var out []string
	if _, ok := g.trending[id]; ok {
		out = append(out, "trending")
	}
	if _, ok := g.fresh[id]; ok {
		out = append(out, "new")
	}
	return out
}

// AmenityEmoji returns the glyph for an amenity slug.
func (t *Tables) AmenityEmoji(slug string) string {
	if e, ok := t.Amenities.Emoji[slug]; ok {
		return e
	}
	return t.Amenities.Default
}

// Validate reports table keys that no longer match any record in the catalog.
// The result is sorted and empty when the tables and data agree.
func (t *Tables) Validate(cat *catalog.Catalog) []string {
	var drift []string
	showIDs := func(id string) bool { _, ok := cat.ShowByID(id); return ok }
	locationIDs := func(id string) bool { _, ok := cat.LocationByID(id); return ok }

	drift = append(drift, unknownKeys("shows.emoji", keys(t.Shows.Emoji), showIDs)...)
	drift = append(drift, unknownKeys("shows.trending", t.Shows.Trending, showIDs)...)
	drift = append(drift, unknownKeys("shows.new", t.Shows.New, showIDs)...)
	drift = append(drift, unknownKeys("locations.emoji", keys(t.Locations.Emoji), locationIDs)...)
	drift = append(drift, unknownKeys("locations.trending", t.Locations.Trending, locationIDs)...)
	drift = append(drift, unknownKeys("locations.new", t.Locations.New, locationIDs)...)

	networks := map[string]struct{}{}
	for _, s := range cat.Shows {
		networks[s.Network] = struct{}{}
	}
	drift = append(drift, unknownKeys("networks", keys(t.Networks.Schemes), func(k string) bool {
		_, ok := networks[k]
		return ok
	})...)

	categories := map[string]struct{}{}
	amenities := map[string]struct{}{}
	for _, l := range cat.Locations {
		categories[strings.ToLower(l.Category)] = struct{}{}
		for _, a := range l.Amenities {
			amenities[a] = struct{}{}
		}
	}
	drift = append(drift, unknownKeys("categories", keys(t.Categories.Schemes), func(k string) bool {
		_, ok := categories[strings.ToLower(k)]
		return ok
	})...)
	drift = append(drift, unknownKeys("amenities.emoji", keys(t.Amenities.Emoji), func(k string) bool {
		_, ok := amenities[k]
		return ok
	})...)

	sort.Strings(drift)
	return drift
}

func unknownKeys(table string, ids []string, known func(string) bool) []string {
	var out []string
	for _, id := range ids {
		if !known(id) {
			out = append(out, table+": "+id)
		}
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
