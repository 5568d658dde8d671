package testutil

import (
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

func fixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := fixtureFS.ReadFile("fixtures/" + name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return data
}

// Shows decodes the fixture show collection.
func Shows(t testing.TB) []catalog.Show {
	t.Helper()
	shows, err := catalog.DecodeShows(fixture(t, "shows.json"))
	if err != nil {
		t.Fatalf("decode fixture shows: %v", err)
	}
	return shows
}

// Locations decodes the fixture location collection.
func Locations(t testing.TB) []catalog.Location {
	t.Helper()
	locs, err := catalog.DecodeLocations(fixture(t, "locations.json"))
	if err != nil {
		t.Fatalf("decode fixture locations: %v", err)
	}
	return locs
}

// Catalog returns a snapshot over both fixture collections.
func Catalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	return catalog.New(Shows(t), Locations(t))
}

// DataDir writes the fixture documents into a temporary directory. Names listed
// in omit are left out so a load of them fails.
func DataDir(t testing.TB, omit ...string) string {
	t.Helper()
	dir := t.TempDir()
	skip := map[string]bool{}
	for _, name := range omit {
		skip[name] = true
	}
	for _, name := range []string{"shows.json", "locations.json"} {
		if skip[name] {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), fixture(t, name), 0o600); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}
