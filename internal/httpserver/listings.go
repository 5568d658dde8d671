package httpserver

import (
	"html/template"
	"net/http"

	"github.com/fantravel1/realitytvtravel/internal/browse"
	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/datastore"
	"github.com/fantravel1/realitytvtravel/internal/favorites"
	"github.com/fantravel1/realitytvtravel/internal/format"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

const (
	showsGridID     = "shows-grid"
	locationsGridID = "locations-grid"
)

func resolverFor(snap datastore.Snapshot) *catalog.Resolver {
	return catalog.NewResolver(snap.Catalog)
}

// listingURL is the canonical page URL for a listing state.
func listingURL(path string, s browse.State) string {
	if q := s.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// showsRegion renders the filtered shows grid, or the failure/empty state in its place.
// The status is 503 when the collection failed to load.
func (h *handlers) showsRegion(r *http.Request, snap datastore.Snapshot, s browse.State) (template.HTML, int, error) {
	if snap.ShowsErr != nil {
		html, err := h.regionState(showsGridID, showsGridID, func() (template.HTML, error) {
			return h.loadFailed(r, render.KindShow, "shows")
		})
		return html, http.StatusServiceUnavailable, err
	}
	shows := browse.FilterShows(snap.Catalog.Shows, s)
	if len(shows) == 0 {
		html, err := h.regionState(showsGridID, showsGridID, func() (template.HTML, error) {
			return h.renderer.NoResults(s.Query)
		})
		return html, http.StatusOK, err
	}
	html, err := h.renderer.ShowGrid(showsGridID, shows)
	return html, http.StatusOK, err
}

func (h *handlers) locationsRegion(r *http.Request, snap datastore.Snapshot, s browse.State, favs favorites.Set) (template.HTML, int, error) {
	if snap.LocationsErr != nil {
		html, err := h.regionState(locationsGridID, locationsGridID, func() (template.HTML, error) {
			return h.loadFailed(r, render.KindLocation, "locations")
		})
		return html, http.StatusServiceUnavailable, err
	}
	res := resolverFor(snap)
	locs := browse.FilterLocations(snap.Catalog.Locations, res, s)
	if len(locs) == 0 {
		html, err := h.regionState(locationsGridID, locationsGridID, func() (template.HTML, error) {
			return h.renderer.NoResults(s.Query)
		})
		return html, http.StatusOK, err
	}
	html, err := h.renderer.LocationGrid(locationsGridID, locs, res, favs)
	return html, http.StatusOK, err
}

// ShowsPage renders the shows listing with its filter form.
func (h *handlers) ShowsPage(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)
	state := browse.ParseState(r.URL.Query())

	grid, status, err := h.showsRegion(r, snap, state)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	facets := browse.ShowFacets(snap.Catalog.Shows)
	body, err := h.renderer.Listing(render.ListingView{
		Kind:       render.KindShow,
		Heading:    "Reality TV Shows",
		Intro:      "Browse " + format.Count(len(snap.Catalog.Shows), "show") + " and the places they were filmed.",
		Action:     "/shows",
		GridURL:    "/shows/grid",
		GridID:     showsGridID,
		Query:      state.Query,
		Categories: facetOptions("All networks", facets.Categories, state.Category),
		Sorts:      sortOptions(browse.ShowSorts, state.Sort),
		Grid:       grid,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, status, h.layout(r, "Shows", favs.Len(), body))
}

// ShowsGrid answers the filter form with just the grid region.
func (h *handlers) ShowsGrid(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r.Context())
	state := browse.ParseState(r.URL.Query())

	grid, status, err := h.showsRegion(r, snap, state)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	w.Header().Set("HX-Push-Url", listingURL("/shows", state))
	h.fragment(w, r, status, grid)
}

// LocationsPage renders the locations listing with its filter form.
func (h *handlers) LocationsPage(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)
	state := browse.ParseState(r.URL.Query())

	grid, status, err := h.locationsRegion(r, snap, state, favs)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	facets := browse.LocationFacets(snap.Catalog.Locations)
	body, err := h.renderer.Listing(render.ListingView{
		Kind:       render.KindLocation,
		Heading:    "Filming Locations",
		Intro:      "Stay where the cameras rolled.",
		Action:     "/locations",
		GridURL:    "/locations/grid",
		GridID:     locationsGridID,
		Query:      state.Query,
		Categories: facetOptions("All categories", facets.Categories, state.Category),
		Regions:    facetOptions("All regions", facets.Regions, state.Region),
		Sorts:      sortOptions(browse.LocationSorts, state.Sort),
		Grid:       grid,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, status, h.layout(r, "Locations", favs.Len(), body))
}

func (h *handlers) LocationsGrid(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)
	state := browse.ParseState(r.URL.Query())

	grid, status, err := h.locationsRegion(r, snap, state, favs)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	w.Header().Set("HX-Push-Url", listingURL("/locations", state))
	h.fragment(w, r, status, grid)
}

// facetOptions prepends the "all" choice. Values keep their data casing;
// categories are labelled title case.
func facetOptions(allLabel string, values []string, selected string) []render.Option {
	opts := make([]render.Option, 0, len(values)+1)
	opts = append(opts, render.Option{Value: "all", Label: allLabel, Selected: selected == "" || selected == "all"})
	for _, v := range values {
		opts = append(opts, render.Option{
			Value:    v,
			Label:    format.TitleFromSlug(v),
			Selected: v == selected,
		})
	}
	return opts
}

func sortOptions(sorts []browse.SortOption, selected browse.SortKey) []render.Option {
	opts := make([]render.Option, 0, len(sorts))
	for _, s := range sorts {
		opts = append(opts, render.Option{Value: string(s.Key), Label: s.Label, Selected: s.Key == selected})
	}
	return opts
}
