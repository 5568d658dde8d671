package httpserver

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/fantravel1/realitytvtravel/internal/datastore"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

// unavailable renders the retry state for each collection the snapshot failed to load.
// Detail pages stay 200 and show it in place of the affected section.
func (h *handlers) unavailable(r *http.Request, snap datastore.Snapshot) (render.Unavailable, error) {
	var (
		down render.Unavailable
		err  error
	)
	if snap.ShowsErr != nil {
		if down.Shows, err = h.loadFailed(r, render.KindShow, "shows"); err != nil {
			return down, err
		}
	}
	if snap.LocationsErr != nil {
		down.Locations, err = h.loadFailed(r, render.KindLocation, "locations")
	}
	return down, err
}

// ShowPage renders /show?id=. An unknown id is 404; a failed shows load is 503.
func (h *handlers) ShowPage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)

	var (
		body   template.HTML
		err    error
		title  = "Show not found"
		status = http.StatusOK
	)
	show, found := snap.Catalog.ShowByID(id)
	switch {
	case id != "" && snap.ShowsErr != nil:
		status = http.StatusServiceUnavailable
		title = "Shows unavailable"
		body, err = h.loadFailed(r, render.KindShow, "shows")
	case !found:
		status = http.StatusNotFound
		body, err = h.renderer.NotFound(render.KindShow, id)
	default:
		title = show.Name
		var down render.Unavailable
		if down, err = h.unavailable(r, snap); err == nil {
			body, err = h.renderer.ShowDetail(show, snap.Catalog, favs, down)
		}
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, status, h.layout(r, title, favs.Len(), body))
}

// LocationPage renders /location?id=. An unknown id is 404; a failed locations load is 503.
func (h *handlers) LocationPage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)

	var (
		body   template.HTML
		err    error
		title  = "Location not found"
		status = http.StatusOK
	)
	loc, found := snap.Catalog.LocationByID(id)
	switch {
	case id != "" && snap.LocationsErr != nil:
		status = http.StatusServiceUnavailable
		title = "Locations unavailable"
		body, err = h.loadFailed(r, render.KindLocation, "locations")
	case !found:
		status = http.StatusNotFound
		body, err = h.renderer.NotFound(render.KindLocation, id)
	default:
		title = loc.Name
		var down render.Unavailable
		if down, err = h.unavailable(r, snap); err == nil {
			body, err = h.renderer.LocationDetail(loc, snap.Catalog, favs, down)
		}
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, status, h.layout(r, title, favs.Len(), body))
}
