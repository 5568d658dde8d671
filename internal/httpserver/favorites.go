package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/favorites"
	custommw "github.com/fantravel1/realitytvtravel/internal/httpserver/middleware"
	"github.com/fantravel1/realitytvtravel/internal/observability"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

func collectionParam(r *http.Request) string {
	return chi.URLParam(r, "collection")
}

// ToggleFavorite flips one location and answers with the new button, the
// header badge and a toast, the last two swapped out of band.
func (h *handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	snap := h.snapshot(ctx)
	if snap.LocationsErr == nil {
		if _, ok := snap.Catalog.LocationByID(id); !ok {
			body, err := h.renderer.NotFound(render.KindLocation, id)
			if err != nil {
				h.renderError(w, r, err)
				return
			}
			h.fragment(w, r, http.StatusNotFound, body)
			return
		}
	}

	store := favorites.NewStore(h.favs.KV(w, r))
	active, set, err := store.Toggle(ctx, id)
	if errors.Is(err, favorites.ErrInvalidID) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err != nil {
		observability.FromContext(ctx).Error("favorite toggle failed", zap.String("location_id", id), zap.Error(err))
		toast, rerr := h.renderer.Toast("Could not update favorites. Please try again.")
		if rerr != nil {
			h.renderError(w, r, rerr)
			return
		}
		w.Header().Set("HX-Reswap", "none")
		h.fragment(w, r, http.StatusServiceUnavailable, toast)
		return
	}

	if !custommw.IsHTMXRequest(ctx) {
		http.Redirect(w, r, refererPath(r), http.StatusSeeOther)
		return
	}

	message := "Removed from favorites"
	if active {
		message = "Added to favorites"
	}
	button, err := h.renderer.FavoriteButton(id, active)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	badge, err := h.renderer.FavoritesBadge(set.Len(), true)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	toast, err := h.renderer.Toast(message)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.fragment(w, r, http.StatusOK, button, badge, toast)
}

// FavoritesPage lists the visitor's saved locations in id order.
func (h *handlers) FavoritesPage(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)

	status := http.StatusOK
	view := render.FavoritesView{Count: favs.Len()}
	var err error
	switch {
	case snap.LocationsErr != nil && favs.Len() > 0:
		status = http.StatusServiceUnavailable
		view.Grid, err = h.regionState(favoritesRegion, "locations-grid", func() (template.HTML, error) {
			return h.loadFailed(r, render.KindLocation, "locations")
		})
	default:
		var saved []catalog.Location
		for _, id := range favs.IDs() {
			if loc, ok := snap.Catalog.LocationByID(id); ok {
				saved = append(saved, loc)
			}
		}
		view.Count = len(saved)
		view.Grid, err = h.renderer.LocationGrid(favoritesRegion, saved, resolverFor(snap), favs)
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	body, err := h.renderer.Favorites(view)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, status, h.layout(r, "Favorites", favs.Len(), body))
}

type favoritesPayload struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// FavoritesAPI returns the visitor's saved ids as JSON.
func (h *handlers) FavoritesAPI(w http.ResponseWriter, r *http.Request) {
	_, favs := h.favorites(w, r)
	writeJSON(w, r, http.StatusOK, favoritesPayload{IDs: favs.IDs(), Count: favs.Len()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.FromContext(r.Context()).Warn("encode response failed", zap.Error(err))
	}
}

// refererPath is the local part of the Referer, or "/".
func refererPath(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	return safeNext(u.RequestURI())
}
