package httpserver

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/datastore"
	"github.com/fantravel1/realitytvtravel/internal/favorites"
	custommw "github.com/fantravel1/realitytvtravel/internal/httpserver/middleware"
	"github.com/fantravel1/realitytvtravel/internal/lazyload"
	"github.com/fantravel1/realitytvtravel/internal/observability"
	"github.com/fantravel1/realitytvtravel/internal/render"
)

const (
	homeShowsRegion     = "home-shows"
	homeLocationsRegion = "home-locations"
	favoritesRegion     = "favorites-grid"
)

type handlers struct {
	store    *datastore.Store
	renderer *render.Renderer
	favs     favorites.Provider
	lazy     *lazyload.Controller
	logger   *zap.Logger

	driftOnce sync.Once
}

// snapshot loads both collections and, the first time both are present,
// reports presentation table entries that no longer match the data.
func (h *handlers) snapshot(ctx context.Context) datastore.Snapshot {
	snap := h.store.Snapshot(ctx)
	if snap.ShowsErr == nil && snap.LocationsErr == nil {
		h.driftOnce.Do(func() {
			if drift := h.renderer.Tables().Validate(snap.Catalog); len(drift) > 0 {
				h.logger.Warn("presentation tables reference unknown records", zap.Strings("entries", drift))
			}
		})
	}
	return snap
}

// favorites returns the visitor's store and current set. Backend failures read as empty.
func (h *handlers) favorites(w http.ResponseWriter, r *http.Request) (*favorites.Store, favorites.Set) {
	store := favorites.NewStore(h.favs.KV(w, r))
	set, err := store.Get(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("favorites unavailable", zap.Error(err))
		return store, favorites.NewSet()
	}
	return store, set
}

func (h *handlers) layout(r *http.Request, title string, count int, body template.HTML) render.Layout {
	return render.Layout{
		Title:          title,
		Path:           r.URL.Path,
		CSRFToken:      custommw.CSRFTokenFromContext(r.Context()),
		FavoritesCount: count,
		LazyMargin:     h.lazy.RootMargin(),
		EagerURL:       lazyload.EagerURL(r.URL),
		Body:           body,
	}
}

// retryURL posts back to the failed collection and returns to the current page.
func retryURL(r *http.Request, collection string) string {
	return "/retry/" + collection + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
}

func (h *handlers) loadFailed(r *http.Request, kind render.Kind, collection string) (template.HTML, error) {
	return h.renderer.LoadFailed(kind, retryURL(r, collection), custommw.CSRFTokenFromContext(r.Context()))
}

// serve writes component with status, inlining deferred images when the request asks for eager mode.
func (h *handlers) serve(w http.ResponseWriter, r *http.Request, status int, comp templ.Component) {
	if mode := h.lazy.Mode(r); mode == lazyload.ModeEager {
		inner := comp
		comp = templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
			var buf bytes.Buffer
			if err := inner.Render(ctx, &buf); err != nil {
				return err
			}
			rewritten, err := h.lazy.Rewrite(buf.Bytes(), mode)
			if err != nil {
				return err
			}
			_, err = out.Write(rewritten)
			return err
		})
	}
	templ.Handler(comp,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h.renderError(w, r, err)
			})
		}),
	).ServeHTTP(w, r)
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request, status int, l render.Layout) {
	h.serve(w, r, status, h.renderer.Page(l))
}

func (h *handlers) fragment(w http.ResponseWriter, r *http.Request, status int, parts ...template.HTML) {
	h.serve(w, r, status, render.Fragment(parts...))
}

func (h *handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("render failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Home renders the shows and locations regions independently; either may fail alone.
func (h *handlers) Home(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r.Context())
	_, favs := h.favorites(w, r)

	var shows, locations template.HTML
	var err error
	if snap.ShowsErr != nil {
		shows, err = h.regionState(homeShowsRegion, "shows-grid", func() (template.HTML, error) {
			return h.loadFailed(r, render.KindShow, "shows")
		})
	} else {
		shows, err = h.renderer.ShowGrid(homeShowsRegion, snap.Catalog.Shows)
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if snap.LocationsErr != nil {
		locations, err = h.regionState(homeLocationsRegion, "locations-grid", func() (template.HTML, error) {
			return h.loadFailed(r, render.KindLocation, "locations")
		})
	} else {
		locations, err = h.renderer.LocationGrid(homeLocationsRegion, snap.Catalog.Locations, resolverFor(snap), favs)
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	body, err := h.renderer.Home(render.HomeView{
		ShowCount:     len(snap.Catalog.Shows),
		LocationCount: len(snap.Catalog.Locations),
		Shows:         shows,
		Locations:     locations,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, http.StatusOK, h.layout(r, "", favs.Len(), body))
}

func (h *handlers) regionState(id, class string, state func() (template.HTML, error)) (template.HTML, error) {
	inner, err := state()
	if err != nil {
		return "", err
	}
	return h.renderer.Region(id, class, inner)
}

// Retry clears a failed collection so the next request loads it again.
func (h *handlers) Retry(w http.ResponseWriter, r *http.Request) {
	var name string
	switch collectionParam(r) {
	case "shows":
		name = datastore.ShowsFile
	case "locations":
		name = datastore.LocationsFile
	default:
		h.NotFoundPage(w, r)
		return
	}
	h.store.Reset(name)
	observability.FromContext(r.Context()).Info("collection reset for retry", zap.String("collection", name))
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}

// NotFoundPage answers unknown routes with the site shell.
func (h *handlers) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	_, favs := h.favorites(w, r)
	body, err := h.renderer.NotFound("", "")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.page(w, r, http.StatusNotFound, h.layout(r, "Not found", favs.Len(), body))
}

// Health reports liveness plus the state of each collection.
func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":    "ok",
		"shows":     h.store.State(datastore.ShowsFile).String(),
		"locations": h.store.State(datastore.LocationsFile).String(),
	})
}
