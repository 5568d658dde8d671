package render

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/fantravel1/realitytvtravel/internal/format"
	"github.com/fantravel1/realitytvtravel/internal/nav"
)

// Layout carries the per-request values of the page shell.
type Layout struct {
	Title          string
	Path           string
	CSRFToken      string
	FavoritesCount int
	LazyMargin     string
	EagerURL       string
	Body           template.HTML
}

type pageView struct {
	Layout
	Nav   []nav.RenderedItem
	Badge badgeView
}

// Page wraps a body fragment in the site shell.
func (r *Renderer) Page(l Layout) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if l.Title == "" {
			l.Title = "RealityTVTravel"
		} else {
			l.Title += " | RealityTVTravel"
		}
		return r.tmpl.ExecuteTemplate(w, "base", pageView{Layout: l, Nav: nav.Build(l.Path), Badge: badgeView{Count: l.FavoritesCount}})
	})
}

// Fragment serves pre-rendered markup as a component.
func Fragment(parts ...template.HTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, p := range parts {
			if _, err := io.WriteString(w, string(p)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Option is one choice in a filter or sort control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// HomeView is the landing page: headline counts plus the two grid regions.
type HomeView struct {
	ShowCount     int
	LocationCount int
	Shows         template.HTML
	Locations     template.HTML
}

type homeView struct {
	HomeView
	ShowTotal     string
	LocationTotal string
}

// Home renders the landing page body.
func (r *Renderer) Home(v HomeView) (template.HTML, error) {
	return r.execute("home", homeView{
		HomeView:      v,
		ShowTotal:     format.Number(v.ShowCount),
		LocationTotal: format.Number(v.LocationCount),
	})
}

// ListingView describes a listing page with its filter form and grid region.
type ListingView struct {
	Kind       Kind
	Heading    string
	Intro      string
	Action     string
	GridURL    string
	GridID     string
	Query      string
	Categories []Option
	Regions    []Option
	Sorts      []Option
	Grid       template.HTML
}

// Listing renders a listing page body.
func (r *Renderer) Listing(v ListingView) (template.HTML, error) {
	return r.execute("listing", v)
}

// FavoritesView is the saved locations page.
type FavoritesView struct {
	Count int
	Grid  template.HTML
}

func (r *Renderer) Favorites(v FavoritesView) (template.HTML, error) {
	return r.execute("favorites", v)
}
