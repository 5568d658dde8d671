package render

import (
	"html/template"
	"net/url"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/format"
	"github.com/fantravel1/realitytvtravel/internal/presentation"
)

// ShowHref is the detail URL of a show.
func ShowHref(id string) string {
	return "/show?" + url.Values{"id": {id}}.Encode()
}

// LocationHref is the detail URL of a location.
func LocationHref(id string) string {
	return "/location?" + url.Values{"id": {id}}.Encode()
}

type showCardView struct {
	ID          string
	Href        string
	Name        string
	Network     string
	Emoji       string
	Scheme      presentation.Scheme
	Badges      []string
	Meta        string
	Description string
	Stars       string
}

type locationCardView struct {
	ID          string
	Href        string
	Name        string
	City        string
	Country     string
	Category    string
	Region      string
	Emoji       string
	Image       string
	Scheme      presentation.Scheme
	Badges      []string
	Bookable    bool
	ShowNames   []string
	Price       string
	PriceUnit   string
	Description string
	Highlights  []string
	Favorite    favoriteButtonView
}

type favoriteButtonView struct {
	ID     string
	Active bool
	Label  string
}

func (r *Renderer) showCardView(s catalog.Show) showCardView {
	return showCardView{
		ID:          s.ID,
		Href:        ShowHref(s.ID),
		Name:        s.Name,
		Network:     s.Network,
		Emoji:       r.tables.ShowEmoji(s.ID),
		Scheme:      r.tables.NetworkScheme(s.Network),
		Badges:      r.tables.ShowBadges(s.ID),
		Meta:        format.Count(s.Seasons, "Season") + " • " + format.Count(len(s.Destinations), "Location"),
		Description: format.Truncate(s.Description, r.opts.TruncateChars),
		Stars:       format.Stars(s.ViewerRating),
	}
}

func (r *Renderer) locationCardView(l catalog.Location, res *catalog.Resolver, favs FavoriteSet) locationCardView {
	names := res.ShowNames(l)
	if len(names) > r.opts.MaxCardShows {
		names = names[:r.opts.MaxCardShows]
	}
	highlights := l.Highlights
	if len(highlights) > r.opts.MaxHighlights {
		highlights = highlights[:r.opts.MaxHighlights]
	}
	description := l.Description
	if description == "" {
		description = l.Tagline
	}
	var unit string
	if l.PriceRange != nil {
		unit = l.PriceRange.Unit
	}
	return locationCardView{
		ID:          l.ID,
		Href:        LocationHref(l.ID),
		Name:        l.Name,
		City:        l.City,
		Country:     l.Country,
		Category:    l.Category,
		Region:      l.Region,
		Emoji:       r.tables.LocationEmoji(l.ID),
		Image:       l.Image,
		Scheme:      r.tables.CategoryScheme(l.Category),
		Badges:      r.tables.LocationBadges(l.ID),
		Bookable:    l.Bookable,
		ShowNames:   names,
		Price:       format.PriceAmount(l.PriceRange),
		PriceUnit:   unit,
		Description: format.Truncate(description, r.opts.TruncateChars),
		Highlights:  highlights,
		Favorite:    favoriteButton(l.ID, favoritesOrEmpty(favs).Has(l.ID)),
	}
}

func favoriteButton(id string, active bool) favoriteButtonView {
	label := "Add to favorites"
	if active {
		label = "Remove from favorites"
	}
	return favoriteButtonView{ID: id, Active: active, Label: label}
}

// ShowCard renders one show card.
func (r *Renderer) ShowCard(s catalog.Show) (template.HTML, error) {
	return r.execute("show_card", r.showCardView(s))
}

// LocationCard renders one location card. Show names come from the resolver
// and the favorite toggle reflects favs.
func (r *Renderer) LocationCard(l catalog.Location, res *catalog.Resolver, favs FavoriteSet) (template.HTML, error) {
	return r.execute("location_card", r.locationCardView(l, res, favs))
}

// FavoriteButton renders the toggle alone, for htmx swaps.
func (r *Renderer) FavoriteButton(id string, active bool) (template.HTML, error) {
	return r.execute("favorite_button", favoriteButton(id, active))
}

type gridView struct {
	ID    string
	Class string
	Cards []any
	Kind  string
}

// ShowGrid renders a grid of show cards.
func (r *Renderer) ShowGrid(id string, shows []catalog.Show) (template.HTML, error) {
	cards := make([]any, 0, len(shows))
	for _, s := range shows {
		cards = append(cards, r.showCardView(s))
	}
	return r.execute("grid", gridView{ID: id, Class: "shows-grid", Cards: cards, Kind: "show"})
}

// LocationGrid renders a grid of location cards.
func (r *Renderer) LocationGrid(id string, locs []catalog.Location, res *catalog.Resolver, favs FavoriteSet) (template.HTML, error) {
	cards := make([]any, 0, len(locs))
	for _, l := range locs {
		cards = append(cards, r.locationCardView(l, res, favs))
	}
	return r.execute("grid", gridView{ID: id, Class: "locations-grid", Cards: cards, Kind: "location"})
}

type regionView struct {
	ID    string
	Class string
	Inner template.HTML
}

// Region wraps a state message in the element a grid would occupy, so htmx
// swaps keep their target.
func (r *Renderer) Region(id, class string, inner template.HTML) (template.HTML, error) {
	return r.execute("region", regionView{ID: id, Class: class, Inner: inner})
}
