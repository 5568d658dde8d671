package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
	"github.com/fantravel1/realitytvtravel/internal/format"
	"github.com/fantravel1/realitytvtravel/internal/nav"
	"github.com/fantravel1/realitytvtravel/internal/presentation"
)

const emptyLocationsMessage = "No bookable locations available yet"

type faqView struct {
	Question string
	Answer   template.HTML
}

type showDetailView struct {
	Crumbs          []nav.Crumb
	ID              string
	Name            string
	Network         string
	Tagline         string
	Emoji           string
	Scheme          presentation.Scheme
	Badges          []string
	SeasonsLabel    string
	LocationsLabel  string
	YearStarted     int
	Stars           string
	Rating          string
	Status          string
	StatusClass     string
	Description     string
	LongDescription template.HTML
	BestSeasons     string
	TravelTips      []string
	Locations       []locationCardView
	LocationsFailed template.HTML
	EmptyLocations  string
	Similar         []showCardView
	FAQs            []faqView
}

type amenityView struct {
	Emoji string
	Label string
}

type featuredView struct {
	ShowName string
	ShowHref string
	Seasons  string
}

type videoView struct {
	Title     string
	URL       string
	VideoID   string
	Thumbnail string
}

type bookingView struct {
	URL      string
	Label    string
	External bool
}

type locationDetailView struct {
	Crumbs          []nav.Crumb
	ID              string
	Name            string
	Emoji           string
	Image           string
	Scheme          presentation.Scheme
	Badges          []string
	City            string
	Country         string
	Region          string
	Category        string
	Address         string
	Tagline         string
	Description     template.HTML
	ShowNames       []string
	Stars           string
	Rating          string
	Price           string
	PriceUnit       string
	Booking         *bookingView
	Favorite        favoriteButtonView
	Amenities       []amenityView
	Highlights      []string
	FeaturedSeasons []featuredView
	Shows           []showCardView
	ShowsFailed     template.HTML
	Nearby          []catalog.Attraction
	BestTimeToVisit string
	Videos          []videoView
	MapURL          string
	Similar         []locationCardView
	SimilarFailed   template.HTML
	FAQs            []faqView
}

func (r *Renderer) faqs(in []catalog.FAQ) []faqView {
	out := make([]faqView, 0, len(in))
	for _, f := range in {
		out = append(out, faqView{Question: f.Question, Answer: r.rich.HTML(f.Answer)})
	}
	return out
}

// Unavailable carries load-failure markup for detail sections whose source
// collection did not load. An empty field means that collection loaded.
type Unavailable struct {
	Shows     template.HTML
	Locations template.HTML
}

func statusLabel(s catalog.Status) (string, string) {
	if s == catalog.StatusActive {
		return "Currently Airing", "status-active"
	}
	return "Completed", "status-ended"
}

// ShowDetail renders the full show page body. Related locations come from the
// catalog; a show with none gets an explicit message instead of an empty grid,
// while a failed locations load shows down.Locations in that section.
func (r *Renderer) ShowDetail(s catalog.Show, cat *catalog.Catalog, favs FavoriteSet, down Unavailable) (template.HTML, error) {
	res := catalog.NewResolver(cat)
	status, statusClass := statusLabel(s.Status)

	view := showDetailView{
		Crumbs:          nav.Breadcrumbs("/show", s.Name),
		ID:              s.ID,
		Name:            s.Name,
		Network:         s.Network,
		Tagline:         s.Tagline,
		Emoji:           r.tables.ShowEmoji(s.ID),
		Scheme:          r.tables.NetworkScheme(s.Network),
		Badges:          r.tables.ShowBadges(s.ID),
		SeasonsLabel:    format.Count(s.Seasons, "Season"),
		LocationsLabel:  format.Count(len(s.Destinations), "Location"),
		YearStarted:     s.YearStarted,
		Stars:           format.Stars(s.ViewerRating),
		Rating:          format.Rating(s.ViewerRating),
		Status:          status,
		StatusClass:     statusClass,
		Description:     s.Description,
		LongDescription: r.rich.HTML(s.LongDescription),
		BestSeasons:     format.Seasons(s.BestSeasons),
		TravelTips:      s.TravelTips,
		FAQs:            r.faqs(s.FAQs),
	}
	if view.LongDescription == "" {
		view.LongDescription = r.rich.HTML(s.Description)
	}
	if down.Locations != "" {
		view.LocationsFailed = down.Locations
	} else {
		for _, l := range res.LocationsForShow(s.ID) {
			view.Locations = append(view.Locations, r.locationCardView(l, res, favs))
		}
		if len(view.Locations) == 0 {
			view.EmptyLocations = emptyLocationsMessage
		}
	}
	for _, other := range SimilarShows(s, cat.Shows, r.opts.SimilarCount) {
		view.Similar = append(view.Similar, r.showCardView(other))
	}
	return r.execute("show_detail", view)
}

// LocationDetail renders the full location page body. Sections backed by a
// collection named in down show its failure markup instead of their cards.
func (r *Renderer) LocationDetail(l catalog.Location, cat *catalog.Catalog, favs FavoriteSet, down Unavailable) (template.HTML, error) {
	res := catalog.NewResolver(cat)
	favs = favoritesOrEmpty(favs)

	description := l.Description
	if description == "" {
		description = l.Tagline
	}
	var unit string
	if l.PriceRange != nil {
		unit = l.PriceRange.Unit
	}
	rating := res.ShowRating(l)

	view := locationDetailView{
		Crumbs:          nav.Breadcrumbs("/location", l.Name),
		ID:              l.ID,
		Name:            l.Name,
		Emoji:           r.tables.LocationEmoji(l.ID),
		Image:           l.Image,
		Scheme:          r.tables.CategoryScheme(l.Category),
		Badges:          r.tables.LocationBadges(l.ID),
		City:            l.City,
		Country:         l.Country,
		Region:          l.Region,
		Category:        format.TitleFromSlug(l.Category),
		Address:         l.Address,
		Tagline:         l.Tagline,
		Description:     r.rich.HTML(description),
		ShowNames:       res.ShowNames(l),
		Stars:           format.Stars(rating),
		Price:           format.PriceAmount(l.PriceRange),
		PriceUnit:       unit,
		Booking:         booking(l),
		Favorite:        favoriteButton(l.ID, favs.Has(l.ID)),
		Highlights:      l.Highlights,
		Nearby:          l.NearbyAttractions,
		BestTimeToVisit: l.BestTimeToVisit,
		MapURL:          mapURL(l.Coordinates),
		FAQs:            r.faqs(l.FAQs),
	}
	if rating > 0 {
		view.Rating = format.Rating(rating)
	}
	for _, a := range l.Amenities {
		view.Amenities = append(view.Amenities, amenityView{Emoji: r.tables.AmenityEmoji(a), Label: format.TitleFromSlug(a)})
	}
	for _, fs := range l.FeaturedSeasons {
		fv := featuredView{ShowName: res.ResolveShowName(fs.Show), Seasons: format.Seasons(fs.Seasons)}
		if _, ok := cat.ShowByID(fs.Show); ok {
			fv.ShowHref = ShowHref(fs.Show)
		}
		view.FeaturedSeasons = append(view.FeaturedSeasons, fv)
	}
	if down.Shows != "" {
		view.ShowsFailed = down.Shows
	} else {
		for _, s := range res.ShowsFeaturingLocation(l.ID) {
			view.Shows = append(view.Shows, r.showCardView(s))
		}
	}
	for _, v := range l.Videos {
		view.Videos = append(view.Videos, videoFor(v))
	}
	if down.Locations != "" {
		view.SimilarFailed = down.Locations
	} else {
		for _, other := range SimilarLocations(l, cat.Locations, r.opts.SimilarCount) {
			view.Similar = append(view.Similar, r.locationCardView(other, res, favs))
		}
	}
	return r.execute("location_detail", view)
}

// booking is nil unless the location is bookable. Without a URL the button stays on-page.
func booking(l catalog.Location) *bookingView {
	if !l.Bookable {
		return nil
	}
	b := &bookingView{URL: "#", Label: "Book Now"}
	if u := strings.TrimSpace(l.BookingURL); u != "" {
		b.URL = u
		b.External = true
	}
	if l.BookingPlatform != "" {
		b.Label = "Book Now on " + l.BookingPlatform
	}
	return b
}

func mapURL(c catalog.Coordinates) string {
	if c.Lat == 0 && c.Lng == 0 {
		return ""
	}
	q := url.Values{"api": {"1"}, "query": {fmt.Sprintf("%g,%g", c.Lat, c.Lng)}}
	return "https://www.google.com/maps/search/?" + q.Encode()
}

func videoFor(v catalog.Video) videoView {
	view := videoView{Title: v.Title, URL: v.URL}
	if id := youTubeID(v.URL); id != "" {
		view.VideoID = id
		view.Thumbnail = "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
	}
	if view.Title == "" {
		view.Title = "Watch video"
	}
	return view
}

func youTubeID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				return strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
			}
		}
	}
	return ""
}
