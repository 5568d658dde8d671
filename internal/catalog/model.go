package catalog

// Status describes whether a show is still airing.
type Status string

const (
	// StatusActive marks a show that is currently airing.
	StatusActive Status = "active"
	// StatusEnded marks a show that has finished its run.
	StatusEnded Status = "ended"
)

// Show is a reality programme record as published in shows.json.
type Show struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Network         string   `json:"network"`
	Seasons         int      `json:"seasons"`
	Status          Status   `json:"status"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Tagline         string   `json:"tagline,omitempty"`
	ViewerRating    float64  `json:"viewerRating"`
	YearStarted     int      `json:"yearStarted"`
	BestSeasons     []int    `json:"bestSeasons"`
	TravelTips      []string `json:"travelTips"`
	FAQs            []FAQ    `json:"faqs"`
	Destinations    []string `json:"destinations"`
}

// FAQ is a single question and markdown answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Location is a filming location record as published in locations.json.
type Location struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	City              string            `json:"city"`
	Country           string            `json:"country"`
	Region            string            `json:"region"`
	Category          string            `json:"category"`
	Address           string            `json:"address"`
	Description       string            `json:"description,omitempty"`
	Tagline           string            `json:"tagline,omitempty"`
	Image             string            `json:"image,omitempty"`
	PriceRange        *PriceRange       `json:"priceRange,omitempty"`
	Bookable          bool              `json:"bookable"`
	BookingURL        string            `json:"bookingUrl"`
	BookingPlatform   string            `json:"bookingPlatform"`
	Amenities         []string          `json:"amenities"`
	Highlights        []string          `json:"highlights"`
	Shows             []string          `json:"shows"`
	FeaturedSeasons   []FeaturedSeasons `json:"featuredSeasons"`
	Coordinates       Coordinates       `json:"coordinates"`
	BestTimeToVisit   string            `json:"bestTimeToVisit"`
	NearbyAttractions []Attraction      `json:"nearbyAttractions"`
	Videos            []Video           `json:"videos"`
	FAQs              []FAQ             `json:"faqs"`
}

// PriceRange is the nightly (or per-unit) price band of a location.
type PriceRange struct {
	Min      float64  `json:"min"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
	Unit     string   `json:"unit"`
}

// FeaturedSeasons lists the seasons of one show filmed at a location.
type FeaturedSeasons struct {
	Show    string `json:"show"`
	Seasons []int  `json:"seasons"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Attraction is a point of interest near a location.
type Attraction struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Distance string `json:"distance"`
}

type Video struct {
	URL   string `json:"url"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// HasShow reports whether the location lists the show id.
func (l Location) HasShow(showID string) bool {
	for _, id := range l.Shows {
		if id == showID {
			return true
		}
	}
	return false
}

// MinPrice returns priceRange.min, or 0 when the location has no price.
func (l Location) MinPrice() float64 {
	if l.PriceRange == nil {
		return 0
	}
	return l.PriceRange.Min
}
