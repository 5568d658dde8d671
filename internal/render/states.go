package render

import (
	"html/template"
	"strings"
)

// Kind names the record type a state message refers to.
type Kind string

const (
	KindShow     Kind = "show"
	KindLocation Kind = "location"
)

func (k Kind) plural() string { return string(k) + "s" }

func (k Kind) title() string {
	if k == "" {
		return "Item"
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

type notFoundView struct {
	Title   string
	ID      string
	BackURL string
	BackTo  string
}

type loadFailedView struct {
	Message   string
	RetryURL  string
	CSRFToken string
}

type noResultsView struct {
	Query string
}

// NotFound renders the state for an id that does not resolve in loaded data.
// An empty kind is the generic page-not-found state.
func (r *Renderer) NotFound(kind Kind, id string) (template.HTML, error) {
	if kind == "" {
		return r.execute("state_not_found", notFoundView{Title: "Page not found.", BackURL: "/", BackTo: "Home"})
	}
	return r.execute("state_not_found", notFoundView{
		Title:   kind.title() + " not found.",
		ID:      id,
		BackURL: "/" + kind.plural(),
		BackTo:  "All " + kind.title() + "s",
	})
}

// LoadFailed renders the state for a collection whose load failed, with a retry form.
func (r *Renderer) LoadFailed(kind Kind, retryURL, csrfToken string) (template.HTML, error) {
	return r.execute("state_load_failed", loadFailedView{
		Message:   "Unable to load " + kind.plural() + ".",
		RetryURL:  retryURL,
		CSRFToken: csrfToken,
	})
}

// NoResults renders the empty search state echoing the active query.
func (r *Renderer) NoResults(query string) (template.HTML, error) {
	return r.execute("state_no_results", noResultsView{Query: strings.TrimSpace(query)})
}

// toastDismissAfter is how long a toast stays visible, in milliseconds.
const toastDismissAfter = 4000

type toastView struct {
	Message      string
	DismissAfter int
}

type badgeView struct {
	Count int
	OOB   bool
}

// Toast renders a transient notification swapped out-of-band into the toast region.
func (r *Renderer) Toast(message string) (template.HTML, error) {
	return r.execute("toast", toastView{Message: message, DismissAfter: toastDismissAfter})
}

// FavoritesBadge renders the header count. oob marks it for an htmx out-of-band swap.
func (r *Renderer) FavoritesBadge(count int, oob bool) (template.HTML, error) {
	return r.execute("favorites_badge", badgeView{Count: count, OOB: oob})
}
