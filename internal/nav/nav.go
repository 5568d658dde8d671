package nav

import (
	"path"
	"strings"
)

// Item is a top-level navigation entry.
type Item struct {
	Path  string
	Label string
}

// RenderedItem is the template view of an Item.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb is one breadcrumb entry. The last crumb is marked Active and rendered without a link.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation.
var Main = []Item{
	{Path: "/", Label: "Home"},
	{Path: "/shows", Label: "Shows"},
	{Path: "/locations", Label: "Locations"},
	{Path: "/favorites", Label: "Favorites"},
}

// detail pages belong to the listing section they were opened from.
var detailSections = map[string]string{
	"/show":     "/shows",
	"/location": "/locations",
}

func section(currentPath string) string {
	if currentPath == "" {
		return "/"
	}
	clean := path.Clean(currentPath)
	if s, ok := detailSections[clean]; ok {
		return s
	}
	return clean
}

// Build renders the navigation with the current section marked active.
func Build(currentPath string) []RenderedItem {
	current := section(currentPath)
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, current),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds Home › Section › title. An empty title stops at the section.
func Breadcrumbs(currentPath, title string) []Crumb {
	crumbs := []Crumb{{Href: "/", Label: "Home"}}
	current := section(currentPath)
	if current != "/" {
		label := titleFromSegment(strings.TrimPrefix(current, "/"))
		for _, it := range Main {
			if it.Path == current {
				label = it.Label
				break
			}
		}
		crumbs = append(crumbs, Crumb{Href: current, Label: label})
	}
	if title = strings.TrimSpace(title); title != "" {
		crumbs = append(crumbs, Crumb{Label: title})
	}
	crumbs[len(crumbs)-1].Active = true
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
