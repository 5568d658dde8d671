package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksSection(t *testing.T) {
	t.Parallel()

	items := Build("/show")
	active := []string{}
	for _, it := range items {
		if it.Active {
			active = append(active, it.Href)
		}
	}
	require.Equal(t, []string{"/shows"}, active)

	require.True(t, Build("")[0].Active)
	require.False(t, Build("/locations")[0].Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	crumbs := Breadcrumbs("/show", "The Bachelor")
	require.Equal(t, []Crumb{
		{Href: "/", Label: "Home"},
		{Href: "/shows", Label: "Shows"},
		{Label: "The Bachelor", Active: true},
	}, crumbs)

	require.Equal(t, []Crumb{{Href: "/", Label: "Home", Active: true}}, Breadcrumbs("/", ""))

	crumbs = Breadcrumbs("/travel-tips", "")
	require.Equal(t, "Travel tips", crumbs[1].Label)
	require.True(t, crumbs[1].Active)
}
