package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksActiveSection(t *testing.T) {
	t.Parallel()

	items := Build("/shop/results")
	active := map[string]bool{}
	for _, it := range items {
		active[it.Href] = it.Active
	}
	require.True(t, active["/shop"])
	require.False(t, active["/"])
	require.False(t, active["/offers"])

	require.True(t, Build("")[0].Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Crumb{{Href: "/", LabelKey: "nav.home", Active: true}}, Breadcrumbs("/", ""))

	crumbs := Breadcrumbs("/products/abc-123", "Rose Serum")
	require.Equal(t, []Crumb{
		{Href: "/", LabelKey: "nav.home"},
		{Href: "/shop", LabelKey: "nav.shop", Label: "Products"},
		{Href: "/products/abc-123", Label: "Rose Serum", Active: true},
	}, crumbs)

	crumbs = Breadcrumbs("/offers", "")
	require.Equal(t, "nav.offers", crumbs[1].LabelKey)
	require.True(t, crumbs[1].Active)
}
