package handlers

import (
	"finitefield.org/storefront-web/internal/nav"
	"finitefield.org/storefront-web/internal/site"
)

// PageData is the view model every full page renders through the shared layout.
type PageData struct {
	Title     string
	Lang      string
	Languages []string
	SEO       SEOData
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	Site          site.Profile
	CSRFToken     string
	Authenticated bool
	CartCount     int
	WishlistCount int
	AssetVersion  string

	// Page is the per-route view model (HomeData, ShopData, ...).
	Page any
}

// SEOData is the subset of head metadata the layout renders.
type SEOData struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	Image       string
}

// Layout carries the request-scoped values shared by every page.
type Layout struct {
	Lang          string
	Languages     []string
	Path          string
	Site          site.Profile
	Analytics     Analytics
	CSRFToken     string
	Authenticated bool
	CartCount     int
	WishlistCount int
	AssetVersion  string
}

// NewPage assembles the layout fields for a page. leaf relabels the last breadcrumb.
func NewPage(l Layout, title, description, leaf string, page any) PageData {
	company := l.Site.CompanyName
	fullTitle := company
	if title != "" && title != company {
		fullTitle = title + " | " + company
	}
	return PageData{
		Title:     title,
		Lang:      l.Lang,
		Languages: l.Languages,
		SEO: SEOData{
			Title:       fullTitle,
			Description: description,
			Canonical:   l.Path,
		},
		Analytics:     l.Analytics,
		Path:          l.Path,
		Nav:           nav.Build(l.Path),
		Breadcrumbs:   nav.Breadcrumbs(l.Path, leaf),
		Site:          l.Site,
		CSRFToken:     l.CSRFToken,
		Authenticated: l.Authenticated,
		CartCount:     l.CartCount,
		WishlistCount: l.WishlistCount,
		AssetVersion:  l.AssetVersion,
		Page:          page,
	}
}
