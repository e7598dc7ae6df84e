package handlers

import (
	"net/url"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/listing"
	"finitefield.org/storefront-web/internal/slider"
	"finitefield.org/storefront-web/internal/taxonomy"
)

// Section is one preview row on the home page.
type Section struct {
	ID       string
	TitleKey string
	Href     string
	Cards    []ProductCard
	EmptyKey string
}

// CategoryTile links to a filtered shop listing.
type CategoryTile struct {
	ID    string
	Label string
	Href  string
}

// HomeData is the view model for the home page.
type HomeData struct {
	Slider     SliderView
	Categories []CategoryTile
	Sections   []Section
	Error      string
	RetryURL   string
}

// HomeInput collects what BuildHomeData needs.
type HomeInput struct {
	Products   []catalog.Product
	Err        string
	Slides     []slider.Slide
	Table      *taxonomy.Table
	Money      Money
	Membership Membership
}

// BuildHomeData lays out the slider, category tiles and preview sections. Each
// preview is cut to listing.PreviewSize after the full filter and sort.
func BuildHomeData(in HomeInput) HomeData {
	data := HomeData{
		Slider:     BuildSliderView(in.Slides, slider.NewCarousel().Loaded(len(in.Slides))),
		Categories: categoryTiles(in.Table),
		Error:      in.Err,
	}
	if in.Err != "" {
		data.RetryURL = "/?" + RefreshParam + "=1"
		return data
	}

	preview := func(products []catalog.Product) []ProductCard {
		return Cards(listing.Preview(products, listing.PreviewSize), in.Money, in.Membership)
	}
	byCategory := func(id string) []catalog.Product {
		state := listing.DefaultState()
		state.Category = id
		return listing.Apply(in.Products, state, in.Table)
	}

	data.Sections = []Section{
		{
			ID:       "trending",
			TitleKey: "home.trending",
			Href:     shopURL(url.Values{listing.ParamSort: {string(listing.SortPopular)}}),
			Cards:    preview(listing.Sort(in.Products, listing.SortPopular)),
			EmptyKey: "listing.empty",
		},
		{
			ID:       "top",
			TitleKey: "home.top",
			Href:     shopURL(url.Values{listing.ParamSort: {string(listing.SortRating)}}),
			Cards:    preview(listing.Sort(in.Products, listing.SortRating)),
			EmptyKey: "listing.empty",
		},
		{
			ID:       "beauty",
			TitleKey: "home.beauty",
			Href:     shopURL(url.Values{listing.ParamCategory: {"beauty"}}),
			Cards:    preview(byCategory("beauty")),
			EmptyKey: "listing.empty",
		},
		{
			ID:       "fashion",
			TitleKey: "home.fashion",
			Href:     shopURL(url.Values{listing.ParamCategory: {"fashion"}}),
			Cards:    preview(byCategory("fashion")),
			EmptyKey: "listing.empty",
		},
		{
			ID:       "offers",
			TitleKey: "home.offers",
			Href:     "/offers",
			Cards:    preview(listing.Discounted(in.Products)),
			EmptyKey: "offers.empty",
		},
	}
	return data
}

func categoryTiles(table *taxonomy.Table) []CategoryTile {
	if table == nil {
		return nil
	}
	opts := table.Options(taxonomy.GroupCategory)
	tiles := make([]CategoryTile, 0, len(opts))
	for _, o := range opts {
		tiles = append(tiles, CategoryTile{
			ID:    o.ID,
			Label: o.Label,
			Href:  shopURL(url.Values{listing.ParamCategory: {o.ID}}),
		})
	}
	return tiles
}

func shopURL(q url.Values) string {
	if len(q) == 0 {
		return "/shop"
	}
	return "/shop?" + q.Encode()
}
