package handlers

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/listing"
	"finitefield.org/storefront-web/internal/slider"
	"finitefield.org/storefront-web/internal/store"
	"finitefield.org/storefront-web/internal/taxonomy"
)

var inr = Money{Currency: "INR", Lang: "en"}

func sampleProducts() []catalog.Product {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []catalog.Product{
		{ID: "lip", Name: "Matte Lipstick", Category: "Makeup", Price: 500, Discount: 10, Stock: 3, Rating: 4.5, ReviewCount: 40, CreatedAt: base},
		{ID: "kurta", Name: "Cotton Kurta", Category: "Fashion", Price: 1200, Stock: 10, Rating: 4.1, ReviewCount: 90, CreatedAt: base.Add(time.Hour)},
		{ID: "serum", Name: "Vitamin C Serum", Category: "Skincare", Tags: []string{"brightening"}, Price: 800, Discount: 25, Stock: 0, Rating: 4.8, ReviewCount: 12, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "shampoo", Name: "Anti Dandruff Shampoo", Category: "Haircare", Price: 300, Stock: 8, Rating: 3.9, ReviewCount: 5, CreatedAt: base.Add(3 * time.Hour)},
	}
}

type fakeMembership map[string]bool

func (f fakeMembership) IsInCart(id string) bool     { return f["cart:"+id] }
func (f fakeMembership) IsWishlisted(id string) bool { return f["wish:"+id] }

func TestCardFormatsPricesAndMembership(t *testing.T) {
	t.Parallel()

	card := Card(sampleProducts()[0], inr, fakeMembership{"wish:lip": true})
	require.Equal(t, "₹500", card.Price)
	require.Equal(t, "₹450", card.FinalPrice)
	require.Equal(t, "10%", card.Discount)
	require.True(t, card.Wishlisted)
	require.False(t, card.InCart)
	require.Len(t, card.Stars.Full, 4)
	require.True(t, card.Stars.Half)
	require.Empty(t, card.Stars.Empty)
}

func TestBuildHomeDataEmptyCatalog(t *testing.T) {
	t.Parallel()

	data := BuildHomeData(HomeInput{Table: taxonomy.Default(), Money: inr})
	require.Empty(t, data.Error)
	require.Len(t, data.Sections, 5)
	for _, s := range data.Sections {
		require.Empty(t, s.Cards, s.ID)
		require.NotEmpty(t, s.EmptyKey, s.ID)
	}
	require.True(t, data.Slider.Empty)
	require.NotEmpty(t, data.Categories)
}

func TestBuildHomeDataPreviewsAreCapped(t *testing.T) {
	t.Parallel()

	data := BuildHomeData(HomeInput{Products: sampleProducts(), Table: taxonomy.Default(), Money: inr})
	byID := map[string]Section{}
	for _, s := range data.Sections {
		require.LessOrEqual(t, len(s.Cards), listing.PreviewSize)
		byID[s.ID] = s
	}
	require.Equal(t, "kurta", byID["trending"].Cards[0].ID)
	require.Equal(t, "serum", byID["top"].Cards[0].ID)
	require.Equal(t, []string{"serum", "lip"}, cardIDs(byID["offers"].Cards))
	require.Equal(t, []string{"kurta"}, cardIDs(byID["fashion"].Cards))
}

func TestBuildHomeDataError(t *testing.T) {
	t.Parallel()

	data := BuildHomeData(HomeInput{Err: "The store is unreachable", Table: taxonomy.Default()})
	require.Equal(t, "The store is unreachable", data.Error)
	require.Equal(t, "/?refresh=1", data.RetryURL)
	require.Empty(t, data.Sections)
}

func TestBuildOffersDataWithoutDiscounts(t *testing.T) {
	t.Parallel()

	products := []catalog.Product{{ID: "a", Price: 100}, {ID: "b", Price: 200}}
	data := BuildOffersData(products, "", inr, nil)
	require.Empty(t, data.Cards)
	require.Equal(t, "offers.empty", data.EmptyKey)
}

func TestBuildShopDataPaginates(t *testing.T) {
	t.Parallel()

	state := listing.DefaultState()
	state.Sort = listing.SortPriceLow
	state.Page = 2
	data := BuildShopData(ShopInput{
		Products: sampleProducts(),
		State:    state,
		Table:    taxonomy.Default(),
		PerPage:  3,
		Money:    inr,
	})

	require.Equal(t, []string{"kurta"}, cardIDs(data.Results.Cards))
	require.Equal(t, 2, data.Results.Pager.TotalPages)
	require.Equal(t, "/shop?sort=price-low", data.Results.Pager.PrevURL)
	require.Empty(t, data.Results.Pager.NextURL)
	require.Len(t, data.Results.Pager.Links, 2)
	require.True(t, data.Results.Pager.Links[1].Current)
	require.Equal(t, "/shop?page=2&sort=price-low", data.Results.PushURL)
}

func TestBuildShopDataEmptyMessages(t *testing.T) {
	t.Parallel()

	data := BuildShopData(ShopInput{State: listing.DefaultState(), Table: taxonomy.Default(), PerPage: 12, Money: inr})
	require.Empty(t, data.Results.Cards)
	require.Equal(t, "listing.empty", data.Results.EmptyKey)

	state := listing.ParseState(url.Values{"q": {"nothing-like-this"}})
	data = BuildShopData(ShopInput{Products: sampleProducts(), State: state, Table: taxonomy.Default(), PerPage: 12, Money: inr})
	require.Empty(t, data.Results.Cards)
	require.Equal(t, "listing.noMatches", data.Results.EmptyKey)
}

func TestBuildShopDataErrorKeepsFilters(t *testing.T) {
	t.Parallel()

	state := listing.ParseState(url.Values{"category": {"beauty"}})
	data := BuildShopData(ShopInput{Err: "boom", State: state, Table: taxonomy.Default()})
	require.Equal(t, "/shop?category=beauty&refresh=1", data.RetryURL)
	require.True(t, hasSelected(data.Filters.Categories, "beauty"))
}

func TestBuildSearchData(t *testing.T) {
	t.Parallel()

	data := BuildSearchData(sampleProducts(), "", "", inr, nil)
	require.Equal(t, "search.prompt", data.EmptyKey)

	data = BuildSearchData(sampleProducts(), "", "SERUM", inr, nil)
	require.Equal(t, 1, data.Total)
	require.Equal(t, []string{"serum"}, cardIDs(data.Preview))

	data = BuildSearchData(sampleProducts(), "", "zzz", inr, nil)
	require.Equal(t, "search.empty", data.EmptyKey)
	require.Empty(t, data.Results)
}

func TestBuildProductData(t *testing.T) {
	t.Parallel()

	products := sampleProducts()
	lip := products[0]
	lip.Description = "**Long wear** <script>alert(1)</script>"
	lip.Images = []catalog.Image{{URL: ""}, {URL: "https://cdn.test/lip.jpg"}}

	data := BuildProductData(lip, products, taxonomy.Default(), inr, nil)
	require.Contains(t, string(data.Description), "<strong>Long wear</strong>")
	require.NotContains(t, string(data.Description), "<script>")
	require.Equal(t, []string{"https://cdn.test/lip.jpg"}, data.Images)
	require.True(t, data.LowStock)
	require.Contains(t, data.Categories, "makeup")
	for _, r := range data.Related {
		require.NotEqual(t, "lip", r.ID)
	}
}

func TestRenderDescriptionEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, RenderDescription("   "))
	out := string(RenderDescription("see https://example.com"))
	require.Contains(t, out, `rel="nofollow`)
}

func TestBuildCartData(t *testing.T) {
	t.Parallel()

	items := []store.Item{
		{ID: "lip", Name: "Lipstick", Price: 500, FinalPrice: 450, Discount: 10, Quantity: 2, MaxStock: 2},
		{ID: "kurta", Name: "Kurta", Price: 1200, FinalPrice: 1200, Quantity: 1},
	}
	totals := store.Totals{Lines: 2, Quantity: 3, MRP: 2200, Subtotal: 2100, Savings: 100}
	data := BuildCartData(items, totals, inr)

	require.False(t, data.Empty)
	require.False(t, data.Lines[0].CanIncrement)
	require.True(t, data.Lines[1].CanIncrement)
	require.Equal(t, "₹900", data.Lines[0].LineTotal)
	require.Equal(t, "₹2,100", data.Totals.Subtotal)
	require.True(t, data.Totals.HasSavings)

	require.True(t, BuildCartData(nil, store.Totals{}, inr).Empty)
}

func TestBuildWishlistData(t *testing.T) {
	t.Parallel()

	items := []store.Item{{ID: "lip", Name: "Lipstick", Price: 500, FinalPrice: 450, Discount: 10}}
	data := BuildWishlistData(items, inr, fakeMembership{"cart:lip": true})
	require.False(t, data.Empty)
	require.True(t, data.Lines[0].InCart)
	require.Equal(t, "10%", data.Lines[0].Discount)
}

func TestSliderViewSingleSlideHasNoControls(t *testing.T) {
	t.Parallel()

	slides := []slider.Slide{{Index: 0, ImageURL: "a.jpg", Title: "Sale"}}
	v := BuildSliderView(slides, slider.NewCarousel().Loaded(1))
	require.False(t, v.Empty)
	require.Equal(t, slider.Controls{}, v.Controls)
	require.Equal(t, "Sale", v.Current.Title)
}

func TestSliderViewActions(t *testing.T) {
	t.Parallel()

	slides := []slider.Slide{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	c := slider.Restore(3, 2, false)

	c = ApplySliderAction(c, "tick", 0)
	require.Equal(t, 0, c.Index())

	c = ApplySliderAction(c, "hover", 0)
	v := BuildSliderView(slides, c)
	require.True(t, v.Paused)
	require.False(t, v.Controls.AutoAdvance)
	require.True(t, v.Controls.Arrows)
	require.True(t, strings.Contains(v.NextURL, "paused=1"))

	c = ApplySliderAction(c, "jump", 1)
	require.Equal(t, 1, c.Index())
	require.Equal(t, slider.PhasePaused, c.Phase())

	c = ApplySliderAction(c, "leave", 0)
	v = BuildSliderView(slides, c)
	require.True(t, v.Controls.AutoAdvance)
	require.Equal(t, "/slider?action=next&i=1", v.NextURL)
	require.Equal(t, "/slider?action=jump&i=1&to=2", v.Slides[2].DotURL)

	require.Equal(t, c, ApplySliderAction(c, "bogus", 0))
}

func TestSliderViewEmpty(t *testing.T) {
	t.Parallel()

	v := BuildSliderView(nil, slider.NewCarousel().Loaded(0))
	require.True(t, v.Empty)
	require.Equal(t, "empty", v.Phase)
	require.Empty(t, v.NextURL)
}

func cardIDs(cards []ProductCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func hasSelected(opts []FilterOption, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return o.Selected
		}
	}
	return false
}
