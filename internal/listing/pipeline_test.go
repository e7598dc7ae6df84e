package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/taxonomy"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func fixture() []catalog.Product {
	return []catalog.Product{
		{ID: "serum", Name: "Vitamin C Serum", Category: "Skincare", Brand: "Glow Lab", Tags: []string{"oily skin"},
			Price: 1200, Discount: 10, Rating: 4.6, ReviewCount: 320, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "lipstick", Name: "Matte Lipstick", Category: "Makeup", Brand: "Rouge", Price: 600, Discount: 30,
			Rating: 4.1, ReviewCount: 80, CreatedAt: base.Add(5 * time.Hour)},
		{ID: "shirt", Name: "Linen Shirt", Category: "Fashion", Brand: "Weave", Description: "breathable summer wear",
			Price: 1500, Discount: 30, Rating: 4.6, ReviewCount: 45, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "cleanser", Name: "Gentle Face Wash", Category: "Skincare", Brand: "glow lab", Tags: []string{"sensitive"},
			Price: 350, Rating: 3.9, ReviewCount: 500, CreatedAt: base.Add(4 * time.Hour)},
		{ID: "blank", Name: "Mystery Box", CreatedAt: base},
	}
}

func ids(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyDefaultStateSortsNewestFirst(t *testing.T) {
	t.Parallel()

	got := Apply(fixture(), DefaultState(), taxonomy.Default())
	require.Equal(t, []string{"lipstick", "cleanser", "serum", "shirt", "blank"}, ids(got))
}

func TestApplyFilters(t *testing.T) {
	t.Parallel()

	table := taxonomy.Default()
	cases := []struct {
		name  string
		state func(*State)
		want  []string
	}{
		{"search matches description", func(s *State) { s.Search = "BREATHABLE" }, []string{"shirt"}},
		{"search matches tags", func(s *State) { s.Search = "oily" }, []string{"serum"}},
		{"search matches brand", func(s *State) { s.Search = "rouge" }, []string{"lipstick"}},
		{"category", func(s *State) { s.Category = "skincare" }, []string{"cleanser", "serum"}},
		{"concern", func(s *State) { s.Concern = "brightening" }, []string{"serum"}},
		{"skin type", func(s *State) { s.SkinType = "sensitive" }, []string{"cleanser"}},
		{"brand is case-insensitive substring", func(s *State) { s.Brand = "GLOW" }, []string{"cleanser", "serum"}},
		{"price range is inclusive on list price", func(s *State) { s.Price = Between(600, 1200) }, []string{"lipstick", "serum"}},
		{"open upper bound", func(s *State) { s.Price = Range{Min: 1300} }, []string{"shirt"}},
		{"zero maximum keeps only free products", func(s *State) { s.Price = Between(0, 0) }, []string{"blank"}},
		{"conjunction", func(s *State) { s.Category = "skincare"; s.Price = Between(0, 500) }, []string{"cleanser"}},
		{"unknown category matches nothing", func(s *State) { s.Category = "electronics" }, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := DefaultState()
			tc.state(&state)
			require.Equal(t, tc.want, ids(Apply(fixture(), state, table)))
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	table := taxonomy.Default()
	states := []State{
		DefaultState(),
		{Search: "a", Category: "beauty", Concern: taxonomy.All, Brand: taxonomy.All, SkinType: taxonomy.All, Sort: SortRating},
		{Category: taxonomy.All, Concern: taxonomy.All, Brand: "glow", SkinType: taxonomy.All, Price: Between(100, 2000), Sort: SortPriceHigh},
	}
	for _, state := range states {
		once := Apply(fixture(), state, table)
		twice := Apply(once, state, table)
		require.Equal(t, ids(once), ids(twice))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := fixture()
	before := ids(in)
	state := DefaultState()
	state.Sort = SortPriceLow
	_ = Apply(in, state, taxonomy.Default())
	require.Equal(t, before, ids(in))
}

func TestSortDiscountIsStable(t *testing.T) {
	t.Parallel()

	in := []catalog.Product{
		{ID: "a", Discount: 10},
		{ID: "b", Discount: 30},
		{ID: "c", Discount: 30},
		{ID: "d", Discount: 0},
	}
	require.Equal(t, []string{"b", "c", "a", "d"}, ids(Sort(in, SortDiscount)))
}

func TestSortRatingKeepsTiesInInputOrder(t *testing.T) {
	t.Parallel()

	got := Sort(fixture(), SortRating)
	require.Equal(t, []string{"serum", "shirt", "lipstick", "cleanser", "blank"}, ids(got))
}

func TestSortPopular(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"cleanser", "serum", "lipstick", "shirt", "blank"}, ids(Sort(fixture(), SortPopular)))
}

// Price ordering uses the list price even when discounts would reorder the final price.
func TestSortPriceUsesListPrice(t *testing.T) {
	t.Parallel()

	in := []catalog.Product{
		{ID: "discounted", Price: 1000, Discount: 50},
		{ID: "full", Price: 700},
	}
	require.Less(t, in[0].FinalPrice(), in[1].FinalPrice())
	require.Equal(t, []string{"full", "discounted"}, ids(Sort(in, SortPriceLow)))
	require.Equal(t, []string{"discounted", "full"}, ids(Sort(in, SortPriceHigh)))
}

func TestPreviewCapsAfterSort(t *testing.T) {
	t.Parallel()

	sorted := Sort(fixture(), SortPopular)
	require.Equal(t, []string{"cleanser", "serum", "lipstick"}, ids(Preview(sorted, PreviewSize)))
	require.Len(t, Preview(sorted[:2], PreviewSize), 2)
	require.Empty(t, Preview(nil, PreviewSize))
}

func TestDiscounted(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"lipstick", "shirt", "serum"}, ids(Discounted(fixture())))
	require.Empty(t, Discounted([]catalog.Product{{ID: "x", Price: 10}}))
}

func TestSearch(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"cleanser", "serum"}, ids(Search(fixture(), " Skincare ")))
	require.Empty(t, Search(fixture(), "   "))
}

func TestRelated(t *testing.T) {
	t.Parallel()

	products := fixture()
	serum, _ := catalog.FindByID(products, "serum")
	related := Related(products, serum, taxonomy.Default(), PreviewSize)
	require.NotContains(t, ids(related), "serum")
	require.Contains(t, ids(related), "cleanser")
	require.NotContains(t, ids(related), "shirt")

	blank, _ := catalog.FindByID(products, "blank")
	require.Empty(t, Related(products, blank, taxonomy.Default(), PreviewSize))
}

func TestEmptyCatalog(t *testing.T) {
	t.Parallel()

	require.Empty(t, Apply(nil, DefaultState(), taxonomy.Default()))
	require.Empty(t, Discounted(nil))
	page := Paginate(nil, 3, 12)
	require.Equal(t, 1, page.Number)
	require.Empty(t, page.Items)
	require.False(t, page.HasNext())
}
