package handlers

import (
	"strconv"
	"strings"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/listing"
	"finitefield.org/storefront-web/internal/taxonomy"
)

// RefreshParam on a page URL bypasses the upstream cache.
const RefreshParam = "refresh"

// FilterOption is one entry in a filter select.
type FilterOption struct {
	Value    string
	Label    string
	Selected bool
}

// ShopFilters is the filter sidebar.
type ShopFilters struct {
	Categories []FilterOption
	Concerns   []FilterOption
	SkinTypes  []FilterOption
	Brands     []FilterOption
	Sorts      []FilterOption
	Search     string
	MinPrice   string
	MaxPrice   string
	Bounds     listing.Range
}

// PageLink is one numbered pager link.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager renders pagination for a results grid.
type Pager struct {
	Number     int
	TotalPages int
	Start      int
	End        int
	Total      int
	PrevURL    string
	NextURL    string
	Links      []PageLink
}

// ShopResults is the swappable results grid.
type ShopResults struct {
	Cards    []ProductCard
	Pager    Pager
	Filtered bool
	EmptyKey string
	ResetURL string
	PushURL  string
}

// ShopData is the view model for the shop listing.
type ShopData struct {
	State    listing.State
	Filters  ShopFilters
	Results  ShopResults
	Error    string
	RetryURL string
}

// ShopInput collects what BuildShopData needs.
type ShopInput struct {
	Products   []catalog.Product
	Err        string
	State      listing.State
	Table      *taxonomy.Table
	PerPage    int
	Money      Money
	Membership Membership
}

// BuildShopData runs the filter pipeline and paginates the result.
func BuildShopData(in ShopInput) ShopData {
	data := ShopData{
		State:   in.State,
		Filters: buildFilters(in.Products, in.State, in.Table),
		Error:   in.Err,
	}
	if in.Err != "" {
		q := in.State.Query()
		q.Set(RefreshParam, "1")
		data.RetryURL = "/shop?" + q.Encode()
		return data
	}

	matched := listing.Apply(in.Products, in.State, in.Table)
	page := listing.Paginate(matched, in.State.Page, in.PerPage)
	state := in.State.WithPage(page.Number)
	data.State = state
	data.Results = ShopResults{
		Cards:    Cards(page.Items, in.Money, in.Membership),
		Pager:    buildPager(page, state),
		Filtered: state.Filtered(),
		EmptyKey: emptyKey(len(in.Products), state.Filtered()),
		ResetURL: "/shop",
		PushURL:  shopURL(state.Query()),
	}
	return data
}

// an empty catalog and an over-filtered one read differently
func emptyKey(catalogSize int, filtered bool) string {
	if catalogSize == 0 || !filtered {
		return "listing.empty"
	}
	return "listing.noMatches"
}

func buildPager(page listing.Page, state listing.State) Pager {
	p := Pager{
		Number:     page.Number,
		TotalPages: page.TotalPages,
		Start:      page.Start(),
		End:        page.End(),
		Total:      page.Total,
	}
	if page.TotalPages <= 1 {
		return p
	}
	if page.HasPrev() {
		p.PrevURL = shopURL(state.WithPage(page.Number - 1).Query())
	}
	if page.HasNext() {
		p.NextURL = shopURL(state.WithPage(page.Number + 1).Query())
	}
	for n := 1; n <= page.TotalPages; n++ {
		p.Links = append(p.Links, PageLink{
			Number:  n,
			URL:     shopURL(state.WithPage(n).Query()),
			Current: n == page.Number,
		})
	}
	return p
}

func buildFilters(products []catalog.Product, state listing.State, table *taxonomy.Table) ShopFilters {
	f := ShopFilters{
		Search: state.Search,
		Bounds: listing.PriceBounds(products),
	}
	if state.Price.Min > 0 {
		f.MinPrice = strconv.FormatFloat(state.Price.Min, 'f', -1, 64)
	}
	if state.Price.HasMax {
		f.MaxPrice = strconv.FormatFloat(state.Price.Max, 'f', -1, 64)
	}
	if table != nil {
		f.Categories = groupOptions(table, taxonomy.GroupCategory, state.Category)
		f.Concerns = groupOptions(table, taxonomy.GroupConcern, state.Concern)
		f.SkinTypes = groupOptions(table, taxonomy.GroupSkinType, state.SkinType)
	}

	f.Brands = []FilterOption{{Value: taxonomy.All, Label: "All", Selected: state.Brand == taxonomy.All}}
	for _, b := range listing.Brands(products) {
		f.Brands = append(f.Brands, FilterOption{Value: b, Label: b, Selected: strings.EqualFold(b, state.Brand)})
	}
	for _, s := range listing.SortOptions() {
		f.Sorts = append(f.Sorts, FilterOption{Value: string(s.Key), Label: s.Label, Selected: s.Key == state.Sort})
	}
	return f
}

func groupOptions(table *taxonomy.Table, group taxonomy.Group, selected string) []FilterOption {
	out := []FilterOption{{Value: taxonomy.All, Label: "All", Selected: selected == taxonomy.All}}
	for _, o := range table.Options(group) {
		out = append(out, FilterOption{Value: o.ID, Label: o.Label, Selected: o.ID == selected})
	}
	return out
}
