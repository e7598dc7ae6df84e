package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"finitefield.org/storefront-web/internal/taxonomy"
)

// SortKey selects the single comparator applied after filtering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortPopular   SortKey = "popular"
	SortDiscount  SortKey = "discount"
)

// SortOption pairs a key with its display label.
type SortOption struct {
	Key   SortKey
	Label string
}

// SortOptions lists the supported orderings in menu order.
func SortOptions() []SortOption {
	return []SortOption{
		{SortNewest, "Newest"},
		{SortPriceLow, "Price: Low to High"},
		{SortPriceHigh, "Price: High to Low"},
		{SortRating, "Top Rated"},
		{SortPopular, "Most Popular"},
		{SortDiscount, "Biggest Discount"},
	}
}

// ParseSortKey maps a raw key to a supported one, defaulting to newest.
func ParseSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	for _, opt := range SortOptions() {
		if opt.Key == key {
			return key
		}
	}
	return SortNewest
}

// Range is an inclusive price window. Max only applies when HasMax is set, so a
// maximum of 0 selects free products rather than lifting the bound.
type Range struct {
	Min    float64
	Max    float64
	HasMax bool
}

// Between returns the closed range [min, max].
func Between(min, max float64) Range {
	return Range{Min: min, Max: max, HasMax: true}
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	if v < r.Min {
		return false
	}
	return !r.HasMax || v <= r.Max
}

// State is the ephemeral filter and sort selection of a listing page.
type State struct {
	Search   string
	Category string
	Concern  string
	Brand    string
	SkinType string
	Price    Range
	Sort     SortKey
	Page     int
}

// DefaultState returns the reset selection: every filter disabled, newest first.
func DefaultState() State {
	return State{
		Category: taxonomy.All,
		Concern:  taxonomy.All,
		Brand:    taxonomy.All,
		SkinType: taxonomy.All,
		Sort:     SortNewest,
		Page:     1,
	}
}

// Query keys used by listing URLs.
const (
	ParamSearch   = "q"
	ParamCategory = "category"
	ParamConcern  = "concern"
	ParamBrand    = "brand"
	ParamSkinType = "skinType"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamSort     = "sort"
	ParamPage     = "page"
)

// ParseState builds a state from query parameters. Invalid values fall back to defaults.
func ParseState(q url.Values) State {
	s := DefaultState()
	s.Search = strings.TrimSpace(q.Get(ParamSearch))
	s.Category = selector(q.Get(ParamCategory))
	s.Concern = selector(q.Get(ParamConcern))
	s.Brand = selector(q.Get(ParamBrand))
	s.SkinType = selector(q.Get(ParamSkinType))
	s.Price.Min, _ = positiveFloat(q.Get(ParamMinPrice))
	s.Price.Max, s.Price.HasMax = positiveFloat(q.Get(ParamMaxPrice))
	if s.Price.HasMax && s.Price.Max < s.Price.Min {
		s.Price.Min, s.Price.Max = s.Price.Max, s.Price.Min
	}
	s.Sort = ParseSortKey(q.Get(ParamSort))
	if page, err := strconv.Atoi(q.Get(ParamPage)); err == nil && page > 0 {
		s.Page = page
	}
	return s
}

// Query encodes the non-default parts of the state.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	setSelector(q, ParamCategory, s.Category)
	setSelector(q, ParamConcern, s.Concern)
	setSelector(q, ParamBrand, s.Brand)
	setSelector(q, ParamSkinType, s.SkinType)
	if s.Price.Min > 0 {
		q.Set(ParamMinPrice, strconv.FormatFloat(s.Price.Min, 'f', -1, 64))
	}
	if s.Price.HasMax {
		q.Set(ParamMaxPrice, strconv.FormatFloat(s.Price.Max, 'f', -1, 64))
	}
	if s.Sort != "" && s.Sort != SortNewest {
		q.Set(ParamSort, string(s.Sort))
	}
	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return q
}

// WithPage returns a copy of the state pointing at page.
func (s State) WithPage(page int) State {
	s.Page = page
	return s
}

// Filtered reports whether any filter differs from the defaults.
func (s State) Filtered() bool {
	d := DefaultState()
	return s.Search != "" ||
		s.Category != d.Category ||
		s.Concern != d.Concern ||
		s.Brand != d.Brand ||
		s.SkinType != d.SkinType ||
		s.Price != d.Price
}

func selector(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return taxonomy.All
	}
	return raw
}

func setSelector(q url.Values, key, value string) {
	if value != "" && value != taxonomy.All {
		q.Set(key, value)
	}
}

// positiveFloat parses a non-negative amount and reports whether one was given.
func positiveFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
