package listing

import (
	"math"
	"slices"
	"strings"

	"finitefield.org/storefront-web/internal/catalog"
)

// Page is one slice of a listing.
type Page struct {
	Items      []catalog.Product
	Number     int
	PerPage    int
	Total      int
	TotalPages int
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Start is the 1-based index of the first item on the page, or 0 when empty.
func (p Page) Start() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*p.PerPage + 1
}

// End is the 1-based index of the last item on the page.
func (p Page) End() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.Start() + len(p.Items) - 1
}

// Paginate slices products into the requested page. Out-of-range pages clamp to the
// nearest valid one.
func Paginate(products []catalog.Product, page, perPage int) Page {
	if perPage <= 0 {
		perPage = len(products)
		if perPage == 0 {
			perPage = 1
		}
	}
	total := len(products)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	items := []catalog.Product{}
	if start < end {
		items = slices.Clone(products[start:end])
	}
	return Page{
		Items:      items,
		Number:     page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Brands lists distinct brand names, case-insensitively de-duplicated and sorted.
func Brands(products []catalog.Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range products {
		name := strings.TrimSpace(p.Brand)
		key := strings.ToLower(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}

// PriceBounds reports the lowest and highest list price in products.
func PriceBounds(products []catalog.Product) Range {
	if len(products) == 0 {
		return Range{}
	}
	r := Between(products[0].Price, products[0].Price)
	for _, p := range products[1:] {
		r.Min = math.Min(r.Min, p.Price)
		r.Max = math.Max(r.Max, p.Price)
	}
	return r
}
