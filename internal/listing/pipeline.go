// Package listing derives ordered product subsets from the catalog. Every function is
// pure and leaves its input slice untouched.
package listing

import (
	"slices"
	"strings"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/taxonomy"
)

// PreviewSize is the cap used by home page widgets.
const PreviewSize = 3

// Apply filters products by state and sorts the result.
//
// Filters run as a conjunction in this order: search, category, concern, skin type,
// brand, price. Price compares the list price, not the discounted one.
func Apply(products []catalog.Product, state State, table *taxonomy.Table) []catalog.Product {
	search := strings.ToLower(strings.TrimSpace(state.Search))
	brand := strings.ToLower(strings.TrimSpace(state.Brand))
	if brand == taxonomy.All {
		brand = ""
	}

	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if !table.Classify(p, taxonomy.GroupCategory, state.Category) {
			continue
		}
		if !table.Classify(p, taxonomy.GroupConcern, state.Concern) {
			continue
		}
		if !table.Classify(p, taxonomy.GroupSkinType, state.SkinType) {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Brand), brand) {
			continue
		}
		if !state.Price.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}
	sortInPlace(out, state.Sort)
	return out
}

// Search returns products whose text matches term, newest first.
func Search(products []catalog.Product, term string) []catalog.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	out := make([]catalog.Product, 0)
	for _, p := range products {
		if matchesSearch(p, term) {
			out = append(out, p)
		}
	}
	sortInPlace(out, SortNewest)
	return out
}

// Sort returns a stably sorted copy of products.
func Sort(products []catalog.Product, key SortKey) []catalog.Product {
	out := slices.Clone(products)
	sortInPlace(out, key)
	return out
}

// Preview caps an already filtered and sorted sequence at n items.
func Preview(products []catalog.Product, n int) []catalog.Product {
	if n < 0 {
		n = 0
	}
	if len(products) <= n {
		return slices.Clone(products)
	}
	return slices.Clone(products[:n])
}

// Discounted keeps products sold below list price, biggest discount first.
func Discounted(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0)
	for _, p := range products {
		if p.HasDiscount() {
			out = append(out, p)
		}
	}
	sortInPlace(out, SortDiscount)
	return out
}

// Related returns up to n other products sharing a category with p, best rated first.
func Related(products []catalog.Product, p catalog.Product, table *taxonomy.Table, n int) []catalog.Product {
	groups := table.Memberships(p, taxonomy.GroupCategory)
	if len(groups) == 0 {
		return nil
	}
	out := make([]catalog.Product, 0)
	for _, candidate := range products {
		if candidate.ID == p.ID {
			continue
		}
		for _, id := range groups {
			if table.Classify(candidate, taxonomy.GroupCategory, id) {
				out = append(out, candidate)
				break
			}
		}
	}
	sortInPlace(out, SortRating)
	return Preview(out, n)
}

func matchesSearch(p catalog.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// sortInPlace applies one stable comparator. Ties keep their input order.
func sortInPlace(products []catalog.Product, key SortKey) {
	var cmp func(a, b catalog.Product) int
	switch key {
	case SortPriceLow:
		cmp = func(a, b catalog.Product) int { return compareFloat(a.Price, b.Price) }
	case SortPriceHigh:
		cmp = func(a, b catalog.Product) int { return compareFloat(b.Price, a.Price) }
	case SortRating:
		cmp = func(a, b catalog.Product) int { return compareFloat(b.Rating, a.Rating) }
	case SortPopular:
		cmp = func(a, b catalog.Product) int { return b.ReviewCount - a.ReviewCount }
	case SortDiscount:
		cmp = func(a, b catalog.Product) int { return compareFloat(b.Discount, a.Discount) }
	default:
		cmp = func(a, b catalog.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	slices.SortStableFunc(products, cmp)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
