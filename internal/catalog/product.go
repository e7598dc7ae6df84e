// Package catalog fetches the product collection and normalizes it into a single
// canonical Product shape.
package catalog

import (
	"math"
	"time"
)

// Product is a catalog item as sold by the storefront. Values are immutable per fetch.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Brand       string
	Tags        []string
	Price       float64
	Discount    float64
	Stock       int
	Rating      float64
	ReviewCount int
	Images      []Image
	IsFeatured  bool
	CreatedAt   time.Time
}

// Image references a product photo.
type Image struct {
	URL string
}

// FinalPrice applies the percentage discount to Price. The result is never negative.
func (p Product) FinalPrice() float64 {
	price := math.Max(p.Price, 0)
	final := price - price*p.DiscountPercent()/100
	return math.Max(final, 0)
}

// DiscountPercent returns Discount clamped to [0, 100].
func (p Product) DiscountPercent() float64 {
	return math.Min(math.Max(p.Discount, 0), 100)
}

// HasDiscount reports whether the product is sold below its list price.
func (p Product) HasDiscount() bool {
	return p.DiscountPercent() > 0
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// PrimaryImage returns the first image URL, or "" when the product has none.
func (p Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

// FindByID returns the product with the given id.
func FindByID(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
