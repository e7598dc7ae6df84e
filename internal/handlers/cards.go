package handlers

import (
	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/format"
)

// Money carries the display settings for prices.
type Money struct {
	Currency string
	Lang     string
}

// Format renders amount in the configured currency.
func (m Money) Format(amount float64) string {
	return format.Money(amount, m.Currency, m.Lang)
}

// Membership answers whether a product is already collected by the visitor.
type Membership interface {
	IsInCart(id string) bool
	IsWishlisted(id string) bool
}

// ProductCard is the grid tile for one product.
type ProductCard struct {
	ID          string
	Name        string
	Brand       string
	Category    string
	Image       string
	Price       string
	FinalPrice  string
	Discount    string
	HasDiscount bool
	InStock     bool
	Rating      float64
	Stars       Stars
	ReviewCount int
	Featured    bool
	InCart      bool
	Wishlisted  bool
}

// Stars is a rating split into icons.
type Stars struct {
	Full  []struct{}
	Half  bool
	Empty []struct{}
}

// NewStars converts a 0..5 rating to icon counts templates can range over.
func NewStars(rating float64) Stars {
	full, half, empty := format.Stars(rating)
	return Stars{
		Full:  make([]struct{}, full),
		Half:  half == 1,
		Empty: make([]struct{}, empty),
	}
}

// Card builds the tile for p. m may be nil for visitors without collections.
func Card(p catalog.Product, money Money, m Membership) ProductCard {
	c := ProductCard{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Image:       p.PrimaryImage(),
		Price:       money.Format(p.Price),
		FinalPrice:  money.Format(p.FinalPrice()),
		HasDiscount: p.HasDiscount(),
		InStock:     p.InStock(),
		Rating:      p.Rating,
		Stars:       NewStars(p.Rating),
		ReviewCount: p.ReviewCount,
		Featured:    p.IsFeatured,
	}
	if c.HasDiscount {
		c.Discount = format.Percent(p.DiscountPercent())
	}
	if m != nil {
		c.InCart = m.IsInCart(p.ID)
		c.Wishlisted = m.IsWishlisted(p.ID)
	}
	return c
}

// Cards builds tiles in order.
func Cards(products []catalog.Product, money Money, m Membership) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		out = append(out, Card(p, money, m))
	}
	return out
}
