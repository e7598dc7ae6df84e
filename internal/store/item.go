package store

import "finitefield.org/storefront-web/internal/catalog"

// Item is a product snapshot taken when it was added to the cart or wishlist.
// Quantity and MaxStock are only meaningful in the cart.
type Item struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"finalPrice"`
	Discount   float64 `json:"discount"`
	Image      string  `json:"image"`
	Brand      string  `json:"brand"`
	Quantity   int     `json:"quantity,omitempty"`
	MaxStock   int     `json:"maxStock,omitempty"`
}

// LineTotal is the discounted price multiplied by quantity.
func (i Item) LineTotal() float64 {
	return i.FinalPrice * float64(max(i.Quantity, 1))
}

func snapshot(p catalog.Product) Item {
	return Item{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		FinalPrice: p.FinalPrice(),
		Discount:   p.DiscountPercent(),
		Image:      p.PrimaryImage(),
		Brand:      p.Brand,
	}
}

// Totals summarises the cart.
type Totals struct {
	Lines    int
	Quantity int
	MRP      float64
	Subtotal float64
	Savings  float64
}

func totals(items []Item) Totals {
	var t Totals
	for _, it := range items {
		qty := max(it.Quantity, 1)
		t.Lines++
		t.Quantity += qty
		t.MRP += it.Price * float64(qty)
		t.Subtotal += it.FinalPrice * float64(qty)
	}
	t.Savings = t.MRP - t.Subtotal
	if t.Savings < 0 {
		t.Savings = 0
	}
	return t
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
