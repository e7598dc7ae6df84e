package handlers

import (
	"finitefield.org/storefront-web/internal/format"
	"finitefield.org/storefront-web/internal/store"
)

// CartLine is one cart row.
type CartLine struct {
	ID           string
	Name         string
	Brand        string
	Image        string
	Price        string
	FinalPrice   string
	Discount     string
	HasDiscount  bool
	Quantity     int
	MaxStock     int
	CanIncrement bool
	LineTotal    string
}

// CartTotals is the order summary.
type CartTotals struct {
	Lines      int
	Quantity   int
	MRP        string
	Subtotal   string
	Savings    string
	HasSavings bool
}

// CartData is the view model for the cart page and fragment.
type CartData struct {
	Lines  []CartLine
	Totals CartTotals
	Empty  bool
}

// BuildCartData renders the cart contents.
func BuildCartData(items []store.Item, t store.Totals, money Money) CartData {
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		qty := max(it.Quantity, 1)
		line := CartLine{
			ID:           it.ID,
			Name:         it.Name,
			Brand:        it.Brand,
			Image:        it.Image,
			Price:        money.Format(it.Price),
			FinalPrice:   money.Format(it.FinalPrice),
			HasDiscount:  it.Discount > 0,
			Quantity:     qty,
			MaxStock:     it.MaxStock,
			CanIncrement: it.MaxStock <= 0 || qty < it.MaxStock,
			LineTotal:    money.Format(it.LineTotal()),
		}
		if line.HasDiscount {
			line.Discount = format.Percent(it.Discount)
		}
		lines = append(lines, line)
	}
	return CartData{
		Lines: lines,
		Totals: CartTotals{
			Lines:      t.Lines,
			Quantity:   t.Quantity,
			MRP:        money.Format(t.MRP),
			Subtotal:   money.Format(t.Subtotal),
			Savings:    money.Format(t.Savings),
			HasSavings: t.Savings > 0,
		},
		Empty: len(lines) == 0,
	}
}

// WishlistLine is one wishlist row.
type WishlistLine struct {
	ID          string
	Name        string
	Brand       string
	Image       string
	Price       string
	FinalPrice  string
	Discount    string
	HasDiscount bool
	InCart      bool
}

// WishlistData is the view model for the wishlist page.
type WishlistData struct {
	Lines []WishlistLine
	Empty bool
}

// BuildWishlistData renders wishlisted items. m marks lines already in the cart.
func BuildWishlistData(items []store.Item, money Money, m Membership) WishlistData {
	lines := make([]WishlistLine, 0, len(items))
	for _, it := range items {
		line := WishlistLine{
			ID:          it.ID,
			Name:        it.Name,
			Brand:       it.Brand,
			Image:       it.Image,
			Price:       money.Format(it.Price),
			FinalPrice:  money.Format(it.FinalPrice),
			HasDiscount: it.Discount > 0,
		}
		if line.HasDiscount {
			line.Discount = format.Percent(it.Discount)
		}
		if m != nil {
			line.InCart = m.IsInCart(it.ID)
		}
		lines = append(lines, line)
	}
	return WishlistData{Lines: lines, Empty: len(lines) == 0}
}
