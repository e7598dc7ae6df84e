// Package store keeps a visitor's cart and wishlist. Every mutation writes the whole
// collection back and then announces the change by name.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/events"
)

var (
	// ErrLoginRequired is returned when a mutation needs a session token that is absent.
	ErrLoginRequired = errors.New("store: login required")
	// ErrWriteFailed wraps storage failures reported by AddToCart and ToggleWishlist.
	ErrWriteFailed = errors.New("store: write failed")
)

// Deps wires a Store.
type Deps struct {
	Storage       Storage
	Publisher     events.Publisher
	Authenticated bool
	Logger        *zap.Logger
}

// Store operates on one visitor's collections.
type Store struct {
	storage       Storage
	publisher     events.Publisher
	authenticated bool
	logger        *zap.Logger
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Name) {}

// New constructs a Store. A nil storage falls back to memory.
func New(deps Deps) *Store {
	storage := deps.Storage
	if storage == nil {
		storage = NewMemoryStorage()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = nopPublisher{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage:       storage,
		publisher:     publisher,
		authenticated: deps.Authenticated,
		logger:        logger.Named("store"),
	}
}

// Cart returns the cart contents.
func (s *Store) Cart() []Item { return s.read(KeyCart) }

// Wishlist returns the wishlist contents.
func (s *Store) Wishlist() []Item { return s.read(KeyWishlist) }

// CartCount is the number of distinct products in the cart.
func (s *Store) CartCount() int { return len(s.Cart()) }

// WishlistCount is the number of wishlisted products.
func (s *Store) WishlistCount() int { return len(s.Wishlist()) }

// IsInCart reports whether id is in the cart.
func (s *Store) IsInCart(id string) bool { return indexOf(s.Cart(), id) >= 0 }

// IsWishlisted reports whether id is on the wishlist.
func (s *Store) IsWishlisted(id string) bool { return indexOf(s.Wishlist(), id) >= 0 }

// Totals summarises the cart.
func (s *Store) Totals() Totals { return totals(s.Cart()) }

// AddToCart puts a snapshot of p in the cart with quantity 1. Adding a product that
// is already present changes nothing and still reports it as added. A failed write
// reports false with the storage error.
func (s *Store) AddToCart(p catalog.Product) (bool, error) {
	if !s.authenticated {
		return false, ErrLoginRequired
	}
	cart := s.Cart()
	if indexOf(cart, p.ID) >= 0 {
		return true, nil
	}
	item := snapshot(p)
	item.Quantity = 1
	item.MaxStock = p.Stock
	if err := s.write(KeyCart, append(cart, item)); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleWishlist removes p when wishlisted, otherwise appends it. It reports whether
// p is wishlisted afterwards; on a failed write the state is unchanged.
func (s *Store) ToggleWishlist(p catalog.Product) (bool, error) {
	if !s.authenticated {
		return false, ErrLoginRequired
	}
	list := s.Wishlist()
	if i := indexOf(list, p.ID); i >= 0 {
		if err := s.write(KeyWishlist, append(list[:i:i], list[i+1:]...)); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.write(KeyWishlist, append(list, snapshot(p))); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateQuantity sets the quantity of a cart line, clamped to [1, MaxStock]. A
// quantity of zero or less removes the line. It reports whether the line existed.
func (s *Store) UpdateQuantity(id string, qty int) bool {
	cart := s.Cart()
	i := indexOf(cart, id)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		_ = s.write(KeyCart, append(cart[:i:i], cart[i+1:]...))
		return true
	}
	if limit := cart[i].MaxStock; limit > 0 && qty > limit {
		qty = limit
	}
	if cart[i].Quantity == qty {
		return true
	}
	cart[i].Quantity = qty
	_ = s.write(KeyCart, cart)
	return true
}

// RemoveFromCart drops a cart line.
func (s *Store) RemoveFromCart(id string) bool {
	return s.remove(KeyCart, id)
}

// RemoveFromWishlist drops a wishlist entry.
func (s *Store) RemoveFromWishlist(id string) bool {
	return s.remove(KeyWishlist, id)
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	_ = s.write(KeyCart, []Item{})
}

func (s *Store) remove(key Key, id string) bool {
	items := s.read(key)
	i := indexOf(items, id)
	if i < 0 {
		return false
	}
	_ = s.write(key, append(items[:i:i], items[i+1:]...))
	return true
}

func (s *Store) read(key Key) []Item {
	raw, err := s.storage.Load(key)
	if err != nil {
		s.logger.Warn("store read failed", zap.String("key", string(key)), zap.Error(err))
		return []Item{}
	}
	if len(raw) == 0 {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("discarding corrupt collection", zap.String("key", string(key)), zap.Error(err))
		return []Item{}
	}
	if items == nil {
		items = []Item{}
	}
	return items
}

// write persists items and publishes the matching event. A failure is logged,
// suppresses the event and is returned wrapped in ErrWriteFailed.
func (s *Store) write(key Key, items []Item) error {
	raw, err := json.Marshal(items)
	if err == nil {
		err = s.storage.Save(key, raw)
	}
	if err != nil {
		s.logger.Error("store write failed", zap.String("key", string(key)), zap.Int("items", len(items)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	s.publisher.Publish(eventFor(key))
	return nil
}

func eventFor(key Key) events.Name {
	if key == KeyWishlist {
		return events.WishlistUpdated
	}
	return events.CartUpdated
}
