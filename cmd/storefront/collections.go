package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/backend"
	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/handlers"
	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/requestctx"
	"finitefield.org/storefront-web/internal/store"
)

func (a *app) cartData(r *http.Request) handlers.CartData {
	st := mw.CartStore(r)
	return handlers.BuildCartData(st.Cart(), st.Totals(), a.money(r))
}

func (a *app) cartHandler(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r, http.StatusOK, "cart", a.page(r, "cart.title", "cart.description", "", a.cartData(r)))
}

// formProduct resolves the posted product id against the catalog.
func (a *app) formProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id := strings.TrimSpace(r.PostFormValue("id"))
	if id == "" {
		mw.WriteError(w, r, http.StatusBadRequest, "missing product id")
		return catalog.Product{}, false
	}
	p, err := a.catalog.Product(r.Context(), id)
	switch {
	case err == nil:
		return p, true
	case errors.Is(err, catalog.ErrNotFound):
		a.notFound(w, r)
	default:
		a.requestLogger(r).Warn("product lookup failed", zap.String("id", id), zap.Error(err))
		mw.WriteError(w, r, http.StatusBadGateway, backend.UserMessage(err))
	}
	return catalog.Product{}, false
}

func (a *app) cartAddHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := a.formProduct(w, r)
	if !ok {
		return
	}
	st := mw.CartStore(r)
	if _, err := st.AddToCart(p); err != nil {
		if errors.Is(err, store.ErrLoginRequired) {
			mw.LoginRedirect(w, r)
			return
		}
		a.collectionWriteFailed(w, r, err)
		return
	}
	if !mw.IsHTMX(r.Context()) {
		mw.Redirect(w, r, mw.ReturnPath(r))
		return
	}
	a.renderFragment(w, r, "cart_button", a.fragment(r, handlers.Card(p, a.money(r), st)))
}

func (a *app) cartUpdateHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PostFormValue("id"))
	qty, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if id == "" || err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "id and quantity are required")
		return
	}
	mw.CartStore(r).UpdateQuantity(id, qty)
	a.respondCart(w, r)
}

func (a *app) cartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	mw.CartStore(r).RemoveFromCart(strings.TrimSpace(r.PostFormValue("id")))
	a.respondCart(w, r)
}

func (a *app) cartClearHandler(w http.ResponseWriter, r *http.Request) {
	mw.CartStore(r).ClearCart()
	a.respondCart(w, r)
}

// collectionWriteFailed answers a mutation that could not be persisted.
func (a *app) collectionWriteFailed(w http.ResponseWriter, r *http.Request, err error) {
	a.requestLogger(r).Warn("collection not saved", zap.Error(err))
	mw.WriteError(w, r, http.StatusServiceUnavailable, a.bundle.T(a.lang(r), "collection.saveFailed"))
}

// respondCart swaps the cart panel for htmx and redirects plain form posts.
func (a *app) respondCart(w http.ResponseWriter, r *http.Request) {
	if !mw.IsHTMX(r.Context()) {
		mw.Redirect(w, r, "/cart")
		return
	}
	a.renderFragment(w, r, "cart_panel", a.fragment(r, a.cartData(r)))
}

func (a *app) wishlistData(r *http.Request) handlers.WishlistData {
	st := mw.CartStore(r)
	return handlers.BuildWishlistData(st.Wishlist(), a.money(r), st)
}

func (a *app) wishlistHandler(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r, http.StatusOK, "wishlist", a.page(r, "wishlist.title", "wishlist.description", "", a.wishlistData(r)))
}

func (a *app) wishlistToggleHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := a.formProduct(w, r)
	if !ok {
		return
	}
	st := mw.CartStore(r)
	if _, err := st.ToggleWishlist(p); err != nil {
		if errors.Is(err, store.ErrLoginRequired) {
			mw.LoginRedirect(w, r)
			return
		}
		a.collectionWriteFailed(w, r, err)
		return
	}
	if !mw.IsHTMX(r.Context()) {
		mw.Redirect(w, r, mw.ReturnPath(r))
		return
	}
	a.renderFragment(w, r, "wishlist_button", a.fragment(r, handlers.Card(p, a.money(r), st)))
}

func (a *app) wishlistRemoveHandler(w http.ResponseWriter, r *http.Request) {
	mw.CartStore(r).RemoveFromWishlist(strings.TrimSpace(r.PostFormValue("id")))
	if !mw.IsHTMX(r.Context()) {
		mw.Redirect(w, r, "/wishlist")
		return
	}
	a.renderFragment(w, r, "wishlist_panel", a.fragment(r, a.wishlistData(r)))
}

// BadgeData is the header counter fragment.
type BadgeData struct {
	Kind  string
	Href  string
	Count int
}

func (a *app) cartBadgeFrag(w http.ResponseWriter, r *http.Request) {
	data := BadgeData{Kind: "cart", Href: "/cart", Count: mw.CartStore(r).CartCount()}
	a.renderFragment(w, r, "badge", a.fragment(r, data))
}

func (a *app) wishlistBadgeFrag(w http.ResponseWriter, r *http.Request) {
	data := BadgeData{Kind: "wishlist", Href: "/wishlist", Count: mw.CartStore(r).WishlistCount()}
	a.renderFragment(w, r, "badge", a.fragment(r, data))
}

func (a *app) requestLogger(r *http.Request) *zap.Logger {
	return requestctx.LoggerOr(r.Context(), a.logger)
}
