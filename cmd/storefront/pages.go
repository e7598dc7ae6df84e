package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/handlers"
	"finitefield.org/storefront-web/internal/listing"
	mw "finitefield.org/storefront-web/internal/middleware"
)

func (a *app) lang(r *http.Request) string {
	if lang := mw.Lang(r.Context()); lang != "" {
		return lang
	}
	return a.bundle.Fallback()
}

func (a *app) money(r *http.Request) handlers.Money {
	return handlers.Money{Currency: a.cfg.Site.Currency, Lang: a.lang(r)}
}

func (a *app) layout(r *http.Request) handlers.Layout {
	st := mw.CartStore(r)
	return handlers.Layout{
		Lang:          a.lang(r),
		Languages:     a.bundle.Supported(),
		Path:          r.URL.Path,
		Site:          a.site.Profile(r.Context()),
		Analytics:     a.analytics,
		CSRFToken:     mw.CSRFToken(r),
		Authenticated: mw.Authenticated(r),
		CartCount:     st.CartCount(),
		WishlistCount: st.WishlistCount(),
		AssetVersion:  a.assetVersion,
	}
}

// page builds the layout view model. titleKey and descKey are dictionary keys.
func (a *app) page(r *http.Request, titleKey, descKey, leaf string, data any) handlers.PageData {
	lang := a.lang(r)
	title := ""
	if titleKey != "" {
		title = a.bundle.T(lang, titleKey)
	}
	if leaf != "" {
		title = leaf
	}
	desc := ""
	if descKey != "" {
		desc = a.bundle.T(lang, descKey)
	}
	return handlers.NewPage(a.layout(r), title, desc, leaf, data)
}

// fragment builds a minimal view model for htmx partials.
func (a *app) fragment(r *http.Request, data any) handlers.PageData {
	return handlers.PageData{
		Lang:      a.lang(r),
		Path:      r.URL.Path,
		CSRFToken: mw.CSRFToken(r),
		Page:      data,
	}
}

func refreshRequested(r *http.Request) bool {
	return r.URL.Query().Get(handlers.RefreshParam) == "1"
}

func (a *app) loadCatalog(r *http.Request) catalog.FetchResult {
	return a.catalog.Load(r.Context(), catalog.LoadOptions{Refresh: refreshRequested(r)})
}

func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	res := a.loadCatalog(r)
	data := handlers.BuildHomeData(handlers.HomeInput{
		Products:   res.Products,
		Err:        res.Err,
		Slides:     a.slides.Slides(r.Context()),
		Table:      a.table,
		Money:      a.money(r),
		Membership: mw.CartStore(r),
	})
	a.renderPage(w, r, http.StatusOK, "home", a.page(r, "home.title", "home.description", "", data))
}

func (a *app) shopData(r *http.Request) handlers.ShopData {
	res := a.loadCatalog(r)
	return handlers.BuildShopData(handlers.ShopInput{
		Products:   res.Products,
		Err:        res.Err,
		State:      listing.ParseState(r.URL.Query()),
		Table:      a.table,
		PerPage:    a.cfg.Catalog.PageSize,
		Money:      a.money(r),
		Membership: mw.CartStore(r),
	})
}

func (a *app) shopHandler(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r, http.StatusOK, "shop", a.page(r, "shop.title", "shop.description", "", a.shopData(r)))
}

// shopResultsFrag re-renders only the results grid when a filter changes.
func (a *app) shopResultsFrag(w http.ResponseWriter, r *http.Request) {
	data := a.shopData(r)
	if data.Results.PushURL != "" {
		w.Header().Set("HX-Push-Url", data.Results.PushURL)
	}
	a.renderFragment(w, r, "shop_results", a.fragment(r, data))
}

func (a *app) offersHandler(w http.ResponseWriter, r *http.Request) {
	res := a.loadCatalog(r)
	data := handlers.BuildOffersData(res.Products, res.Err, a.money(r), mw.CartStore(r))
	a.renderPage(w, r, http.StatusOK, "offers", a.page(r, "offers.title", "offers.description", "", data))
}

func (a *app) searchHandler(w http.ResponseWriter, r *http.Request) {
	res := a.loadCatalog(r)
	term := r.URL.Query().Get(listing.ParamSearch)
	data := handlers.BuildSearchData(res.Products, res.Err, term, a.money(r), mw.CartStore(r))
	a.renderPage(w, r, http.StatusOK, "search", a.page(r, "search.title", "search.description", "", data))
}

// ProductPageData wraps the detail view with its fetch outcome.
type ProductPageData struct {
	Product  handlers.ProductData
	Error    string
	RetryURL string
}

func (a *app) productHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := a.loadCatalog(r)
	if res.Failed() {
		data := ProductPageData{Error: res.Err, RetryURL: r.URL.Path + "?" + handlers.RefreshParam + "=1"}
		a.renderPage(w, r, http.StatusOK, "product", a.page(r, "product.title", "", "", data))
		return
	}
	p, ok := catalog.FindByID(res.Products, id)
	if !ok {
		a.notFound(w, r)
		return
	}
	data := ProductPageData{Product: handlers.BuildProductData(p, res.Products, a.table, a.money(r), mw.CartStore(r))}
	a.renderPage(w, r, http.StatusOK, "product", a.page(r, "", "", p.Name, data))
}

func (a *app) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	a.notFound(w, r)
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) {
		mw.WriteError(w, r, http.StatusNotFound, a.bundle.T(a.lang(r), "notfound.title"))
		return
	}
	a.renderPage(w, r, http.StatusNotFound, "not_found", a.page(r, "notfound.title", "", "", nil))
}
