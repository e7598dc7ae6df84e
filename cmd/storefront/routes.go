package main

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/observability"
)

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLoggerMiddleware(a.logger))
	r.Use(observability.TraceMiddleware)
	r.Use(observability.RequestLoggerMiddleware("/assets/", "/healthz"))
	r.Use(observability.RecoveryMiddleware(a.logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(a.assets)))

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(a.sessions.Middleware)
		r.Use(mw.Locale(a.bundle))
		r.Use(mw.Auth(a.devMode))
		r.Use(a.sessions.CSRF)
		r.Use(mw.Cart(mw.CartDeps{Codec: a.carts, Bus: a.bus, Logger: a.logger}))

		r.Get("/", a.homeHandler)
		r.Get("/shop", a.shopHandler)
		r.Get("/shop/results", a.shopResultsFrag)
		r.Get("/offers", a.offersHandler)
		r.Get("/search", a.searchHandler)
		r.Get("/products/{id}", a.productHandler)

		r.Get("/cart", a.cartHandler)
		r.Post("/cart/add", a.cartAddHandler)
		r.Post("/cart/update", a.cartUpdateHandler)
		r.Post("/cart/remove", a.cartRemoveHandler)
		r.Post("/cart/clear", a.cartClearHandler)

		r.Get("/wishlist", a.wishlistHandler)
		r.Post("/wishlist/toggle", a.wishlistToggleHandler)
		r.Post("/wishlist/remove", a.wishlistRemoveHandler)

		r.Get("/badges/cart", a.cartBadgeFrag)
		r.Get("/badges/wishlist", a.wishlistBadgeFrag)
		r.Get("/slider", a.sliderFrag)

		r.Get("/login", a.loginHandler)
		r.Post("/login", a.loginSubmitHandler)
		r.Post("/logout", a.logoutHandler)

		r.NotFound(a.notFoundHandler)
	})
	return r
}
