package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/events"
	"finitefield.org/storefront-web/internal/store"
)

// CartDeps wire the per-request cart/wishlist store.
type CartDeps struct {
	Codec  *store.CookieCodec
	Bus    events.Publisher
	Logger *zap.Logger
}

// Cart binds a cookie-backed store to each request. Change events published while the
// handler runs are forwarded to Bus and echoed to htmx as HX-Trigger.
func Cart(deps CartDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hw := newHookWriter(w)
			recorder := events.NewRecorder(deps.Bus)
			st := store.New(store.Deps{
				Storage:       deps.Codec.ForRequest(hw, r),
				Publisher:     recorder,
				Authenticated: Authenticated(r),
				Logger:        deps.Logger,
			})
			hw.beforeWrite(func(h http.Header) {
				if trigger := triggerHeader(recorder.Names()); trigger != "" {
					h.Set("HX-Trigger", trigger)
				}
			})
			ctx := context.WithValue(r.Context(), ctxKeyCart, st)
			next.ServeHTTP(hw, r.WithContext(ctx))
		})
	}
}

// CartStore returns the request's store. Requests outside the Cart middleware get an
// in-memory store so read-only templates still render.
func CartStore(r *http.Request) *store.Store {
	if st, ok := r.Context().Value(ctxKeyCart).(*store.Store); ok {
		return st
	}
	return store.New(store.Deps{Storage: store.NewMemoryStorage()})
}

func triggerHeader(names []events.Name) string {
	if len(names) == 0 {
		return ""
	}
	payload := make(map[string]bool, len(names))
	for _, n := range names {
		payload[string(n)] = true
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(raw)
}
