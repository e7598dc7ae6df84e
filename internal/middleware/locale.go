package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/i18n"
	"finitefield.org/storefront-web/internal/requestctx"
)

// LangParam switches the UI language and remembers the choice in the session.
const LangParam = "lang"

// Locale resolves the UI language: an explicit ?lang=, then the session, then
// Accept-Language. Responses vary on Accept-Language.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Language")
			s := GetSession(r)
			lang := ""
			if q := r.URL.Query().Get(LangParam); q != "" && bundle.Supports(q) {
				lang = q
				if s.Locale != q {
					s.Locale = q
					s.MarkDirty()
				}
			} else if s.Locale != "" && bundle.Supports(s.Locale) {
				lang = s.Locale
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			ctx := requestctx.With(WithLang(r.Context(), lang), zap.String("lang", lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
