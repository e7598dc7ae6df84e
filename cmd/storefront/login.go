package main

import (
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	mw "finitefield.org/storefront-web/internal/middleware"
)

// LoginData is the view model for the login page.
type LoginData struct {
	Redirect  string
	Email     string
	ErrorKey  string
	Available bool
}

func (a *app) loginHandler(w http.ResponseWriter, r *http.Request) {
	if mw.Authenticated(r) {
		mw.Redirect(w, r, mw.SafeRedirect(r.URL.Query().Get("redirect")))
		return
	}
	data := LoginData{
		Redirect:  mw.SafeRedirect(r.URL.Query().Get("redirect")),
		Available: a.devMode,
	}
	a.renderPage(w, r, http.StatusOK, "login", a.page(r, "login.title", "", "", data))
}

// loginSubmitHandler issues a development token. Real sign-in happens on the identity
// provider, which is not wired in this service.
func (a *app) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	data := LoginData{
		Redirect:  mw.SafeRedirect(r.PostFormValue("redirect")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Available: a.devMode,
	}
	if !a.devMode {
		data.ErrorKey = "login.unavailable"
		a.renderPage(w, r, http.StatusForbidden, "login", a.page(r, "login.title", "", "", data))
		return
	}
	if !strings.Contains(data.Email, "@") {
		data.ErrorKey = "login.invalidEmail"
		a.renderPage(w, r, http.StatusUnprocessableEntity, "login", a.page(r, "login.title", "", "", data))
		return
	}
	mw.SignIn(r, "dev:"+ulid.Make().String())
	a.requestLogger(r).Info("dev sign-in")
	mw.Redirect(w, r, data.Redirect)
}

func (a *app) logoutHandler(w http.ResponseWriter, r *http.Request) {
	mw.SignOut(r)
	mw.Redirect(w, r, "/")
}

