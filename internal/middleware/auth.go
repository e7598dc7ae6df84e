package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Auth hydrates the session token from "Authorization: Bearer debug:<token>" when dev is
// true. Production sign-in goes through the login form, which calls SignIn.
func Auth(dev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if dev {
				if token, ok := debugToken(r); ok {
					SignIn(r, token)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func debugToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	token, ok := strings.CutPrefix(strings.TrimPrefix(auth, "Bearer "), "debug:")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Authenticated reports whether the visitor holds an auth token. Only presence matters.
func Authenticated(r *http.Request) bool {
	return GetSession(r).Token != ""
}

// SignIn stores token on the session. First sign-in rotates the session ID.
func SignIn(r *http.Request, token string) {
	s := GetSession(r)
	if s.Token == token {
		return
	}
	wasAuthed := s.Token != ""
	s.Token = token
	if !wasAuthed {
		s.RegenerateID()
		return
	}
	s.MarkDirty()
}

// SignOut drops the auth token.
func SignOut(r *http.Request) {
	s := GetSession(r)
	if s.Token == "" {
		return
	}
	s.Token = ""
	s.RegenerateID()
}

// LoginRedirect sends the visitor to the login page with a hint to come back.
func LoginRedirect(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if back := ReturnPath(r); back != "/" {
		target += "?redirect=" + url.QueryEscape(back)
	}
	Redirect(w, r, target)
}

// ReturnPath picks the page the visitor was looking at: the htmx current URL, the GET
// target itself, or a same-host referer.
func ReturnPath(r *http.Request) string {
	if cur := r.Header.Get("HX-Current-URL"); cur != "" {
		if p := localPath(cur, r.Host); p != "" {
			return p
		}
	}
	if r.Method == http.MethodGet {
		return SafeRedirect(r.URL.RequestURI())
	}
	if p := localPath(r.Referer(), r.Host); p != "" {
		return p
	}
	return "/"
}

// SafeRedirect returns target when it is a local absolute path and "/" otherwise.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return target
}

func localPath(raw, host string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != host {
		return ""
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return SafeRedirect(p)
}
