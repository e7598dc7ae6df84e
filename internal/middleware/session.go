package middleware

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/oklog/ulid/v2"
)

const (
	sessionCookieName = "sf_session"
	sessionLifetime   = 30 * 24 * time.Hour
)

// ErrSessionKey is returned when the session hash key is missing.
var ErrSessionKey = errors.New("middleware: session hash key is required")

// SessionData is the visitor state carried in the signed session cookie.
type SessionData struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	dirty bool
	now   func() time.Time
}

// MarkDirty flags the session for writing before the response goes out.
func (s *SessionData) MarkDirty() {
	s.dirty = true
	s.UpdatedAt = s.clock()
}

// RegenerateID assigns a new session ID and CSRF token to prevent fixation after sign-in.
func (s *SessionData) RegenerateID() {
	s.ID = newSessionID(s.clock())
	s.CSRFToken = newCSRFToken()
	s.MarkDirty()
}

func (s *SessionData) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// Sessions encodes session cookies.
type Sessions struct {
	codec  *securecookie.SecureCookie
	secure bool
	now    func() time.Time
}

// SessionOptions configure NewSessions.
type SessionOptions struct {
	HashKey  []byte
	BlockKey []byte
	Secure   bool
	Clock    func() time.Time
}

// NewSessions builds the session codec. BlockKey may be empty to sign without encrypting.
func NewSessions(opts SessionOptions) (*Sessions, error) {
	if len(opts.HashKey) == 0 {
		return nil, ErrSessionKey
	}
	blockKey := opts.BlockKey
	if len(blockKey) == 0 {
		blockKey = nil
	}
	codec := securecookie.New(opts.HashKey, blockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(sessionLifetime.Seconds()))
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Sessions{codec: codec, secure: opts.Secure, now: now}, nil
}

// Secure reports whether cookies are flagged Secure.
func (m *Sessions) Secure() bool { return m.secure }

// Middleware loads or initializes the session and writes it back when it changed.
func (m *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := m.read(r)
		if sd.ID == "" {
			created := m.now().UTC()
			sd.ID = newSessionID(created)
			sd.CreatedAt = created
			sd.UpdatedAt = created
			sd.CSRFToken = newCSRFToken()
			sd.dirty = true
		}
		hw := newHookWriter(w)
		hw.beforeWrite(func(h http.Header) {
			if sd.dirty || !fromCookie {
				m.write(h, sd)
			}
		})
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)
		next.ServeHTTP(hw, r.WithContext(ctx))
		// nothing written (e.g. HEAD or an empty 200) still persists the cookie
		hw.flushHooks()
	})
}

// GetSession returns session data from context. Requests that bypassed the session
// middleware get a throwaway value.
func GetSession(r *http.Request) *SessionData {
	if sd, ok := r.Context().Value(ctxKeySession).(*SessionData); ok {
		return sd
	}
	return &SessionData{}
}

func (m *Sessions) read(r *http.Request) (*SessionData, bool) {
	sd := &SessionData{now: m.now}
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return sd, false
	}
	if err := m.codec.Decode(sessionCookieName, c.Value, sd); err != nil {
		return &SessionData{now: m.now}, false
	}
	return sd, true
}

func (m *Sessions) write(h http.Header, sd *SessionData) {
	encoded, err := m.codec.Encode(sessionCookieName, sd)
	if err != nil {
		return
	}
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionLifetime.Seconds()),
	}
	h.Add("Set-Cookie", cookie.String())
	sd.dirty = false
}

func newSessionID(at time.Time) string {
	return ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String()
}

func newCSRFToken() string {
	key := securecookie.GenerateRandomKey(16)
	if key == nil {
		panic("middleware: random source unavailable")
	}
	return hex.EncodeToString(key)
}
