package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/oklog/ulid/v2"
)

// Key names a persisted collection.
type Key string

const (
	KeyCart     Key = "cart"
	KeyWishlist Key = "wishlist"
)

// Storage persists whole collections as opaque JSON. Load returns nil data for a key
// that was never saved.
type Storage interface {
	Load(key Key) ([]byte, error)
	Save(key Key, data []byte) error
}

// MemoryStorage keeps collections in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[Key][]byte
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[Key][]byte)}
}

// Load implements Storage.
func (m *MemoryStorage) Load(key Key) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Save implements Storage.
func (m *MemoryStorage) Save(key Key, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}

// ErrCollectionTooLarge is returned when a single collection exceeds the per-cart cap.
var ErrCollectionTooLarge = errors.New("store: collection too large")

const (
	defaultCartIdle     = 30 * 24 * time.Hour
	defaultMaxCartBytes = 256 << 10
)

// CartsOptions configure NewCarts.
type CartsOptions struct {
	// Idle is how long an untouched cart is kept. Defaults to 30 days.
	Idle time.Duration
	// MaxBytes caps one encoded collection. Defaults to 256 KiB.
	MaxBytes int
	Clock    func() time.Time
}

// Carts keeps every visitor's collections in process memory, keyed by cart id. Only
// the id travels in the visitor's cookie.
type Carts struct {
	mu       sync.Mutex
	entries  map[string]*cartEntry
	idle     time.Duration
	maxBytes int
	now      func() time.Time
}

type cartEntry struct {
	storage *MemoryStorage
	touched time.Time
}

// NewCarts returns an empty registry.
func NewCarts(opts CartsOptions) *Carts {
	idle := opts.Idle
	if idle <= 0 {
		idle = defaultCartIdle
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxCartBytes
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Carts{entries: make(map[string]*cartEntry), idle: idle, maxBytes: maxBytes, now: now}
}

// Idle reports how long an untouched cart survives.
func (c *Carts) Idle() time.Duration { return c.idle }

// Len reports how many carts are held.
func (c *Carts) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Load returns the collection stored under key for cart id.
func (c *Carts) Load(id string, key Key) ([]byte, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok {
		if c.expired(entry) {
			delete(c.entries, id)
			ok = false
		} else {
			entry.touched = c.now()
		}
	}
	c.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return entry.storage.Load(key)
}

// Save replaces the collection stored under key for cart id.
func (c *Carts) Save(id string, key Key, data []byte) error {
	if len(data) > c.maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrCollectionTooLarge, key, len(data), c.maxBytes)
	}
	c.mu.Lock()
	entry, ok := c.entries[id]
	if !ok || c.expired(entry) {
		entry = &cartEntry{storage: NewMemoryStorage()}
		c.entries[id] = entry
	}
	entry.touched = c.now()
	c.mu.Unlock()
	return entry.storage.Save(key, data)
}

// Sweep drops carts idle for longer than the idle window and reports how many went.
func (c *Carts) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for id, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (c *Carts) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *Carts) expired(entry *cartEntry) bool {
	return c.now().Sub(entry.touched) > c.idle
}

const cartCookieName = "sf_cart"

// ErrInvalidCodec indicates cookie keys were missing.
var ErrInvalidCodec = errors.New("store: invalid cookie codec config")

// CookieCodec signs (and optionally encrypts) the cart id cookie.
type CookieCodec struct {
	codec  *securecookie.SecureCookie
	secure bool
	carts  *Carts
}

// NewCookieCodec builds a codec over carts. blockKey may be empty to sign without
// encrypting. A nil carts gets a private registry with default limits.
func NewCookieCodec(hashKey, blockKey []byte, secure bool, carts *Carts) (*CookieCodec, error) {
	if len(hashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidCodec)
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}
	if carts == nil {
		carts = NewCarts(CartsOptions{})
	}
	codec := securecookie.New(hashKey, blockKey)
	codec.SetSerializer(securecookie.NopEncoder{})
	codec.MaxAge(int(carts.idle.Seconds()))
	return &CookieCodec{codec: codec, secure: secure, carts: carts}, nil
}

// ForRequest returns a storage bound to one request/response pair.
func (c *CookieCodec) ForRequest(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{codec: c, w: w, r: r}
}

// CookieStorage resolves the visitor's cart id from a signed cookie and keeps the
// collections in Carts. The id is minted on the first save.
type CookieStorage struct {
	codec *CookieCodec
	w     http.ResponseWriter
	r     *http.Request

	mu     sync.Mutex
	id     string
	read   bool
	issued bool
}

// Load implements Storage. A cookie that fails verification reads as an empty cart.
func (s *CookieStorage) Load(key Key) ([]byte, error) {
	id := s.cartID()
	if id == "" {
		return nil, nil
	}
	return s.codec.carts.Load(id, key)
}

// Save implements Storage.
func (s *CookieStorage) Save(key Key, data []byte) error {
	id, err := s.ensureCartID()
	if err != nil {
		return err
	}
	return s.codec.carts.Save(id, key, data)
}

// CartID returns the visitor's cart id, or "" before anything was saved.
func (s *CookieStorage) CartID() string { return s.cartID() }

func (s *CookieStorage) cartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.read {
		s.read = true
		if cookie, err := s.r.Cookie(cartCookieName); err == nil {
			var raw []byte
			if err := s.codec.codec.Decode(cartCookieName, cookie.Value, &raw); err == nil {
				s.id = string(raw)
			}
		}
	}
	return s.id
}

// ensureCartID mints an id when the visitor has none and refreshes the cookie once per
// response so the expiry slides with activity.
func (s *CookieStorage) ensureCartID() (string, error) {
	id := s.cartID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = ulid.Make().String()
		s.id = id
	}
	if s.issued {
		return id, nil
	}
	encoded, err := s.codec.codec.Encode(cartCookieName, []byte(id))
	if err != nil {
		return "", fmt.Errorf("store: encode cart cookie: %w", err)
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     cartCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.codec.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.codec.carts.idle.Seconds()),
	})
	s.issued = true
	return id, nil
}
