// Package events carries named, payload-less change notifications between components.
// Listeners re-read whatever state they care about; events never carry deltas.
package events

import "sync"

// Name identifies an event.
type Name string

const (
	CartUpdated     Name = "cartUpdated"
	WishlistUpdated Name = "wishlistUpdated"
)

// Publisher emits events.
type Publisher interface {
	Publish(name Name)
}

// Bus is a synchronous publish/subscribe hub. Handlers run in subscription order on the
// publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Name][]subscription
}

type subscription struct {
	id int
	fn func()
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Name][]subscription)}
}

// Subscribe registers fn for name and returns a function that removes it.
func (b *Bus) Subscribe(name Name, fn func()) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[name]
			for i, s := range subs {
				if s.id == id {
					b.subs[name] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish invokes every handler subscribed to name.
func (b *Bus) Publish(name Name) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[name]))
	copy(subs, b.subs[name])
	b.mu.RUnlock()
	for _, s := range subs {
		s.fn()
	}
}

// Recorder collects published names, in first-publish order without duplicates, so a
// response can announce them to the page.
type Recorder struct {
	mu    sync.Mutex
	names []Name
	next  Publisher
}

// NewRecorder returns a recorder that also forwards to next when non-nil.
func NewRecorder(next Publisher) *Recorder {
	return &Recorder{next: next}
}

// Publish records name and forwards it.
func (r *Recorder) Publish(name Name) {
	r.mu.Lock()
	seen := false
	for _, n := range r.names {
		if n == name {
			seen = true
			break
		}
	}
	if !seen {
		r.names = append(r.names, name)
	}
	r.mu.Unlock()
	if r.next != nil {
		r.next.Publish(name)
	}
}

// Names returns the recorded event names.
func (r *Recorder) Names() []Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Name, len(r.names))
	copy(out, r.names)
	return out
}
