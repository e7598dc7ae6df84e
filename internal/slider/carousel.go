package slider

import "time"

// Interval is the auto-advance period.
const Interval = 5 * time.Second

// Phase is the carousel lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseEmpty
	PhasePlaying
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	default:
		return "loading"
	}
}

// Carousel is an immutable carousel state; every event returns the next state.
type Carousel struct {
	phase Phase
	index int
	count int
}

// NewCarousel starts in the loading phase.
func NewCarousel() Carousel {
	return Carousel{phase: PhaseLoading}
}

// Restore rebuilds a carousel of n slides showing index i.
func Restore(n, i int, paused bool) Carousel {
	c := NewCarousel().Loaded(n).Jump(i)
	if paused {
		c = c.Hover()
	}
	return c
}

// Phase returns the lifecycle state.
func (c Carousel) Phase() Phase { return c.phase }

// Index is the visible slide.
func (c Carousel) Index() int { return c.index }

// Count is the number of slides.
func (c Carousel) Count() int { return c.count }

// Loaded moves out of loading once slides arrive.
func (c Carousel) Loaded(n int) Carousel {
	if n <= 0 {
		return Carousel{phase: PhaseEmpty}
	}
	return Carousel{phase: PhasePlaying, count: n}
}

// Tick advances while playing.
func (c Carousel) Tick() Carousel {
	if c.phase != PhasePlaying || c.count <= 1 {
		return c
	}
	c.index = (c.index + 1) % c.count
	return c
}

// Hover pauses auto-advance.
func (c Carousel) Hover() Carousel {
	if c.phase == PhasePlaying {
		c.phase = PhasePaused
	}
	return c
}

// Leave resumes auto-advance.
func (c Carousel) Leave() Carousel {
	if c.phase == PhasePaused {
		c.phase = PhasePlaying
	}
	return c
}

// Next shows the following slide without changing the pause state.
func (c Carousel) Next() Carousel {
	if !c.active() {
		return c
	}
	c.index = (c.index + 1) % c.count
	return c
}

// Prev shows the preceding slide without changing the pause state.
func (c Carousel) Prev() Carousel {
	if !c.active() {
		return c
	}
	c.index = (c.index - 1 + c.count) % c.count
	return c
}

// Jump shows slide i. Out-of-range indexes are ignored.
func (c Carousel) Jump(i int) Carousel {
	if !c.active() || i < 0 || i >= c.count {
		return c
	}
	c.index = i
	return c
}

// NextIndex is the slide a tick or Next would show.
func (c Carousel) NextIndex() int { return c.Next().index }

// PrevIndex is the slide Prev would show.
func (c Carousel) PrevIndex() int { return c.Prev().index }

func (c Carousel) active() bool {
	return (c.phase == PhasePlaying || c.phase == PhasePaused) && c.count > 0
}

// Controls reports which carousel chrome renders.
type Controls struct {
	Arrows      bool
	Dots        bool
	AutoAdvance bool
	Progress    bool
}

// Controls derives the visible chrome. A single slide shows none of it, and a paused
// carousel keeps its arrows and dots but stops advancing.
func (c Carousel) Controls() Controls {
	if !c.active() || c.count <= 1 {
		return Controls{}
	}
	playing := c.phase == PhasePlaying
	return Controls{
		Arrows:      true,
		Dots:        true,
		AutoAdvance: playing,
		Progress:    playing,
	}
}
