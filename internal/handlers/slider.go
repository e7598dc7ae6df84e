package handlers

import (
	"net/url"
	"strconv"

	"finitefield.org/storefront-web/internal/slider"
)

// SliderPath serves the carousel fragment.
const SliderPath = "/slider"

// Slider fragment query keys.
const (
	SliderParamIndex  = "i"
	SliderParamAction = "action"
	SliderParamTo     = "to"
	SliderParamPaused = "paused"
)

// SlideView is one slide plus its dot link.
type SlideView struct {
	slider.Slide
	Position int
	Active   bool
	DotURL   string
}

// SliderView is the carousel fragment view model.
type SliderView struct {
	Phase           string
	Empty           bool
	Slides          []SlideView
	Current         slider.Slide
	Controls        slider.Controls
	Paused          bool
	NextURL         string
	PrevURL         string
	TickURL         string
	HoverURL        string
	LeaveURL        string
	IntervalSeconds int
}

// ApplySliderAction feeds one user or timer event into the carousel. Unknown actions
// leave it unchanged.
func ApplySliderAction(c slider.Carousel, action string, to int) slider.Carousel {
	switch action {
	case "next":
		return c.Next()
	case "prev":
		return c.Prev()
	case "tick":
		return c.Tick()
	case "jump":
		return c.Jump(to)
	case "hover":
		return c.Hover()
	case "leave":
		return c.Leave()
	default:
		return c
	}
}

// BuildSliderView renders the carousel at its current state.
func BuildSliderView(slides []slider.Slide, c slider.Carousel) SliderView {
	paused := c.Phase() == slider.PhasePaused
	v := SliderView{
		Phase:           c.Phase().String(),
		Empty:           c.Phase() == slider.PhaseEmpty || len(slides) == 0,
		Controls:        c.Controls(),
		Paused:          paused,
		IntervalSeconds: int(slider.Interval.Seconds()),
	}
	if v.Empty {
		return v
	}
	idx := c.Index()
	if idx >= len(slides) {
		idx = 0
	}
	v.Current = slides[idx]
	for pos, s := range slides {
		v.Slides = append(v.Slides, SlideView{
			Slide:    s,
			Position: pos,
			Active:   pos == idx,
			DotURL:   sliderURL(idx, "jump", pos, paused),
		})
	}
	v.NextURL = sliderURL(idx, "next", -1, paused)
	v.PrevURL = sliderURL(idx, "prev", -1, paused)
	v.TickURL = sliderURL(idx, "tick", -1, paused)
	v.HoverURL = sliderURL(idx, "hover", -1, paused)
	v.LeaveURL = sliderURL(idx, "leave", -1, paused)
	return v
}

func sliderURL(index int, action string, to int, paused bool) string {
	q := url.Values{}
	q.Set(SliderParamIndex, strconv.Itoa(index))
	q.Set(SliderParamAction, action)
	if to >= 0 {
		q.Set(SliderParamTo, strconv.Itoa(to))
	}
	if paused {
		q.Set(SliderParamPaused, "1")
	}
	return SliderPath + "?" + q.Encode()
}
