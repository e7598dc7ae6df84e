package main

import (
	"net/http"
	"strconv"

	"finitefield.org/storefront-web/internal/handlers"
	"finitefield.org/storefront-web/internal/slider"
)

// sliderFrag rebuilds the carousel from the query string, applies one event and
// renders the next state. The client polls with action=tick while AutoAdvance holds.
func (a *app) sliderFrag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slides := a.slides.Slides(r.Context())
	index, _ := strconv.Atoi(q.Get(handlers.SliderParamIndex))
	to, err := strconv.Atoi(q.Get(handlers.SliderParamTo))
	if err != nil {
		to = -1
	}
	c := slider.Restore(len(slides), index, q.Get(handlers.SliderParamPaused) == "1")
	c = handlers.ApplySliderAction(c, q.Get(handlers.SliderParamAction), to)
	a.renderFragment(w, r, "slider", a.fragment(r, handlers.BuildSliderView(slides, c)))
}
