package middleware

import "net/http"

// hookWriter runs header hooks once, right before the first byte or status is sent.
type hookWriter struct {
	http.ResponseWriter
	hooks []func(http.Header)
	wrote bool
}

func newHookWriter(w http.ResponseWriter) *hookWriter {
	if hw, ok := w.(*hookWriter); ok {
		return hw
	}
	return &hookWriter{ResponseWriter: w}
}

// beforeWrite registers fn. Hooks run in registration order.
func (w *hookWriter) beforeWrite(fn func(http.Header)) {
	w.hooks = append(w.hooks, fn)
}

func (w *hookWriter) flushHooks() {
	if w.wrote {
		return
	}
	w.wrote = true
	h := w.ResponseWriter.Header()
	for _, fn := range w.hooks {
		fn(h)
	}
}

func (w *hookWriter) WriteHeader(status int) {
	w.flushHooks()
	w.ResponseWriter.WriteHeader(status)
}

func (w *hookWriter) Write(b []byte) (int, error) {
	w.flushHooks()
	return w.ResponseWriter.Write(b)
}

func (w *hookWriter) Flush() {
	w.flushHooks()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *hookWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
