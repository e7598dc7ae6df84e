package slider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/storefront-web/internal/backend"
)

func TestDecodeKeepsActiveSortedAndCapped(t *testing.T) {
	t.Parallel()

	raw := `{"success":true,"sliders":[
		{"isActive":true,"imageIndex":{"$numberInt":"3"},"image":{"url":"c.jpg"},"imageTitle":"C"},
		{"isActive":false,"imageIndex":0,"image":{"url":"hidden.jpg"}},
		{"isActive":true,"imageIndex":1,"image":{"url":"a.jpg"},"imageTitle":" A ","buttonLink":"/shop","buttonTitle":"Shop"},
		{"isActive":true,"imageIndex":1,"image":{"url":"a2.jpg"}},
		{"isActive":true,"imageIndex":9,"image":{"url":"z.jpg"}},
		{"isActive":true,"imageIndex":5,"image":{"url":"e.jpg"}},
		{"isActive":true,"imageIndex":4,"image":{"url":"d.jpg"}}
	]}`

	slides, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, slides, MaxSlides)

	urls := make([]string, 0, len(slides))
	for _, s := range slides {
		urls = append(urls, s.ImageURL)
	}
	require.Equal(t, []string{"a.jpg", "a2.jpg", "c.jpg", "d.jpg", "e.jpg"}, urls)
	require.Equal(t, "A", slides[0].Title)
	require.Equal(t, "/shop", slides[0].ButtonLink)
}

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	slides, err := Decode([]byte(`{"success":true,"sliders":[]}`))
	require.NoError(t, err)
	require.Empty(t, slides)

	_, err = Decode([]byte(`not json`))
	require.Error(t, err)
}

func TestClientSlidesSwallowsFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/sliders", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(backend.NewClient(backend.Options{BaseURL: srv.URL}), nil)
	require.NoError(t, err)

	require.Empty(t, client.Slides(context.Background()))
	_, err = client.Fetch(context.Background())
	require.True(t, backend.IsKind(err, backend.KindStatus))
}

func TestClientFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"sliders":[{"isActive":true,"imageIndex":0,"image":{"url":"a.jpg"}}]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(backend.NewClient(backend.Options{BaseURL: srv.URL}), nil)
	require.NoError(t, err)
	slides := client.Slides(context.Background())
	require.Len(t, slides, 1)
	require.Equal(t, Controls{}, NewCarousel().Loaded(len(slides)).Controls())
}
