package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestClientGetCachesSuccessfulBodies(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, "/api/products", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{BaseURL: srv.URL + "/", CacheTTL: time.Minute})
	for i := 0; i < 3; i++ {
		body, err := client.Get(context.Background(), "api/products")
		require.NoError(t, err)
		require.Equal(t, "[]", string(body))
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestClientCacheExpires(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	client := NewClient(Options{BaseURL: srv.URL, CacheTTL: 30 * time.Second, Clock: clock})

	_, err := client.Get(context.Background(), "api/site")
	require.NoError(t, err)
	mu.Lock()
	now = now.Add(31 * time.Second)
	mu.Unlock()
	_, err = client.Get(context.Background(), "api/site")
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load())
}

func TestClientRefreshDropsCacheOnFailure(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[1]`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{BaseURL: srv.URL, CacheTTL: time.Hour})
	_, err := client.Get(context.Background(), "api/products")
	require.NoError(t, err)

	fail.Store(true)
	_, err = client.Refresh(context.Background(), "api/products")
	require.Error(t, err)

	_, err = client.Get(context.Background(), "api/products")
	require.Error(t, err, "stale body must not survive a failed refresh")
}

func TestClientStatusErrorCarriesServerMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"Catalog is being updated"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{BaseURL: srv.URL})
	_, err := client.Get(context.Background(), "api/products")
	require.Error(t, err)

	var be *Error
	require.True(t, errors.As(err, &be))
	require.Equal(t, KindStatus, be.Kind)
	require.Equal(t, http.StatusServiceUnavailable, be.Status)
	require.Equal(t, "Catalog is being updated", UserMessage(err))
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Options{BaseURL: url, Timeout: time.Second})
	_, err := client.Get(context.Background(), "api/products")
	require.True(t, IsKind(err, KindTransport))
	require.Equal(t, msgTransport, UserMessage(err))
}

func TestClientWithoutBaseURL(t *testing.T) {
	t.Parallel()

	client := NewClient(Options{})
	_, err := client.Get(context.Background(), "api/products")
	require.ErrorIs(t, err, ErrNoBaseURL)
}

func TestClientDeduplicatesConcurrentReads(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{BaseURL: srv.URL})
	errs := make(chan error, 5)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Get(context.Background(), "api/sliders")
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, calls.Load())
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"malformed", Malformed("api/products", errors.New("bad json")), msgMalformed},
		{"status without message", &Error{Kind: KindStatus, Status: 404}, "The store responded with 404 Not Found. Please try again."},
		{"foreign error", errors.New("boom"), msgGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, UserMessage(tc.err))
		})
	}
}

func TestClientRecordsWithInjectedMeter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		BaseURL:  srv.URL,
		CacheTTL: time.Minute,
		Meter:    noop.NewMeterProvider().Meter("test"),
	})
	require.NotNil(t, client.metrics.latency)
	require.NotNil(t, client.metrics.cacheHits)

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "api/products")
		require.NoError(t, err)
	}
}
