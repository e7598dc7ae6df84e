// Package backend talks to the storefront REST API. It owns transport concerns shared by
// the catalog, slider and site readers: timeouts, tracing, response caching and the
// error taxonomy surfaced to pages.
package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"finitefield.org/storefront-web/internal/requestctx"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
	tracerName     = "finitefield.org/storefront-web/internal/backend"
)

// ErrNoBaseURL indicates the client was built without an upstream address.
var ErrNoBaseURL = errors.New("backend: base url not configured")

// Options configure a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	CacheTTL  time.Duration
	Transport http.RoundTripper
	Logger    *zap.Logger
	Clock     func() time.Time
	// Meter defaults to the global meter provider.
	Meter metric.Meter
}

// Client issues GET requests against the storefront API. Successful bodies are cached
// per path for CacheTTL and concurrent reads of the same path share one upstream call.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *responseCache
	group   singleflight.Group
	logger  *zap.Logger
	metrics instruments
}

// NewClient constructs a client from options.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("backend")
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(base),
		},
		cache:   newResponseCache(opts.CacheTTL, opts.Clock),
		logger:  logger,
		metrics: newInstruments(opts.Meter, logger),
	}
}

// BaseURL returns the configured upstream address.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Get returns the raw body for path, served from cache when fresh.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	if body, ok := c.cache.get(path); ok {
		c.metrics.recordCacheHit(ctx, path)
		return body, nil
	}
	return c.load(ctx, path)
}

// Refresh bypasses the cache. A failed refresh drops any cached body so callers never
// fall back to stale data after an explicit retry.
func (c *Client) Refresh(ctx context.Context, path string) ([]byte, error) {
	c.cache.forget(path)
	return c.load(ctx, path)
}

func (c *Client) load(ctx context.Context, path string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, &Error{Kind: KindTransport, Endpoint: path, Err: ErrNoBaseURL}
	}
	// The shared call must outlive a single cancelled caller.
	ch := c.group.DoChan(path, func() (any, error) {
		body, err := c.fetch(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		c.cache.put(path, body)
		return body, nil
	})
	select {
	case <-ctx.Done():
		return nil, &Error{Kind: KindTransport, Endpoint: path, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "backend.Get")
	defer span.End()
	span.SetAttributes(attribute.String("storefront.endpoint", path))

	logger := requestctx.LoggerOr(ctx, c.logger)

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Endpoint: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.recordLatency(ctx, path, "transport_error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		logger.Warn("upstream request failed", zap.String("endpoint", path), zap.Error(err))
		return nil, &Error{Kind: KindTransport, Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := errorFromResponse(path, resp)
		c.metrics.recordLatency(ctx, path, "status_error", time.Since(start))
		span.SetStatus(codes.Error, upstreamErr.Error())
		logger.Warn("upstream returned error status",
			zap.String("endpoint", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstreamErr.Message),
		)
		return nil, upstreamErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		return nil, &Error{Kind: KindTransport, Endpoint: path, Err: err}
	}
	c.metrics.recordLatency(ctx, path, "ok", time.Since(start))
	logger.Debug("upstream request completed",
		zap.String("endpoint", path),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)),
	)
	return body, nil
}
