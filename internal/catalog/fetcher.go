package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/backend"
	"finitefield.org/storefront-web/internal/requestctx"
)

const productsPath = "api/products"

// ErrNotFound is returned when a product id is not part of the catalog.
var ErrNotFound = errors.New("catalog: product not found")

// Upstream is the subset of backend.Client the fetcher needs.
type Upstream interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Refresh(ctx context.Context, path string) ([]byte, error)
}

// Deps wires the fetcher collaborators.
type Deps struct {
	Upstream Upstream
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Fetcher reads the product collection from the storefront API.
type Fetcher struct {
	upstream Upstream
	logger   *zap.Logger
	now      func() time.Time
}

// NewFetcher constructs a catalog fetcher.
func NewFetcher(deps Deps) (*Fetcher, error) {
	if deps.Upstream == nil {
		return nil, errors.New("catalog: upstream is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Fetcher{upstream: deps.Upstream, logger: logger.Named("catalog"), now: clock}, nil
}

// LoadOptions tune a Load call.
type LoadOptions struct {
	// Refresh bypasses the shared cache, used by the manual retry action.
	Refresh bool
}

// FetchResult is what pages render: either products or a user-visible error.
// An empty Products slice with no Err is a valid, empty catalog.
type FetchResult struct {
	Products []Product
	Err      string
}

// Failed reports whether the fetch produced an error message.
func (r FetchResult) Failed() bool { return r.Err != "" }

// Products issues one read of the product collection and normalizes it.
func (f *Fetcher) Products(ctx context.Context) ([]Product, error) {
	return f.products(ctx, false)
}

// Load never fails: any upstream or decoding error becomes FetchResult.Err and the
// product list is dropped.
func (f *Fetcher) Load(ctx context.Context, opts LoadOptions) FetchResult {
	products, err := f.products(ctx, opts.Refresh)
	if err != nil {
		f.loggerFor(ctx).Warn("catalog load failed", zap.Bool("refresh", opts.Refresh), zap.Error(err))
		return FetchResult{Err: backend.UserMessage(err)}
	}
	return FetchResult{Products: products}
}

// Product looks up a single product by id.
func (f *Fetcher) Product(ctx context.Context, id string) (Product, error) {
	products, err := f.products(ctx, false)
	if err != nil {
		return Product{}, err
	}
	p, ok := FindByID(products, id)
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *Fetcher) products(ctx context.Context, refresh bool) ([]Product, error) {
	read := f.upstream.Get
	if refresh {
		read = f.upstream.Refresh
	}
	body, err := read(ctx, productsPath)
	if err != nil {
		return nil, err
	}
	products, err := Normalize(body, f.now())
	if err != nil {
		return nil, backend.Malformed(productsPath, err)
	}
	return products, nil
}

func (f *Fetcher) loggerFor(ctx context.Context) *zap.Logger {
	return requestctx.LoggerOr(ctx, f.logger)
}
