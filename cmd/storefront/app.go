package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/backend"
	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/config"
	"finitefield.org/storefront-web/internal/events"
	"finitefield.org/storefront-web/internal/handlers"
	"finitefield.org/storefront-web/internal/i18n"
	mw "finitefield.org/storefront-web/internal/middleware"
	"finitefield.org/storefront-web/internal/site"
	"finitefield.org/storefront-web/internal/slider"
	"finitefield.org/storefront-web/internal/store"
	"finitefield.org/storefront-web/internal/taxonomy"
)

// supportedLanguages are the dictionaries shipped under locales/.
var supportedLanguages = []string{"en", "hi"}

type appPaths struct {
	Templates string
	Public    string
	Locales   string
}

// app holds the process-wide collaborators shared by every request.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	devMode bool

	upstream *backend.Client
	catalog  *catalog.Fetcher
	slides   *slider.Client
	site     *site.Client
	table    *taxonomy.Table
	bundle   *i18n.Bundle

	sessions *mw.Sessions
	carts    *store.CookieCodec
	lines    *store.Carts
	bus      *events.Bus

	views        *views
	assets       fs.FS
	assetVersion string
	analytics    handlers.Analytics
}

func newApp(cfg config.Config, logger *zap.Logger, paths appPaths) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &app{
		cfg:       cfg,
		logger:    logger,
		devMode:   cfg.IsDev(),
		bus:       events.NewBus(),
		analytics: handlers.AnalyticsFromConfig(cfg),
	}

	a.upstream = backend.NewClient(backend.Options{
		BaseURL:  cfg.Upstream.BaseURL,
		Timeout:  cfg.Upstream.Timeout,
		CacheTTL: cfg.Upstream.CacheTTL,
		Logger:   logger,
	})

	var err error
	if a.catalog, err = catalog.NewFetcher(catalog.Deps{Upstream: a.upstream, Logger: logger}); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if a.slides, err = slider.NewClient(a.upstream, logger); err != nil {
		return nil, fmt.Errorf("slider: %w", err)
	}
	a.site = site.NewClient(a.upstream, logger)

	a.table = taxonomy.Default()
	if cfg.Catalog.TaxonomyFile != "" {
		if a.table, err = taxonomy.LoadFile(cfg.Catalog.TaxonomyFile); err != nil {
			return nil, fmt.Errorf("taxonomy: %w", err)
		}
	}

	if a.bundle, err = i18n.Load(paths.Locales, cfg.Site.DefaultLang, supportedLanguages); err != nil {
		return nil, err
	}

	hashKey, blockKey := []byte(cfg.Session.HashKey), []byte(cfg.Session.BlockKey)
	if len(hashKey) == 0 {
		// config validation only lets this through in dev
		hashKey = securecookie.GenerateRandomKey(32)
		logger.Warn("using ephemeral session key; set STOREFRONT_SESSION_HASH_KEY to keep sessions across restarts")
	}
	if a.sessions, err = mw.NewSessions(mw.SessionOptions{HashKey: hashKey, BlockKey: blockKey, Secure: cfg.Session.Secure}); err != nil {
		return nil, err
	}
	a.lines = store.NewCarts(store.CartsOptions{})
	if a.carts, err = store.NewCookieCodec(hashKey, blockKey, cfg.Session.Secure, a.lines); err != nil {
		return nil, err
	}

	if a.views, err = newViews(paths.Templates, a.devMode, a.bundle); err != nil {
		return nil, err
	}

	assetsDir := filepath.Join(paths.Public, "assets")
	a.assets = os.DirFS(assetsDir)
	a.assetVersion = mw.AssetVersion(a.assets, "css/app.css")

	if err := a.subscribe(); err != nil {
		return nil, err
	}
	return a, nil
}

// subscribe wires process-wide listeners. Each request's recorder forwards to the bus
// after turning the same events into HX-Trigger for the page.
func (a *app) subscribe() error {
	names := []events.Name{events.CartUpdated, events.WishlistUpdated}
	if _, err := events.Instrument(a.bus, nil, names...); err != nil {
		return err
	}
	for _, name := range names {
		a.bus.Subscribe(name, func() {
			a.logger.Debug("collection changed", zap.String("event", string(name)))
		})
	}
	return nil
}
