package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultUpstreamTimeout = 10 * time.Second
	defaultCacheTTL        = 30 * time.Second
	defaultPageSize        = 12
	defaultEnvironment     = "dev"
	defaultLang            = "en"
	defaultCurrency        = "INR"
	defaultLogLevel        = "info"
	minSessionKeyLength    = 32
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Upstream    UpstreamConfig
	Session     SessionConfig
	Catalog     CatalogConfig
	Site        SiteConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// UpstreamConfig points at the storefront REST API.
type UpstreamConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// SessionConfig holds cookie signing and encryption keys.
type SessionConfig struct {
	HashKey  string
	BlockKey string
	Secure   bool
}

// CatalogConfig tunes listing behaviour.
type CatalogConfig struct {
	TaxonomyFile string
	PageSize     int
}

// SiteConfig carries presentation settings.
type SiteConfig struct {
	DefaultLang     string
	Currency        string
	GAMeasurementID string
	GTMContainerID  string
}

// IsDev reports whether the configuration targets local development.
func (c Config) IsDev() bool {
	switch c.Environment {
	case "dev", "local", "development":
		return true
	}
	return false
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the storefront configuration by combining defaults, .env overrides,
// environment variables and explicit maps, in increasing order of precedence.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	env := strings.ToLower(stringWithDefault(lookup, "STOREFRONT_ENV", defaultEnvironment))
	cfg := Config{
		Environment: env,
		LogLevel:    stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		Server: ServerConfig{
			// PORT is honoured for platforms that inject it (Cloud Run, Heroku).
			Port:         stringWithDefault(lookup, "STOREFRONT_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:  durationWithDefault(lookup, "STOREFRONT_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "STOREFRONT_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "STOREFRONT_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Upstream: UpstreamConfig{
			BaseURL:  strings.TrimRight(strings.TrimSpace(stringWithDefault(lookup, "STOREFRONT_API_BASE_URL", "")), "/"),
			Timeout:  durationWithDefault(lookup, "STOREFRONT_UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
			CacheTTL: durationWithDefault(lookup, "STOREFRONT_CACHE_TTL", defaultCacheTTL),
		},
		Session: SessionConfig{
			HashKey:  stringWithDefault(lookup, "STOREFRONT_SESSION_HASH_KEY", ""),
			BlockKey: stringWithDefault(lookup, "STOREFRONT_SESSION_BLOCK_KEY", ""),
			Secure:   boolWithDefault(lookup, "STOREFRONT_SESSION_SECURE", env == "prod"),
		},
		Catalog: CatalogConfig{
			TaxonomyFile: stringWithDefault(lookup, "STOREFRONT_TAXONOMY_FILE", ""),
			PageSize:     intWithDefault(lookup, "STOREFRONT_PAGE_SIZE", defaultPageSize),
		},
		Site: SiteConfig{
			DefaultLang:     stringWithDefault(lookup, "STOREFRONT_DEFAULT_LANG", defaultLang),
			Currency:        strings.ToUpper(stringWithDefault(lookup, "STOREFRONT_CURRENCY", defaultCurrency)),
			GAMeasurementID: stringWithDefault(lookup, "STOREFRONT_GA_MEASUREMENT_ID", ""),
			GTMContainerID:  stringWithDefault(lookup, "STOREFRONT_GTM_CONTAINER_ID", ""),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if u, err := url.Parse(cfg.Upstream.BaseURL); cfg.Upstream.BaseURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "Upstream.BaseURL")
	}
	if cfg.Upstream.Timeout <= 0 {
		missing = append(missing, "Upstream.Timeout")
	}
	if cfg.Upstream.CacheTTL < 0 {
		missing = append(missing, "Upstream.CacheTTL")
	}
	if cfg.Catalog.PageSize <= 0 {
		missing = append(missing, "Catalog.PageSize")
	}
	// Outside dev the cookie keys must be stable across restarts.
	if !cfg.IsDev() && len(cfg.Session.HashKey) < minSessionKeyLength {
		missing = append(missing, "Session.HashKey")
	}
	if n := len(cfg.Session.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		missing = append(missing, "Session.BlockKey")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
