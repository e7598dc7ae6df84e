// Package slider reads promotional slides and models the carousel that rotates them.
package slider

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/backend"
	"finitefield.org/storefront-web/internal/extjson"
	"finitefield.org/storefront-web/internal/requestctx"
)

const (
	slidersPath = "api/sliders"
	// MaxSlides caps how many active slides are shown.
	MaxSlides = 5
)

// Slide is one promotional banner.
type Slide struct {
	Index       int
	ImageURL    string
	Title       string
	Description string
	ButtonLink  string
	ButtonTitle string
}

type slideRecord struct {
	IsActive         bson.RawValue `bson:"isActive"`
	ImageIndex       bson.RawValue `bson:"imageIndex"`
	Image            bson.RawValue `bson:"image"`
	ImageTitle       string        `bson:"imageTitle"`
	ImageDescription string        `bson:"imageDescription"`
	ButtonLink       string        `bson:"buttonLink"`
	ButtonTitle      string        `bson:"buttonTitle"`
}

type slidesPayload struct {
	Success bool          `bson:"success"`
	Sliders []slideRecord `bson:"sliders"`
}

// Upstream is the subset of backend.Client the slider needs.
type Upstream interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Client fetches slides.
type Client struct {
	upstream Upstream
	logger   *zap.Logger
}

// NewClient constructs a slider client.
func NewClient(upstream Upstream, logger *zap.Logger) (*Client, error) {
	if upstream == nil {
		return nil, errors.New("slider: upstream is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{upstream: upstream, logger: logger.Named("slider")}, nil
}

// Fetch returns active slides ordered by image index, at most MaxSlides.
func (c *Client) Fetch(ctx context.Context) ([]Slide, error) {
	body, err := c.upstream.Get(ctx, slidersPath)
	if err != nil {
		return nil, err
	}
	slides, err := Decode(body)
	if err != nil {
		return nil, backend.Malformed(slidersPath, err)
	}
	return slides, nil
}

// Slides is Fetch for rendering: failures are logged and yield no slides.
func (c *Client) Slides(ctx context.Context) []Slide {
	slides, err := c.Fetch(ctx)
	if err != nil {
		logger := requestctx.LoggerOr(ctx, c.logger)
		logger.Warn("slider fetch failed", zap.Error(err))
		return []Slide{}
	}
	return slides
}

// Decode parses a sliders payload, keeping active entries sorted by image index.
func Decode(raw []byte) ([]Slide, error) {
	var payload slidesPayload
	if err := extjson.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("slider: decode: %w", err)
	}
	slides := make([]Slide, 0, len(payload.Sliders))
	for _, rec := range payload.Sliders {
		if !extjson.Bool(rec.IsActive) {
			continue
		}
		slides = append(slides, Slide{
			Index:       extjson.Int(rec.ImageIndex),
			ImageURL:    extjson.URL(rec.Image),
			Title:       strings.TrimSpace(rec.ImageTitle),
			Description: strings.TrimSpace(rec.ImageDescription),
			ButtonLink:  strings.TrimSpace(rec.ButtonLink),
			ButtonTitle: strings.TrimSpace(rec.ButtonTitle),
		})
	}
	slices.SortStableFunc(slides, func(a, b Slide) int { return a.Index - b.Index })
	if len(slides) > MaxSlides {
		slides = slides[:MaxSlides]
	}
	return slides, nil
}
