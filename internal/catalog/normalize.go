package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"finitefield.org/storefront-web/internal/extjson"
)

// ErrUnexpectedShape indicates the payload was neither an array nor a known envelope.
var ErrUnexpectedShape = errors.New("catalog: unexpected payload shape")

// record mirrors a product document. Numeric and time fields stay raw so every
// Extended JSON encoding can be collapsed in one place.
type record struct {
	ID          bson.RawValue `bson:"id"`
	ObjectID    bson.RawValue `bson:"_id"`
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Category    string        `bson:"category"`
	Brand       string        `bson:"brand"`
	Tags        []string      `bson:"tags"`
	Price       bson.RawValue `bson:"price"`
	Discount    bson.RawValue `bson:"discount"`
	Stock       bson.RawValue `bson:"stock"`
	Rating      bson.RawValue `bson:"rating"`
	ReviewCount bson.RawValue `bson:"reviewCount"`
	Images      bson.RawValue `bson:"images"`
	IsFeatured  bson.RawValue `bson:"isFeatured"`
	CreatedAt   bson.RawValue `bson:"createdAt"`
}

type envelope struct {
	Products json.RawMessage `json:"products"`
	Data     json.RawMessage `json:"data"`
}

// Normalize decodes a product payload. It accepts a bare array or an object carrying
// the array under "products" or "data". Records use MongoDB Extended JSON, so numbers
// may arrive plain, boxed ($numberInt, $numberLong, $numberDouble, $numberDecimal) or
// absent (0). createdAt may be $date, a millisecond timestamp, an RFC 3339 string or
// absent, in which case now is used.
func Normalize(raw []byte, now time.Time) ([]Product, error) {
	records, err := splitRecords(raw)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(records))
	for i, rec := range records {
		p, err := normalizeRecord(rec, now)
		if err != nil {
			return nil, fmt.Errorf("catalog: record %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func splitRecords(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedShape
	}
	switch trimmed[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("catalog: decode array: %w", err)
		}
		return records, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("catalog: decode envelope: %w", err)
		}
		list := env.Products
		if isNull(list) {
			list = env.Data
		}
		if isNull(list) {
			return nil, ErrUnexpectedShape
		}
		var records []json.RawMessage
		if err := json.Unmarshal(list, &records); err != nil {
			return nil, fmt.Errorf("catalog: decode envelope list: %w", err)
		}
		return records, nil
	default:
		return nil, ErrUnexpectedShape
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func normalizeRecord(raw json.RawMessage, now time.Time) (Product, error) {
	var rec record
	if err := extjson.Unmarshal(raw, &rec); err != nil {
		return Product{}, err
	}

	id := extjson.String(rec.ID)
	if id == "" {
		id = extjson.String(rec.ObjectID)
	}
	urls := extjson.URLs(rec.Images)
	images := make([]Image, 0, len(urls))
	for _, u := range urls {
		images = append(images, Image{URL: u})
	}

	return Product{
		ID:          id,
		Name:        strings.TrimSpace(rec.Name),
		Description: rec.Description,
		Category:    strings.TrimSpace(rec.Category),
		Brand:       strings.TrimSpace(rec.Brand),
		Tags:        cleanTags(rec.Tags),
		Price:       nonNegative(extjson.Number(rec.Price)),
		Discount:    extjson.Number(rec.Discount),
		Stock:       int(nonNegative(extjson.Number(rec.Stock))),
		Rating:      extjson.Number(rec.Rating),
		ReviewCount: int(nonNegative(extjson.Number(rec.ReviewCount))),
		Images:      images,
		IsFeatured:  extjson.Bool(rec.IsFeatured),
		CreatedAt:   extjson.Time(rec.CreatedAt, now),
	}, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
