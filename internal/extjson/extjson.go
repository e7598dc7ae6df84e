// Package extjson reads loosely typed values out of MongoDB Extended JSON documents
// returned by the storefront API.
package extjson

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Unmarshal decodes one relaxed Extended JSON document into v.
func Unmarshal(raw []byte, v any) error {
	return bson.UnmarshalExtJSON(raw, false, v)
}

// Number collapses any numeric encoding, or a numeric string, to float64.
// Absent and unreadable values are 0.
func Number(v bson.RawValue) float64 {
	switch v.Type {
	case bsontype.Int32:
		return float64(v.Int32())
	case bsontype.Int64:
		return float64(v.Int64())
	case bsontype.Double:
		return v.Double()
	case bsontype.Decimal128:
		f, err := strconv.ParseFloat(v.Decimal128().String(), 64)
		if err != nil {
			return 0
		}
		return f
	case bsontype.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.StringValue()), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int is Number truncated to an int.
func Int(v bson.RawValue) int {
	return int(Number(v))
}

// Time reads a $date, a millisecond timestamp or an RFC 3339 string. Anything else
// yields fallback.
func Time(v bson.RawValue, fallback time.Time) time.Time {
	switch v.Type {
	case bsontype.DateTime:
		return time.UnixMilli(v.DateTime()).UTC()
	case bsontype.Int32, bsontype.Int64, bsontype.Double, bsontype.Decimal128:
		return time.UnixMilli(int64(Number(v))).UTC()
	case bsontype.String:
		s := strings.TrimSpace(v.StringValue())
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC()
		}
	}
	return fallback
}

// String reads a string, an ObjectID as hex, or an integer id.
func String(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return strings.TrimSpace(v.StringValue())
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.Int32, bsontype.Int64:
		return strconv.FormatInt(int64(Number(v)), 10)
	default:
		return ""
	}
}

// Bool reads a boolean, accepting "true"/"false" strings and non-zero numbers.
func Bool(v bson.RawValue) bool {
	switch v.Type {
	case bsontype.Boolean:
		return v.Boolean()
	case bsontype.String:
		b, _ := strconv.ParseBool(strings.TrimSpace(v.StringValue()))
		return b
	case bsontype.Int32, bsontype.Int64, bsontype.Double:
		return Number(v) != 0
	default:
		return false
	}
}

// URL reads {"url": "..."} documents and bare strings.
func URL(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return strings.TrimSpace(v.StringValue())
	case bsontype.EmbeddedDocument:
		if field, err := v.Document().LookupErr("url"); err == nil && field.Type == bsontype.String {
			return strings.TrimSpace(field.StringValue())
		}
	}
	return ""
}

// URLs reads an array of URL values, skipping empty entries.
func URLs(v bson.RawValue) []string {
	if v.Type != bsontype.Array {
		if u := URL(v); u != "" {
			return []string{u}
		}
		return nil
	}
	values, err := v.Array().Values()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, item := range values {
		if u := URL(item); u != "" {
			out = append(out, u)
		}
	}
	return out
}
