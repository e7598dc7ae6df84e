// Package site provides the company profile shown in the header and footer.
package site

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.uber.org/zap"

	"finitefield.org/storefront-web/internal/backend"
	"finitefield.org/storefront-web/internal/extjson"
	"finitefield.org/storefront-web/internal/requestctx"
)

const sitePath = "api/site"

// ErrEmptyProfile indicates the API answered without a usable profile.
var ErrEmptyProfile = errors.New("site: empty profile")

// Profile describes the company operating the store.
type Profile struct {
	CompanyName    string
	CompanyAddress string
	ContactEmail   string
	ContactPhone   string
	WhatsappNumber string
	LogoURL        string
	SocialLinks    []SocialLink
	// Fallback is set when the profile is the built-in default.
	Fallback bool
}

// SocialLink is one social network profile.
type SocialLink struct {
	Network string
	URL     string
}

// WhatsappURL returns a click-to-chat link, or "" without a number.
func (p Profile) WhatsappURL() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, p.WhatsappNumber)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}

// Fallback is the profile substituted when the API is unavailable.
func Fallback() Profile {
	return Profile{
		CompanyName:    "Storefront",
		CompanyAddress: "12 Market Road, Bengaluru, Karnataka 560001, India",
		ContactEmail:   "support@storefront.example",
		ContactPhone:   "+91 80 4000 1234",
		WhatsappNumber: "+91 98450 01234",
		SocialLinks: []SocialLink{
			{Network: "facebook", URL: "https://facebook.com/storefront"},
			{Network: "instagram", URL: "https://instagram.com/storefront"},
		},
		Fallback: true,
	}
}

type siteRecord struct {
	CompanyName    string        `bson:"companyName"`
	CompanyAddress string        `bson:"companyAddress"`
	ContactEmail   string        `bson:"contactEmail"`
	ContactPhone   bson.RawValue `bson:"contactPhone"`
	WhatsappNumber bson.RawValue `bson:"whatsappNumber"`
	SocialLinks    bson.RawValue `bson:"socialLinks"`
	Logo           bson.RawValue `bson:"logo"`
}

type sitePayload struct {
	Success bool        `bson:"success"`
	Site    *siteRecord `bson:"site"`
}

// Upstream is the subset of backend.Client the site reader needs.
type Upstream interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Client reads the site profile.
type Client struct {
	upstream Upstream
	logger   *zap.Logger
}

// NewClient constructs a site client. A nil upstream serves the fallback profile only.
func NewClient(upstream Upstream, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{upstream: upstream, logger: logger.Named("site")}
}

// Fetch reads the profile from the API.
func (c *Client) Fetch(ctx context.Context) (Profile, error) {
	if c.upstream == nil {
		return Profile{}, ErrEmptyProfile
	}
	body, err := c.upstream.Get(ctx, sitePath)
	if err != nil {
		return Profile{}, err
	}
	profile, err := Decode(body)
	if err != nil {
		if errors.Is(err, ErrEmptyProfile) {
			return Profile{}, err
		}
		return Profile{}, backend.Malformed(sitePath, err)
	}
	return profile, nil
}

// Profile returns the API profile, or Fallback when it cannot be read.
func (c *Client) Profile(ctx context.Context) Profile {
	profile, err := c.Fetch(ctx)
	if err != nil {
		logger := requestctx.LoggerOr(ctx, c.logger)
		logger.Debug("using fallback site profile", zap.Error(err))
		return Fallback()
	}
	return profile
}

// Decode parses a site payload.
func Decode(raw []byte) (Profile, error) {
	var payload sitePayload
	if err := extjson.Unmarshal(raw, &payload); err != nil {
		return Profile{}, fmt.Errorf("site: decode: %w", err)
	}
	if payload.Site == nil || strings.TrimSpace(payload.Site.CompanyName) == "" {
		return Profile{}, ErrEmptyProfile
	}
	rec := payload.Site
	return Profile{
		CompanyName:    strings.TrimSpace(rec.CompanyName),
		CompanyAddress: strings.TrimSpace(rec.CompanyAddress),
		ContactEmail:   strings.TrimSpace(rec.ContactEmail),
		ContactPhone:   phone(rec.ContactPhone),
		WhatsappNumber: phone(rec.WhatsappNumber),
		LogoURL:        extjson.URL(rec.Logo),
		SocialLinks:    socialLinks(rec.SocialLinks),
	}, nil
}

// phone accepts numbers stored as strings or as numerics.
func phone(v bson.RawValue) string {
	if v.Type == bsontype.String {
		return strings.TrimSpace(v.StringValue())
	}
	if n := extjson.Number(v); n > 0 {
		return fmt.Sprintf("%.0f", n)
	}
	return ""
}

// socialLinks accepts {"facebook": "url"} maps and [{"platform"|"name", "url"}] lists.
func socialLinks(v bson.RawValue) []SocialLink {
	var links []SocialLink
	switch v.Type {
	case bsontype.EmbeddedDocument:
		elems, err := v.Document().Elements()
		if err != nil {
			return nil
		}
		for _, el := range elems {
			if url := extjson.URL(el.Value()); url != "" {
				links = append(links, SocialLink{Network: strings.ToLower(el.Key()), URL: url})
			}
		}
		slices.SortFunc(links, func(a, b SocialLink) int { return strings.Compare(a.Network, b.Network) })
	case bsontype.Array:
		values, err := v.Array().Values()
		if err != nil {
			return nil
		}
		for _, item := range values {
			if item.Type != bsontype.EmbeddedDocument {
				continue
			}
			doc := item.Document()
			network := extjson.String(doc.Lookup("platform"))
			if network == "" {
				network = extjson.String(doc.Lookup("name"))
			}
			url := extjson.URL(item)
			if network != "" && url != "" {
				links = append(links, SocialLink{Network: strings.ToLower(network), URL: url})
			}
		}
	}
	return links
}
