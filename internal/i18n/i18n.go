// Package i18n loads UI strings and negotiates the response language.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Bundle holds translations for the supported languages.
type Bundle struct {
	dict     map[string]map[string]string
	fallback string
	tags     []language.Tag
	matcher  language.Matcher
}

// Load reads <dir>/<lang>.json for every supported language. Only the fallback
// language file is mandatory.
func Load(dir, fallback string, supported []string) (*Bundle, error) {
	if fallback == "" {
		fallback = "en"
	}
	if len(supported) == 0 {
		supported = []string{fallback}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}
	// The matcher treats its first tag as the default, so the fallback goes first.
	ordered := append([]string{fallback}, supported...)
	seen := map[string]struct{}{}
	for _, lang := range ordered {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if _, dup := seen[lang]; dup || lang == "" {
			continue
		}
		seen[lang] = struct{}{}

		raw, err := os.ReadFile(filepath.Join(dir, lang+".json"))
		if err != nil {
			if lang == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", lang, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", lang, err)
		}
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid language %q: %w", lang, err)
		}
		b.dict[lang] = m
		b.tags = append(b.tags, tag)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Supported returns the loaded languages, sorted.
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.dict))
	for k := range b.dict {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// T returns the translation for key in lang, falling back to the default language and
// finally the key itself. Extra args are applied with fmt.Sprintf.
func (b *Bundle) T(lang, key string, args ...any) string {
	text, ok := b.lookup(lang, key)
	if !ok {
		text, ok = b.lookup(b.fallback, key)
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

func (b *Bundle) lookup(lang, key string) (string, bool) {
	m, ok := b.dict[lang]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Resolve chooses the best supported language for an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, index, confidence := b.matcher.Match(prefs...)
	if confidence == language.No || index < 0 || index >= len(b.tags) {
		return b.fallback
	}
	base, _ := b.tags[index].Base()
	return base.String()
}

// Supports reports whether lang has a loaded dictionary.
func (b *Bundle) Supports(lang string) bool {
	_, ok := b.dict[lang]
	return ok
}
