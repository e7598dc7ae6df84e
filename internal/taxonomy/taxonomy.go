// Package taxonomy classifies products into marketing categories, concerns and skin
// types using one shared keyword table.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"finitefield.org/storefront-web/internal/catalog"
)

// Group names a dimension of the table.
type Group string

const (
	GroupCategory Group = "category"
	GroupConcern  Group = "concern"
	GroupSkinType Group = "skinType"
)

// All is the sentinel id that disables a filter.
const All = "all"

//go:embed taxonomy.yaml
var embedded []byte

// Entry is one classifiable id with its keywords.
type Entry struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Option is an id/label pair for filter controls.
type Option struct {
	ID    string
	Label string
}

// Table is an immutable, versioned keyword table.
type Table struct {
	version int
	groups  map[Group][]Entry
	index   map[Group]map[string]Entry
}

type document struct {
	Version int               `yaml:"version"`
	Groups  map[Group][]Entry `yaml:"groups"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table compiled into the binary.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("taxonomy: embedded table invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadFile reads a table from disk, replacing the embedded default.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML table.
func Parse(raw []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("taxonomy: decode: %w", err)
	}
	if len(doc.Groups) == 0 {
		return nil, errors.New("taxonomy: no groups defined")
	}
	t := &Table{
		version: doc.Version,
		groups:  make(map[Group][]Entry, len(doc.Groups)),
		index:   make(map[Group]map[string]Entry, len(doc.Groups)),
	}
	for group, entries := range doc.Groups {
		byID := make(map[string]Entry, len(entries))
		cleaned := make([]Entry, 0, len(entries))
		for _, e := range entries {
			e.ID = strings.TrimSpace(e.ID)
			if e.ID == "" || e.ID == All {
				return nil, fmt.Errorf("taxonomy: %s: invalid id %q", group, e.ID)
			}
			if _, dup := byID[e.ID]; dup {
				return nil, fmt.Errorf("taxonomy: %s: duplicate id %q", group, e.ID)
			}
			keywords := make([]string, 0, len(e.Keywords))
			for _, kw := range e.Keywords {
				kw = strings.ToLower(strings.TrimSpace(kw))
				if kw == "" {
					return nil, fmt.Errorf("taxonomy: %s/%s: empty keyword", group, e.ID)
				}
				keywords = append(keywords, kw)
			}
			e.Keywords = keywords
			if e.Label == "" {
				e.Label = e.ID
			}
			byID[e.ID] = e
			cleaned = append(cleaned, e)
		}
		t.groups[group] = cleaned
		t.index[group] = byID
	}
	return t, nil
}

// Version identifies the table revision.
func (t *Table) Version() int { return t.version }

// Entry returns the entry for group/id.
func (t *Table) Entry(group Group, id string) (Entry, bool) {
	e, ok := t.index[group][id]
	return e, ok
}

// Options lists a group's ids in table order.
func (t *Table) Options(group Group) []Option {
	entries := t.groups[group]
	out := make([]Option, 0, len(entries))
	for _, e := range entries {
		out = append(out, Option{ID: e.ID, Label: e.Label})
	}
	return out
}

// Classify reports whether p belongs to group/id. The empty id and All match every
// product; ids missing from the table match none.
func (t *Table) Classify(p catalog.Product, group Group, id string) bool {
	if id == "" || id == All {
		return true
	}
	e, ok := t.Entry(group, id)
	if !ok {
		return false
	}
	return Matches(p, e.Keywords)
}

// Memberships returns every id in group that p classifies into.
func (t *Table) Memberships(p catalog.Product, group Group) []string {
	var ids []string
	for _, e := range t.groups[group] {
		if Matches(p, e.Keywords) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Matches reports whether any keyword is a case-insensitive substring of the product's
// category, name or one of its tags. An empty keyword list matches nothing.
func Matches(p catalog.Product, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	fields := make([]string, 0, 2+len(p.Tags))
	fields = append(fields, strings.ToLower(p.Category), strings.ToLower(p.Name))
	for _, tag := range p.Tags {
		fields = append(fields, strings.ToLower(tag))
	}
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		for _, field := range fields {
			if strings.Contains(field, kw) {
				return true
			}
		}
	}
	return false
}
