package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/storefront-web/internal/catalog"
)

func TestMatchesIffKeywordIsSubstring(t *testing.T) {
	t.Parallel()

	products := []catalog.Product{
		{Name: "Hydrating Face Wash", Category: "Skincare", Tags: []string{"Gentle", "Daily"}},
		{Name: "Slim Fit Jeans", Category: "Fashion"},
		{Name: "Untitled"},
		{Name: "Rose Attar", Tags: []string{"FRAGRANCE"}},
	}
	keywordSets := [][]string{
		{"wash"},
		{"FACE"},
		{"jeans", "lipstick"},
		{"fragrance"},
		{"nothing-matches"},
		{},
	}

	for _, p := range products {
		for _, kws := range keywordSets {
			want := false
			for _, kw := range kws {
				k := strings.ToLower(kw)
				if strings.Contains(strings.ToLower(p.Category), k) || strings.Contains(strings.ToLower(p.Name), k) {
					want = true
				}
				for _, tag := range p.Tags {
					if strings.Contains(strings.ToLower(tag), k) {
						want = true
					}
				}
			}
			require.Equal(t, want, Matches(p, kws), "product %q keywords %v", p.Name, kws)
		}
	}
}

func TestMatchesFavoursRecall(t *testing.T) {
	t.Parallel()

	bodyWash := catalog.Product{Name: "Citrus Body Wash"}
	carWash := catalog.Product{Name: "Car Wash Sponge"}
	require.True(t, Matches(bodyWash, []string{"wash"}))
	require.True(t, Matches(carWash, []string{"wash"}))
}

func TestMatchesIgnoresDescriptionAndBrand(t *testing.T) {
	t.Parallel()

	p := catalog.Product{Name: "Tee", Description: "made of pure cotton", Brand: "Cotton Co"}
	require.False(t, Matches(p, []string{"cotton"}))
}

func TestDefaultTableClassify(t *testing.T) {
	t.Parallel()

	table := Default()
	serum := catalog.Product{Name: "Vitamin C Serum", Category: "Skin Care", Tags: []string{"oily skin"}}

	require.True(t, table.Classify(serum, GroupCategory, "beauty"))
	require.True(t, table.Classify(serum, GroupCategory, "skincare"))
	require.False(t, table.Classify(serum, GroupCategory, "fashion"))
	require.True(t, table.Classify(serum, GroupConcern, "brightening"))
	require.True(t, table.Classify(serum, GroupSkinType, "oily"))

	require.True(t, table.Classify(serum, GroupCategory, All))
	require.True(t, table.Classify(serum, GroupCategory, ""))
	require.False(t, table.Classify(serum, GroupCategory, "electronics"))
	require.False(t, table.Classify(serum, Group("unknown"), "beauty"))
}

func TestDefaultTableOptions(t *testing.T) {
	t.Parallel()

	table := Default()
	require.Equal(t, 1, table.Version())

	opts := table.Options(GroupCategory)
	ids := make([]string, 0, len(opts))
	for _, o := range opts {
		ids = append(ids, o.ID)
	}
	require.Equal(t, []string{"beauty", "fashion", "skincare", "makeup", "haircare", "fragrance", "wellness"}, ids)
	require.NotEmpty(t, table.Options(GroupConcern))
	require.NotEmpty(t, table.Options(GroupSkinType))
	require.Empty(t, table.Options(Group("unknown")))
}

func TestMemberships(t *testing.T) {
	t.Parallel()

	p := catalog.Product{Name: "Matte Lipstick", Category: "Makeup"}
	require.Equal(t, []string{"beauty", "makeup"}, Default().Memberships(p, GroupCategory))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := `version: 7
groups:
  category:
    - id: gadgets
      keywords: [Phone, "  Charger "]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 7, table.Version())

	entry, ok := table.Entry(GroupCategory, "gadgets")
	require.True(t, ok)
	require.Equal(t, "gadgets", entry.Label)
	require.Equal(t, []string{"phone", "charger"}, entry.Keywords)
	require.True(t, table.Classify(catalog.Product{Name: "USB charger"}, GroupCategory, "gadgets"))
}

func TestParseRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":         `version: 1`,
		"all id":        "groups:\n  category:\n    - id: all\n      keywords: [x]\n",
		"duplicate id":  "groups:\n  category:\n    - id: a\n      keywords: [x]\n    - id: a\n      keywords: [y]\n",
		"empty keyword": "groups:\n  category:\n    - id: a\n      keywords: [\"\"]\n",
		"not yaml":      "groups: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.Error(t, err)
		})
	}
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
