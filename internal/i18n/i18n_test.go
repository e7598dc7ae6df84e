package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLocales(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"nav.shop":"Shop","cart.count":"%d items"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hi.json"), []byte(`{"nav.shop":"दुकान"}`), 0o600))
	return dir
}

func TestResolveHonorsQValues(t *testing.T) {
	t.Parallel()

	b, err := Load(writeLocales(t), "en", []string{"en", "hi"})
	require.NoError(t, err)

	require.Equal(t, "hi", b.Resolve("en;q=0.5, hi-IN;q=0.9"))
	require.Equal(t, "en", b.Resolve("fr-FR"))
	require.Equal(t, "en", b.Resolve(""))
	require.Equal(t, []string{"en", "hi"}, b.Supported())
}

func TestTranslateFallsBack(t *testing.T) {
	t.Parallel()

	b, err := Load(writeLocales(t), "en", []string{"hi"})
	require.NoError(t, err)

	require.Equal(t, "दुकान", b.T("hi", "nav.shop"))
	require.Equal(t, "3 items", b.T("hi", "cart.count", 3))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
	require.True(t, b.Supports("hi"))
	require.False(t, b.Supports("ja"))
}

func TestLoadRequiresFallbackFile(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir(), "en", nil)
	require.Error(t, err)

	b, err := Load(writeLocales(t), "en", []string{"en", "ta"})
	require.NoError(t, err)
	require.Equal(t, []string{"en"}, b.Supported())
}

func TestRepositoryLocalesLoad(t *testing.T) {
	t.Parallel()

	b, err := Load("../../locales", "en", []string{"en", "hi"})
	require.NoError(t, err)
	require.Equal(t, "Shop", b.T("en", "nav.shop"))
	require.NotEqual(t, "nav.shop", b.T("hi", "nav.shop"))
}
