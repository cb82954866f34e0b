package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qforge/qforge/internal/models"
)

func newTestWriter(t *testing.T) (*Writer, models.Layout) {
	t.Helper()
	layout, err := models.NewLayout(t.TempDir(), ".ts")
	require.NoError(t, err)
	return New(layout), layout
}

func TestWriteIfChanged(t *testing.T) {
	w, layout := newTestWriter(t)
	path := layout.NamespaceKeysPath("users")

	t.Run("first write creates parents and the file", func(t *testing.T) {
		wrote, err := w.WriteIfChanged(path, []byte("one"))
		require.NoError(t, err)
		assert.True(t, wrote)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "one", string(content))
	})

	t.Run("identical content is a no-op", func(t *testing.T) {
		before, err := os.Stat(path)
		require.NoError(t, err)

		wrote, err := w.WriteIfChanged(path, []byte("one"))
		require.NoError(t, err)
		assert.False(t, wrote)

		after, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, before.ModTime(), after.ModTime())
	})

	t.Run("changed content is written", func(t *testing.T) {
		wrote, err := w.WriteIfChanged(path, []byte("two"))
		require.NoError(t, err)
		assert.True(t, wrote)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "two", string(content))
	})
}

func TestEnsureNamespaceSkeleton(t *testing.T) {
	w, layout := newTestWriter(t)

	require.NoError(t, w.EnsureNamespaceSkeleton("users"))

	for _, kind := range []models.Kind{models.KindQuery, models.KindMutation} {
		info, err := os.Stat(layout.KindPath("users", kind))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	keys, err := os.ReadFile(layout.NamespaceKeysPath("users"))
	require.NoError(t, err)
	assert.Empty(t, keys)

	t.Run("existing content survives a second call", func(t *testing.T) {
		require.NoError(t, os.WriteFile(layout.NamespaceKeysPath("users"), []byte("export const usersKeys = {};\n"), 0o644))
		require.NoError(t, w.EnsureNamespaceSkeleton("users"))

		content, err := os.ReadFile(layout.NamespaceKeysPath("users"))
		require.NoError(t, err)
		assert.Equal(t, "export const usersKeys = {};\n", string(content))
	})
}

func TestEnsureBaseStructure(t *testing.T) {
	w, layout := newTestWriter(t)

	// Pre-existing namespace directories get skeletons; excluded
	// directories are left alone.
	require.NoError(t, os.MkdirAll(filepath.Join(layout.Root, "users"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(layout.Root, "node_modules", "pkg"), 0o755))

	require.NoError(t, w.EnsureBaseStructure())

	for _, path := range []string{layout.ManifestPath(), layout.RootKeysPath(), layout.NamespaceKeysPath("users")} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
	_, err := os.Stat(layout.KindPath("users", models.KindQuery))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(layout.Root, "node_modules", "queryKeys.ts"))
	assert.True(t, os.IsNotExist(err))

	t.Run("non-empty root files are never truncated", func(t *testing.T) {
		require.NoError(t, os.WriteFile(layout.ManifestPath(), []byte("export const api = {};\n"), 0o644))
		require.NoError(t, w.EnsureBaseStructure())

		content, err := os.ReadFile(layout.ManifestPath())
		require.NoError(t, err)
		assert.Equal(t, "export const api = {};\n", string(content))
	})
}
