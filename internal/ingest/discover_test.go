package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "nota1.pdf"))
	touch(t, filepath.Join(dir, "nota2.PDF"))
	touch(t, filepath.Join(dir, "scan.jpeg"))
	touch(t, filepath.Join(dir, "notas.xlsx"))
	touch(t, filepath.Join(dir, "sub", "recibo.txt"))
	touch(t, filepath.Join(dir, ".cache", "tmp.pdf"))
	touch(t, filepath.Join(dir, ".oculto.pdf"))

	t.Run("default extensions, hidden skipped", func(t *testing.T) {
		paths, stats, err := DiscoverDirectory(dir, nil, true)
		require.NoError(t, err)

		var names []string
		for _, p := range paths {
			names = append(names, filepath.Base(p))
		}
		assert.Equal(t, []string{"nota1.pdf", "nota2.PDF", "scan.jpeg", "recibo.txt"}, names)
		assert.Equal(t, uint32(4), stats.Matched)
		assert.GreaterOrEqual(t, stats.Skipped, uint32(3))
	})

	t.Run("explicit extension filter", func(t *testing.T) {
		paths, stats, err := DiscoverDirectory(dir, []string{".pdf"}, true)
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, uint32(2), stats.Matched)
	})

	t.Run("hidden included on request", func(t *testing.T) {
		paths, _, err := DiscoverDirectory(dir, []string{"pdf"}, false)
		require.NoError(t, err)
		require.Len(t, paths, 4)
	})

	t.Run("empty root is rejected", func(t *testing.T) {
		_, _, err := DiscoverDirectory("   ", nil, true)
		assert.Error(t, err)
	})
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("txt"))
	assert.False(t, AllowedExt(".xlsx"))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/tmp/.git"))
	assert.False(t, IsHidden("/tmp/nota.pdf"))
}
