package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip builds a ZIP file from name → content pairs.
func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return path
}

func TestExtractZip(t *testing.T) {
	src := writeZip(t, map[string]string{
		"index.html":     "<html></html>",
		"css/site.css":   "body{}",
		"js/deep/app.js": "run()",
	})
	dest := t.TempDir()

	require.NoError(t, ExtractZip(src, dest, 1<<20))

	for name, want := range map[string]string{
		"index.html":     "<html></html>",
		"css/site.css":   "body{}",
		"js/deep/app.js": "run()",
	} {
		data, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(data), name)
	}
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	src := writeZip(t, map[string]string{
		"../evil.html": "<html></html>",
	})
	dest := t.TempDir()

	err := ExtractZip(src, dest, 1<<20)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "evil.html"))
	assert.True(t, os.IsNotExist(statErr), "no file may be written outside dest")
}

func TestExtractZipEnforcesSizeCap(t *testing.T) {
	big := make([]byte, 4096)
	src := writeZip(t, map[string]string{
		"huge.css": string(big),
	})

	err := ExtractZip(src, t.TempDir(), 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed")
}

func TestExtractZipMissingArchive(t *testing.T) {
	err := ExtractZip(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir(), 1<<20)
	require.Error(t, err)
}
