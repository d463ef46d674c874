package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files under dir; keys are slash-separated relative paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, contents := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte(contents), 0o644))
	}
}

// esneftProject writes the reference esneft_tools tree and returns its directory.
func esneftProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"README.md":                       "Diabetes analysis toolkit.",
		"src/esneft_tools/_version.py":    "__version__ = \"1.2.3\"\n",
		"src/esneft_tools/__init__.py":    "",
		"src/esneft_tools/geo/imd.py":     "IMD_DECILES = 10\n",
		"src/esneft_tools/geo/cache.pyc":  "\x00",
		"src/esneft_tools/data/notes.txt": "not a package file\n",
	})

	return dir
}
