package assembler

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

// TestDiscoverPackages checks ordering, namespace packages and skipped directories.
func TestDiscoverPackages(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/esneft_tools/__init__.py":          file(""),
		"src/esneft_tools/geo/imd.py":           file(""),
		"src/esneft_tools/geo/tests/test_x.py":  file(""),
		"src/esneft_tools/__pycache__/a.pyc":    file(""),
		"src/esneft_tools/.hidden/a.py":         file(""),
		"src/esneft_tools/data-files/readme":    file(""),
		"src/esneft_tools/data-files/sub/a.py":  file(""),
		"src/analysis/stats.py":                 file(""),
		"src/esneft_tools.egg-info/SOURCES.txt": file(""),
	}

	got, err := DiscoverPackages(fsys, "src", nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"analysis",
		"esneft_tools",
		"esneft_tools.geo",
		"esneft_tools.geo.tests",
	}, got)

	got, err = DiscoverPackages(fsys, "src", []string{"*.tests", "analysis"})
	require.NoError(t, err)
	require.Equal(t, []string{"esneft_tools", "esneft_tools.geo"}, got)
}

// TestDiscoverPackagesMissingRoot reports a missing package directory.
func TestDiscoverPackagesMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := DiscoverPackages(fstest.MapFS{}, "src", nil)
	require.ErrorIs(t, err, ErrFileAccess)

	_, err = DiscoverPackages(fstest.MapFS{"src": file("not a dir")}, "src", nil)
	require.ErrorIs(t, err, ErrFileAccess)
}

// TestResolvePackages rejects invalid or missing names.
func TestResolvePackages(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"src/esneft_tools/geo/imd.py": file("")}

	got, err := ResolvePackages(fsys, "src", []string{"esneft_tools.geo", "esneft_tools"})
	require.NoError(t, err)
	require.Equal(t, []string{"esneft_tools", "esneft_tools.geo"}, got)

	_, err = ResolvePackages(fsys, "src", []string{"esneft-tools"})
	require.ErrorIs(t, err, ErrFileAccess)

	_, err = ResolvePackages(fsys, "src", []string{"esneft_tools.plots"})
	require.ErrorIs(t, err, ErrFileAccess)
}
