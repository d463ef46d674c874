package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Project.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))
	require.ErrorIs(t, Validate(new(Project)), ErrInvalidProject)

	cfg := Default()
	cfg.RequiresPython = ">=three"
	require.ErrorIs(t, Validate(cfg), ErrInvalidProject)

	cfg = Default()
	cfg.AuthorEmail = "not an address"
	require.ErrorIs(t, Validate(cfg), ErrInvalidProject)

	cfg = Default()
	cfg.Exclude = []string{"[unclosed"}
	require.ErrorIs(t, Validate(cfg), ErrInvalidProject)

	cfg = Default()
	cfg.Version.Keys = nil
	cfg.Readme = "README.rst"
	cfg.ReadmeContentType = ""
	require.NoError(t, Validate(cfg))
	require.Equal(t, []string{"__version__", "version"}, cfg.Version.Keys)
	require.Equal(t, "text/x-rst", cfg.ReadmeContentType)
}

// TestValidateRequiresPython accepts PEP 440 specifiers beyond plain comparisons.
func TestValidateRequiresPython(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{">=3.9.0", "~=3.9", "==3.9.*", ">=3.9.0rc1", ">=3.8, <4", "!=3.10.*"} {
		cfg := Default()
		cfg.RequiresPython = spec
		require.NoError(t, Validate(cfg), spec)
		require.Equal(t, spec, cfg.RequiresPython)
	}

	for _, spec := range []string{">=three", "~=3", "=>3.9"} {
		cfg := Default()
		cfg.RequiresPython = spec
		require.ErrorIs(t, Validate(cfg), ErrInvalidProject, spec)
	}
}

// TestValidateCleansPaths normalizes project-relative paths for io/fs.
func TestValidateCleansPaths(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.PackageDir = "./src/"
	cfg.Readme = "./README.md"
	cfg.Version.Glob = "./src/*/_version.py"

	require.NoError(t, Validate(cfg))
	require.Equal(t, "src", cfg.PackageDir)
	require.Equal(t, "README.md", cfg.Readme)
	require.Equal(t, "src/*/_version.py", cfg.Version.Glob)

	cfg = Default()
	cfg.PackageDir = "."
	require.NoError(t, Validate(cfg))
	require.Equal(t, ".", cfg.PackageDir)
}

// TestValidateRejectsEscapingPaths refuses absolute paths and parent references.
func TestValidateRejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	mutations := map[string]func(*Project){
		"absolute readme":      func(p *Project) { p.Readme = "/etc/README.md" },
		"parent readme":        func(p *Project) { p.Readme = "../README.md" },
		"absolute package_dir": func(p *Project) { p.PackageDir = "/src" },
		"nested parent dir":    func(p *Project) { p.PackageDir = "src/../../lib" },
		"parent glob":          func(p *Project) { p.Version.Glob = "../*/_version.py" },
	}

	for name, mutate := range mutations {
		cfg := Default()
		mutate(cfg)

		readme := cfg.Readme
		require.ErrorIs(t, Validate(cfg), ErrInvalidProject, name)
		require.Equal(t, readme, cfg.Readme, name)
	}
}

// TestLoadDefaults ensures a missing optional project file yields the built-in metadata.
func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(fstest.MapFS{}, "", false)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(fstest.MapFS{}, "custom.yaml", true)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

// TestLoadOverlay checks that the project file overrides defaults field by field.
func TestLoadOverlay(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		DefaultConfigFilename: &fstest.MapFile{Data: []byte(
			"name: diabetes_toolkit\n" +
				"version:\n  glob: lib/*/VERSION\n" +
				"exclude: ['*.tests']\n",
		)},
	}

	cfg, err := Load(fsys, "", true)
	require.NoError(t, err)
	require.Equal(t, "diabetes_toolkit", cfg.Name)
	require.Equal(t, "lib/*/VERSION", cfg.Version.Glob)
	require.Equal(t, []string{"__version__", "version"}, cfg.Version.Keys)
	require.Equal(t, []string{"*.tests"}, cfg.Exclude)
	require.Equal(t, "Stephen Richer", cfg.Author)
}

// TestSaveLoadRoundtrip ensures a saved project file is loaded back unchanged.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	want := Default()
	want.Name = "esneft_extras"
	want.Packages = []string{"esneft_extras", "esneft_extras.io"}

	require.NoError(t, Save(filepath.Join(dir, DefaultConfigFilename), want))

	got, err := Load(os.DirFS(dir), "", true)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
