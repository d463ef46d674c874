package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/mail"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/distpack/internal/pyversion"
)

// VersionSource describes where the version declaration lives.
type VersionSource struct {
	// Glob locates the declaration relative to the project directory.
	Glob string `yaml:"glob"`
	// Keys are the binding names tried in order.
	Keys []string `yaml:"keys"`
}

// Project holds the static metadata of a Python distribution.
type Project struct {
	Name           string   `yaml:"name"`
	Author         string   `yaml:"author"`
	AuthorEmail    string   `yaml:"author_email"`
	URL            string   `yaml:"url"`
	RequiresPython string   `yaml:"requires_python"`
	License        string   `yaml:"license"`
	Classifiers    []string `yaml:"classifiers"`
	// Description is the one-line summary (the setup.py module docstring).
	Description string `yaml:"description"`
	// Readme is the long description file, relative to the project directory.
	Readme            string        `yaml:"readme"`
	ReadmeContentType string        `yaml:"readme_content_type"`
	Version           VersionSource `yaml:"version"`
	// PackageDir is the directory holding top-level packages.
	PackageDir string `yaml:"package_dir"`
	// Packages, when set, replaces directory discovery.
	Packages []string `yaml:"packages,omitempty"`
	// Exclude holds path.Match patterns applied to dotted package names.
	Exclude []string `yaml:"exclude,omitempty"`
	ZipSafe bool     `yaml:"zip_safe"`
}

const (
	// DefaultConfigFilename is the project file looked up in the project directory.
	DefaultConfigFilename = "distpack.yaml"

	// DefaultFilePermissions is used when writing project files.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidProject wraps every validation failure.
	ErrInvalidProject = errors.New("invalid project configuration")
)

// Default returns the metadata of the esneft_tools distribution.
func Default() *Project {
	return &Project{
		Name:           "esneft_tools",
		Author:         "Stephen Richer",
		AuthorEmail:    "stephen.richer@nhs.net",
		URL:            "https://github.com/nhsx/p24-pvt-diabetes-inequal.git",
		RequiresPython: ">=3.9.0",
		License:        "MIT",
		Classifiers: []string{
			"Development Status :: 1 - Planning",
			"License :: OSI Approved :: MIT License",
			"Intended Audience :: Science/Research",
			"Intended Audience :: Healthcare Industry",
			"Topic :: Scientific/Engineering",
			"Programming Language :: Python :: 3.9",
			"Natural Language :: English",
		},
		Description:       "Collection of tool for analysis of ESNEFT diabetes data",
		Readme:            "README.md",
		ReadmeContentType: "text/markdown",
		Version: VersionSource{
			Glob: "src/*/_version.py",
			Keys: []string{"__version__", "version"},
		},
		PackageDir: "src",
		ZipSafe:    false,
	}
}

// Load reads the project file name from fsys on top of Default.
// A missing file is only tolerated when required is false.
func Load(fsys fs.FS, name string, required bool) (*Project, error) {
	if name == "" {
		name = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := fs.ReadFile(fsys, name)

	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return cfg, Validate(cfg)
	case err != nil:
		return nil, fmt.Errorf("read project file: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal project file: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Project) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal project file: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults for optional ones.
func Validate(cfg *Project) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	switch {
	case cfg.Name == "":
		return fmt.Errorf("%w: name must be provided", ErrInvalidProject)
	case cfg.Readme == "":
		return fmt.Errorf("%w: readme must be provided", ErrInvalidProject)
	case cfg.Version.Glob == "":
		return fmt.Errorf("%w: version.glob must be provided", ErrInvalidProject)
	case cfg.PackageDir == "":
		return fmt.Errorf("%w: package_dir must be provided", ErrInvalidProject)
	}

	readme, err := cleanRelative("readme", cfg.Readme)
	if err != nil {
		return err
	}

	packageDir, err := cleanRelative("package_dir", cfg.PackageDir)
	if err != nil {
		return err
	}

	glob, err := cleanRelative("version.glob", cfg.Version.Glob)
	if err != nil {
		return err
	}

	cfg.Readme, cfg.PackageDir, cfg.Version.Glob = readme, packageDir, glob

	if _, err = path.Match(cfg.Version.Glob, ""); err != nil {
		return fmt.Errorf("%w: version.glob: %w", ErrInvalidProject, err)
	}

	for _, pattern := range cfg.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: exclude %q: %w", ErrInvalidProject, pattern, err)
		}
	}

	if cfg.RequiresPython != "" {
		if _, err = pyversion.ParseRequirement(cfg.RequiresPython); err != nil {
			return fmt.Errorf("%w: requires_python: %w", ErrInvalidProject, err)
		}
	}

	if cfg.AuthorEmail != "" {
		if _, err = mail.ParseAddress(cfg.AuthorEmail); err != nil {
			return fmt.Errorf("%w: author_email: %w", ErrInvalidProject, err)
		}
	}

	if len(cfg.Version.Keys) == 0 {
		cfg.Version.Keys = slices.Clone(Default().Version.Keys)
	}

	if cfg.ReadmeContentType == "" {
		cfg.ReadmeContentType = contentTypeFor(cfg.Readme)
	}

	return nil
}

// cleanRelative returns p in the form io/fs accepts: slash-separated,
// relative and without "." or ".." elements.
func cleanRelative(field, p string) (string, error) {
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "", fmt.Errorf("%w: %s %q must be relative to the project", ErrInvalidProject, field, p)
	}

	if slices.Contains(strings.Split(p, "/"), "..") {
		return "", fmt.Errorf("%w: %s %q must not refer to a parent directory", ErrInvalidProject, field, p)
	}

	return path.Clean(p), nil
}

func contentTypeFor(readme string) string {
	switch filepath.Ext(readme) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".rst":
		return "text/x-rst"
	default:
		return "text/plain"
	}
}
