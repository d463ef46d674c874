package assembler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/oshokin/distpack/internal/versionfile"
)

// ReadTextFile returns the contents of name. The handle is closed on every path.
func ReadTextFile(fsys fs.FS, name string) (text string, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrFileAccess, name, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			text, err = "", fmt.Errorf("%w: close %s: %w", ErrFileAccess, name, closeErr)
		}
	}()

	contents, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrFileAccess, name, err)
	}

	return string(contents), nil
}

// LocateVersionDeclaration returns the only regular file matching pattern.
func LocateVersionDeclaration(fsys fs.FS, pattern string) (string, error) {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return "", fmt.Errorf("%w: glob %q: %w", ErrAmbiguousVersionSource, pattern, err)
	}

	files := make([]string, 0, len(matches))

	for _, match := range matches {
		info, statErr := fs.Stat(fsys, match)
		if statErr != nil {
			return "", fmt.Errorf("%w: stat %s: %w", ErrFileAccess, match, statErr)
		}

		if info.Mode().IsRegular() {
			files = append(files, match)
		}
	}

	slices.Sort(files)

	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no file matches %q", ErrAmbiguousVersionSource, pattern)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%w: %d files match %q: %s",
			ErrAmbiguousVersionSource, len(files), pattern, strings.Join(files, ", "))
	}
}

// ExtractVersion reads the declaration at name and returns the value bound
// to the first of keys that is present.
func ExtractVersion(fsys fs.FS, name string, keys ...string) (string, error) {
	text, err := ReadTextFile(fsys, name)
	if err != nil {
		return "", err
	}

	bindings, err := versionfile.Parse(strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMalformedVersionFile, name, err)
	}

	version, err := bindings.Lookup(keys...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMalformedVersionFile, name, err)
	}

	if err = versionfile.ValidateVersion(version); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMalformedVersionFile, name, err)
	}

	return version, nil
}

// isNotExist reports whether err says a path is missing.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
