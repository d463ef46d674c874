package assembler

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DiscoverPackages walks root and returns the dotted names of every
// importable directory below it, sorted.
//
// A directory is importable when its name is a Python identifier other than
// __pycache__; a directory that is not importable hides its whole subtree.
// Namespace packages need no __init__.py. Names matching any of exclude
// (path.Match syntax) are dropped, their children are still visited.
func DiscoverPackages(fsys fs.FS, root string, exclude []string) ([]string, error) {
	if err := requireDir(fsys, root); err != nil {
		return nil, err
	}

	var packages []string

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %w", ErrFileAccess, p, err)
		}

		if !d.IsDir() || p == root {
			return nil
		}

		if !isImportable(d.Name()) {
			return fs.SkipDir
		}

		name := strings.ReplaceAll(strings.TrimPrefix(p, root+"/"), "/", ".")
		if root == "." {
			name = strings.ReplaceAll(p, "/", ".")
		}

		if !isExcluded(name, exclude) {
			packages = append(packages, name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(packages)

	return packages, nil
}

// ResolvePackages checks an explicit package list against root and returns
// it sorted and without duplicates.
func ResolvePackages(fsys fs.FS, root string, packages []string) ([]string, error) {
	if err := requireDir(fsys, root); err != nil {
		return nil, err
	}

	resolved := slices.Clone(packages)
	slices.Sort(resolved)
	resolved = slices.Compact(resolved)

	for _, name := range resolved {
		for part := range strings.SplitSeq(name, ".") {
			if !isImportable(part) {
				return nil, fmt.Errorf("%w: %q is not a valid package name", ErrFileAccess, name)
			}
		}

		if err := requireDir(fsys, path.Join(root, strings.ReplaceAll(name, ".", "/"))); err != nil {
			return nil, fmt.Errorf("package %s: %w", name, err)
		}
	}

	return resolved, nil
}

func requireDir(fsys fs.FS, dir string) error {
	info, err := fs.Stat(fsys, dir)
	if err != nil {
		if isNotExist(err) {
			return fmt.Errorf("%w: directory %s does not exist", ErrFileAccess, dir)
		}

		return fmt.Errorf("%w: stat %s: %w", ErrFileAccess, dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrFileAccess, dir)
	}

	return nil
}

func isImportable(name string) bool {
	return name != "__pycache__" && identifierRe.MatchString(name)
}

func isExcluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}

	return false
}
