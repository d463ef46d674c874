package packager

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/datawire/ocibuild/pkg/reproducible"

	"github.com/oshokin/distpack/internal/config"
	"github.com/oshokin/distpack/internal/domain/descriptor"
	"github.com/oshokin/distpack/internal/logger"
	"github.com/oshokin/distpack/internal/metadata"
	"github.com/oshokin/distpack/internal/pyversion"
)

const (
	sdistFileMode = 0o644
	sdistDirMode  = 0o755
)

var distNameSeparatorsRe = regexp.MustCompile(`[-_.]+`)

// SdistBackend writes a source distribution ({name}-{version}.tar.gz).
type SdistBackend struct {
	// extraFiles are project files shipped next to the packages (README, project file).
	extraFiles []string
	// now is the build timestamp; file mtimes are clamped to it.
	now func() time.Time
}

// NewSdistBackend returns the in-process sdist backend. Missing extra files are skipped.
func NewSdistBackend(extraFiles ...string) *SdistBackend {
	return &SdistBackend{
		extraFiles: extraFiles,
		now:        reproducible.Now,
	}
}

// Name implements Packager.
func (*SdistBackend) Name() string {
	return config.BackendSdist
}

// Package implements Packager.
func (b *SdistBackend) Package(
	ctx context.Context,
	d *descriptor.PackageDescriptor,
	src fs.FS,
	outDir string,
) (Result, error) {
	files, err := sdistFiles(d, src, b.extraFiles)
	if err != nil {
		return Result{Status: StatusFailure}, err
	}

	stem := SdistStem(d)
	target := filepath.Join(outDir, stem+".tar.gz")

	if err = b.write(target, stem, d, src, files); err != nil {
		_ = os.Remove(target)
		return Result{Status: StatusFailure}, err
	}

	logger.DebugKV(ctx, "Source distribution written", "path", target, "files", len(files)+1)

	return Result{Status: StatusOK, Artifacts: []string{target}}, nil
}

// SdistStem returns the normalized "{name}-{version}" archive stem. The
// version is written in its canonical PEP 440 form when it parses.
func SdistStem(d *descriptor.PackageDescriptor) string {
	name := strings.ToLower(distNameSeparatorsRe.ReplaceAllString(d.Name(), "_"))

	version, err := pyversion.Normalize(d.Version())
	if err != nil {
		version = d.Version()
	}

	return name + "-" + version
}

func (b *SdistBackend) write(
	target, stem string,
	d *descriptor.PackageDescriptor,
	src fs.FS,
	files []string,
) (err error) {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, sdistFileMode)
	if err != nil {
		return fmt.Errorf("create sdist: %w", err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close sdist: %w", closeErr)
		}
	}()

	// reproducible.Now honors SOURCE_DATE_EPOCH.
	epoch := b.now()

	gz := gzip.NewWriter(out)
	gz.ModTime = epoch.UTC()

	tw := tar.NewWriter(gz)

	if err = writeTarDir(tw, stem, epoch); err != nil {
		return err
	}

	if err = writeTarFile(tw, path.Join(stem, metadata.Filename), metadata.Render(d), epoch); err != nil {
		return err
	}

	for _, name := range files {
		contents, readErr := fs.ReadFile(src, name)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", name, readErr)
		}

		modTime := epoch

		if info, statErr := fs.Stat(src, name); statErr == nil && info.ModTime().Before(epoch) {
			modTime = info.ModTime()
		}

		if err = writeTarFile(tw, path.Join(stem, name), contents, modTime); err != nil {
			return err
		}
	}

	if err = tw.Close(); err != nil {
		return fmt.Errorf("finish tar stream: %w", err)
	}

	if err = gz.Close(); err != nil {
		return fmt.Errorf("finish gzip stream: %w", err)
	}

	return nil
}

// sdistFiles lists what goes into the archive besides PKG-INFO: the extra
// files that exist and the regular files of every package, sorted.
func sdistFiles(d *descriptor.PackageDescriptor, src fs.FS, extra []string) ([]string, error) {
	var files []string

	for _, name := range extra {
		if _, err := fs.Stat(src, name); err == nil {
			files = append(files, path.Clean(name))
		}
	}

	root := d.SourceRoot()

	for _, pkg := range d.Packages() {
		dir := path.Join(root, strings.ReplaceAll(pkg, ".", "/"))

		entries, err := fs.ReadDir(src, dir)
		if err != nil {
			return nil, fmt.Errorf("list package %s: %w", pkg, err)
		}

		for _, entry := range entries {
			if !entry.Type().IsRegular() || strings.HasSuffix(entry.Name(), ".pyc") {
				continue
			}

			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

func writeTarDir(tw *tar.Writer, name string, modTime time.Time) error {
	//nolint:exhaustruct // Owner fields stay empty for reproducible archives.
	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     sdistDirMode,
		ModTime:  modTime.UTC().Truncate(time.Second),
		Format:   tar.FormatPAX,
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header %s: %w", name, err)
	}

	return nil
}

func writeTarFile(tw *tar.Writer, name string, contents []byte, modTime time.Time) error {
	//nolint:exhaustruct // Owner fields stay empty for reproducible archives.
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     sdistFileMode,
		Size:     int64(len(contents)),
		ModTime:  modTime.UTC().Truncate(time.Second),
		Format:   tar.FormatPAX,
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write tar header %s: %w", name, err)
	}

	if _, err := tw.Write(contents); err != nil {
		return fmt.Errorf("write tar entry %s: %w", name, err)
	}

	return nil
}
