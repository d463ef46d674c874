package packager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/distpack/internal/config"
	"github.com/oshokin/distpack/internal/domain/descriptor"
	"github.com/oshokin/distpack/internal/logger"
	"github.com/oshokin/distpack/internal/repository/manifest"
	"github.com/oshokin/distpack/internal/service/assembler"
)

// ExitStatus is the process status relayed from a packaging backend.
type ExitStatus int

const (
	// StatusOK means the backend produced its artifacts.
	StatusOK ExitStatus = 0
	// StatusFailure is reported when packaging could not run or complete.
	StatusFailure ExitStatus = 1
)

// Result is what a backend reports after a run.
type Result struct {
	// Status is the backend exit status.
	Status ExitStatus
	// Artifacts are absolute paths of produced files inside the staging directory.
	Artifacts []string
}

// Packager turns a descriptor and its source tree into distribution files.
type Packager interface {
	// Name identifies the backend in logs and the manifest.
	Name() string
	// Package writes artifacts into outDir.
	Package(ctx context.Context, d *descriptor.PackageDescriptor, src fs.FS, outDir string) (Result, error)
}

// Options contains inputs for the build entry point.
type Options struct {
	// ProjectDir is the root of the Python source tree.
	ProjectDir string
	// ConfigPath is the project file relative to ProjectDir; empty means the optional default.
	ConfigPath string
	// Settings are the runtime settings (dist dir, backend).
	Settings *config.Settings
}

var errSettingsRequired = errors.New("settings are not set")

// Run assembles the descriptor of the project and packages it.
// Assembly failures abort before the backend is started.
func Run(ctx context.Context, opts *Options) (ExitStatus, error) {
	ctx = logger.WithName(ctx, "packager")

	if opts.Settings == nil {
		return StatusFailure, errSettingsRequired
	}

	projectDir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return StatusFailure, fmt.Errorf("resolve project dir: %w", err)
	}

	src := os.DirFS(projectDir)

	project, err := config.Load(src, opts.ConfigPath, opts.ConfigPath != "")
	if err != nil {
		return StatusFailure, err
	}

	configName := opts.ConfigPath
	if configName == "" {
		configName = config.DefaultConfigFilename
	}

	backend, err := NewBackend(opts.Settings, projectDir, []string{project.Readme, configName})
	if err != nil {
		return StatusFailure, err
	}

	distDir := opts.Settings.DistDir
	if !filepath.IsAbs(distDir) {
		distDir = filepath.Join(projectDir, distDir)
	}

	lock, err := AcquireLock(ctx, distDir)
	if err != nil {
		return StatusFailure, err
	}

	defer lock.Release(ctx)

	asm, err := assembler.New(src, project)
	if err != nil {
		return StatusFailure, err
	}

	desc, err := asm.Assemble(ctx)
	if err != nil {
		return StatusFailure, fmt.Errorf("assemble descriptor: %w", err)
	}

	return Invoke(ctx, backend, desc, src, distDir)
}

// NewBackend returns the packaging backend selected by settings.
// extraFiles are shipped by the sdist backend next to the packages.
func NewBackend(settings *config.Settings, projectDir string, extraFiles []string) (Packager, error) {
	switch settings.Backend {
	case config.BackendSdist, "":
		return NewSdistBackend(extraFiles...), nil
	case config.BackendCommand:
		return NewCommandBackend(projectDir, settings.Command)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, settings.Backend)
	}
}

var errUnknownBackend = errors.New("unknown packaging backend")

// Invoke runs backend for d, publishes its artifacts into distDir and saves
// the build manifest. A non-zero backend status is returned without error
// and nothing is published.
func Invoke(
	ctx context.Context,
	backend Packager,
	d *descriptor.PackageDescriptor,
	src fs.FS,
	distDir string,
) (ExitStatus, error) {
	staging, err := os.MkdirTemp("", "distpack-staging-*")
	if err != nil {
		return StatusFailure, fmt.Errorf("create staging dir: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(staging)
	}()

	logger.InfoKV(ctx, "Invoking packaging backend", "backend", backend.Name(), "dist", d.DistName())

	result, err := backend.Package(ctx, d, src, staging)
	if err != nil {
		return StatusFailure, fmt.Errorf("%s backend: %w", backend.Name(), err)
	}

	if result.Status != StatusOK {
		logger.WarnKV(ctx, "Packaging backend failed", "backend", backend.Name(), "status", int(result.Status))
		return result.Status, nil
	}

	buildID, err := uuid.NewV7()
	if err != nil {
		return StatusFailure, fmt.Errorf("generate build id: %w", err)
	}

	record := &manifest.Manifest{
		BuildID:   buildID.String(),
		Name:      d.Name(),
		Version:   d.Version(),
		Backend:   backend.Name(),
		CreatedAt: time.Now().UTC(),
		Artifacts: make(map[string]manifest.Artifact, len(result.Artifacts)),
	}

	for _, artifact := range result.Artifacts {
		published, err := Publish(ctx, artifact, distDir)
		if err != nil {
			return StatusFailure, err
		}

		record.Artifacts[filepath.Base(artifact)] = published
	}

	if len(record.Artifacts) == 0 {
		logger.WarnKV(ctx, "Packaging backend produced no artifacts", "backend", backend.Name())
	}

	repo := manifest.NewFileRepository(distDir)
	if err = repo.Save(ctx, record); err != nil {
		return StatusFailure, err
	}

	logger.InfoKV(ctx, "Build manifest saved", "path", repo.Path(), "build_id", record.BuildID)

	return StatusOK, nil
}
