package packager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/distpack/internal/config"
	"github.com/oshokin/distpack/internal/domain/descriptor"
	"github.com/oshokin/distpack/internal/logger"
)

// Environment passed to external packaging commands. Arguments may refer to
// them as $DISTPACK_OUTDIR or ${DISTPACK_OUTDIR}.
const (
	EnvDescriptor = "DISTPACK_DESCRIPTOR"
	EnvName       = "DISTPACK_NAME"
	EnvVersion    = "DISTPACK_VERSION"
	EnvOutDir     = "DISTPACK_OUTDIR"
)

var errEmptyCommand = errors.New("packaging command is empty")

// CommandBackend delegates packaging to an external program.
type CommandBackend struct {
	// dir is the working directory of the command (the project directory).
	dir string
	// argv is the command line before variable expansion.
	argv []string
}

// NewCommandBackend returns a backend running argv in dir.
func NewCommandBackend(dir string, argv []string) (*CommandBackend, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errEmptyCommand
	}

	return &CommandBackend{
		dir:  dir,
		argv: slices.Clone(argv),
	}, nil
}

// Name implements Packager.
func (*CommandBackend) Name() string {
	return config.BackendCommand
}

// Package implements Packager. The command's exit code becomes Result.Status;
// every regular file it leaves in outDir is reported as an artifact.
func (b *CommandBackend) Package(
	ctx context.Context,
	d *descriptor.PackageDescriptor,
	_ fs.FS,
	outDir string,
) (Result, error) {
	descriptorPath, cleanup, err := writeDescriptor(d)
	if err != nil {
		return Result{Status: StatusFailure}, err
	}

	defer cleanup()

	vars := map[string]string{
		EnvDescriptor: descriptorPath,
		EnvName:       d.Name(),
		EnvVersion:    d.Version(),
		EnvOutDir:     outDir,
	}

	args := make([]string, len(b.argv))
	for i, arg := range b.argv {
		args[i] = os.Expand(arg, func(key string) string {
			if value, ok := vars[key]; ok {
				return value
			}

			return os.Getenv(key)
		})
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = b.dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	for key, value := range vars {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	logger.InfoKV(ctx, "Running packaging command", "command", args, "dir", b.dir)

	if err = cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return Result{Status: ExitStatus(exitErr.ExitCode())}, nil
		}

		return Result{Status: StatusFailure}, fmt.Errorf("run %s: %w", args[0], err)
	}

	artifacts, err := listArtifacts(outDir)
	if err != nil {
		return Result{Status: StatusFailure}, err
	}

	return Result{Status: StatusOK, Artifacts: artifacts}, nil
}

// writeDescriptor stores d as YAML in a private temporary directory.
func writeDescriptor(d *descriptor.PackageDescriptor) (string, func(), error) {
	dir, err := os.MkdirTemp("", "distpack-descriptor-*")
	if err != nil {
		return "", nil, fmt.Errorf("create descriptor dir: %w", err)
	}

	cleanup := func() {
		_ = os.RemoveAll(dir)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("encode descriptor: %w", err)
	}

	target := filepath.Join(dir, "descriptor.yaml")
	if err = os.WriteFile(target, data, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write descriptor: %w", err)
	}

	return target, cleanup, nil
}

func listArtifacts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	artifacts := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.Type().IsRegular() {
			artifacts = append(artifacts, filepath.Join(dir, entry.Name()))
		}
	}

	return artifacts, nil
}
