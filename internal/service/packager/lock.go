package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/distpack/internal/logger"
)

const (
	// LockFilename marks a build in progress inside the dist directory.
	LockFilename = ".distpack-build.lock"

	// lockLifetime is the age after which a marker may be stale.
	lockLifetime = 30 * time.Second
)

// ErrBuildInProgress is returned when another build holds the dist directory.
var ErrBuildInProgress = errors.New("another build is running")

// Lock is a held build marker.
type Lock struct {
	path string
}

// AcquireLock creates the build marker in distDir. A marker older than the
// lock lifetime whose owner process is gone is removed and taken over.
func AcquireLock(ctx context.Context, distDir string) (*Lock, error) {
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dist dir: %w", err)
	}

	path := filepath.Join(distDir, LockFilename)

	for attempt := 0; attempt < 2; attempt++ {
		err := createMarker(path)
		if err == nil {
			return &Lock{path: path}, nil
		}

		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create build marker: %w", err)
		}

		if !isStale(ctx, path) {
			return nil, fmt.Errorf("%w: marker %s", ErrBuildInProgress, path)
		}

		logger.InfoKV(ctx, "Removing stale build marker", "path", path)

		if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale build marker: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: marker %s", ErrBuildInProgress, path)
}

// Release removes the marker.
func (l *Lock) Release(ctx context.Context) {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to remove build marker", "path", l.path, "error", err)
	}
}

// createMarker writes "<pid> <executable>" to a new file at path.
func createMarker(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	_, writeErr := fmt.Fprintf(f, "%d %s\n", os.Getpid(), currentExecutable())
	closeErr := f.Close()

	return errors.Join(writeErr, closeErr)
}

// isStale reports whether the marker at path can be taken over.
func isStale(ctx context.Context, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		// Vanished between create and stat: retry.
		return errors.Is(err, os.ErrNotExist)
	}

	if time.Since(info.ModTime()) <= lockLifetime {
		return false
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	pid, executable, ok := parseMarker(string(contents))
	if !ok {
		logger.WarnKV(ctx, "Build marker is unreadable, treating it as stale", "path", path)
		return true
	}

	return !isProcessAlive(pid, executable)
}

func parseMarker(contents string) (int, string, bool) {
	rawPID, executable, ok := strings.Cut(strings.TrimSpace(contents), " ")
	if !ok || executable == "" {
		return 0, "", false
	}

	pid, err := strconv.Atoi(rawPID)
	if err != nil || pid <= 0 {
		return 0, "", false
	}

	return pid, executable, true
}

// isProcessAlive reports whether pid still runs the recorded executable.
func isProcessAlive(pid int, executable string) bool {
	process, err := ps.FindProcess(pid)
	if err != nil {
		// Cannot tell, keep the lock.
		return true
	}

	return process != nil && process.Executable() == executable
}

func currentExecutable() string {
	if process, err := ps.FindProcess(os.Getpid()); err == nil && process != nil {
		return process.Executable()
	}

	return filepath.Base(os.Args[0])
}
