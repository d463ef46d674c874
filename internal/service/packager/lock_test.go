package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeMarker(t *testing.T, dir, contents string, age time.Duration) {
	t.Helper()

	path := filepath.Join(dir, LockFilename)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	old := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, old, old))
}

// TestAcquireLockExclusive ensures a second acquisition fails until release.
func TestAcquireLockExclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "dist")

	lock, err := AcquireLock(ctx, dir)
	require.NoError(t, err)

	_, err = AcquireLock(ctx, dir)
	require.ErrorIs(t, err, ErrBuildInProgress)

	lock.Release(ctx)

	lock, err = AcquireLock(ctx, dir)
	require.NoError(t, err)
	lock.Release(ctx)

	_, err = os.Stat(filepath.Join(dir, LockFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestAcquireLockStaleMarker takes over an old marker whose owner is gone.
func TestAcquireLockStaleMarker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	writeMarker(t, dir, "999999999 distpack\n", time.Hour)

	lock, err := AcquireLock(ctx, dir)
	require.NoError(t, err)
	lock.Release(ctx)

	writeMarker(t, dir, "garbage", time.Hour)

	lock, err = AcquireLock(ctx, dir)
	require.NoError(t, err)
	lock.Release(ctx)
}

// TestAcquireLockLiveOwner keeps an old marker whose owner still runs.
func TestAcquireLockLiveOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	writeMarker(t, dir, fmt.Sprintf("%d %s\n", os.Getpid(), currentExecutable()), time.Hour)

	_, err := AcquireLock(ctx, dir)
	require.ErrorIs(t, err, ErrBuildInProgress)
}

// TestAcquireLockFreshMarker refuses a recent marker without looking at processes.
func TestAcquireLockFreshMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeMarker(t, dir, "999999999 distpack\n", 0)

	_, err := AcquireLock(context.Background(), dir)
	require.ErrorIs(t, err, ErrBuildInProgress)
}

// TestParseMarker covers well-formed and broken markers.
func TestParseMarker(t *testing.T) {
	t.Parallel()

	pid, exe, ok := parseMarker("42 distpack\n")
	require.True(t, ok)
	require.Equal(t, 42, pid)
	require.Equal(t, "distpack", exe)

	_, exe, ok = parseMarker("7 packager.test extra")
	require.True(t, ok)
	require.Equal(t, "packager.test extra", exe)

	for _, bad := range []string{"", "42", "x distpack", "-1 distpack"} {
		_, _, ok = parseMarker(bad)
		require.False(t, ok, bad)
	}
}
