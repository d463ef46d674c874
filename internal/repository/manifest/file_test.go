package manifest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a fresh dist directory.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(t.TempDir())
	m, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, m)
}

// TestFileRepository_SaveLoad ensures Save followed by Load returns the same manifest.
func TestFileRepository_SaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewFileRepository(dir)
	require.Equal(t, filepath.Join(dir, Filename), repo.Path())

	want := &Manifest{
		BuildID:   "0190f0a4-6a4c-7c3e-9d59-3c8f0c2d1e77",
		Name:      "esneft_tools",
		Version:   "1.2.3",
		Backend:   "sdist",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Artifacts: map[string]Artifact{
			"esneft_tools-1.2.3.tar.gz": {Checksum: "c2hhNTEy", Size: 2048},
		},
	}

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.BuildID, got.BuildID)
	require.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, want.Artifacts, got.Artifacts)
	require.Equal(t, []string{"esneft_tools-1.2.3.tar.gz"}, got.Filenames())
}
