package packager

import (
	"bytes"
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/dustin/go-humanize"

	"github.com/oshokin/distpack/internal/logger"
	"github.com/oshokin/distpack/internal/repository/manifest"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultChecksumFunction is used to calculate artifact hashes.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// ArtifactFileMode is the mode of published artifacts.
	ArtifactFileMode os.FileMode = 0o644
)

var (
	errHashUnavailable = errors.New("hash function unavailable")
	// ErrChecksumMismatch is returned when a published file differs from the staged one.
	ErrChecksumMismatch = errors.New("checksum mismatch after publish")
)

// GetFileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func GetFileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	return checksum(contents)
}

func checksum(contents []byte) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err := hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// Publish moves the staged artifact into distDir, replacing any file of the
// same name atomically, and verifies the result.
func Publish(ctx context.Context, staged, distDir string) (manifest.Artifact, error) {
	data, err := os.ReadFile(filepath.Clean(staged))
	if err != nil {
		return manifest.Artifact{}, fmt.Errorf("read staged artifact: %w", err)
	}

	sum, err := checksum(data)
	if err != nil {
		return manifest.Artifact{}, err
	}

	if err = os.MkdirAll(distDir, 0o755); err != nil {
		return manifest.Artifact{}, fmt.Errorf("create dist dir: %w", err)
	}

	target := filepath.Join(distDir, filepath.Base(staged))

	// go-update renames the current target away first, so it has to exist.
	placeholder := false

	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		if err = os.WriteFile(target, nil, ArtifactFileMode); err != nil {
			return manifest.Artifact{}, fmt.Errorf("create %s: %w", target, err)
		}

		placeholder = true
	}

	artifact, err := replace(ctx, target, data, sum)
	if err != nil && placeholder {
		if removeErr := os.Remove(target); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.WarnKV(ctx, "Failed to remove placeholder artifact", "path", target, "error", removeErr)
		}
	}

	return artifact, err
}

// applyUpdate is goupdate.Apply; tests replace it to simulate failures.
var applyUpdate = goupdate.Apply

func replace(ctx context.Context, target string, data, sum []byte) (manifest.Artifact, error) {
	options := goupdate.Options{
		TargetPath: target,
		TargetMode: ArtifactFileMode,
		Checksum:   sum,
		Hash:       DefaultChecksumFunction,
	}

	if err := applyUpdate(bytes.NewReader(data), options); err != nil {
		return manifest.Artifact{}, fmt.Errorf("publish %s: %w", target, err)
	}

	published, err := GetFileChecksum(target)
	if err != nil {
		return manifest.Artifact{}, fmt.Errorf("verify %s: %w", target, err)
	}

	if !bytes.Equal(published, sum) {
		return manifest.Artifact{}, fmt.Errorf("%s: %w", target, ErrChecksumMismatch)
	}

	logger.InfoKV(ctx, "Published artifact",
		"path", target,
		"size", humanize.Bytes(uint64(len(data))))

	return manifest.Artifact{
		Checksum: base64.StdEncoding.EncodeToString(sum),
		Size:     int64(len(data)),
	}, nil
}
