//go:build mage

// Package main provides build targets for distpack using Mage.
//
// Usage:
//
//	mage build    Compile the distpack binary to bin/ with version ldflags
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage clean    Remove build artifacts
//	mage install  Install distpack to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "distpack"
	binaryDir  = "bin"
	cmdDir     = "./cmd/distpack"
	versionPkg = "github.com/oshokin/distpack/internal/version"
)

// ldflags embeds the commit and build time into internal/version.
func ldflags() string {
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "none"
	}

	flags := []string{
		"-s", "-w",
		"-X", versionPkg + ".Commit=" + commit,
		"-X", versionPkg + ".BuildTime=" + time.Now().UTC().Format(time.RFC3339),
	}

	if v := os.Getenv("DISTPACK_RELEASE"); v != "" {
		flags = append(flags, "-X", versionPkg+".Version="+v)
	}

	return strings.Join(flags, " ")
}

// Build compiles the distpack binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}

	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}

	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}

	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
