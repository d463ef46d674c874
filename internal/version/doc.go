// Package version exposes build metadata of the distpack binary itself,
// not of the Python projects it packages.
//
// Version, Commit and BuildTime are injected through -ldflags by the mage
// build target.
package version
