// Package packager hands an assembled package descriptor to a packaging
// backend and publishes what it produces.
//
// Two backends exist: an in-process sdist writer and a wrapper around an
// external command such as `python -m build`. Artifacts are produced in a
// staging directory, then moved into the dist directory with go-update so
// a half-written archive never replaces a good one. A build manifest with
// SHA-512 checksums is saved next to them.
package packager
