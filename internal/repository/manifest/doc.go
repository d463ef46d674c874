// Package manifest persists the build manifest: which artifacts the last
// build published and their SHA-512 checksums.
package manifest
