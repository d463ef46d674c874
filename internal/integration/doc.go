// Package integration holds end-to-end tests that drive a full build of a
// project tree on disk: assembly, packaging, publishing and the manifest.
package integration
