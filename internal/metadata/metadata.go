// Package metadata renders Core Metadata (the PKG-INFO file of a source
// distribution) for a package descriptor.
//
// https://packaging.python.org/en/latest/specifications/core-metadata/
package metadata

import (
	"bytes"
	"strings"

	"github.com/oshokin/distpack/internal/domain/descriptor"
)

// Version is the Core Metadata version written to PKG-INFO.
const Version = "2.1"

// Filename is the name of the metadata file inside an sdist.
const Filename = "PKG-INFO"

// Render returns the PKG-INFO contents for d. Empty optional fields are
// omitted, and the long description becomes the message body.
func Render(d *descriptor.PackageDescriptor) []byte {
	var buf bytes.Buffer

	header := func(key, value string) {
		if value == "" {
			return
		}

		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(foldValue(value))
		buf.WriteByte('\n')
	}

	header("Metadata-Version", Version)
	header("Name", d.Name())
	header("Version", d.Version())
	header("Summary", d.Description())
	header("Home-page", d.URL())
	header("Author", d.Author())
	header("Author-email", d.AuthorEmail())
	header("License", d.License())

	for _, classifier := range d.Classifiers() {
		header("Classifier", classifier)
	}

	header("Requires-Python", d.RequiresPython())
	header("Description-Content-Type", d.LongDescriptionContentType())

	if body := d.LongDescription(); body != "" {
		buf.WriteByte('\n')
		buf.WriteString(body)

		if !strings.HasSuffix(body, "\n") {
			buf.WriteByte('\n')
		}
	}

	return buf.Bytes()
}

// foldValue keeps multi-line values inside their header by indenting
// continuation lines, as RFC 822 folding requires.
func foldValue(value string) string {
	value = strings.TrimRight(value, "\n")

	return strings.ReplaceAll(value, "\n", "\n        ")
}
