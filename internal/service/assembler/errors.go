package assembler

import "errors"

var (
	// ErrFileAccess is returned when an input file is missing or unreadable.
	ErrFileAccess = errors.New("file access error")
	// ErrAmbiguousVersionSource is returned when the version glob does not match exactly one file.
	ErrAmbiguousVersionSource = errors.New("ambiguous version source")
	// ErrMalformedVersionFile is returned when the version declaration lacks a valid version binding.
	ErrMalformedVersionFile = errors.New("malformed version file")
)
