// Package versionfile parses version declaration files.
//
// A declaration is a list of `key = value` lines. Values may be bare or
// wrapped in single or double quotes, `#` starts a comment, and a later
// binding of a key replaces an earlier one. Nothing is evaluated, so a file
// such as
//
//	# generated by the release job
//	__version__ = "1.2.3"
//
// is read as plain data.
package versionfile
