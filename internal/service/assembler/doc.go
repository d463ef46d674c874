// Package assembler builds a PackageDescriptor from a project tree.
//
// It locates the single version declaration, extracts the version binding,
// reads the README and resolves the installable packages, then merges them
// with the static project metadata. Assembly is all-or-nothing: the first
// failing step aborts it and no partial descriptor is returned.
//
// Every read goes through an fs.FS rooted at the project directory.
package assembler
