package descriptor

import (
	"maps"
	"slices"
)

// Fields holds the raw values a PackageDescriptor is built from.
type Fields struct {
	// Name is the distribution name, e.g. "esneft_tools".
	Name string
	// Author is the author's display name.
	Author string
	// AuthorEmail is the author's contact address.
	AuthorEmail string
	// URL is the project home page.
	URL string
	// RequiresPython is the minimum interpreter constraint, e.g. ">=3.9.0".
	RequiresPython string
	// License is the license identifier, e.g. "MIT".
	License string
	// Classifiers are Trove classifiers in declaration order.
	Classifiers []string
	// Version is read from the version declaration file at build time.
	Version string
	// Description is the one-line summary.
	Description string
	// LongDescription is the README contents.
	LongDescription string
	// LongDescriptionContentType is the README media type, e.g. "text/markdown".
	LongDescriptionContentType string
	// Packages are the dotted names of installable packages, sorted.
	Packages []string
	// PackageDir maps the root package prefix ("") to its source directory.
	PackageDir map[string]string
	// ZipSafe reports whether the distribution may run from a zip archive.
	ZipSafe bool
}

// PackageDescriptor is an immutable description of a distributable package.
type PackageDescriptor struct {
	f Fields
}

// New builds a descriptor from f. Slices and maps are copied.
func New(f Fields) *PackageDescriptor {
	return &PackageDescriptor{f: cloneFields(f)}
}

// Fields returns a copy of all values held by the descriptor.
func (d *PackageDescriptor) Fields() Fields {
	return cloneFields(d.f)
}

// Name returns the distribution name.
func (d *PackageDescriptor) Name() string {
	return d.f.Name
}

// Author returns the author name.
func (d *PackageDescriptor) Author() string {
	return d.f.Author
}

// AuthorEmail returns the author contact address.
func (d *PackageDescriptor) AuthorEmail() string {
	return d.f.AuthorEmail
}

// URL returns the project home page.
func (d *PackageDescriptor) URL() string {
	return d.f.URL
}

// RequiresPython returns the declared interpreter requirement, e.g. ">=3.9.0".
func (d *PackageDescriptor) RequiresPython() string {
	return d.f.RequiresPython
}

// License returns the license name.
func (d *PackageDescriptor) License() string {
	return d.f.License
}

// Version returns the version read from the version declaration, as written.
func (d *PackageDescriptor) Version() string {
	return d.f.Version
}

// Description returns the one-line summary.
func (d *PackageDescriptor) Description() string {
	return d.f.Description
}

// LongDescription returns the README contents.
func (d *PackageDescriptor) LongDescription() string {
	return d.f.LongDescription
}

// LongDescriptionContentType returns the MIME type of LongDescription.
func (d *PackageDescriptor) LongDescriptionContentType() string {
	return d.f.LongDescriptionContentType
}

// ZipSafe reports whether the package may run from a zip archive.
func (d *PackageDescriptor) ZipSafe() bool {
	return d.f.ZipSafe
}

// Classifiers returns a copy of the classifiers in declaration order.
func (d *PackageDescriptor) Classifiers() []string {
	return slices.Clone(d.f.Classifiers)
}

// Packages returns a copy of the installable package names.
func (d *PackageDescriptor) Packages() []string {
	return slices.Clone(d.f.Packages)
}

// PackageDir returns a copy of the package-to-directory mapping.
func (d *PackageDescriptor) PackageDir() map[string]string {
	return maps.Clone(d.f.PackageDir)
}

// SourceRoot returns the directory holding the root package prefix.
func (d *PackageDescriptor) SourceRoot() string {
	return d.f.PackageDir[""]
}

// DistName returns "{name}-{version}" as declared, for messages and logs.
func (d *PackageDescriptor) DistName() string {
	return d.f.Name + "-" + d.f.Version
}

// Equal reports whether two descriptors hold identical values.
func (d *PackageDescriptor) Equal(other *PackageDescriptor) bool {
	if d == nil || other == nil {
		return d == other
	}

	a, b := d.f, other.f

	return a.Name == b.Name &&
		a.Author == b.Author &&
		a.AuthorEmail == b.AuthorEmail &&
		a.URL == b.URL &&
		a.RequiresPython == b.RequiresPython &&
		a.License == b.License &&
		a.Version == b.Version &&
		a.Description == b.Description &&
		a.LongDescription == b.LongDescription &&
		a.LongDescriptionContentType == b.LongDescriptionContentType &&
		a.ZipSafe == b.ZipSafe &&
		slices.Equal(a.Classifiers, b.Classifiers) &&
		slices.Equal(a.Packages, b.Packages) &&
		maps.Equal(a.PackageDir, b.PackageDir)
}

func cloneFields(f Fields) Fields {
	f.Classifiers = slices.Clone(f.Classifiers)
	f.Packages = slices.Clone(f.Packages)
	f.PackageDir = maps.Clone(f.PackageDir)

	return f
}
