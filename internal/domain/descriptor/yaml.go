package descriptor

import "gopkg.in/yaml.v3"

// document is the YAML view of a descriptor, keyed like setuptools arguments.
type document struct {
	Name                       string            `yaml:"name"`
	Version                    string            `yaml:"version"`
	Description                string            `yaml:"description"`
	Author                     string            `yaml:"author"`
	AuthorEmail                string            `yaml:"author_email"`
	URL                        string            `yaml:"url"`
	RequiresPython             string            `yaml:"python_requires"`
	License                    string            `yaml:"license"`
	Classifiers                []string          `yaml:"classifiers"`
	Packages                   []string          `yaml:"packages"`
	PackageDir                 map[string]string `yaml:"package_dir"`
	ZipSafe                    bool              `yaml:"zip_safe"`
	LongDescriptionContentType string            `yaml:"long_description_content_type"`
	LongDescription            string            `yaml:"long_description"`
}

// MarshalYAML renders the descriptor with setuptools-style keys.
func (d *PackageDescriptor) MarshalYAML() (any, error) {
	f := d.Fields()

	return document{
		Name:                       f.Name,
		Version:                    f.Version,
		Description:                f.Description,
		Author:                     f.Author,
		AuthorEmail:                f.AuthorEmail,
		URL:                        f.URL,
		RequiresPython:             f.RequiresPython,
		License:                    f.License,
		Classifiers:                f.Classifiers,
		Packages:                   f.Packages,
		PackageDir:                 f.PackageDir,
		ZipSafe:                    f.ZipSafe,
		LongDescriptionContentType: f.LongDescriptionContentType,
		LongDescription:            f.LongDescription,
	}, nil
}

// UnmarshalYAML reads a descriptor written by MarshalYAML.
func (d *PackageDescriptor) UnmarshalYAML(node *yaml.Node) error {
	var doc document
	if err := node.Decode(&doc); err != nil {
		return err
	}

	d.f = cloneFields(Fields{
		Name:                       doc.Name,
		Author:                     doc.Author,
		AuthorEmail:                doc.AuthorEmail,
		URL:                        doc.URL,
		RequiresPython:             doc.RequiresPython,
		License:                    doc.License,
		Classifiers:                doc.Classifiers,
		Version:                    doc.Version,
		Description:                doc.Description,
		LongDescription:            doc.LongDescription,
		LongDescriptionContentType: doc.LongDescriptionContentType,
		Packages:                   doc.Packages,
		PackageDir:                 doc.PackageDir,
		ZipSafe:                    doc.ZipSafe,
	})

	return nil
}
