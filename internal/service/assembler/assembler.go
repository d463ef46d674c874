package assembler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/oshokin/distpack/internal/config"
	"github.com/oshokin/distpack/internal/domain/descriptor"
	"github.com/oshokin/distpack/internal/logger"
)

// Assembler turns a project tree plus its static metadata into a descriptor.
type Assembler struct {
	// fsys is rooted at the project directory.
	fsys fs.FS
	// project is the validated static metadata.
	project *config.Project
}

var errProjectRequired = errors.New("project configuration is required")

// New returns an Assembler reading from fsys.
func New(fsys fs.FS, project *config.Project) (*Assembler, error) {
	if project == nil {
		return nil, errProjectRequired
	}

	if err := config.Validate(project); err != nil {
		return nil, err
	}

	return &Assembler{
		fsys:    fsys,
		project: project,
	}, nil
}

// Assemble builds the descriptor. It fails with the error of the first failing step.
func (a *Assembler) Assemble(ctx context.Context) (*descriptor.PackageDescriptor, error) {
	ctx = logger.WithName(ctx, "assembler")

	versionPath, err := LocateVersionDeclaration(a.fsys, a.project.Version.Glob)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Located version declaration", "path", versionPath)

	version, err := ExtractVersion(a.fsys, versionPath, a.project.Version.Keys...)
	if err != nil {
		return nil, err
	}

	longDescription, err := ReadTextFile(a.fsys, a.project.Readme)
	if err != nil {
		return nil, err
	}

	packages, err := a.packages()
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Assembled package descriptor",
		"name", a.project.Name,
		"version", version,
		"packages", len(packages))

	return descriptor.New(descriptor.Fields{
		Name:                       a.project.Name,
		Author:                     a.project.Author,
		AuthorEmail:                a.project.AuthorEmail,
		URL:                        a.project.URL,
		RequiresPython:             a.project.RequiresPython,
		License:                    a.project.License,
		Classifiers:                a.project.Classifiers,
		Version:                    version,
		Description:                a.project.Description,
		LongDescription:            longDescription,
		LongDescriptionContentType: a.project.ReadmeContentType,
		Packages:                   packages,
		PackageDir:                 map[string]string{"": a.project.PackageDir},
		ZipSafe:                    a.project.ZipSafe,
	}), nil
}

func (a *Assembler) packages() ([]string, error) {
	if len(a.project.Packages) > 0 {
		return ResolvePackages(a.fsys, a.project.PackageDir, a.project.Packages)
	}

	packages, err := DiscoverPackages(a.fsys, a.project.PackageDir, a.project.Exclude)
	if err != nil {
		return nil, err
	}

	if len(packages) == 0 {
		return nil, fmt.Errorf("%w: no packages found under %s", ErrFileAccess, a.project.PackageDir)
	}

	return packages, nil
}
