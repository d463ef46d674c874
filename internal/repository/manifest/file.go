package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Filename is the manifest name inside the dist directory.
const Filename = "distpack-manifest.yaml"

// Artifact describes one published file.
type Artifact struct {
	// Checksum is the base64-encoded SHA-512 of the file.
	Checksum string `yaml:"sha512"`
	// Size is the file size in bytes.
	Size int64 `yaml:"size"`
}

// Manifest records the outcome of a build.
type Manifest struct {
	BuildID   string              `yaml:"build_id"`
	Name      string              `yaml:"name"`
	Version   string              `yaml:"version"`
	Backend   string              `yaml:"backend"`
	CreatedAt time.Time           `yaml:"created_at"`
	Artifacts map[string]Artifact `yaml:"artifacts"`
}

// Filenames returns the artifact names in lexical order.
func (m *Manifest) Filenames() []string {
	names := make([]string, 0, len(m.Artifacts))
	for name := range m.Artifacts {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Repository defines persistence operations for the build manifest.
type Repository interface {
	Load(ctx context.Context) (*Manifest, error)
	Save(ctx context.Context, m *Manifest) error
}

// FileRepository keeps the manifest as a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the manifest.
	path string
	// mu protects concurrent access to the manifest file.
	mu sync.Mutex
}

// ErrNotFound is returned when no manifest has been written yet.
var ErrNotFound = errors.New("manifest not found")

const filePermissions = 0o644

// NewFileRepository creates a repository for the manifest in distDir.
func NewFileRepository(distDir string) *FileRepository {
	return &FileRepository{
		path: filepath.Join(filepath.Clean(distDir), Filename),
	}
}

// Path returns the manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the manifest from disk.
func (r *FileRepository) Load(_ context.Context) (*Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err = yaml.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	if m.Artifacts == nil {
		m.Artifacts = make(map[string]Artifact)
	}

	return &m, nil
}

// Save writes the manifest, replacing any previous one.
func (r *FileRepository) Save(_ context.Context, m *Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = os.WriteFile(r.path, data, filePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}
