package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
)

// Repository defines persistence operations for a release manifest.
type Repository interface {
	Load(ctx context.Context) (*packaging.Release, error)
	Save(ctx context.Context, release *packaging.Release) error
}

// FileRepository stores a release manifest as YAML on disk.
type FileRepository struct {
	// path is the filesystem location of the manifest.
	path string
	// mu protects concurrent access to the manifest file.
	mu sync.Mutex
}

const fileMode os.FileMode = 0o644

// ErrNotFound is returned when the manifest does not exist yet.
var ErrNotFound = errors.New("release manifest not found")

// Filename returns the manifest name for a release: {name}_{version}-manifest.yaml.
func Filename(c *packaging.Context) string {
	return c.ArtifactBaseName() + "-manifest.yaml"
}

// NewFileRepository creates a repository that reads and writes YAML at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the manifest from disk.
func (r *FileRepository) Load(_ context.Context) (*packaging.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read release manifest: %w", err)
	}

	var release packaging.Release
	if err = yaml.Unmarshal(contents, &release); err != nil {
		return nil, fmt.Errorf("decode release manifest: %w", err)
	}

	return &release, nil
}

// Save writes the manifest, replacing any previous one.
func (r *FileRepository) Save(_ context.Context, release *packaging.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(release)
	if err != nil {
		return fmt.Errorf("encode release manifest: %w", err)
	}

	if err = fsutil.EnsureDir(filepath.Dir(r.path)); err != nil {
		return err
	}

	if err = os.WriteFile(r.path, data, fileMode); err != nil {
		return fmt.Errorf("write release manifest: %w", err)
	}

	return nil
}
