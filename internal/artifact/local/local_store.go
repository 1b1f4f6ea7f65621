package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"docketflow/internal/domain"
	"docketflow/internal/port"
)

// Store is a directory-backed artifact store. Each namespace is a
// subdirectory of the base dir; each artifact is one file.
type Store struct {
	baseDir string
}

// NewStore creates a local artifact store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Put(ctx context.Context, namespace, name string, data []byte) error {
	dir := filepath.Join(s.baseDir, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("localStore.Put: creating %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("localStore.Put: writing %s: %w", name, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, namespace string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, namespace))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("localStore.List: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *Store) Read(ctx context.Context, namespace, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, namespace, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("localStore.Read: %w", err)
	}
	return data, nil
}

var _ port.ArtifactStore = (*Store)(nil)
