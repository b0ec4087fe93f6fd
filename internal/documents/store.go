package documents

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store keeps document bytes on disk under a configured root, one file
// per storage key.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Save(key string, r io.Reader) (int64, error) {
	f, err := os.Create(s.Path(key))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return 0, err
	}
	return n, nil
}

func (s *Store) Remove(key string) error {
	err := os.Remove(s.Path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) Path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}
