package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore persists raw artifact bytes keyed by (session id, artifact name).
type BlobStore interface {
	Save(sessionID, name string, data []byte) error
	Load(sessionID, name string) ([]byte, error)
	EnsureRoot() error
}

type diskBlobStore struct {
	root string
}

func NewDiskBlobStore(root string) BlobStore {
	return &diskBlobStore{root: root}
}

func (s *diskBlobStore) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *diskBlobStore) Save(sessionID, name string, data []byte) error {
	dir := filepath.Join(s.root, sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to save artifact bytes: %w", err)
	}
	return nil
}

func (s *diskBlobStore) Load(sessionID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, sessionID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact bytes: %w", err)
	}
	return data, nil
}
