// Package object owns the mapping from validated keys to durable bytes
// plus metadata sidecars, and enforces per-owner byte quotas.
package object

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vaultfs/pkg/index"
	"vaultfs/pkg/keypath"
	"vaultfs/pkg/models"
)

const (
	dirPerm  = 0750
	filePerm = 0640

	// metaSuffix is appended to the content path for the sidecar file.
	metaSuffix = ".meta"
)

// Store implements the filesystem-backed object store.
type Store struct {
	root       string
	quotaBytes int64 // <= 0 means unlimited
	idx        *index.Store

	reserveMu sync.Mutex
	reserved  map[string]int64 // in-flight declared bytes per owner
}

// New creates a Store rooted at root. quotaBytes caps the cumulative
// committed bytes per owner; zero or negative disables the cap.
func New(root string, quotaBytes int64, idx *index.Store) (*Store, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &Store{
		root:       root,
		quotaBytes: quotaBytes,
		idx:        idx,
		reserved:   make(map[string]int64),
	}, nil
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// Index exposes the metadata index for listing queries.
func (s *Store) Index() *index.Store {
	return s.idx
}

// contentPath resolves a key to its content path, enforcing validation.
func (s *Store) contentPath(key string) (string, error) {
	return keypath.Decode(s.root, key)
}

func metaPath(contentPath string) string {
	return contentPath + metaSuffix
}

// writeSidecar persists the metadata record next to the content.
func writeSidecar(contentPath string, meta *models.Metadata) error {
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(metaPath(contentPath), raw, filePerm); err != nil {
		return fmt.Errorf("failed to write metadata sidecar: %w", err)
	}
	return nil
}

// readSidecar loads the metadata record for a content path.
func readSidecar(contentPath string) (*models.Metadata, error) {
	raw, err := os.ReadFile(metaPath(contentPath))
	if err != nil {
		return nil, err
	}
	meta := &models.Metadata{}
	if err := json.Unmarshal(raw, meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata sidecar: %w", err)
	}
	return meta, nil
}

// Reindex rebuilds the index from the sidecar files under the storage
// tree. Used on startup when the index database is missing.
func (s *Store) Reindex() error {
	storageRoot := filepath.Join(s.root, "storage")
	if _, err := os.Stat(storageRoot); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(storageRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != metaSuffix {
			return nil
		}
		meta, readErr := readSidecar(path[:len(path)-len(metaSuffix)])
		if readErr != nil {
			return readErr
		}
		return s.idx.Put(meta)
	})
}
