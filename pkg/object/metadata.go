package object

import (
	"os"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/models"
)

// ReadMetadata returns the metadata record for a key. The content file
// decides existence; a missing sidecar yields a synthesized record so
// legacy objects stay readable.
func (s *Store) ReadMetadata(key string) (*models.Metadata, error) {
	contentPath, err := s.contentPath(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(contentPath)
	if os.IsNotExist(err) {
		return nil, KeyNotFoundError{Key: key}
	}
	if err != nil {
		return nil, err
	}

	meta, err := readSidecar(contentPath)
	if os.IsNotExist(err) {
		return &models.Metadata{
			Key:          key,
			OriginalName: keypath.FilenameOf(key),
			Size:         info.Size(),
			Mime:         "application/octet-stream",
			OwnerID:      keypath.OwnerOf(key),
			Folder:       keypath.FolderOf(key),
			CreatedAt:    info.ModTime().UTC(),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// The filesystem is authoritative for size.
	meta.Size = info.Size()
	return meta, nil
}
