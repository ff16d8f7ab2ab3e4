package object

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
)

// WriteMeta carries the caller-declared attributes of a write.
type WriteMeta struct {
	OriginalName   string
	Mime           string
	OwnerID        string
	Folder         string
	ExpectedSHA256 string
}

// Write streams r to the object at key. Content is written to a
// temporary file in the target directory and renamed into place, so
// readers never observe a partial object. The SHA-256 is computed
// incrementally while writing. declaredSize < 0 means undeclared.
func (s *Store) Write(key string, r io.Reader, declaredSize int64, wm WriteMeta) (*models.Metadata, error) {
	contentPath, err := s.contentPath(key)
	if err != nil {
		return nil, err
	}

	if err := s.reserve(wm.OwnerID, declaredSize); err != nil {
		return nil, err
	}
	defer s.release(wm.OwnerID, declaredSize)

	targetDir := filepath.Dir(contentPath)
	if err := os.MkdirAll(targetDir, dirPerm); err != nil {
		log.Error().Err(err).Str("target_dir", targetDir).Msg("Failed to create target directory")
		return nil, err
	}

	tempFile, err := os.CreateTemp(targetDir, filepath.Base(contentPath)+".tmp-*")
	if err != nil {
		log.Error().Err(err).Msg("Failed to create temporary file")
		return nil, err
	}
	tempPath := tempFile.Name()

	discard := func() {
		_ = tempFile.Close()
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("temp_file", tempPath).Msg("Failed to remove temporary file")
		}
	}

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tempFile, hasher), r)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to stream object content")
		discard()
		return nil, err
	}

	if declaredSize >= 0 && written != declaredSize {
		discard()
		return nil, SizeMismatchError{Key: key, Declared: declaredSize, Actual: written}
	}

	computed := hex.EncodeToString(hasher.Sum(nil))
	if wm.ExpectedSHA256 != "" && !strings.EqualFold(wm.ExpectedSHA256, computed) {
		discard()
		return nil, HashMismatchError{Key: key, Expected: strings.ToLower(wm.ExpectedSHA256), Computed: computed}
	}

	// Undeclared sizes bypass reservation, so re-check before commit.
	if declaredSize < 0 {
		if err := s.CheckQuota(wm.OwnerID, written); err != nil {
			discard()
			return nil, err
		}
	}

	if err := tempFile.Close(); err != nil {
		discard()
		return nil, err
	}
	if err := os.Rename(tempPath, contentPath); err != nil {
		log.Error().Err(err).Str("target_path", contentPath).Msg("Failed to rename object into place")
		discard()
		return nil, err
	}

	meta := &models.Metadata{
		Key:          key,
		OriginalName: wm.OriginalName,
		Size:         written,
		Mime:         guessMime(wm.Mime, wm.OriginalName),
		SHA256:       computed,
		OwnerID:      wm.OwnerID,
		Folder:       wm.Folder,
		CreatedAt:    time.Now().UTC(),
	}
	if meta.OriginalName == "" {
		meta.OriginalName = keypath.FilenameOf(key)
	}

	if err := writeSidecar(contentPath, meta); err != nil {
		if removeErr := os.Remove(contentPath); removeErr != nil {
			log.Error().Err(removeErr).Str("target_path", contentPath).Msg("Failed to remove object after sidecar error")
		}
		return nil, err
	}
	if err := s.idx.Put(meta); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to index object")
		return nil, err
	}

	log.Info().Str("key", key).Int64("size", written).Str("sha256", computed).Msg("Object stored")
	return meta, nil
}

// guessMime falls back to extension sniffing, then octet-stream.
func guessMime(declared, filename string) string {
	if declared != "" {
		return declared
	}
	if guessed := mime.TypeByExtension(filepath.Ext(filename)); guessed != "" {
		return guessed
	}
	return "application/octet-stream"
}
