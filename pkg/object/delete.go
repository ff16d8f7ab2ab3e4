package object

import (
	"os"

	"vaultfs/pkg/log"
)

// Delete removes an object's content, sidecar, and index row together.
// A missing object reports KeyNotFoundError; retrying a completed
// delete therefore also reports KeyNotFoundError.
func (s *Store) Delete(key string) error {
	contentPath, err := s.contentPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(contentPath); err != nil {
		if os.IsNotExist(err) {
			return KeyNotFoundError{Key: key}
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to delete object content")
		return err
	}

	if err := os.Remove(metaPath(contentPath)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete metadata sidecar")
	}
	if err := s.idx.Delete(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete index row")
	}

	log.Info().Str("key", key).Msg("Object deleted")
	return nil
}
