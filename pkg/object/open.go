package object

import (
	"io"
	"os"

	"vaultfs/pkg/log"
)

// Open returns a reader over the object's bytes, limited to rng when
// one is given, along with the object's metadata. Reading never mutates
// the object or its sidecar.
func (s *Store) Open(key string, rng *ByteRange) (io.ReadCloser, error) {
	contentPath, err := s.contentPath(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(contentPath) //nolint:gosec // contentPath passed key validation
	if err != nil {
		if os.IsNotExist(err) {
			return nil, KeyNotFoundError{Key: key}
		}
		log.Error().Err(err).Str("key", key).Msg("Failed to open object")
		return nil, err
	}

	if rng == nil {
		return file, nil
	}

	if _, err := file.Seek(rng.Start, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, err
	}
	return &rangeReader{
		Reader: io.LimitReader(file, rng.Length()),
		file:   file,
	}, nil
}

// rangeReader limits reads to the requested span while keeping the
// underlying file closable.
type rangeReader struct {
	io.Reader
	file *os.File
}

func (r *rangeReader) Close() error {
	return r.file.Close()
}
