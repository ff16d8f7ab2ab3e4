package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"vaultfs/pkg/log"
)

// PutPart stores the bytes for one part. Re-submitting the same part
// number overwrites the previous payload, which makes client retries
// idempotent. Out-of-range part numbers are rejected without mutating
// session state.
func (m *Manager) PutPart(uploadID string, partNumber int, r io.Reader) (int64, error) {
	sess, err := m.lookup(uploadID)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.terminal() {
		return 0, SessionNotFoundError{UploadID: uploadID}
	}

	maxParts := sess.desc.DeclaredParts
	if maxParts <= 0 {
		maxParts = maxUndeclaredParts
	}
	if partNumber < 1 || partNumber > maxParts {
		return 0, PartNumberError{UploadID: uploadID, PartNumber: partNumber, MaxParts: maxParts}
	}

	partPath := filepath.Join(sess.dir, fmt.Sprintf(partFileFormat, partNumber))

	file, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //nolint:gosec // path is built from a server-generated id
	if err != nil {
		log.Error().Err(err).Str("upload_id", uploadID).Int("part", partNumber).Msg("Failed to create part file")
		return 0, err
	}

	// Read one byte past the cap to detect oversized parts without
	// buffering the payload.
	written, err := io.Copy(file, io.LimitReader(r, m.cfg.MaxPartSize+1))
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(partPath)
		log.Error().Err(err).Str("upload_id", uploadID).Int("part", partNumber).Msg("Failed to write part")
		return 0, err
	}
	if written > m.cfg.MaxPartSize {
		_ = os.Remove(partPath)
		return 0, PayloadTooLargeError{UploadID: uploadID, Limit: m.cfg.MaxPartSize}
	}

	// Cumulative cap counts the replaced payload only once.
	cumulative := sess.receivedBytes() - sess.parts[partNumber] + written
	if cumulative > m.cfg.MaxUploadSize {
		_ = os.Remove(partPath)
		delete(sess.parts, partNumber)
		return 0, PayloadTooLargeError{UploadID: uploadID, Limit: m.cfg.MaxUploadSize}
	}

	sess.parts[partNumber] = written
	sess.state = stateReceiving
	sess.lastActivity = time.Now()

	log.Debug().Str("upload_id", uploadID).Int("part", partNumber).Int64("size", written).Msg("Part stored")
	return written, nil
}
