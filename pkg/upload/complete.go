package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/object"
)

// Complete concatenates the received parts in part-number order into
// the final object, verifies size and hash expectations, and destroys
// the session. Any gap in the part sequence fails with
// IncompleteUploadError and leaves the session intact so the missing
// part can still be submitted. A hash mismatch cleans up everything:
// nothing is promoted and the parts are discarded.
func (m *Manager) Complete(uploadID, expectedSHA256 string, meta *models.CompleteMeta) (*models.Metadata, error) {
	sess, err := m.lookup(uploadID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.terminal() {
		return nil, SessionNotFoundError{UploadID: uploadID}
	}

	partCount := sess.desc.DeclaredParts
	if partCount <= 0 {
		for num := range sess.parts {
			if num > partCount {
				partCount = num
			}
		}
	}
	if partCount == 0 {
		return nil, IncompleteUploadError{UploadID: uploadID, MissingPart: 1}
	}
	for num := 1; num <= partCount; num++ {
		if _, ok := sess.parts[num]; !ok {
			return nil, IncompleteUploadError{UploadID: uploadID, MissingPart: num}
		}
	}

	filename, folder, mime, declaredSize := sess.completionTarget(meta)
	if declaredSize >= 0 && sess.receivedBytes() != declaredSize {
		return nil, object.SizeMismatchError{Key: uploadID, Declared: declaredSize, Actual: sess.receivedBytes()}
	}

	key, err := keypath.Encode(sess.desc.OwnerID, folder, filename)
	if err != nil {
		return nil, err
	}

	sess.state = stateCompleting

	readers := make([]io.Reader, 0, partCount)
	files := make([]*os.File, 0, partCount)
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	for num := 1; num <= partCount; num++ {
		partPath := filepath.Join(sess.dir, fmt.Sprintf(partFileFormat, num))
		file, openErr := os.Open(partPath) //nolint:gosec // path is built from a server-generated id
		if openErr != nil {
			closeAll()
			sess.state = stateReceiving
			return nil, IncompleteUploadError{UploadID: uploadID, MissingPart: num}
		}
		files = append(files, file)
		readers = append(readers, file)
	}

	result, err := m.store.Write(key, io.MultiReader(readers...), declaredSize, object.WriteMeta{
		OriginalName:   filename,
		Mime:           mime,
		OwnerID:        sess.desc.OwnerID,
		Folder:         folder,
		ExpectedSHA256: expectedSHA256,
	})
	closeAll()

	if err != nil {
		var hashErr object.HashMismatchError
		if errors.As(err, &hashErr) {
			// Corrupt data: discard the whole session, nothing to retry.
			log.Warn().Str("upload_id", uploadID).Str("expected", hashErr.Expected).
				Str("computed", hashErr.Computed).Msg("Hash mismatch, discarding session")
			m.remove(sess, stateAborted)
			return nil, err
		}
		// Recoverable failures (quota, transient I/O) keep the parts so
		// the caller can retry Complete.
		sess.state = stateReceiving
		return nil, err
	}

	m.remove(sess, stateDone)
	log.Info().Str("upload_id", uploadID).Str("key", result.Key).Int64("size", result.Size).Msg("Upload completed")
	return result, nil
}

// completionTarget resolves the final filename, folder, mime, and
// declared size, applying optional overrides supplied at completion.
func (sess *session) completionTarget(meta *models.CompleteMeta) (filename, folder, mime string, declaredSize int64) {
	declaredSize = -1
	if len(sess.desc.Files) == 1 {
		filename = sess.desc.Files[0].Name
		mime = sess.desc.Files[0].Mime
		if sess.desc.Files[0].Size > 0 {
			declaredSize = sess.desc.Files[0].Size
		}
	}
	folder = sess.desc.Folder

	if meta != nil {
		if meta.Filename != "" {
			filename = meta.Filename
			declaredSize = -1
		}
		if meta.Folder != "" {
			folder = meta.Folder
		}
		if meta.Mime != "" {
			mime = meta.Mime
		}
	}
	if filename == "" {
		filename = "uploaded_file"
	}
	return filename, folder, mime, declaredSize
}
