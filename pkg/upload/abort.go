package upload

import "vaultfs/pkg/log"

// Abort discards a session and all its part files. Part and Complete
// calls after abort fail with SessionNotFoundError.
func (m *Manager) Abort(uploadID string) error {
	sess, err := m.lookup(uploadID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.terminal() {
		return SessionNotFoundError{UploadID: uploadID}
	}

	m.remove(sess, stateAborted)
	log.Info().Str("upload_id", uploadID).Msg("Upload session aborted")
	return nil
}
