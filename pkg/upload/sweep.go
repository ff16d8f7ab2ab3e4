package upload

import (
	"time"

	"vaultfs/pkg/log"
)

// StartSweeper begins the background cleanup of expired sessions. The
// sweep is advisory housekeeping: correctness of the happy path never
// depends on it.
func (m *Manager) StartSweeper(interval time.Duration) {
	m.sweepWG.Add(1)
	go func() {
		defer m.sweepWG.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.CleanupExpired()
			case <-m.sweepStop:
				return
			}
		}
	}()

	log.Info().Dur("interval", interval).Dur("ttl", m.cfg.SessionTTL).Msg("Session sweeper started")
}

// StopSweeper stops the background cleanup goroutine.
func (m *Manager) StopSweeper() {
	close(m.sweepStop)
	m.sweepWG.Wait()
	log.Info().Msg("Session sweeper stopped")
}

// CleanupExpired removes sessions whose last activity is older than the
// configured TTL. Returns the number of sessions removed.
func (m *Manager) CleanupExpired() int {
	if m.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-m.cfg.SessionTTL)

	m.mu.Lock()
	var expired []*session
	for _, sess := range m.sessions {
		if sess.lastActivity.Before(cutoff) {
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	removed := 0
	for _, sess := range expired {
		sess.mu.Lock()
		if !sess.terminal() && sess.lastActivity.Before(cutoff) {
			m.remove(sess, stateAborted)
			removed++
			log.Info().Str("upload_id", sess.desc.UploadID).Msg("Expired upload session removed")
		}
		sess.mu.Unlock()
	}
	return removed
}
