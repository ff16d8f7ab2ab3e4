// Package upload coordinates the multi-part upload lifecycle: part
// staging, ordering, completion, and expiry. Single-shot uploads are a
// degenerate session with exactly one part, so both modes share the
// same completion and verification path.
package upload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vaultfs/pkg/log"
	"vaultfs/pkg/models"
	"vaultfs/pkg/object"
)

const (
	dirPerm  = 0750
	filePerm = 0640

	// partsDirName is the staging area under the upload root.
	partsDirName = ".parts"

	// descriptorName is the session descriptor inside a session dir.
	descriptorName = "session.json"

	// partFileFormat names part files so lexical order equals numeric order.
	partFileFormat = "part_%06d"

	// DefaultChunkSize is the part size the init plan assumes.
	DefaultChunkSize = 1 << 20 // 1 MiB

	// maxUndeclaredParts caps part numbers when no plan was declared.
	maxUndeclaredParts = 10000
)

type sessionState int

const (
	stateInit sessionState = iota
	stateReceiving
	stateCompleting
	stateDone
	stateAborted
)

// session is the in-memory view of one upload session. All Part and
// Complete operations on the same session serialize on mu; different
// sessions never contend.
type session struct {
	mu sync.Mutex

	desc         models.Session
	dir          string
	state        sessionState
	parts        map[int]int64 // part number -> size on disk
	lastActivity time.Time
}

func (sess *session) terminal() bool {
	return sess.state == stateDone || sess.state == stateAborted
}

func (sess *session) receivedBytes() int64 {
	var total int64
	for _, size := range sess.parts {
		total += size
	}
	return total
}

// Config carries the assembler limits.
type Config struct {
	MaxPartSize   int64         // per-part byte cap
	MaxUploadSize int64         // cumulative byte cap per session
	SessionTTL    time.Duration // inactivity window before expiry cleanup
}

// Manager owns all active upload sessions.
type Manager struct {
	store *object.Store
	cfg   Config

	mu       sync.Mutex
	sessions map[string]*session

	sweepStop chan struct{}
	sweepWG   sync.WaitGroup
}

// NewManager creates a Manager and restores any sessions found in the
// staging area from a previous run.
func NewManager(store *object.Store, cfg Config) (*Manager, error) {
	m := &Manager{
		store:     store,
		cfg:       cfg,
		sessions:  make(map[string]*session),
		sweepStop: make(chan struct{}),
	}
	if err := os.MkdirAll(m.partsDir(), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create parts directory: %w", err)
	}
	if err := m.restoreSessions(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) partsDir() string {
	return filepath.Join(m.store.Root(), partsDirName)
}

func (m *Manager) sessionDir(uploadID string) string {
	return filepath.Join(m.partsDir(), uploadID)
}

// lookup returns a live session or SessionNotFoundError.
func (m *Manager) lookup(uploadID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[uploadID]
	if !ok || sess.terminal() {
		return nil, SessionNotFoundError{UploadID: uploadID}
	}
	return sess, nil
}

// remove drops a session from the map and deletes its staging dir.
// Part calls racing with removal fail with SessionNotFoundError rather
// than silently writing into a deleted directory.
func (m *Manager) remove(sess *session, state sessionState) {
	m.mu.Lock()
	sess.state = state
	delete(m.sessions, sess.desc.UploadID)
	m.mu.Unlock()

	if err := os.RemoveAll(sess.dir); err != nil {
		log.Error().Err(err).Str("upload_id", sess.desc.UploadID).Msg("Failed to remove session directory")
	}
}

// restoreSessions rebuilds in-memory state from session descriptors and
// part files left by a previous process.
func (m *Manager) restoreSessions() error {
	entries, err := os.ReadDir(m.partsDir())
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := m.sessionDir(entry.Name())

		raw, err := os.ReadFile(filepath.Join(dir, descriptorName))
		if err != nil {
			log.Warn().Err(err).Str("upload_id", entry.Name()).Msg("Dropping session without descriptor")
			_ = os.RemoveAll(dir)
			continue
		}
		var desc models.Session
		if err := json.Unmarshal(raw, &desc); err != nil {
			log.Warn().Err(err).Str("upload_id", entry.Name()).Msg("Dropping session with corrupt descriptor")
			_ = os.RemoveAll(dir)
			continue
		}

		sess := &session{
			desc:         desc,
			dir:          dir,
			state:        stateInit,
			parts:        make(map[int]int64),
			lastActivity: time.Now(),
		}
		partFiles, _ := filepath.Glob(filepath.Join(dir, "part_*"))
		for _, pf := range partFiles {
			var num int
			if _, err := fmt.Sscanf(filepath.Base(pf), partFileFormat, &num); err != nil {
				continue
			}
			if info, err := os.Stat(pf); err == nil {
				sess.parts[num] = info.Size()
				sess.state = stateReceiving
			}
		}

		m.sessions[desc.UploadID] = sess
		log.Info().Str("upload_id", desc.UploadID).Int("parts", len(sess.parts)).Msg("Restored upload session")
	}
	return nil
}

// ActiveSessions reports the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
