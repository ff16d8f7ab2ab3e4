package upload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/log"
	"vaultfs/pkg/models"

	"github.com/google/uuid"
)

// InitResult is the outcome of allocating a session. Parts is the part
// plan: the declared count when the caller supplied one (then enforced
// at Complete), otherwise an advisory estimate from the declared sizes.
type InitResult struct {
	UploadID string
	Parts    int
}

// Init allocates an upload session. Storage for content is not
// allocated yet; only the staging directory and descriptor are created.
// The declared sizes are checked against the owner's quota up front so
// a doomed upload fails before any bytes move.
func (m *Manager) Init(ownerID string, mode models.UploadMode, files []models.FileInfo, folder string, declaredParts int) (*InitResult, error) {
	if len(files) == 0 {
		return nil, InvalidInputError{Reason: "no files declared"}
	}
	switch mode {
	case models.ModeSingle, models.ModeChunked, models.ModeBatch:
	default:
		return nil, InvalidInputError{Reason: fmt.Sprintf("unknown upload mode %q", mode)}
	}

	var total, largest int64
	for _, f := range files {
		if !keypath.ValidFilename(f.Name) {
			return nil, InvalidInputError{Reason: fmt.Sprintf("invalid filename %q", f.Name)}
		}
		if f.Size < 0 {
			return nil, InvalidInputError{Reason: fmt.Sprintf("negative size for %q", f.Name)}
		}
		total += f.Size
		if f.Size > largest {
			largest = f.Size
		}
	}

	if err := m.store.CheckQuota(ownerID, total); err != nil {
		return nil, err
	}

	if declaredParts < 0 {
		return nil, InvalidInputError{Reason: "negative part count"}
	}

	// Single-shot uploads are a one-part session by definition. For
	// chunked uploads without an explicit count the plan is an estimate
	// and only contiguity is enforced at completion.
	plan := declaredParts
	switch {
	case mode == models.ModeSingle:
		declaredParts = 1
		plan = 1
	case plan == 0 && mode == models.ModeChunked:
		plan = int((largest + DefaultChunkSize - 1) / DefaultChunkSize)
		if plan < 1 {
			plan = 1
		}
	case plan == 0:
		plan = 1
	}

	desc := models.Session{
		UploadID:      uuid.NewString(),
		OwnerID:       ownerID,
		Mode:          mode,
		Files:         files,
		Folder:        folder,
		DeclaredParts: declaredParts,
		CreatedAt:     time.Now().UTC(),
	}

	dir := m.sessionDir(desc.UploadID)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	raw, err := json.MarshalIndent(&desc, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, descriptorName), raw, filePerm); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write session descriptor: %w", err)
	}

	sess := &session{
		desc:         desc,
		dir:          dir,
		state:        stateInit,
		parts:        make(map[int]int64),
		lastActivity: time.Now(),
	}

	m.mu.Lock()
	m.sessions[desc.UploadID] = sess
	m.mu.Unlock()

	log.Info().
		Str("upload_id", desc.UploadID).
		Str("owner_id", ownerID).
		Str("mode", string(mode)).
		Int("declared_parts", declaredParts).
		Int("plan", plan).
		Msg("Upload session created")

	return &InitResult{UploadID: desc.UploadID, Parts: plan}, nil
}
