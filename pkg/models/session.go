package models

import "time"

// UploadMode selects how an upload is transferred.
type UploadMode string

const (
	ModeSingle  UploadMode = "single"
	ModeChunked UploadMode = "chunked"
	ModeBatch   UploadMode = "batch"
)

// FileInfo declares one file in an upload session.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// Session is the descriptor persisted alongside part files in the
// staging area. Runtime state (locks, received parts) is rebuilt from
// the part files themselves.
type Session struct {
	UploadID      string     `json:"upload_id"`
	OwnerID       string     `json:"owner_id"`
	Mode          UploadMode `json:"mode"`
	Files         []FileInfo `json:"files"`
	Folder        string     `json:"folder,omitempty"`
	DeclaredParts int        `json:"declared_parts"`
	CreatedAt     time.Time  `json:"created_at"`
}

// DeclaredSize returns the total size declared across all files in the
// session, or 0 if nothing was declared.
func (s *Session) DeclaredSize() int64 {
	var total int64
	for _, f := range s.Files {
		total += f.Size
	}
	return total
}

// BatchManifest maps a short-lived token to an ordered list of object
// keys requested together for ZIP download.
type BatchManifest struct {
	Token     string    `json:"token"`
	OwnerID   string    `json:"owner_id"`
	Keys      []string  `json:"keys"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
