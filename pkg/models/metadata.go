package models

import "time"

// Metadata describes a stored object. It is persisted as a JSON sidecar
// next to the object content and mirrored into the index.
type Metadata struct {
	Key          string    `json:"key"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	Mime         string    `json:"mime"`
	SHA256       string    `json:"sha256"`
	OwnerID      string    `json:"owner_id"`
	Folder       string    `json:"folder,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DiskUsage represents disk space information for the upload root.
type DiskUsage struct {
	SpaceUsed      int64 `json:"space_used"`      // Bytes used
	SpaceAvailable int64 `json:"space_available"` // Bytes available
	TotalSpace     int64 `json:"total_space"`     // Total bytes
}
