package models

// Wire types shared between pkg/server and pkg/client. Field names
// follow the JSON contract of the upload API.

// InitUploadRequest starts an upload session. Parts optionally declares
// the exact part count, which is then enforced at completion.
type InitUploadRequest struct {
	Mode   UploadMode `json:"mode"`
	Files  []FileInfo `json:"files"`
	Folder string     `json:"folder,omitempty"`
	Parts  int        `json:"parts,omitempty"`
}

// InitUploadResponse carries the allocated session id and, for chunked
// uploads, the suggested part count.
type InitUploadResponse struct {
	UploadID string `json:"uploadId"`
	Parts    int    `json:"parts,omitempty"`
}

// UploadPartRequest submits one chunk of a chunked upload.
type UploadPartRequest struct {
	UploadID    string `json:"uploadId"`
	PartNumber  int    `json:"partNumber"`
	ChunkBase64 string `json:"chunkBase64"`
}

// UploadPartResponse acknowledges a stored chunk.
type UploadPartResponse struct {
	Status     string `json:"status"`
	PartNumber int    `json:"partNumber"`
}

// CompleteMeta optionally overrides the declared filename and folder at
// completion time.
type CompleteMeta struct {
	Filename string `json:"filename,omitempty"`
	Folder   string `json:"folder,omitempty"`
	Mime     string `json:"mime,omitempty"`
}

// CompleteUploadRequest finalizes an upload session.
type CompleteUploadRequest struct {
	UploadID string        `json:"uploadId"`
	SHA256   string        `json:"sha256,omitempty"`
	Meta     *CompleteMeta `json:"meta,omitempty"`
}

// CompleteUploadResponse returns the final object key and metadata.
type CompleteUploadResponse struct {
	Key    string `json:"key"`
	Size   int64  `json:"size"`
	Mime   string `json:"mime"`
	SHA256 string `json:"sha256"`
}

// MetadataResponse describes one stored object.
type MetadataResponse struct {
	Size      int64  `json:"size"`
	Mime      string `json:"mime"`
	SHA256    string `json:"sha256"`
	CreatedAt string `json:"createdAt"`
}

// SignedURLResponse carries a time-limited download URL.
type SignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// BatchDownloadRequest lists the keys to bundle into one ZIP download.
type BatchDownloadRequest struct {
	Keys []string `json:"keys"`
}

// BatchDownloadResponse carries the manifest token.
type BatchDownloadResponse struct {
	Token string `json:"token"`
}

// FileListItem is one entry of a file listing.
type FileListItem struct {
	Key       string `json:"key"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Mime      string `json:"mime"`
	CreatedAt string `json:"created_at"`
	Folder    string `json:"folder,omitempty"`
}

// FileListResponse is the result of listing an owner's files.
type FileListResponse struct {
	Files      []FileListItem `json:"files"`
	TotalCount int            `json:"total_count"`
	TotalSize  int64          `json:"total_size"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status     string  `json:"status"`
	DiskFreeGB float64 `json:"disk_free_gb"`
	Writable   bool    `json:"writable"`
}
