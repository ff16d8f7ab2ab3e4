package upload

import "fmt"

// SessionNotFoundError is returned when an upload session does not
// exist or has already reached a terminal state.
type SessionNotFoundError struct {
	UploadID string
}

func (e SessionNotFoundError) Error() string {
	return fmt.Sprintf("upload session not found: %s", e.UploadID)
}

// PartNumberError is returned for part numbers outside the declared
// plan. The session state is left untouched.
type PartNumberError struct {
	UploadID   string
	PartNumber int
	MaxParts   int
}

func (e PartNumberError) Error() string {
	return fmt.Sprintf("part number %d out of range [1, %d] for upload %s", e.PartNumber, e.MaxParts, e.UploadID)
}

// PayloadTooLargeError is returned when a part or the cumulative upload
// would exceed the configured limits.
type PayloadTooLargeError struct {
	UploadID string
	Limit    int64
}

func (e PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload exceeds limit of %d bytes for upload %s", e.Limit, e.UploadID)
}

// IncompleteUploadError is returned by Complete when the part sequence
// has a gap. The session survives so the missing part can be retried.
type IncompleteUploadError struct {
	UploadID    string
	MissingPart int
}

func (e IncompleteUploadError) Error() string {
	return fmt.Sprintf("upload %s is incomplete: part %d missing", e.UploadID, e.MissingPart)
}

// InvalidInputError is returned for caller-fixable validation failures.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
