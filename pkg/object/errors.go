package object

import "fmt"

// KeyNotFoundError is returned when no object exists for a key.
type KeyNotFoundError struct {
	Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s", e.Key)
}

// QuotaExceededError is returned when a write would push an owner past
// their byte quota. The write is aborted without partial commit.
type QuotaExceededError struct {
	OwnerID   string
	Used      int64
	Quota     int64
	Requested int64
}

func (e QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded for %s: used %d + requested %d > quota %d",
		e.OwnerID, e.Used, e.Requested, e.Quota)
}

// HashMismatchError is returned when the computed content hash differs
// from the caller-supplied expectation. Nothing is promoted to storage.
type HashMismatchError struct {
	Key      string
	Expected string
	Computed string
}

func (e HashMismatchError) Error() string {
	return fmt.Sprintf("sha256 mismatch for %s: expected %s, computed %s", e.Key, e.Expected, e.Computed)
}

// SizeMismatchError is returned when written bytes disagree with the
// declared size.
type SizeMismatchError struct {
	Key      string
	Declared int64
	Actual   int64
}

func (e SizeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch for %s: declared %d, wrote %d", e.Key, e.Declared, e.Actual)
}

// InvalidRangeError is returned for a malformed Range header.
type InvalidRangeError struct {
	Header string
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("malformed range header: %q", e.Header)
}

// RangeNotSatisfiableError is returned for a well-formed range that
// falls outside the object's bounds.
type RangeNotSatisfiableError struct {
	Header string
	Size   int64
}

func (e RangeNotSatisfiableError) Error() string {
	return fmt.Sprintf("range %q not satisfiable for size %d", e.Header, e.Size)
}
