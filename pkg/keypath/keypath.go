// Package keypath maps logical object keys to physical paths under the
// upload root. Every filesystem entry point in the service routes
// through Validate before touching disk.
package keypath

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	storagePrefix = "storage"

	uniqueIDLength      = 8
	maxFilenameLength   = 255
	maxFolderPartLength = 100
)

var ownerIDPattern = regexp.MustCompile(`^[A-Za-z0-9@._-]+$`)

// unsafeChars are stripped from filenames and folder parts.
const unsafeChars = `<>:"/\|?*`

// InvalidKeyError is returned when a key or one of its components fails
// validation.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// Encode builds a new unique key for a file owned by ownerID:
// storage/{owner}/{folder?}/{uniqueID}_{filename}. The folder may contain
// multiple slash-separated parts, each sanitized independently.
func Encode(ownerID, folder, filename string) (string, error) {
	if !ownerIDPattern.MatchString(ownerID) {
		return "", InvalidKeyError{Key: ownerID, Reason: "owner id contains disallowed characters"}
	}

	parts := []string{storagePrefix, ownerID}
	parts = append(parts, SplitFolder(folder)...)

	unique := strings.ReplaceAll(uuid.NewString(), "-", "")[:uniqueIDLength]
	parts = append(parts, unique+"_"+SanitizeFilename(filename))

	return strings.Join(parts, "/"), nil
}

// Validate rejects any key that could escape the storage root.
func Validate(key string) error {
	if key == "" {
		return InvalidKeyError{Key: key, Reason: "empty key"}
	}
	if strings.HasPrefix(key, "/") {
		return InvalidKeyError{Key: key, Reason: "absolute path"}
	}
	if strings.ContainsAny(key, "\\\x00") {
		return InvalidKeyError{Key: key, Reason: "disallowed characters"}
	}

	segments := strings.Split(key, "/")
	if segments[0] != storagePrefix {
		return InvalidKeyError{Key: key, Reason: "key must start with " + storagePrefix + "/"}
	}
	if len(segments) < 3 {
		return InvalidKeyError{Key: key, Reason: "key too short"}
	}
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return InvalidKeyError{Key: key, Reason: "path traversal segment"}
		}
	}
	if !ownerIDPattern.MatchString(segments[1]) {
		return InvalidKeyError{Key: key, Reason: "owner id contains disallowed characters"}
	}

	return nil
}

// Decode resolves a key to an absolute path under root. The resolved
// path is checked again against the root so a passing key can never
// reach outside it.
func Decode(root, key string) (string, error) {
	if err := Validate(key); err != nil {
		return "", err
	}

	path := filepath.Join(root, filepath.FromSlash(key))

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", InvalidKeyError{Key: key, Reason: "resolves outside storage root"}
	}

	return path, nil
}

// OwnerOf extracts the owner id from a validated key.
func OwnerOf(key string) string {
	segments := strings.Split(key, "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[1]
}

// FolderOf extracts the folder portion of a key, or "" when the object
// sits directly under the owner directory.
func FolderOf(key string) string {
	segments := strings.Split(key, "/")
	if len(segments) <= 3 {
		return ""
	}
	return strings.Join(segments[2:len(segments)-1], "/")
}

// FilenameOf returns the stored filename with its unique prefix removed.
func FilenameOf(key string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	if idx := strings.Index(base, "_"); idx >= 0 {
		return base[idx+1:]
	}
	return base
}

// ValidFilename reports whether an as-declared filename is acceptable.
// Traversal attempts and path separators are rejected outright rather
// than sanitized so the caller can surface the error.
func ValidFilename(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return true
}

// SanitizeFilename rewrites a filename for safe storage.
func SanitizeFilename(filename string) string {
	for _, c := range unsafeChars {
		filename = strings.ReplaceAll(filename, string(c), "_")
	}
	filename = strings.Trim(filename, ". ")

	if len(filename) > maxFilenameLength {
		ext := filepath.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		if len(name) > maxFilenameLength-len(ext) {
			name = name[:maxFilenameLength-len(ext)]
		}
		filename = name + ext
	}

	if filename == "" {
		return "unnamed_file"
	}
	return filename
}

// SanitizeFolderPart rewrites one folder segment for safe storage.
func SanitizeFolderPart(part string) string {
	for _, c := range unsafeChars {
		part = strings.ReplaceAll(part, string(c), "_")
	}
	part = strings.Trim(part, ". ")

	if part == "" || part == "." || part == ".." {
		return "invalid"
	}
	if len(part) > maxFolderPartLength {
		part = part[:maxFolderPartLength]
	}
	return part
}

// SplitFolder breaks a folder path into sanitized segments, dropping
// empty ones.
func SplitFolder(folder string) []string {
	var parts []string
	for _, part := range strings.Split(folder, "/") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		parts = append(parts, SanitizeFolderPart(part))
	}
	return parts
}
