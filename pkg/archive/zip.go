package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"vaultfs/pkg/keypath"
	"vaultfs/pkg/log"
)

// Stream resolves the manifest behind token and writes a ZIP archive
// covering its keys to w, one entry at a time. A failure mid-stream
// aborts without writing the central directory, so a truncated archive
// is detectably corrupt instead of silently short.
func (a *Archiver) Stream(token string, w io.Writer) error {
	keys, err := a.Resolve(token)
	if err != nil {
		return err
	}
	return a.writeZip(keys, w)
}

func (a *Archiver) writeZip(keys []string, w io.Writer) error {
	zw := zip.NewWriter(w)
	used := make(map[string]bool, len(keys))

	for _, key := range keys {
		meta, err := a.store.ReadMetadata(key)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Batch stream aborted: object unavailable")
			return fmt.Errorf("batch stream failed at %s: %w", key, err)
		}

		name := meta.OriginalName
		if name == "" {
			name = keypath.FilenameOf(key)
		}
		name = uniqueName(used, name)

		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: meta.CreatedAt,
		})
		if err != nil {
			return err
		}

		rc, err := a.store.Open(key, nil)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Batch stream aborted: object unreadable")
			return fmt.Errorf("batch stream failed at %s: %w", key, err)
		}
		_, err = io.Copy(entry, rc)
		_ = rc.Close()
		if err != nil {
			return fmt.Errorf("batch stream failed at %s: %w", key, err)
		}
	}

	// Finalize the central directory only after every entry succeeded.
	return zw.Close()
}

// uniqueName disambiguates duplicate filenames inside the archive with
// a numeric suffix before the extension, so no entry overwrites another.
func uniqueName(used map[string]bool, name string) string {
	if !used[name] {
		used[name] = true
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

// ZipName suggests a download filename for the archive.
func ZipName(keys []string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	if len(keys) == 1 {
		name := keypath.FilenameOf(keys[0])
		name = strings.TrimSuffix(name, filepath.Ext(name))
		return fmt.Sprintf("%s_%s.zip", name, timestamp)
	}
	return fmt.Sprintf("batch_download_%s.zip", timestamp)
}
