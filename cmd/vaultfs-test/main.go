// Command vaultfs-test runs an end-to-end smoke pass against a running
// vaultfs server: upload, metadata, signed download, range download,
// batch archive, list and delete.
package main

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vaultfs/pkg/client"
)

const (
	defaultServerURL = "http://127.0.0.1:8080"
	defaultFileSize  = 64 * 1024
	chunkedFileSize  = 3 * client.DefaultChunkSize
	requestTimeout   = 2 * time.Minute

	separatorLineLength = 60
)

type tester struct {
	cli    *client.Client
	ctx    context.Context
	failed int
	passed int
}

func main() {
	serverURL := flag.String("server", defaultServerURL, "Server base URL")
	token := flag.String("token", "", "Bearer token for authenticated requests")
	fileSize := flag.Int("size", defaultFileSize, "Size of the single-upload test file in bytes")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "A bearer token is required; pass it with -token")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	t := &tester{cli: client.New(*serverURL, *token), ctx: ctx}

	fmt.Printf("Running smoke pass against %s\n", *serverURL)
	fmt.Println(strings.Repeat("=", separatorLineLength))

	t.run("health check", t.testHealth)

	var singleKey, chunkedKey string
	t.run("single upload", func() error {
		key, err := t.uploadRandom(*fileSize, "smoke")
		singleKey = key
		return err
	})
	t.run("chunked upload", func() error {
		key, err := t.uploadRandom(chunkedFileSize, "smoke")
		chunkedKey = key
		return err
	})

	if singleKey != "" {
		t.run("metadata", func() error { return t.testMetadata(singleKey, int64(*fileSize)) })
		t.run("signed download", func() error { return t.testDownload(singleKey, int64(*fileSize)) })
		t.run("range download", func() error { return t.testRange(singleKey) })
	}
	if singleKey != "" && chunkedKey != "" {
		t.run("batch download", func() error { return t.testBatch(singleKey, chunkedKey) })
	}

	t.run("list files", t.testList)

	for _, key := range []string{singleKey, chunkedKey} {
		if key == "" {
			continue
		}
		t.run("delete "+filepath.Base(key), func() error {
			return t.cli.Delete(t.ctx, key)
		})
	}

	fmt.Println(strings.Repeat("=", separatorLineLength))
	fmt.Printf("%d passed, %d failed\n", t.passed, t.failed)
	if t.failed > 0 {
		os.Exit(1)
	}
}

func (t *tester) run(name string, fn func() error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		t.failed++
		fmt.Printf("FAIL  %-20s %8s  %v\n", name, elapsed, err)
		return
	}
	t.passed++
	fmt.Printf("ok    %-20s %8s\n", name, elapsed)
}

func (t *tester) testHealth() error {
	health, err := t.cli.Health(t.ctx)
	if err != nil {
		return err
	}
	if health.Status != "healthy" {
		return fmt.Errorf("server reports %q", health.Status)
	}
	return nil
}

// uploadRandom writes size random bytes to a temp file and uploads it,
// returning the stored key. The server-verified hash must match the
// local one.
func (t *tester) uploadRandom(size int, folder string) (string, error) {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "vaultfs-smoke-*.bin")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	resp, err := t.cli.UploadFile(t.ctx, tmp.Name(), folder)
	if err != nil {
		return "", err
	}

	localHash := sha256.Sum256(data)
	if resp.SHA256 != hex.EncodeToString(localHash[:]) {
		return "", fmt.Errorf("hash mismatch: server %s", resp.SHA256)
	}
	if resp.Size != int64(size) {
		return "", fmt.Errorf("size mismatch: server %d, local %d", resp.Size, size)
	}
	return resp.Key, nil
}

func (t *tester) testMetadata(key string, wantSize int64) error {
	meta, err := t.cli.Metadata(t.ctx, key)
	if err != nil {
		return err
	}
	if meta.Size != wantSize {
		return fmt.Errorf("size mismatch: got %d, want %d", meta.Size, wantSize)
	}
	return nil
}

func (t *tester) testDownload(key string, wantSize int64) error {
	var buf bytes.Buffer
	n, err := t.cli.Download(t.ctx, key, &buf)
	if err != nil {
		return err
	}
	if n != wantSize {
		return fmt.Errorf("downloaded %d bytes, want %d", n, wantSize)
	}
	return nil
}

func (t *tester) testRange(key string) error {
	signed, err := t.cli.SignedURL(t.ctx, key, time.Minute)
	if err != nil {
		return err
	}

	body, err := t.cli.Fetch(t.ctx, signed.URL, "bytes=0-1023")
	if err != nil {
		return err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if len(data) != 1024 {
		return fmt.Errorf("range returned %d bytes, want 1024", len(data))
	}
	return nil
}

func (t *tester) testBatch(keys ...string) error {
	token, err := t.cli.CreateBatchDownload(t.ctx, keys)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := t.cli.DownloadBatch(t.ctx, token, &buf); err != nil {
		return err
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return fmt.Errorf("archive unreadable: %w", err)
	}
	if len(reader.File) != len(keys) {
		return fmt.Errorf("archive has %d entries, want %d", len(reader.File), len(keys))
	}
	return nil
}

func (t *tester) testList() error {
	listing, err := t.cli.ListFiles(t.ctx, "smoke")
	if err != nil {
		return err
	}
	if listing.TotalCount < 2 {
		return fmt.Errorf("expected at least 2 files, got %d", listing.TotalCount)
	}
	return nil
}
