package client

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"vaultfs/pkg/models"
)

// DefaultChunkSize is the part size UploadFile uses for chunked uploads.
const DefaultChunkSize = 1 << 20

// chunkedThreshold is the file size above which UploadFile switches from
// a single-part upload to a chunked session.
const chunkedThreshold = 5 * DefaultChunkSize

// InitUpload starts an upload session.
func (c *Client) InitUpload(ctx context.Context, req *models.InitUploadRequest) (*models.InitUploadResponse, error) {
	var resp models.InitUploadResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/files/init", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadPart submits one chunk of an open session.
func (c *Client) UploadPart(ctx context.Context, uploadID string, partNumber int, chunk []byte) error {
	req := &models.UploadPartRequest{
		UploadID:    uploadID,
		PartNumber:  partNumber,
		ChunkBase64: base64.StdEncoding.EncodeToString(chunk),
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/files/part", req, nil)
}

// CompleteUpload finalizes a session into a stored object.
func (c *Client) CompleteUpload(ctx context.Context, req *models.CompleteUploadRequest) (*models.CompleteUploadResponse, error) {
	var resp models.CompleteUploadResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/files/complete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AbortUpload discards an open session and its staged parts.
func (c *Client) AbortUpload(ctx context.Context, uploadID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/files/uploads/"+uploadID, nil, nil)
}

// UploadFile uploads a local file, choosing single or chunked mode by
// size, and returns the stored object's key and metadata. The content
// hash is computed locally and sent for server-side verification.
func (c *Client) UploadFile(ctx context.Context, path, folder string) (*models.CompleteUploadResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(name))

	mode := models.ModeSingle
	if stat.Size() > chunkedThreshold {
		mode = models.ModeChunked
	}

	initResp, err := c.InitUpload(ctx, &models.InitUploadRequest{
		Mode: mode,
		Files: []models.FileInfo{
			{Name: name, Size: stat.Size(), Mime: mimeType},
		},
		Folder: folder,
	})
	if err != nil {
		return nil, err
	}

	hasher := sha256.New()

	if mode == models.ModeSingle {
		// A single-part session carries the whole file in one chunk.
		data, err := io.ReadAll(file)
		if err != nil {
			c.abortQuietly(ctx, initResp.UploadID)
			return nil, err
		}
		hasher.Write(data)
		if err := c.UploadPart(ctx, initResp.UploadID, 1, data); err != nil {
			c.abortQuietly(ctx, initResp.UploadID)
			return nil, err
		}
	} else {
		buf := make([]byte, DefaultChunkSize)
		partNumber := 0
		for {
			n, readErr := io.ReadFull(file, buf)
			if n > 0 {
				partNumber++
				hasher.Write(buf[:n])
				if err := c.UploadPart(ctx, initResp.UploadID, partNumber, buf[:n]); err != nil {
					c.abortQuietly(ctx, initResp.UploadID)
					return nil, fmt.Errorf("part %d failed: %w", partNumber, err)
				}
			}
			if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
				break
			}
			if readErr != nil {
				c.abortQuietly(ctx, initResp.UploadID)
				return nil, readErr
			}
		}
	}

	return c.CompleteUpload(ctx, &models.CompleteUploadRequest{
		UploadID: initResp.UploadID,
		SHA256:   hex.EncodeToString(hasher.Sum(nil)),
	})
}

func (c *Client) abortQuietly(ctx context.Context, uploadID string) {
	_ = c.AbortUpload(ctx, uploadID)
}
