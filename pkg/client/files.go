package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"vaultfs/pkg/models"
)

// ListFiles returns the caller's stored files, optionally scoped to a
// folder subtree.
func (c *Client) ListFiles(ctx context.Context, folder string) (*models.FileListResponse, error) {
	path := "/v1/files/all"
	if folder != "" {
		path += "?" + url.Values{"folder": {folder}}.Encode()
	}

	var resp models.FileListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Metadata returns the stored record for one key.
func (c *Client) Metadata(ctx context.Context, key string) (*models.MetadataResponse, error) {
	var resp models.MetadataResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/files/metadata/"+encodeKeySegment(key), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes the object behind key.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/files/"+encodeKeySegment(key), nil, nil)
}

// Health reports service health without authentication.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Keys contain slashes, so path segments carry them base64url-encoded.
func encodeKeySegment(key string) string {
	return base64.URLEncoding.EncodeToString([]byte(key))
}
