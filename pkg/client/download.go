package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vaultfs/pkg/models"

	"github.com/hashicorp/go-retryablehttp"
)

// SignedURL requests a time-limited download URL for key. ttl of zero
// uses the server default.
func (c *Client) SignedURL(ctx context.Context, key string, ttl time.Duration) (*models.SignedURLResponse, error) {
	params := url.Values{"key": {key}}
	if ttl > 0 {
		params.Set("ttl", strconv.Itoa(int(ttl.Seconds())))
	}

	var resp models.SignedURLResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/files/signed-url?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Fetch streams object bytes from a signed URL. byteRange, when
// non-empty, is sent verbatim as the Range header (for example
// "bytes=0-1023"). The caller must close the returned body.
func (c *Client) Fetch(ctx context.Context, signedURL, byteRange string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return nil, err
	}
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		defer resp.Body.Close() //nolint:errcheck
		return nil, apiErrorFrom(resp)
	}
	return resp.Body, nil
}

// Download fetches key through a fresh signed URL and copies the
// content to w, returning the number of bytes written.
func (c *Client) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	signed, err := c.SignedURL(ctx, key, 0)
	if err != nil {
		return 0, err
	}

	body, err := c.Fetch(ctx, signed.URL, "")
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("download of %s interrupted: %w", key, err)
	}
	return n, nil
}
