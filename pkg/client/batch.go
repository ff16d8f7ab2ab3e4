package client

import (
	"context"
	"io"
	"net/http"

	"vaultfs/pkg/models"

	"github.com/hashicorp/go-retryablehttp"
)

// CreateBatchDownload requests a batch token covering keys.
func (c *Client) CreateBatchDownload(ctx context.Context, keys []string) (string, error) {
	var resp models.BatchDownloadResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/files/batch-download",
		&models.BatchDownloadRequest{Keys: keys}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// DownloadBatch streams the ZIP archive behind token into w.
func (c *Client) DownloadBatch(ctx context.Context, token string, w io.Writer) (int64, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/files/batch-download/"+token, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, apiErrorFrom(resp)
	}
	return io.Copy(w, resp.Body)
}
