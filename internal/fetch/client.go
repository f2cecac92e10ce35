package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/rom-janitor/internal/util"
)

const (
	// UserAgent identifies this application to download hosts
	UserAgent = "RLC-RomLibraryCurator/1.0 (https://github.com/franz/rom-janitor)"

	requestTimeout = 60 * time.Second
)

// Client downloads files over HTTP with retry and on-disk caching
type Client struct {
	httpClient *http.Client
	retry      *util.RetryConfig
}

// NewClient creates a download client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		retry: util.DefaultRetryConfig(),
	}
}

// Download fetches url into destPath. An existing destination is treated
// as cached and skipped; partial downloads never reach the destination
// because the body lands in a temp file first.
func (c *Client) Download(url, destPath string) (cached bool, err error) {
	if _, err := os.Stat(destPath); err == nil {
		util.DebugLog("Already downloaded: %s", destPath)
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	err = util.Retry(c.retry, func() error {
		return c.downloadOnce(url, destPath)
	}, fmt.Sprintf("download(%s)", url))
	return false, err
}

func (c *Client) downloadOnce(url, destPath string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", util.ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".part-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("download interrupted: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, destPath)
}
