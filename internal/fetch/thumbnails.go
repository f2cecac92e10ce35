package fetch

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/util"
)

// ThumbnailBaseURL is the libretro thumbnail server
const ThumbnailBaseURL = "http://thumbnails.libretro.com"

// Thumbnail types as laid out on the server and in RetroArch's
// thumbnails directory
const (
	ThumbBoxart = "Named_Boxarts"
	ThumbSnap   = "Named_Snaps"
	ThumbTitle  = "Named_Titles"
)

// ThumbnailFetcher downloads artwork for matched ROMs
type ThumbnailFetcher struct {
	cfg    *config.Config
	client *Client
	logger *report.EventLogger
}

// NewThumbnailFetcher creates a thumbnail fetcher
func NewThumbnailFetcher(cfg *config.Config, logger *report.EventLogger) *ThumbnailFetcher {
	if logger == nil {
		logger = report.NullLogger()
	}
	return &ThumbnailFetcher{
		cfg:    cfg,
		client: NewClient(),
		logger: logger,
	}
}

// thumbnailFilename sanitizes a game name the way the libretro thumbnail
// repository does: the characters &*/:`<>?\| become underscores.
func thumbnailFilename(gameName string) string {
	name := gameName
	for _, ch := range "&*/:`<>?\\|" {
		name = strings.ReplaceAll(name, string(ch), "_")
	}
	return name + ".png"
}

// ThumbnailURL returns the server URL for one thumbnail
func ThumbnailURL(system, gameName, thumbType string) string {
	return ThumbnailBaseURL + "/" +
		url.PathEscape(system) + "/" +
		url.PathEscape(thumbType) + "/" +
		url.PathEscape(thumbnailFilename(gameName))
}

// FetchForRecord downloads the boxart for one matched record. Unmatched
// records are skipped: without a database name there is nothing to look
// up on the server.
func (f *ThumbnailFetcher) FetchForRecord(r *rom.Record, thumbType string) error {
	if r.GameName == "" {
		return nil
	}

	thumbURL := ThumbnailURL(r.System, r.GameName, thumbType)
	destPath := filepath.Join(f.cfg.ThumbnailsPath, r.System, thumbType, thumbnailFilename(r.GameName))

	_, err := f.client.Download(thumbURL, destPath)
	f.logger.LogFetch(r.System, thumbURL, err)
	return err
}

// FetchAll downloads boxart for every matched record, continuing past
// individual failures. Missing artwork on the server is common and only
// logged at debug level.
func (f *ThumbnailFetcher) FetchAll(records []*rom.Record, thumbType string) (fetched, failed int) {
	for _, r := range records {
		if r.GameName == "" {
			continue
		}
		if err := f.FetchForRecord(r, thumbType); err != nil {
			if errors.Is(err, util.ErrNotFound) {
				util.DebugLog("No thumbnail for %s", r.GameName)
			} else {
				util.WarnLog("Thumbnail fetch failed for %s: %v", r.GameName, err)
			}
			failed++
			continue
		}
		fetched++
	}
	return fetched, failed
}
