package fetch

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/util"
)

// DatabaseBaseURL is where libretro publishes compiled RDB files
const DatabaseBaseURL = "https://github.com/libretro/libretro-database/raw/master/rdb"

// DatabaseFetcher downloads reference databases for systems whose
// database was reported missing by the matcher.
type DatabaseFetcher struct {
	cfg    *config.Config
	client *Client
	logger *report.EventLogger
}

// NewDatabaseFetcher creates a database fetcher
func NewDatabaseFetcher(cfg *config.Config, logger *report.EventLogger) *DatabaseFetcher {
	if logger == nil {
		logger = report.NullLogger()
	}
	return &DatabaseFetcher{
		cfg:    cfg,
		client: NewClient(),
		logger: logger,
	}
}

// DatabaseURL returns the download URL for a database file name
func DatabaseURL(dbName string) string {
	return DatabaseBaseURL + "/" + url.PathEscape(dbName)
}

// FetchSystem downloads the database for one system into the configured
// database directory. Already-present files count as success.
func (f *DatabaseFetcher) FetchSystem(system string) error {
	core, ok := f.cfg.Cores[system]
	if !ok || core.DBName == "" {
		return fmt.Errorf("%w: no database configured for system %q", util.ErrInvalidConfig, system)
	}

	dbURL := DatabaseURL(core.DBName)
	destPath := filepath.Join(f.cfg.DatabasePath, core.DBName)

	util.InfoLog("Fetching database for %s", system)
	cached, err := f.client.Download(dbURL, destPath)
	f.logger.LogFetch(system, dbURL, err)
	if err != nil {
		return fmt.Errorf("failed to fetch database for %s: %w", system, err)
	}

	if cached {
		util.InfoLog("Database already present: %s", destPath)
	} else {
		util.SuccessLog("Downloaded %s", destPath)
	}
	return nil
}

// FetchSystems downloads databases for a list of systems, continuing
// past individual failures. Returns the number fetched successfully.
func (f *DatabaseFetcher) FetchSystems(systems []string) int {
	fetched := 0
	for _, system := range systems {
		if err := f.FetchSystem(system); err != nil {
			util.ErrorLog("%v", err)
			continue
		}
		fetched++
	}
	return fetched
}
