package main

import (
	"fmt"
	"sort"

	"github.com/franz/rom-janitor/internal/fetch"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download reference databases and thumbnails",
}

var fetchDBCmd = &cobra.Command{
	Use:   "db [system...]",
	Short: "Download reference databases from the libretro project",
	Long: `Download .rdb reference databases into the configured database
directory. Without arguments every configured system is fetched;
existing files are left alone.`,
	RunE: runFetchDB,
}

var fetchThumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Download box art for matched ROMs",
	Long: `Download thumbnail images for every matched ROM in the catalog.
Thumbnails are named after the matched game so RetroArch picks them up
without any extra configuration.`,
	RunE: runFetchThumbnails,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchDBCmd)
	fetchCmd.AddCommand(fetchThumbnailsCmd)

	fetchThumbnailsCmd.Flags().String("type", "boxart", "thumbnail type: boxart, snap or title")
}

func runFetchDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := openEventLogger()
	defer logger.Close()

	systems := args
	if len(systems) == 0 {
		for system := range cfg.Cores {
			systems = append(systems, system)
		}
		sort.Strings(systems)
	}
	if len(systems) == 0 {
		util.WarnLog("No systems configured")
		return nil
	}

	fetcher := fetch.NewDatabaseFetcher(cfg, logger)
	fetched := fetcher.FetchSystems(systems)

	util.SuccessLog("Fetched %d of %d database(s)", fetched, len(systems))
	return nil
}

func runFetchThumbnails(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	thumbType, _ := cmd.Flags().GetString("type")
	switch thumbType {
	case "boxart":
		thumbType = fetch.ThumbBoxart
	case "snap":
		thumbType = fetch.ThumbSnap
	case "title":
		thumbType = fetch.ThumbTitle
	case fetch.ThumbBoxart, fetch.ThumbSnap, fetch.ThumbTitle:
	default:
		return fmt.Errorf("unknown thumbnail type %q", thumbType)
	}

	catalog, err := store.Open(cfg.CatalogDB)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	records, err := catalog.GetAllRoms()
	if err != nil {
		return err
	}

	var matched int
	for _, r := range records {
		if r.Matched {
			matched++
		}
	}
	if matched == 0 {
		util.WarnLog("No matched ROMs in the catalog, run 'rlc scan' first")
		return nil
	}

	logger := openEventLogger()
	defer logger.Close()

	fetcher := fetch.NewThumbnailFetcher(cfg, logger)
	fetched, failed := fetcher.FetchAll(records, thumbType)

	if failed > 0 {
		util.WarnLog("%d thumbnail(s) failed to download", failed)
	}
	util.SuccessLog("Fetched %d thumbnail(s)", fetched)
	return nil
}
