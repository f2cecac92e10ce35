package main

import (
	"fmt"

	"github.com/franz/rom-janitor/internal/playlist"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Generate RetroArch playlists from the catalog",
	Long: `Write one .lpl playlist per system into the configured playlists
directory, built from the ROMs recorded in the catalog.

Labels prefer a manual match over the automatic one, falling back to
the normalized filename when a ROM is unmatched. ROM paths are mapped
to the configured runtime path so the playlists work on the device that
actually runs RetroArch.`,
	RunE: runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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
	if len(records) == 0 {
		util.WarnLog("Catalog is empty, run 'rlc scan' first")
		return nil
	}

	logger := openEventLogger()
	defer logger.Close()

	gen := playlist.New(&playlist.Config{
		Config: cfg,
		Manual: store.NewManualStore(cfg.ManualMatchesDB),
		Logger: logger,
	})
	written, err := gen.Generate(records)
	if err != nil {
		return err
	}

	util.SuccessLog("Wrote %d playlist(s) to %s", len(written), cfg.PlaylistsPath)
	return nil
}
