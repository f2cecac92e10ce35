package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init <retroarch-path>",
	Short: "Initialize configuration for a RetroArch installation",
	Long: `Point rlc at a RetroArch directory and write the config file.

The roms/, playlists/, thumbnails/ and database/rdb/ subdirectories are
derived from the RetroArch path and created if they do not exist. Use
--runtime-roms when the playlists will run on a different device (e.g.
a Switch mounting the collection at /retroarch/roms).`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("runtime-roms", "", "ROM path as seen by the target device")
	initCmd.Flags().String("tool", "", "path to the libretrodb_tool executable")
}

func runInit(cmd *cobra.Command, args []string) error {
	retroarchPath, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(retroarchPath); os.IsNotExist(err) {
		return fmt.Errorf("RetroArch path does not exist: %s", retroarchPath)
	}

	romsPath := filepath.Join(retroarchPath, "roms")
	playlistsPath := filepath.Join(retroarchPath, "playlists")
	thumbnailsPath := filepath.Join(retroarchPath, "thumbnails")
	databasePath := filepath.Join(retroarchPath, "database", "rdb")

	for _, dir := range []string{romsPath, playlistsPath, thumbnailsPath, databasePath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	viper.Set("retroarch_path", retroarchPath)
	viper.Set("roms_path", romsPath)
	viper.Set("playlists_path", playlistsPath)
	viper.Set("thumbnails_path", thumbnailsPath)
	viper.Set("database_path", databasePath)

	if runtimeRoms, _ := cmd.Flags().GetString("runtime-roms"); runtimeRoms != "" {
		viper.Set("roms_path_runtime", runtimeRoms)
	}
	if tool, _ := cmd.Flags().GetString("tool"); tool != "" {
		viper.Set("tool_path", tool)
	}

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		configDir := filepath.Join(home, ".config", "rlc")
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	util.SuccessLog("Initialized rlc for %s", retroarchPath)
	util.InfoLog("ROMs path: %s", romsPath)
	util.InfoLog("Playlists path: %s", playlistsPath)
	util.InfoLog("Thumbnails path: %s", thumbnailsPath)
	util.InfoLog("Database path: %s", databasePath)
	util.InfoLog("Config saved to: %s", configPath)
	util.InfoLog("")
	util.InfoLog("Next step: rlc scan")

	return nil
}
