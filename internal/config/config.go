package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Core describes one emulated system: the libretro core that runs it,
// the file extensions it owns and the reference database it matches against.
type Core struct {
	CoreName   string   `mapstructure:"core_name" json:"core_name"`
	Extensions []string `mapstructure:"extensions" json:"extensions"`
	DBName     string   `mapstructure:"db_name" json:"db_name"`
}

// Config holds all settings for a run. It is loaded once and passed
// explicitly into each component's constructor so that tests can build
// one from literals without touching viper or the filesystem.
type Config struct {
	RetroArchPath   string          `mapstructure:"retroarch_path"`
	RomsPath        string          `mapstructure:"roms_path"`
	RomsPathRuntime string          `mapstructure:"roms_path_runtime"` // path as seen by the target device
	PlaylistsPath   string          `mapstructure:"playlists_path"`
	ThumbnailsPath  string          `mapstructure:"thumbnails_path"`
	DatabasePath    string          `mapstructure:"database_path"`
	ToolPath        string          `mapstructure:"tool_path"` // libretrodb_tool executable
	CatalogDB       string          `mapstructure:"catalog_db"`
	ManualMatchesDB string          `mapstructure:"manual_matches_db"`
	UnmatchedDB     string          `mapstructure:"unmatched_db"`
	NamesPath       string          `mapstructure:"names_path"` // localized-name CSV directory, optional
	LaunchBoxURL    string          `mapstructure:"launchbox_url"`
	LaunchBoxKey    string          `mapstructure:"launchbox_key"` // API key, optional
	Cores           map[string]Core `mapstructure:"cores"`
}

// Load materializes the configuration from viper (config file, RLC_*
// environment variables and bound flags) and fills in defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RetroArchPath != "" {
		if c.RomsPath == "" {
			c.RomsPath = filepath.Join(c.RetroArchPath, "roms")
		}
		if c.PlaylistsPath == "" {
			c.PlaylistsPath = filepath.Join(c.RetroArchPath, "playlists")
		}
		if c.ThumbnailsPath == "" {
			c.ThumbnailsPath = filepath.Join(c.RetroArchPath, "thumbnails")
		}
		if c.DatabasePath == "" {
			c.DatabasePath = filepath.Join(c.RetroArchPath, "database", "rdb")
		}
	}
	if c.CatalogDB == "" {
		c.CatalogDB = "rlc-catalog.db"
	}
	if c.ManualMatchesDB == "" {
		c.ManualMatchesDB = "manual_matches.json"
	}
	if c.UnmatchedDB == "" {
		c.UnmatchedDB = "unmatched_games.json"
	}
	if c.LaunchBoxURL == "" {
		c.LaunchBoxURL = "https://gamesdb.launchbox-app.com"
	}
	if len(c.Cores) == 0 {
		c.Cores = DefaultCores()
	}
}

// SystemForExtension resolves the system that owns a file extension.
// Systems whose primary (first-listed) extension matches win over systems
// that merely accept the extension, so ".gbc" resolves to Game Boy Color
// even though the Game Boy core accepts it too.
func (c *Config) SystemForExtension(ext string) (string, *Core) {
	ext = strings.ToLower(ext)

	for system, core := range c.Cores {
		if len(core.Extensions) > 0 && strings.ToLower(core.Extensions[0]) == ext {
			coreCopy := core
			return system, &coreCopy
		}
	}

	for system, core := range c.Cores {
		for _, e := range core.Extensions {
			if strings.ToLower(e) == ext {
				coreCopy := core
				return system, &coreCopy
			}
		}
	}

	return "", nil
}

// AllExtensions returns the union of extensions across all configured cores
func (c *Config) AllExtensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, core := range c.Cores {
		for _, e := range core.Extensions {
			e = strings.ToLower(e)
			if !seen[e] {
				seen[e] = true
				exts = append(exts, e)
			}
		}
	}
	return exts
}

// DatabaseFile returns the reference-database path for a system, or ""
// when the system has no database configured.
func (c *Config) DatabaseFile(system string) string {
	core, ok := c.Cores[system]
	if !ok || core.DBName == "" {
		return ""
	}
	return filepath.Join(c.DatabasePath, core.DBName)
}

// RuntimeRomPath converts a local ROM path to the path the target device
// will see, e.g. /home/me/retroarch/roms/x.nes -> /retroarch/roms/x.nes.
// Paths outside RomsPath are returned unchanged.
func (c *Config) RuntimeRomPath(localPath string) string {
	if c.RomsPathRuntime == "" || c.RomsPathRuntime == c.RomsPath {
		return localPath
	}

	rel, err := filepath.Rel(c.RomsPath, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return localPath
	}

	// Playlists use forward slashes regardless of host OS
	return strings.ReplaceAll(filepath.Join(c.RomsPathRuntime, rel), "\\", "/")
}

// Validate checks that the configured paths exist.
// Returns one message per problem; an empty slice means the config is usable.
func (c *Config) Validate() []string {
	var errs []string

	if c.RetroArchPath == "" {
		errs = append(errs, "retroarch_path not configured (run 'rlc init' first)")
		return errs
	}

	for name, path := range map[string]string{
		"retroarch_path": c.RetroArchPath,
		"roms_path":      c.RomsPath,
		"playlists_path": c.PlaylistsPath,
		"database_path":  c.DatabasePath,
	} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("%s does not exist: %s", name, path))
		}
	}

	return errs
}
