package playlist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
)

// Item is one entry in a RetroArch playlist
type Item struct {
	Path     string `json:"path"`
	Label    string `json:"label"`
	CorePath string `json:"core_path"`
	CoreName string `json:"core_name"`
	CRC32    string `json:"crc32"`
	DBName   string `json:"db_name"`
}

// Playlist is the RetroArch .lpl file layout (version 1.5)
type Playlist struct {
	Version            string `json:"version"`
	DefaultCorePath    string `json:"default_core_path"`
	DefaultCoreName    string `json:"default_core_name"`
	LabelDisplayMode   int    `json:"label_display_mode"`
	RightThumbnailMode int    `json:"right_thumbnail_mode"`
	LeftThumbnailMode  int    `json:"left_thumbnail_mode"`
	SortMode           int    `json:"sort_mode"`
	Items              []Item `json:"items"`
}

// Generator emits one .lpl playlist per system
type Generator struct {
	cfg    *config.Config
	manual *store.ManualStore
	names  *NameMapper
	logger *report.EventLogger
}

// Config holds generator configuration
type Config struct {
	Config *config.Config
	Manual *store.ManualStore
	Names  *NameMapper // optional localized label tables
	Logger *report.EventLogger
}

// New creates a new Generator
func New(cfg *Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = report.NullLogger()
	}
	names := cfg.Names
	if names == nil && cfg.Config.NamesPath != "" {
		names = NewNameMapper(cfg.Config.NamesPath)
	}
	return &Generator{
		cfg:    cfg.Config,
		manual: cfg.Manual,
		names:  names,
		logger: logger,
	}
}

// Generate writes one playlist per system and returns a map from system
// to the generated file path.
func (g *Generator) Generate(records []*rom.Record) (map[string]string, error) {
	if err := os.MkdirAll(g.cfg.PlaylistsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create playlists directory: %w", err)
	}

	// Manual matches override labels in the playlist too, so a fix made
	// after the automatic pass shows up without rematching
	overrides, err := g.manual.LoadAll()
	if err != nil {
		util.WarnLog("Failed to load manual matches: %v", err)
		overrides = map[string]store.ManualMatch{}
	}

	bySystem := make(map[string][]*rom.Record)
	for _, r := range records {
		bySystem[r.System] = append(bySystem[r.System], r)
	}

	generated := make(map[string]string)
	for system, systemRoms := range bySystem {
		core, ok := g.cfg.Cores[system]
		if !ok {
			util.WarnLog("No core configuration for %s, skipping playlist", system)
			continue
		}

		path := filepath.Join(g.cfg.PlaylistsPath, system+".lpl")
		playlist := g.build(systemRoms, &core, overrides)

		if err := util.WriteJSONFile(path, playlist); err != nil {
			util.ErrorLog("Failed to write playlist %s: %v", path, err)
			continue
		}

		g.logger.LogPlaylist(system, path, len(playlist.Items))
		util.SuccessLog("Generated playlist: %s (%d items)", path, len(playlist.Items))
		generated[system] = path
	}

	return generated, nil
}

func (g *Generator) build(records []*rom.Record, core *config.Core, overrides map[string]store.ManualMatch) *Playlist {
	playlist := &Playlist{
		Version: "1.5",
		Items:   make([]Item, 0, len(records)),
	}

	for _, r := range records {
		var override *store.ManualMatch
		if o, ok := overrides[r.Key()]; ok {
			override = &o
		}

		// Label precedence: manual override, matched name, normalized name
		label := r.NormalizedName
		if r.GameName != "" {
			label = r.GameName
		}
		if override != nil && override.MatchedName != "" {
			label = override.MatchedName
		}
		// A localized name, when one exists for the resolved title, wins
		// over the English label
		if g.names != nil {
			if localized := g.names.Lookup(r.System, label); localized != "" {
				label = localized
			}
		}

		// CRC precedence mirrors the label: a manually confirmed entry's
		// checksum identifies the game more reliably than the file's own
		crc := "DETECT"
		if r.CRC32 != "" {
			crc = r.CRC32 + "|crc"
		}
		if override != nil && override.MatchedCRC != "" {
			crc = override.MatchedCRC + "|crc"
		}

		playlist.Items = append(playlist.Items, Item{
			Path:     g.cfg.RuntimeRomPath(r.Path),
			Label:    label,
			CorePath: "DETECT",
			CoreName: core.CoreName,
			CRC32:    crc,
			DBName:   core.DBName,
		})
	}

	return playlist
}
