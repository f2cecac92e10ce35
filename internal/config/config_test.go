package config

import (
	"path/filepath"
	"testing"
)

func testConfig() *Config {
	return &Config{
		RomsPath:        "/home/me/retroarch/roms",
		RomsPathRuntime: "/retroarch/roms",
		DatabasePath:    "/home/me/retroarch/database/rdb",
		Cores: map[string]Core{
			"gb":  {CoreName: "Gambatte", Extensions: []string{".gb", ".gbc"}, DBName: "Nintendo - Game Boy.rdb"},
			"gbc": {CoreName: "Gambatte", Extensions: []string{".gbc", ".gb"}, DBName: "Nintendo - Game Boy Color.rdb"},
			"nes": {CoreName: "FCEUmm", Extensions: []string{".nes"}, DBName: "Nintendo - Nintendo Entertainment System.rdb"},
		},
	}
}

func TestSystemForExtension(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		ext      string
		expected string
	}{
		{".nes", "nes"},
		{".NES", "nes"}, // case-insensitive
		// Both gb and gbc cores accept both extensions; the system
		// whose primary extension matches wins
		{".gb", "gb"},
		{".gbc", "gbc"},
		{".xyz", ""},
	}

	for _, tt := range tests {
		system, core := cfg.SystemForExtension(tt.ext)
		if system != tt.expected {
			t.Errorf("SystemForExtension(%q) = %q, expected %q", tt.ext, system, tt.expected)
		}
		if tt.expected != "" && core == nil {
			t.Errorf("SystemForExtension(%q) returned nil core", tt.ext)
		}
	}
}

func TestAllExtensions(t *testing.T) {
	exts := testConfig().AllExtensions()

	seen := make(map[string]bool)
	for _, e := range exts {
		if seen[e] {
			t.Errorf("extension %q appears twice", e)
		}
		seen[e] = true
	}
	for _, want := range []string{".nes", ".gb", ".gbc"} {
		if !seen[want] {
			t.Errorf("extension %q missing from %v", want, exts)
		}
	}
}

func TestDatabaseFile(t *testing.T) {
	cfg := testConfig()

	want := filepath.Join(cfg.DatabasePath, "Nintendo - Nintendo Entertainment System.rdb")
	if got := cfg.DatabaseFile("nes"); got != want {
		t.Errorf("DatabaseFile(nes) = %q, expected %q", got, want)
	}
	if got := cfg.DatabaseFile("unknown"); got != "" {
		t.Errorf("DatabaseFile(unknown) = %q, expected empty", got)
	}
}

func TestRuntimeRomPath(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		input    string
		expected string
	}{
		{"/home/me/retroarch/roms/nes/smb.nes", "/retroarch/roms/nes/smb.nes"},
		{"/home/me/retroarch/roms/smb.nes", "/retroarch/roms/smb.nes"},
		// Outside RomsPath: unchanged
		{"/tmp/other.nes", "/tmp/other.nes"},
	}

	for _, tt := range tests {
		if got := cfg.RuntimeRomPath(tt.input); got != tt.expected {
			t.Errorf("RuntimeRomPath(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestRuntimeRomPathNoMapping(t *testing.T) {
	cfg := testConfig()
	cfg.RomsPathRuntime = ""

	path := "/home/me/retroarch/roms/smb.nes"
	if got := cfg.RuntimeRomPath(path); got != path {
		t.Errorf("RuntimeRomPath without mapping = %q, expected unchanged", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{RetroArchPath: "/ra"}
	cfg.applyDefaults()

	if cfg.RomsPath != filepath.Join("/ra", "roms") {
		t.Errorf("RomsPath = %q", cfg.RomsPath)
	}
	if cfg.DatabasePath != filepath.Join("/ra", "database", "rdb") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.CatalogDB != "rlc-catalog.db" {
		t.Errorf("CatalogDB = %q", cfg.CatalogDB)
	}
	if cfg.ManualMatchesDB != "manual_matches.json" {
		t.Errorf("ManualMatchesDB = %q", cfg.ManualMatchesDB)
	}
	if cfg.UnmatchedDB != "unmatched_games.json" {
		t.Errorf("UnmatchedDB = %q", cfg.UnmatchedDB)
	}
	if cfg.LaunchBoxURL != "https://gamesdb.launchbox-app.com" {
		t.Errorf("LaunchBoxURL = %q", cfg.LaunchBoxURL)
	}
	if len(cfg.Cores) == 0 {
		t.Error("default cores not applied")
	}
}

func TestValidateUnconfigured(t *testing.T) {
	cfg := &Config{}
	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate = %d problems, expected 1", len(errs))
	}
}
