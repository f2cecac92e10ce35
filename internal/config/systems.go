package config

// DefaultCores returns the built-in system table. A config file can
// override or extend it; the keys double as playlist and database names,
// matching the libretro-database naming convention.
func DefaultCores() map[string]Core {
	return map[string]Core{
		"Nintendo - Nintendo Entertainment System": {
			CoreName:   "nestopia_libretro",
			Extensions: []string{".nes", ".fds", ".unf", ".unif"},
			DBName:     "Nintendo - Nintendo Entertainment System.rdb",
		},
		"Nintendo - Super Nintendo Entertainment System": {
			CoreName:   "snes9x_libretro",
			Extensions: []string{".sfc", ".smc"},
			DBName:     "Nintendo - Super Nintendo Entertainment System.rdb",
		},
		"Nintendo - Game Boy": {
			CoreName:   "gambatte_libretro",
			Extensions: []string{".gb"},
			DBName:     "Nintendo - Game Boy.rdb",
		},
		"Nintendo - Game Boy Color": {
			CoreName:   "gambatte_libretro",
			Extensions: []string{".gbc", ".gb"},
			DBName:     "Nintendo - Game Boy Color.rdb",
		},
		"Nintendo - Game Boy Advance": {
			CoreName:   "mgba_libretro",
			Extensions: []string{".gba"},
			DBName:     "Nintendo - Game Boy Advance.rdb",
		},
		"Nintendo - Nintendo 64": {
			CoreName:   "mupen64plus_next_libretro",
			Extensions: []string{".n64", ".z64", ".v64"},
			DBName:     "Nintendo - Nintendo 64.rdb",
		},
		"Sega - Mega Drive - Genesis": {
			CoreName:   "genesis_plus_gx_libretro",
			Extensions: []string{".md", ".smd", ".gen", ".bin"},
			DBName:     "Sega - Mega Drive - Genesis.rdb",
		},
		"Sega - Master System - Mark III": {
			CoreName:   "genesis_plus_gx_libretro",
			Extensions: []string{".sms"},
			DBName:     "Sega - Master System - Mark III.rdb",
		},
		"Sony - PlayStation": {
			CoreName:   "pcsx_rearmed_libretro",
			Extensions: []string{".cue", ".chd", ".pbp"},
			DBName:     "Sony - PlayStation.rdb",
		},
		"Arcade": {
			CoreName:   "mame_libretro",
			Extensions: []string{".zip", ".7z"},
			DBName:     "MAME.rdb",
		},
	}
}
