package store

// Schema v1 - scanned ROM catalog
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- ROM files discovered by scanning, one row per file.
-- rom_key is the checksum when available, the filename otherwise.
CREATE TABLE IF NOT EXISTS roms (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rom_key TEXT UNIQUE NOT NULL,
  path TEXT NOT NULL,
  filename TEXT NOT NULL,
  system TEXT NOT NULL,
  extension TEXT,
  size_bytes INTEGER,
  crc32 TEXT,
  normalized_name TEXT,
  is_hack INTEGER DEFAULT 0,
  base_game_name TEXT,
  region TEXT,
  matched INTEGER DEFAULT 0,
  game_name TEXT,
  release_year INTEGER,
  developer TEXT,
  publisher TEXT,
  first_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  last_update_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_roms_system ON roms(system);
CREATE INDEX IF NOT EXISTS idx_roms_matched ON roms(matched);
CREATE INDEX IF NOT EXISTS idx_roms_crc32 ON roms(crc32);
`
