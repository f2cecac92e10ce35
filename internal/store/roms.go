package store

import (
	"database/sql"
	"fmt"

	"github.com/franz/rom-janitor/internal/rom"
)

// UpsertRom inserts or refreshes a catalog row for a scanned ROM.
// Match fields from a previous run survive a rescan of the same file.
func (s *Store) UpsertRom(r *rom.Record) error {
	_, err := s.db.Exec(`
		INSERT INTO roms (rom_key, path, filename, system, extension, size_bytes,
		                  crc32, normalized_name, is_hack, base_game_name, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(rom_key) DO UPDATE SET
			path = excluded.path,
			filename = excluded.filename,
			system = excluded.system,
			size_bytes = excluded.size_bytes,
			crc32 = excluded.crc32,
			normalized_name = excluded.normalized_name,
			is_hack = excluded.is_hack,
			base_game_name = excluded.base_game_name,
			region = excluded.region,
			last_update_at = CURRENT_TIMESTAMP
		`, r.Key(), r.Path, r.Filename, r.System, r.Extension, r.Size,
		nullable(r.CRC32), r.NormalizedName, boolInt(r.IsHack),
		nullable(r.BaseGameName), nullable(r.Region))
	if err != nil {
		return fmt.Errorf("failed to upsert rom: %w", err)
	}
	return nil
}

// UpdateRomMatch records the matcher's verdict for a ROM
func (s *Store) UpdateRomMatch(r *rom.Record) error {
	_, err := s.db.Exec(`
		UPDATE roms SET
			matched = ?,
			game_name = ?,
			release_year = ?,
			developer = ?,
			publisher = ?,
			last_update_at = CURRENT_TIMESTAMP
		WHERE rom_key = ?
		`, boolInt(r.Matched), nullable(r.GameName), r.ReleaseYear,
		nullable(r.Developer), nullable(r.Publisher), r.Key())
	if err != nil {
		return fmt.Errorf("failed to update rom match: %w", err)
	}
	return nil
}

// GetAllRoms returns the full catalog ordered by system then filename
func (s *Store) GetAllRoms() ([]*rom.Record, error) {
	rows, err := s.db.Query(romSelect + " ORDER BY system, filename")
	if err != nil {
		return nil, fmt.Errorf("failed to query roms: %w", err)
	}
	defer rows.Close()
	return scanRoms(rows)
}

// GetRomsBySystem returns catalog rows for one system
func (s *Store) GetRomsBySystem(system string) ([]*rom.Record, error) {
	rows, err := s.db.Query(romSelect+" WHERE system = ? ORDER BY filename", system)
	if err != nil {
		return nil, fmt.Errorf("failed to query roms: %w", err)
	}
	defer rows.Close()
	return scanRoms(rows)
}

// GetUnmatchedRoms returns every catalog row without a match
func (s *Store) GetUnmatchedRoms() ([]*rom.Record, error) {
	rows, err := s.db.Query(romSelect + " WHERE matched = 0 ORDER BY system, filename")
	if err != nil {
		return nil, fmt.Errorf("failed to query roms: %w", err)
	}
	defer rows.Close()
	return scanRoms(rows)
}

// GetRomByKey returns one catalog row, or nil when absent
func (s *Store) GetRomByKey(key string) (*rom.Record, error) {
	rows, err := s.db.Query(romSelect+" WHERE rom_key = ?", key)
	if err != nil {
		return nil, fmt.Errorf("failed to query rom: %w", err)
	}
	defer rows.Close()

	records, err := scanRoms(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// SystemStats summarizes one system's catalog rows
type SystemStats struct {
	System    string
	Count     int
	Matched   int
	Hacks     int
	SizeBytes int64
}

// GetSystemStats aggregates catalog counts per system
func (s *Store) GetSystemStats() ([]*SystemStats, error) {
	rows, err := s.db.Query(`
		SELECT system, COUNT(*), SUM(matched), SUM(is_hack), SUM(size_bytes)
		FROM roms GROUP BY system ORDER BY system
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query system stats: %w", err)
	}
	defer rows.Close()

	var stats []*SystemStats
	for rows.Next() {
		st := &SystemStats{}
		if err := rows.Scan(&st.System, &st.Count, &st.Matched, &st.Hacks, &st.SizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan system stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

const romSelect = `
	SELECT path, filename, system, COALESCE(extension, ''), size_bytes,
	       COALESCE(crc32, ''), COALESCE(normalized_name, ''), is_hack,
	       COALESCE(base_game_name, ''), COALESCE(region, ''),
	       matched, COALESCE(game_name, ''), COALESCE(release_year, 0),
	       COALESCE(developer, ''), COALESCE(publisher, '')
	FROM roms`

func scanRoms(rows *sql.Rows) ([]*rom.Record, error) {
	var records []*rom.Record
	for rows.Next() {
		r := &rom.Record{}
		var isHack, matched int
		err := rows.Scan(
			&r.Path, &r.Filename, &r.System, &r.Extension, &r.Size,
			&r.CRC32, &r.NormalizedName, &isHack,
			&r.BaseGameName, &r.Region,
			&matched, &r.GameName, &r.ReleaseYear,
			&r.Developer, &r.Publisher,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rom: %w", err)
		}
		r.IsHack = isHack != 0
		r.Matched = matched != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
