package store

import (
	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/util"
)

// ManualMatch is one human-confirmed match, keyed in the store by the
// ROM's checksum (or filename when no checksum exists). It is only ever
// created by explicit confirmation and wins over every automatic tier.
type ManualMatch struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	System   string `json:"system"`
	CRC32    string `json:"crc32,omitempty"`

	MatchedName   string `json:"matched_name"`
	MatchedRegion string `json:"matched_region,omitempty"`
	MatchedCRC    string `json:"matched_crc,omitempty"`
	ReleaseYear   int    `json:"release_year,omitempty"`
	Developer     string `json:"developer,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	Serial        string `json:"serial,omitempty"`
	RomName       string `json:"rom_name,omitempty"`

	// Provenance when the match came from an external source rather
	// than the local database
	Source    string `json:"source,omitempty"`
	SourceID  string `json:"source_id,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// ManualStore persists manual matches as a whole-file JSON object.
// Every save is a read-modify-write of the full store through an atomic
// rename, so a crash never leaves a partial file behind.
type ManualStore struct {
	path string
}

// NewManualStore creates a store over the given file path.
// The file does not need to exist yet.
func NewManualStore(path string) *ManualStore {
	return &ManualStore{path: path}
}

// LoadAll returns every persisted override. An absent or empty backing
// file means "no overrides", not an error.
func (s *ManualStore) LoadAll() (map[string]ManualMatch, error) {
	matches := make(map[string]ManualMatch)
	if _, err := util.ReadJSONFile(s.path, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Save persists a confirmed match under the record's key, overwriting any
// previous entry for the same key.
func (s *ManualStore) Save(record *rom.Record, entry *gamedb.Entry) error {
	matches, err := s.LoadAll()
	if err != nil {
		return err
	}

	matches[record.Key()] = ManualMatch{
		Filename:      record.Filename,
		Path:          record.Path,
		System:        record.System,
		CRC32:         record.CRC32,
		MatchedName:   entry.Name,
		MatchedRegion: entry.Region,
		MatchedCRC:    entry.CRC,
		ReleaseYear:   entry.ReleaseYear,
		Developer:     entry.Developer,
		Publisher:     entry.Publisher,
		Serial:        entry.Serial,
		RomName:       entry.RomName,
		Source:        entry.Source,
		SourceID:      entry.SourceID,
		SourceURL:     entry.SourceURL,
	}

	return util.WriteJSONFile(s.path, matches)
}
