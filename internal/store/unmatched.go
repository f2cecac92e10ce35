package store

import (
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/util"
)

// UnmatchedEntry is a ROM that exhausted every matching tier, persisted
// for later manual resolution. The Manual* fields are blank on creation
// and meant to be filled in by hand in the JSON file.
type UnmatchedEntry struct {
	Filename       string `json:"filename"`
	Path           string `json:"path"`
	System         string `json:"system"`
	CRC32          string `json:"crc32,omitempty"`
	NormalizedName string `json:"normalized_name"`
	IsHack         bool   `json:"is_hack"`
	BaseGameName   string `json:"base_game_name,omitempty"`
	Region         string `json:"region,omitempty"`
	Size           int64  `json:"size"`

	ManualName      string `json:"manual_name"`
	ManualYear      int    `json:"manual_year,omitempty"`
	ManualDeveloper string `json:"manual_developer,omitempty"`
	ManualPublisher string `json:"manual_publisher,omitempty"`
	Notes           string `json:"notes"`
}

// UnmatchedStore persists unmatched ROMs as a whole-file JSON object,
// keyed like the manual store. Saves are additive: a key already present
// is left untouched so operator edits survive subsequent scans.
type UnmatchedStore struct {
	path string
}

// NewUnmatchedStore creates a store over the given file path
func NewUnmatchedStore(path string) *UnmatchedStore {
	return &UnmatchedStore{path: path}
}

// LoadAll returns every persisted unmatched entry; absent file means empty
func (s *UnmatchedStore) LoadAll() (map[string]UnmatchedEntry, error) {
	entries := make(map[string]UnmatchedEntry)
	if _, err := util.ReadJSONFile(s.path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveAll adds records that are not yet in the store and rewrites the
// file. Returns the number of newly added entries.
func (s *UnmatchedStore) SaveAll(records []*rom.Record) (int, error) {
	entries, err := s.LoadAll()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, r := range records {
		key := r.Key()
		if _, exists := entries[key]; exists {
			continue
		}
		entries[key] = UnmatchedEntry{
			Filename:       r.Filename,
			Path:           r.Path,
			System:         r.System,
			CRC32:          r.CRC32,
			NormalizedName: r.NormalizedName,
			IsHack:         r.IsHack,
			BaseGameName:   r.BaseGameName,
			Region:         r.Region,
			Size:           r.Size,
		}
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, util.WriteJSONFile(s.path, entries)
}

// Remove drops a key from the store, used once a manual match exists for
// it. A key that is not present is not an error.
func (s *UnmatchedStore) Remove(key string) error {
	entries, err := s.LoadAll()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return util.WriteJSONFile(s.path, entries)
}
