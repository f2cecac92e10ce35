package rom

// Record holds everything known about one scanned ROM file.
// The scanner populates the descriptive fields; the matcher sets the
// match fields exactly once. Records are never deleted, only serialized
// to the unmatched store when no tier resolves them.
type Record struct {
	Path           string `json:"path"`
	Filename       string `json:"filename"`
	System         string `json:"system"`
	Extension      string `json:"extension"`
	Size           int64  `json:"size"`
	SizeFormatted  string `json:"size_formatted"`
	CRC32          string `json:"crc32,omitempty"` // uppercase 8-hex-digit, "" when unavailable
	NormalizedName string `json:"normalized_name"`
	IsHack         bool   `json:"is_hack"`
	BaseGameName   string `json:"base_game_name,omitempty"`
	Region         string `json:"region,omitempty"`

	Matched     bool   `json:"matched"`
	GameName    string `json:"game_name,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty"`
	Developer   string `json:"developer,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
}

// Key returns the identity used by the manual-match and unmatched stores:
// the checksum when one exists, the filename otherwise.
func (r *Record) Key() string {
	if r.CRC32 != "" {
		return r.CRC32
	}
	return r.Filename
}

// SetMatch records the resolved game on the record. Matched is true iff
// the game name is non-empty, preserving the record invariant even when
// a store carries a blank name.
func (r *Record) SetMatch(name string, year int, developer, publisher string) {
	r.GameName = name
	r.ReleaseYear = year
	r.Developer = developer
	r.Publisher = publisher
	r.Matched = name != ""
}
