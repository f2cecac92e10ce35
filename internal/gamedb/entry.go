package gamedb

// Entry is one reference-database row. Field names follow the JSON keys
// emitted by libretrodb_tool so both backends decode into the same shape.
type Entry struct {
	Name         string `json:"name"`
	Region       string `json:"region,omitempty"`
	RomName      string `json:"rom_name,omitempty"`
	CRC          string `json:"crc,omitempty"`
	Serial       string `json:"serial,omitempty"`
	Developer    string `json:"developer,omitempty"`
	Publisher    string `json:"publisher,omitempty"`
	ReleaseYear  int    `json:"releaseyear,omitempty"`
	ReleaseMonth int    `json:"releasemonth,omitempty"`

	// Provenance, set when the entry came from an external metadata
	// source instead of the local database
	Source    string `json:"source,omitempty"`
	SourceID  string `json:"source_id,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}
