package playlist

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/rom-janitor/internal/util"
)

// NameMapper resolves localized display names for playlist labels from
// per-system CSV tables, one file per system named "<system>.csv". Two
// header layouts are accepted: "Name EN,Name CN" and the arcade layout
// "MAME Name,EN Name,CN Name", where both the MAME short name and the
// English title map to the localized name.
type NameMapper struct {
	dir    string
	tables map[string]map[string]string
}

// NewNameMapper creates a mapper over a CSV directory. Tables load
// lazily on first lookup per system; a missing directory or file just
// means no localized names.
func NewNameMapper(dir string) *NameMapper {
	return &NameMapper{
		dir:    dir,
		tables: make(map[string]map[string]string),
	}
}

// Lookup returns the localized name for a game, or "" when the system
// has no table or the name is not in it. Exact match first, then
// case-insensitive.
func (m *NameMapper) Lookup(system, name string) string {
	table, ok := m.tables[system]
	if !ok {
		table = m.load(system)
		m.tables[system] = table
	}
	if len(table) == 0 {
		return ""
	}

	if localized, ok := table[name]; ok {
		return localized
	}
	return table[strings.ToLower(name)]
}

func (m *NameMapper) load(system string) map[string]string {
	path := filepath.Join(m.dir, system+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil
	}
	if len(header) > 0 {
		// Strip a UTF-8 BOM, these files tend to come from spreadsheets
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var keyCols []int
	var valCol int
	switch {
	case has(cols, "MAME Name") && has(cols, "CN Name"):
		keyCols = []int{cols["MAME Name"]}
		if has(cols, "EN Name") {
			keyCols = append(keyCols, cols["EN Name"])
		}
		valCol = cols["CN Name"]
	case has(cols, "Name EN") && has(cols, "Name CN"):
		keyCols = []int{cols["Name EN"]}
		valCol = cols["Name CN"]
	default:
		util.WarnLog("Unrecognized name table header in %s", path)
		return nil
	}

	table := make(map[string]string)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			util.WarnLog("Error reading name table %s: %v", path, err)
			return table
		}

		localized := field(row, valCol)
		if localized == "" {
			continue
		}
		for _, kc := range keyCols {
			if key := field(row, kc); key != "" {
				table[key] = localized
				table[strings.ToLower(key)] = localized
			}
		}
	}

	return table
}

func has(cols map[string]int, name string) bool {
	_, ok := cols[name]
	return ok
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
