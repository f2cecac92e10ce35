package gamedb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/util"
)

// backendKind selects how a Database answers queries
type backendKind int

const (
	backendRDB backendKind = iota
	backendJSON
)

// Database is one loaded reference database for a system. RDB-backed
// databases delegate to the query service per call; JSON-backed ones hold
// the full entry array in memory.
type Database struct {
	System string
	Path   string

	kind    backendKind
	query   QueryService
	entries []Entry // JSON data, or the cached RDB full scan
	scanned bool    // entries holds a completed full scan
}

// Resolver maps system identifiers to loaded databases. Databases are
// loaded lazily and cached for the remainder of the run; a file changing
// mid-run keeps serving its stale in-memory copy.
type Resolver struct {
	cfg   *config.Config
	query QueryService
	cache map[string]*Database
}

// NewResolver creates a resolver over the configured database directory.
// query may be nil when only JSON databases are in play.
func NewResolver(cfg *config.Config, query QueryService) *Resolver {
	return &Resolver{
		cfg:   cfg,
		query: query,
		cache: make(map[string]*Database),
	}
}

// Database resolves and loads the reference database for a system.
// A missing file returns util.ErrDatabaseMissing; the caller records the
// system in its missing set and must not retry within the same pass.
func (r *Resolver) Database(system string) (*Database, error) {
	if db, ok := r.cache[system]; ok {
		return db, nil
	}

	path := r.cfg.DatabaseFile(system)
	if path == "" {
		return nil, fmt.Errorf("%w: no database configured for system %q", util.ErrDatabaseMissing, system)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", util.ErrDatabaseMissing, path)
	}

	db := &Database{System: system, Path: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".rdb":
		if r.query == nil {
			return nil, fmt.Errorf("no query service available for RDB database %s", path)
		}
		db.kind = backendRDB
		db.query = r.query
	case ".json":
		entries, err := loadJSONDatabase(path)
		if err != nil {
			return nil, err
		}
		db.kind = backendJSON
		db.entries = entries
		db.scanned = true
		util.InfoLog("Loaded JSON database for %s: %d entries", system, len(entries))
	default:
		return nil, fmt.Errorf("%w: database format %s", util.ErrUnsupported, filepath.Ext(path))
	}

	r.cache[system] = db
	return db, nil
}

// loadJSONDatabase reads a whole JSON array of entries into memory
func loadJSONDatabase(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse database %s: %w", path, err)
	}
	return entries, nil
}

// LookupCRC finds the entry whose checksum equals crc.
// Hex comparison is case-insensitive on both backends.
func (db *Database) LookupCRC(crc string) (*Entry, error) {
	if db.kind == backendRDB {
		return db.query.FindByCRC(db.Path, crc)
	}

	for i := range db.entries {
		if strings.EqualFold(db.entries[i].CRC, crc) {
			return &db.entries[i], nil
		}
	}
	return nil, nil
}

// LookupName finds the entry whose name exactly matches (first hit in
// backend order when the database carries same-named regional variants).
func (db *Database) LookupName(name string) (*Entry, error) {
	if db.kind == backendRDB {
		matches, err := db.query.FindByNameGlob(db.Path, name)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, nil
		}
		return &matches[0], nil
	}

	for i := range db.entries {
		if strings.EqualFold(db.entries[i].Name, name) {
			return &db.entries[i], nil
		}
	}
	return nil, nil
}

// SearchName returns every entry whose name contains the query,
// case-insensitively. Used by the interactive matcher's custom search.
func (db *Database) SearchName(query string) ([]Entry, error) {
	if db.kind == backendRDB {
		return db.query.FindByNameGlob(db.Path, "*"+query+"*")
	}

	var matches []Entry
	q := strings.ToLower(query)
	for _, entry := range db.entries {
		if strings.Contains(strings.ToLower(entry.Name), q) {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// All returns every entry, used as the candidate pool for fuzzy matching.
// The RDB full scan is fetched once and cached for the rest of the run.
func (db *Database) All() ([]Entry, error) {
	if db.scanned {
		return db.entries, nil
	}

	entries, err := db.query.List(db.Path)
	if err != nil {
		return nil, err
	}
	db.entries = entries
	db.scanned = true
	return entries, nil
}
