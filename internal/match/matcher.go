package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
)

// DefaultThreshold is the minimum fuzzy similarity for an automatic
// match. Scores must strictly exceed it; a candidate sitting exactly on
// the threshold is not accepted.
const DefaultThreshold = 0.8

// Matcher resolves ROM records against reference databases using a
// tiered cascade: manual override, checksum, exact name, fuzzy name.
// The first tier that yields a result wins.
type Matcher struct {
	resolver  *gamedb.Resolver
	manual    *store.ManualStore
	logger    *report.EventLogger
	threshold float64

	missing   map[string]bool // systems whose database failed to load this pass
	unmatched []*rom.Record
}

// Config holds matcher configuration
type Config struct {
	Resolver  *gamedb.Resolver
	Manual    *store.ManualStore
	Logger    *report.EventLogger
	Threshold float64 // 0 means DefaultThreshold
}

// New creates a new Matcher
func New(cfg *Config) *Matcher {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = report.NullLogger()
	}
	return &Matcher{
		resolver:  cfg.Resolver,
		manual:    cfg.Manual,
		logger:    logger,
		threshold: threshold,
		missing:   make(map[string]bool),
	}
}

// Result represents batch matching results
type Result struct {
	Matched int
	Total   int
	Manual  int
}

// MatchAll runs the full cascade over a batch of records. Manual
// overrides are applied across the whole batch first, then the automatic
// tiers run for every record still unmatched. The missing-database set
// and the unmatched list are reset at the start and readable afterwards.
func (m *Matcher) MatchAll(records []*rom.Record) (*Result, error) {
	m.missing = make(map[string]bool)
	m.unmatched = nil

	result := &Result{Total: len(records)}

	util.InfoLog("Matching %d ROMs against reference databases", len(records))

	result.Manual = m.applyManualMatches(records)
	result.Matched += result.Manual

	for _, r := range records {
		if r.Matched {
			continue
		}

		entry := m.matchRecord(r)
		if entry != nil {
			r.SetMatch(entry.Name, entry.ReleaseYear, entry.Developer, entry.Publisher)
			result.Matched++
			m.logger.LogMatch(r.Key(), r.Path, entry.Name, "auto")
		} else {
			m.unmatched = append(m.unmatched, r)
			m.logger.LogUnmatched(r.Key(), r.Path)
		}
	}

	if result.Total > 0 {
		util.InfoLog("Matched %d/%d ROMs (%.1f%%)",
			result.Matched, result.Total, float64(result.Matched)/float64(result.Total)*100)
	}

	return result, nil
}

// applyManualMatches applies the persisted override store across a batch.
// Overrides are read fresh at the start of every pass and take precedence
// over all automatic tiers.
func (m *Matcher) applyManualMatches(records []*rom.Record) int {
	overrides, err := m.manual.LoadAll()
	if err != nil {
		util.WarnLog("Failed to load manual matches: %v", err)
		return 0
	}
	if len(overrides) == 0 {
		return 0
	}

	applied := 0
	for _, r := range records {
		if r.Matched {
			continue
		}
		override, ok := overrides[r.Key()]
		if !ok {
			continue
		}

		r.SetMatch(override.MatchedName, override.ReleaseYear, override.Developer, override.Publisher)
		if r.Matched {
			applied++
			m.logger.LogMatch(r.Key(), r.Path, override.MatchedName, "manual")
		}
	}

	if applied > 0 {
		util.InfoLog("Applied %d manual matches", applied)
	}
	return applied
}

// matchRecord runs the automatic tiers for one record. A database load
// failure marks the system missing for the rest of the pass and the
// record funnels to unmatched; a query error in one tier only drops
// through to the next.
func (m *Matcher) matchRecord(r *rom.Record) *gamedb.Entry {
	if m.missing[r.System] {
		return nil
	}

	db, err := m.resolver.Database(r.System)
	if err != nil {
		if errors.Is(err, util.ErrDatabaseMissing) {
			util.WarnLog("Database not found for %s", r.System)
			m.missing[r.System] = true
		} else {
			util.ErrorLog("Failed to load database for %s: %v", r.System, err)
			m.logger.LogError(r.System, err)
		}
		return nil
	}

	// Tier: checksum (most reliable, dominates name similarity)
	if r.CRC32 != "" {
		entry, err := db.LookupCRC(r.CRC32)
		if err != nil {
			util.WarnLog("Checksum lookup failed for %s: %v", r.Filename, err)
		} else if entry != nil {
			return entry
		}
	}

	// Tier: exact normalized name, first hit in backend order
	if r.NormalizedName != "" {
		entry, err := db.LookupName(r.NormalizedName)
		if err != nil {
			util.WarnLog("Name lookup failed for %s: %v", r.Filename, err)
		} else if entry != nil {
			return entry
		}
	}

	// Tier: fuzzy name similarity, last resort
	entry, err := m.fuzzyMatch(db, r.NormalizedName)
	if err != nil {
		util.WarnLog("Fuzzy match failed for %s: %v", r.Filename, err)
		return nil
	}
	return entry
}

// fuzzyMatch scans the full candidate pool and keeps the best-scoring
// entry. Only a score strictly above the threshold is accepted; ties at
// the maximum resolve to the first candidate in enumeration order.
func (m *Matcher) fuzzyMatch(db *gamedb.Database, name string) (*gamedb.Entry, error) {
	if name == "" {
		return nil, nil
	}

	entries, err := db.All()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate candidates: %w", err)
	}

	target := strings.ToLower(name)
	bestScore := m.threshold
	var best *gamedb.Entry

	for i := range entries {
		score := Similarity(target, strings.ToLower(entries[i].Name))
		if score > bestScore {
			bestScore = score
			best = &entries[i]
		}
	}

	return best, nil
}

// Scored pairs a candidate entry with its similarity score
type Scored struct {
	Entry gamedb.Entry
	Score float64
}

// FindSimilar is the fuzzy tier run standalone: it returns the top limit
// candidates for a record sorted by descending score, ties kept in
// enumeration order. Used by interactive disambiguation.
func (m *Matcher) FindSimilar(r *rom.Record, limit int) ([]Scored, error) {
	db, err := m.resolver.Database(r.System)
	if err != nil {
		if errors.Is(err, util.ErrDatabaseMissing) {
			m.missing[r.System] = true
			return nil, nil
		}
		return nil, err
	}

	entries, err := db.All()
	if err != nil {
		return nil, err
	}

	target := strings.ToLower(r.NormalizedName)
	scored := make([]Scored, 0, len(entries))
	for _, entry := range entries {
		scored = append(scored, Scored{
			Entry: entry,
			Score: Similarity(target, strings.ToLower(entry.Name)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Unmatched returns the records that exhausted every tier in the last
// MatchAll pass
func (m *Matcher) Unmatched() []*rom.Record {
	return m.unmatched
}

// MissingSystems returns the systems whose database could not be loaded
// during the current pass, sorted for stable output
func (m *Matcher) MissingSystems() []string {
	systems := make([]string, 0, len(m.missing))
	for system := range m.missing {
		systems = append(systems, system)
	}
	sort.Strings(systems)
	return systems
}

// HasMissingDatabases reports whether any database failed to load
func (m *Matcher) HasMissingDatabases() bool {
	return len(m.missing) > 0
}

// Similarity returns the Ratcliff/Obershelp matching-block ratio between
// two strings in [0, 1], computed character-wise.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}
