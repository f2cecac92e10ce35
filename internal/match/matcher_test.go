package match

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/store"
)

// testResolver writes a JSON reference database into a temp dir and
// returns a resolver over it plus the config used to build it.
func testResolver(t *testing.T, entries []gamedb.Entry) (*gamedb.Resolver, *config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("failed to marshal entries: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "NES.json"), data, 0644); err != nil {
		t.Fatalf("failed to write database: %v", err)
	}

	cfg := &config.Config{
		DatabasePath: dir,
		Cores: map[string]config.Core{
			"nes": {CoreName: "FCEUmm", Extensions: []string{".nes"}, DBName: "NES.json"},
		},
	}
	return gamedb.NewResolver(cfg, nil), cfg, dir
}

func testMatcher(t *testing.T, entries []gamedb.Entry) (*Matcher, string) {
	t.Helper()
	resolver, _, dir := testResolver(t, entries)
	return New(&Config{
		Resolver: resolver,
		Manual:   store.NewManualStore(filepath.Join(dir, "manual.json")),
	}), dir
}

var testEntries = []gamedb.Entry{
	{Name: "Super Mario Bros.", CRC: "3337B3A5", Region: "USA", ReleaseYear: 1985},
	{Name: "Legend of Zelda, The", CRC: "D7AE93DF", Region: "USA", ReleaseYear: 1986},
	{Name: "Metroid", CRC: "70080810", Region: "USA", ReleaseYear: 1986},
}

func TestMatchByChecksum(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	// The checksum belongs to Metroid while the name points at Zelda;
	// the checksum tier runs first and must win
	r := &rom.Record{
		Filename:       "whatever.nes",
		System:         "nes",
		CRC32:          "70080810",
		NormalizedName: "Legend of Zelda, The",
	}

	result, err := matcher.MatchAll([]*rom.Record{r})
	if err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if result.Matched != 1 {
		t.Fatalf("Matched = %d, expected 1", result.Matched)
	}
	if r.GameName != "Metroid" {
		t.Errorf("GameName = %q, expected checksum match to win", r.GameName)
	}
	if r.ReleaseYear != 1986 {
		t.Errorf("ReleaseYear = %d, expected 1986", r.ReleaseYear)
	}
}

func TestMatchByExactName(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	r := &rom.Record{
		Filename:       "zelda.nes",
		System:         "nes",
		NormalizedName: "legend of zelda, the", // case differs, still exact
	}

	if _, err := matcher.MatchAll([]*rom.Record{r}); err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if r.GameName != "Legend of Zelda, The" {
		t.Errorf("GameName = %q, expected exact name match", r.GameName)
	}
}

func TestMatchByFuzzyName(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	// Missing trailing period: exact tier misses, fuzzy tier scores
	// well above the threshold
	r := &rom.Record{
		Filename:       "smb.nes",
		System:         "nes",
		NormalizedName: "Super Mario Bros",
	}

	if _, err := matcher.MatchAll([]*rom.Record{r}); err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if r.GameName != "Super Mario Bros." {
		t.Errorf("GameName = %q, expected fuzzy match", r.GameName)
	}
}

func TestFuzzyThresholdIsStrict(t *testing.T) {
	resolver, _, dir := testResolver(t, testEntries)

	// Pin the threshold to the candidate's exact score: a score equal to
	// the threshold must not be accepted
	score := Similarity("super mario bros", "super mario bros.")
	matcher := New(&Config{
		Resolver:  resolver,
		Manual:    store.NewManualStore(filepath.Join(dir, "manual.json")),
		Threshold: score,
	})

	r := &rom.Record{
		Filename:       "smb.nes",
		System:         "nes",
		NormalizedName: "Super Mario Bros",
	}

	if _, err := matcher.MatchAll([]*rom.Record{r}); err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if r.Matched {
		t.Errorf("record matched at score == threshold, expected unmatched")
	}
	if len(matcher.Unmatched()) != 1 {
		t.Errorf("Unmatched() = %d records, expected 1", len(matcher.Unmatched()))
	}
}

func TestNoMatchBelowThreshold(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	r := &rom.Record{
		Filename:       "obscure.nes",
		System:         "nes",
		NormalizedName: "Totally Different Game",
	}

	result, err := matcher.MatchAll([]*rom.Record{r})
	if err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if result.Matched != 0 {
		t.Errorf("Matched = %d, expected 0", result.Matched)
	}
	if r.Matched {
		t.Errorf("record matched, expected unmatched")
	}
}

func TestManualMatchWinsOverChecksum(t *testing.T) {
	resolver, _, dir := testResolver(t, testEntries)
	manual := store.NewManualStore(filepath.Join(dir, "manual.json"))

	r := &rom.Record{
		Filename:       "smb-hack.nes",
		System:         "nes",
		CRC32:          "3337B3A5", // checksum tier would say Super Mario Bros.
		NormalizedName: "Super Mario Bros",
	}

	override := &gamedb.Entry{Name: "Super Mario Bros. (Hack)", ReleaseYear: 2004}
	if err := manual.Save(r, override); err != nil {
		t.Fatalf("failed to save manual match: %v", err)
	}

	matcher := New(&Config{Resolver: resolver, Manual: manual})
	result, err := matcher.MatchAll([]*rom.Record{r})
	if err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}

	if result.Manual != 1 {
		t.Errorf("Manual = %d, expected 1", result.Manual)
	}
	if r.GameName != "Super Mario Bros. (Hack)" {
		t.Errorf("GameName = %q, expected manual override to win", r.GameName)
	}
}

func TestMissingDatabase(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	records := []*rom.Record{
		{Filename: "a.sfc", System: "snes", NormalizedName: "A"},
		{Filename: "b.sfc", System: "snes", NormalizedName: "B"},
		{Filename: "c.nes", System: "nes", CRC32: "70080810"},
	}

	result, err := matcher.MatchAll(records)
	if err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}

	// The nes record still matches; the snes ones funnel to unmatched
	if result.Matched != 1 {
		t.Errorf("Matched = %d, expected 1", result.Matched)
	}
	if !matcher.HasMissingDatabases() {
		t.Error("HasMissingDatabases() = false, expected true")
	}
	missing := matcher.MissingSystems()
	if len(missing) != 1 || missing[0] != "snes" {
		t.Errorf("MissingSystems() = %v, expected [snes]", missing)
	}
}

func TestMissingSetResetsBetweenPasses(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	if _, err := matcher.MatchAll([]*rom.Record{
		{Filename: "a.sfc", System: "snes", NormalizedName: "A"},
	}); err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if !matcher.HasMissingDatabases() {
		t.Fatal("expected snes to be missing after first pass")
	}

	if _, err := matcher.MatchAll([]*rom.Record{
		{Filename: "c.nes", System: "nes", CRC32: "70080810"},
	}); err != nil {
		t.Fatalf("MatchAll failed: %v", err)
	}
	if matcher.HasMissingDatabases() {
		t.Error("missing set not reset at the start of a new pass")
	}
}

func TestFindSimilar(t *testing.T) {
	matcher, _ := testMatcher(t, testEntries)

	r := &rom.Record{
		Filename:       "smb.nes",
		System:         "nes",
		NormalizedName: "Super Mario Bros",
	}

	scored, err := matcher.FindSimilar(r, 2)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("len = %d, expected limit of 2", len(scored))
	}
	if scored[0].Entry.Name != "Super Mario Bros." {
		t.Errorf("best candidate = %q, expected Super Mario Bros.", scored[0].Entry.Name)
	}
	if scored[0].Score < scored[1].Score {
		t.Errorf("candidates not sorted by descending score: %v then %v",
			scored[0].Score, scored[1].Score)
	}
}

func TestFindSimilarStableTies(t *testing.T) {
	// Two dumps of the same game score identically; they must come back
	// in database order, not reshuffled by the sort
	matcher, _ := testMatcher(t, []gamedb.Entry{
		{Name: "Metroid", CRC: "70080810", Region: "USA"},
		{Name: "Metroid", CRC: "1C6D8F51", Region: "Europe"},
		{Name: "Kid Icarus", CRC: "D9F45BE9", Region: "USA"},
	})

	r := &rom.Record{
		Filename:       "metroid.nes",
		System:         "nes",
		NormalizedName: "Metroid",
	}

	scored, err := matcher.FindSimilar(r, 3)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("len = %d, expected 3", len(scored))
	}
	if scored[0].Score != scored[1].Score {
		t.Fatalf("tie candidates scored %v and %v, expected equal", scored[0].Score, scored[1].Score)
	}
	if scored[0].Entry.CRC != "70080810" || scored[1].Entry.CRC != "1C6D8F51" {
		t.Errorf("tie order = %q, %q, expected database order USA then Europe",
			scored[0].Entry.CRC, scored[1].Entry.CRC)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"metroid", "metroid", 1.0},
		{"", "", 1.0},
		{"abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.want)
		}
	}

	// Close names score high, unrelated names score low
	if s := Similarity("super mario bros", "super mario bros."); s <= 0.8 {
		t.Errorf("near-identical names scored %v, expected > 0.8", s)
	}
	if s := Similarity("super mario bros", "metroid"); s >= 0.5 {
		t.Errorf("unrelated names scored %v, expected < 0.5", s)
	}
}
