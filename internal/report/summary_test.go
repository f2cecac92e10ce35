package report

import (
	"strings"
	"testing"
)

func TestOneline(t *testing.T) {
	s := &RunSummary{RomsScanned: 1500, Matched: 1200}
	got := s.Oneline()
	if got != "1,500 roms, 1,200 matched" {
		t.Errorf("Oneline = %q", got)
	}

	s.MissingDatabases = []string{"snes", "gba"}
	got = s.Oneline()
	if !strings.HasSuffix(got, "2 missing dbs") {
		t.Errorf("Oneline = %q, expected missing db suffix", got)
	}
}
