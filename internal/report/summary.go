package report

import (
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/franz/rom-janitor/internal/util"
)

// SystemSummary aggregates one system's scan/match results
type SystemSummary struct {
	System    string
	Roms      int
	Matched   int
	Hacks     int
	SizeBytes int64
}

// RunSummary represents a complete scan-and-match run
type RunSummary struct {
	GeneratedAt time.Time
	Duration    time.Duration

	RomsScanned int
	Matched     int
	Unmatched   int
	HackCount   int

	Systems          []SystemSummary
	MissingDatabases []string
	EventLogPath     string
}

// Print writes the summary through the standard logger
func (s *RunSummary) Print() {
	util.InfoLog("")
	util.SuccessLog("=== Run Summary ===")
	util.InfoLog("Total ROMs: %d", s.RomsScanned)
	util.InfoLog("Matched: %d/%d", s.Matched, s.RomsScanned)
	if s.HackCount > 0 {
		util.InfoLog("Hacks/mods: %d", s.HackCount)
	}
	if s.Duration > 0 {
		util.InfoLog("Duration: %v", s.Duration.Round(time.Millisecond))
	}

	sort.Slice(s.Systems, func(i, j int) bool {
		return s.Systems[i].System < s.Systems[j].System
	})

	for _, sys := range s.Systems {
		util.InfoLog("")
		util.InfoLog("  %s:", sys.System)
		util.InfoLog("    ROMs: %d", sys.Roms)
		util.InfoLog("    Size: %s", humanize.Bytes(uint64(sys.SizeBytes)))
		util.InfoLog("    Matched: %d/%d", sys.Matched, sys.Roms)
		if sys.Hacks > 0 {
			util.InfoLog("    Hacks: %d", sys.Hacks)
		}
	}

	if len(s.MissingDatabases) > 0 {
		util.InfoLog("")
		util.WarnLog("Missing databases for %d system(s):", len(s.MissingDatabases))
		for _, system := range s.MissingDatabases {
			util.WarnLog("  - %s", system)
		}
		util.WarnLog("Run 'rlc fetch db' to download missing databases")
	}

	if s.Unmatched > 0 {
		util.InfoLog("")
		util.InfoLog("Unmatched ROMs: %d (use 'rlc match' to resolve interactively)", s.Unmatched)
	}

	if s.EventLogPath != "" {
		util.InfoLog("")
		util.InfoLog("Event log: %s", s.EventLogPath)
	}
}

// Oneline returns a compact single-line form for status output
func (s *RunSummary) Oneline() string {
	var b strings.Builder
	b.WriteString(humanize.Comma(int64(s.RomsScanned)))
	b.WriteString(" roms, ")
	b.WriteString(humanize.Comma(int64(s.Matched)))
	b.WriteString(" matched")
	if len(s.MissingDatabases) > 0 {
		b.WriteString(", ")
		b.WriteString(humanize.Comma(int64(len(s.MissingDatabases))))
		b.WriteString(" missing dbs")
	}
	return b.String()
}
