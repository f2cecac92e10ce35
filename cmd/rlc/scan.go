package main

import (
	"context"
	"fmt"
	"time"

	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/match"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/scan"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan the ROM collection and match it against the databases",
	Long: `Scan the ROM directory and resolve every file's identity.

This command performs two operations:
1. Discovery: walks the ROM directory, checksums each file (including
   inside zip/7z containers) and normalizes its name
2. Matching: resolves each ROM against its system's reference database
   using manual overrides first, then checksum, exact name and fuzzy
   name matching

ROMs that no tier can resolve are written to the unmatched store for
interactive resolution with 'rlc match'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("no-crc", false, "skip checksum computation (name matching only)")
	scanCmd.Flags().Bool("no-recursive", false, "do not scan subdirectories")
	scanCmd.Flags().IntP("concurrency", "c", 4, "parallel checksum workers")
	scanCmd.Flags().Float64("threshold", match.DefaultThreshold, "fuzzy match acceptance threshold")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scanPath := cfg.RomsPath
	if len(args) > 0 {
		scanPath = args[0]
	}
	if scanPath == "" {
		return fmt.Errorf("no ROM path configured (run 'rlc init' or pass a path)")
	}

	noCRC, _ := cmd.Flags().GetBool("no-crc")
	noRecursive, _ := cmd.Flags().GetBool("no-recursive")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	logger := openEventLogger()
	defer logger.Close()

	catalog, err := store.Open(cfg.CatalogDB)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	// The row-query tool is a startup precondition for RDB databases;
	// a broken configured path fails here, before any matching begins
	query, err := buildQueryService(cfg)
	if err != nil {
		return err
	}

	startTime := time.Now()

	// Phase 1: Discovery
	util.InfoLog("=== Phase 1: Scanning ROMs ===")

	scanner := scan.New(&scan.Config{
		Config:      cfg,
		Store:       catalog,
		Logger:      logger,
		Concurrency: concurrency,
		Checksums:   !noCRC,
		Recursive:   !noRecursive,
	})

	scanResult, err := scanner.Scan(ctx, scanPath)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(scanResult.Records) == 0 {
		util.WarnLog("No ROM files found in %s", scanPath)
		return nil
	}

	util.SuccessLog("Discovery complete: %d ROMs in %v",
		len(scanResult.Records), time.Since(startTime).Round(time.Millisecond))

	// Phase 2: Matching
	util.InfoLog("")
	util.InfoLog("=== Phase 2: Matching ROMs to databases ===")

	matcher := match.New(&match.Config{
		Resolver:  gamedb.NewResolver(cfg, query),
		Manual:    store.NewManualStore(cfg.ManualMatchesDB),
		Logger:    logger,
		Threshold: threshold,
	})

	matchResult, err := matcher.MatchAll(scanResult.Records)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	// Persist match outcomes back to the catalog
	for _, r := range scanResult.Records {
		if err := catalog.UpdateRomMatch(r); err != nil {
			util.WarnLog("Failed to record match for %s: %v", r.Filename, err)
		}
	}

	// Persist unresolved records for later manual completion
	unmatched := matcher.Unmatched()
	if len(unmatched) > 0 {
		unmatchedStore := store.NewUnmatchedStore(cfg.UnmatchedDB)
		added, err := unmatchedStore.SaveAll(unmatched)
		if err != nil {
			util.ErrorLog("Failed to save unmatched ROMs: %v", err)
		} else if added > 0 {
			util.InfoLog("Saved %d new unmatched ROM(s) to %s", added, cfg.UnmatchedDB)
		}
	}

	summary := buildSummary(scanResult, matchResult, matcher, logger)
	summary.Duration = time.Since(startTime)
	summary.Print()

	if !viper.GetBool("quiet") {
		util.InfoLog("")
		util.InfoLog("Next step: rlc playlist")
	}

	return nil
}

func buildSummary(scanResult *scan.Result, matchResult *match.Result, matcher *match.Matcher, logger *report.EventLogger) *report.RunSummary {
	summary := &report.RunSummary{
		GeneratedAt:      time.Now(),
		RomsScanned:      len(scanResult.Records),
		Matched:          matchResult.Matched,
		Unmatched:        len(matcher.Unmatched()),
		MissingDatabases: matcher.MissingSystems(),
		EventLogPath:     logger.Path(),
	}

	bySystem := make(map[string]*report.SystemSummary)
	for _, r := range scanResult.Records {
		sys, ok := bySystem[r.System]
		if !ok {
			sys = &report.SystemSummary{System: r.System}
			bySystem[r.System] = sys
		}
		sys.Roms++
		sys.SizeBytes += r.Size
		if r.Matched {
			sys.Matched++
		}
		if r.IsHack {
			sys.Hacks++
			summary.HackCount++
		}
	}
	for _, sys := range bySystem {
		summary.Systems = append(summary.Systems, *sys)
	}

	return summary
}
