package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [system]",
	Short: "Show catalog statistics",
	Long: `Print per-system counts from the catalog: how many ROMs were
scanned, how many are matched, and how many are hacks. With a system
argument, list that system's ROMs instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("unmatched", false, "list only unmatched ROMs")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalog, err := store.Open(cfg.CatalogDB)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	if len(args) == 1 {
		onlyUnmatched, _ := cmd.Flags().GetBool("unmatched")
		return showSystem(catalog, args[0], onlyUnmatched)
	}
	return showStats(catalog)
}

func showStats(catalog *store.Store) error {
	stats, err := catalog.GetSystemStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		util.WarnLog("Catalog is empty, run 'rlc scan' first")
		return nil
	}

	fmt.Printf("%-20s %8s %8s %8s %10s\n", "System", "ROMs", "Matched", "Hacks", "Size")
	fmt.Printf("%-20s %8s %8s %8s %10s\n", "------", "----", "-------", "-----", "----")

	var totalRoms, totalMatched, totalHacks int
	var totalBytes int64
	for _, s := range stats {
		fmt.Printf("%-20s %8d %8d %8d %10s\n",
			s.System, s.Count, s.Matched, s.Hacks, humanize.Bytes(uint64(s.SizeBytes)))
		totalRoms += s.Count
		totalMatched += s.Matched
		totalHacks += s.Hacks
		totalBytes += s.SizeBytes
	}

	fmt.Printf("%-20s %8s %8s %8s %10s\n", "", "----", "-------", "-----", "----")
	fmt.Printf("%-20s %8d %8d %8d %10s\n",
		"Total", totalRoms, totalMatched, totalHacks, humanize.Bytes(uint64(totalBytes)))

	if totalRoms > 0 {
		fmt.Printf("\nMatch rate: %.1f%%\n", float64(totalMatched)/float64(totalRoms)*100)
	}
	return nil
}

func showSystem(catalog *store.Store, system string, onlyUnmatched bool) error {
	records, err := catalog.GetRomsBySystem(system)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		util.WarnLog("No ROMs cataloged for system %q", system)
		return nil
	}

	shown := 0
	for _, r := range records {
		if onlyUnmatched && r.Matched {
			continue
		}
		marker := " "
		if r.Matched {
			marker = "*"
		} else if r.IsHack {
			marker = "h"
		}
		label := r.GameName
		if label == "" {
			label = r.NormalizedName
		}
		fmt.Printf("%s %-45s %-10s %s\n", marker, truncate(label, 45), r.CRC32, r.Filename)
		shown++
	}

	fmt.Printf("\n%d ROM(s)  (* matched, h hack)\n", shown)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
