package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/franz/rom-janitor/internal/fetch"
	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/match"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Interactively resolve unmatched ROMs",
	Long: `Walk through every unmatched ROM in the catalog and pick the right
game from a list of similar database entries.

Confirmed picks are written to the manual match store and win over
automatic matching on every later run. Type 's' at the prompt to search
the database with a custom query, 'o' to search the LaunchBox Games
Database online, '0' to skip a ROM, or 'q' to stop.`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().IntP("limit", "n", 10, "number of candidates to show")
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !util.IsInteractive() {
		return fmt.Errorf("match requires an interactive terminal")
	}

	limit, _ := cmd.Flags().GetInt("limit")

	catalog, err := store.Open(cfg.CatalogDB)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	unmatched, err := catalog.GetUnmatchedRoms()
	if err != nil {
		return err
	}
	if len(unmatched) == 0 {
		util.SuccessLog("No unmatched ROMs in the catalog")
		return nil
	}

	query, err := buildQueryService(cfg)
	if err != nil {
		return err
	}

	logger := openEventLogger()
	defer logger.Close()

	resolver := gamedb.NewResolver(cfg, query)
	matcher := match.New(&match.Config{
		Resolver: resolver,
		Manual:   store.NewManualStore(cfg.ManualMatchesDB),
		Logger:   logger,
	})
	manualStore := store.NewManualStore(cfg.ManualMatchesDB)
	unmatchedStore := store.NewUnmatchedStore(cfg.UnmatchedDB)
	launchbox := fetch.NewLaunchBox(cfg)

	util.InfoLog("%d unmatched ROM(s) to resolve", len(unmatched))

	reader := bufio.NewReader(os.Stdin)
	resolved := 0

	for i, record := range unmatched {
		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Printf("[%d/%d] ROM: %s\n", i+1, len(unmatched), record.Filename)
		fmt.Printf("System: %s\n", record.System)
		if record.CRC32 != "" {
			fmt.Printf("CRC32: %s\n", record.CRC32)
		}
		fmt.Printf("Normalized name: %s\n", record.NormalizedName)
		fmt.Printf("%s\n", strings.Repeat("=", 60))

		entry, quit := pickEntry(reader, matcher, resolver, launchbox, record, limit)
		if quit {
			break
		}
		if entry == nil {
			continue
		}

		if err := manualStore.Save(record, entry); err != nil {
			util.ErrorLog("Failed to save manual match: %v", err)
			continue
		}
		if err := unmatchedStore.Remove(record.Key()); err != nil {
			util.WarnLog("Failed to prune unmatched store: %v", err)
		}

		record.SetMatch(entry.Name, entry.ReleaseYear, entry.Developer, entry.Publisher)
		if err := catalog.UpdateRomMatch(record); err != nil {
			util.WarnLog("Failed to update catalog: %v", err)
		}

		logger.LogMatch(record.Key(), record.Path, entry.Name, "manual")
		util.SuccessLog("Matched: %s -> %s", record.Filename, entry.Name)
		resolved++
	}

	util.InfoLog("")
	util.SuccessLog("Resolved %d ROM(s) this session", resolved)
	return nil
}

// pickEntry drives one ROM's prompt loop. Returns (nil, true) when the
// user quits the session, (nil, false) on skip.
func pickEntry(reader *bufio.Reader, matcher *match.Matcher, resolver *gamedb.Resolver, launchbox *fetch.LaunchBox, record *rom.Record, limit int) (*gamedb.Entry, bool) {
	candidates, err := matcher.FindSimilar(record, limit)
	if err != nil {
		util.ErrorLog("Failed to find candidates: %v", err)
		return nil, false
	}

	if len(candidates) == 0 {
		// Still offer the search paths: a missing or thin database is
		// exactly when the online fallback earns its keep
		util.WarnLog("No candidates found in the %s database", record.System)
	} else {
		fmt.Println("\nSimilar games:")
		printScored(candidates)
	}
	fmt.Println("\n  0. None of these / skip")
	fmt.Println("  s. Search with a custom query")
	fmt.Println("  o. Search online (LaunchBox)")
	fmt.Println("  q. Quit")

	for {
		fmt.Print("\nSelect a match: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, true
		}
		choice := strings.ToLower(strings.TrimSpace(line))

		switch choice {
		case "q":
			return nil, true
		case "0":
			return nil, false
		case "s":
			if entry := customSearch(reader, resolver, record.System); entry != nil {
				return entry, false
			}
			continue
		case "o":
			if entry := onlineSearch(reader, launchbox, record); entry != nil {
				return entry, false
			}
			continue
		default:
			idx, err := strconv.Atoi(choice)
			if err != nil || idx < 1 || idx > len(candidates) {
				fmt.Println("Invalid choice")
				continue
			}
			entry := candidates[idx-1].Entry
			return &entry, false
		}
	}
}

func printScored(candidates []match.Scored) {
	for i, c := range candidates {
		fmt.Printf("  %d. %s\n", i+1, c.Entry.Name)
		fmt.Printf("     Region: %s | Year: %s | CRC: %s | Match: %.1f%%\n",
			orNA(c.Entry.Region), orNAInt(c.Entry.ReleaseYear), orNA(c.Entry.CRC), c.Score*100)
	}
}

func customSearch(reader *bufio.Reader, resolver *gamedb.Resolver, system string) *gamedb.Entry {
	fmt.Print("Enter search query: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil
	}
	query := strings.TrimSpace(line)
	if query == "" {
		return nil
	}

	db, err := resolver.Database(system)
	if err != nil {
		util.ErrorLog("Database unavailable for %s: %v", system, err)
		return nil
	}

	entries, err := db.SearchName(query)
	if err != nil {
		util.ErrorLog("Search failed: %v", err)
		return nil
	}
	return chooseFromEntries(reader, entries)
}

// onlineSearch falls back to the LaunchBox Games Database when the local
// database has nothing usable. A confirmed pick carries provenance fields
// into the manual match store.
func onlineSearch(reader *bufio.Reader, launchbox *fetch.LaunchBox, record *rom.Record) *gamedb.Entry {
	defaultQuery := record.NormalizedName
	if defaultQuery == "" {
		defaultQuery = record.Filename
	}

	fmt.Printf("Search query [%s]: ", defaultQuery)
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil
	}
	query := strings.TrimSpace(line)
	if query == "" {
		query = defaultQuery
	}

	util.InfoLog("Searching LaunchBox for %q", query)
	entries, err := launchbox.Search(query, record.System)
	if err != nil {
		util.ErrorLog("LaunchBox search failed: %v", err)
		return nil
	}
	return chooseFromEntries(reader, entries)
}

// chooseFromEntries shows up to 15 search results and prompts until the
// user picks one or backs out
func chooseFromEntries(reader *bufio.Reader, entries []gamedb.Entry) *gamedb.Entry {
	if len(entries) == 0 {
		fmt.Println("No results found")
		return nil
	}

	displayLimit := 15
	if len(entries) < displayLimit {
		displayLimit = len(entries)
	}

	fmt.Printf("\nFound %d result(s):\n", len(entries))
	for i := 0; i < displayLimit; i++ {
		fmt.Printf("  %d. %s\n", i+1, entries[i].Name)
		fmt.Printf("     Region: %s | Year: %s | CRC: %s\n",
			orNA(entries[i].Region), orNAInt(entries[i].ReleaseYear), orNA(entries[i].CRC))
	}
	if len(entries) > displayLimit {
		fmt.Printf("  ... and %d more result(s)\n", len(entries)-displayLimit)
	}
	fmt.Println("\n  0. Back")

	for {
		fmt.Print("\nSelect a match: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || idx < 0 || idx > displayLimit {
			fmt.Println("Invalid choice")
			continue
		}
		if idx == 0 {
			return nil
		}
		return &entries[idx-1]
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNAInt(n int) string {
	if n == 0 {
		return "N/A"
	}
	return strconv.Itoa(n)
}
