package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the environment and configuration",
	Long: `Run diagnostic checks to ensure rlc can operate correctly.

This command checks:
- libretrodb_tool availability (needed for .rdb database queries)
- Configuration paths (ROMs, playlists, reference databases)
- Reference database coverage per configured system
- Catalog accessibility and integrity
- SQLite version compatibility

Use this command to troubleshoot issues before running rlc operations.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	util.InfoLog("=== RLC Doctor - System Diagnostics ===")
	util.InfoLog("")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results := []checkResult{}

	results = append(results, checkQueryTool(cfg))
	results = append(results, checkSQLite())
	results = append(results, checkCatalog(cfg.CatalogDB))
	results = append(results, checkConfigPaths(cfg)...)
	results = append(results, checkDatabases(cfg))

	util.InfoLog("")
	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("❌ Some critical checks failed. Please resolve errors before running rlc.")
		return fmt.Errorf("system diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("⚠️  Some checks produced warnings. Review them before proceeding.")
	} else {
		util.SuccessLog("✅ All checks passed! System is ready for rlc operations.")
	}

	return nil
}

// checkQueryTool verifies libretrodb_tool is reachable. Matching falls
// back to JSON databases without it, so absence is a warning.
func checkQueryTool(cfg *config.Config) checkResult {
	toolPath := cfg.ToolPath
	if toolPath == "" {
		found, err := exec.LookPath("libretrodb_tool")
		if err != nil {
			return checkResult{
				name:    "libretrodb_tool",
				warning: true,
				message: "not found in PATH (only JSON databases will be queried)",
			}
		}
		toolPath = found
	}

	info, err := os.Stat(toolPath)
	if err != nil {
		return checkResult{
			name:    "libretrodb_tool",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", toolPath, err),
		}
	}
	if !info.Mode().IsRegular() {
		return checkResult{
			name:    "libretrodb_tool",
			error:   true,
			message: fmt.Sprintf("%s is not a regular file", toolPath),
		}
	}

	return checkResult{
		name:    "libretrodb_tool",
		message: toolPath,
	}
}

// checkSQLite verifies the embedded SQLite engine
func checkSQLite() checkResult {
	version := store.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}
	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkCatalog verifies the catalog database is accessible and intact
func checkCatalog(dbPath string) checkResult {
	if dbPath == "" {
		return checkResult{
			name:    "Catalog",
			warning: true,
			message: "no catalog path specified (use --catalog flag or config)",
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return checkResult{
			name:    "Catalog",
			message: fmt.Sprintf("%s (will be created on first scan)", dbPath),
		}
	}

	catalog, err := store.Open(dbPath)
	if err != nil {
		return checkResult{
			name:    "Catalog",
			error:   true,
			message: fmt.Sprintf("cannot open %s: %v", dbPath, err),
		}
	}
	defer catalog.Close()

	if err := catalog.CheckIntegrity(); err != nil {
		return checkResult{
			name:    "Catalog",
			error:   true,
			message: fmt.Sprintf("integrity check failed: %v", err),
		}
	}

	return checkResult{
		name:    "Catalog",
		message: fmt.Sprintf("%s (integrity ok)", dbPath),
	}
}

// checkConfigPaths runs the config validator and reports each problem
func checkConfigPaths(cfg *config.Config) []checkResult {
	problems := cfg.Validate()
	if len(problems) == 0 {
		return []checkResult{{
			name:    "Configuration",
			message: "all configured paths exist",
		}}
	}

	results := make([]checkResult, 0, len(problems))
	for _, p := range problems {
		results = append(results, checkResult{
			name:    "Configuration",
			warning: true,
			message: p,
		})
	}
	return results
}

// checkDatabases counts how many configured systems have a reference
// database on disk
func checkDatabases(cfg *config.Config) checkResult {
	if len(cfg.Cores) == 0 {
		return checkResult{
			name:    "Reference databases",
			warning: true,
			message: "no systems configured",
		}
	}

	var present, missing int
	var missingNames []string
	for system := range cfg.Cores {
		dbFile := cfg.DatabaseFile(system)
		if dbFile == "" {
			continue
		}
		if _, err := os.Stat(filepath.Clean(dbFile)); err != nil {
			missing++
			missingNames = append(missingNames, system)
			continue
		}
		present++
	}

	if missing > 0 {
		sort.Strings(missingNames)
		return checkResult{
			name:    "Reference databases",
			warning: true,
			message: fmt.Sprintf("%d of %d present, missing: %s (run 'rlc fetch db')",
				present, present+missing, strings.Join(missingNames, ", ")),
		}
	}

	return checkResult{
		name:    "Reference databases",
		message: fmt.Sprintf("all %d present", present),
	}
}
