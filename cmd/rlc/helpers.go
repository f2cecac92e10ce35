package main

import (
	"fmt"
	"os/exec"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/gamedb"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/util"
	"github.com/spf13/viper"
)

// loadConfig materializes the configuration and applies log verbosity
func loadConfig() (*config.Config, error) {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openEventLogger opens the JSONL audit log under artifacts/, degrading
// to a null logger when the directory cannot be created
func openEventLogger() *report.EventLogger {
	level := report.LevelInfo
	if viper.GetBool("quiet") {
		level = report.LevelWarning
	} else if viper.GetBool("verbose") {
		level = report.LevelDebug
	}

	logger, err := report.NewEventLogger("artifacts", level)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		return report.NullLogger()
	}
	if logger.Path() != "" {
		util.DebugLog("Event log: %s", logger.Path())
	}
	return logger
}

// buildQueryService wires the libretrodb_tool adapter. A configured tool
// path that does not check out is a hard error; an unconfigured one falls
// back to PATH lookup, and RDB databases are simply unavailable when the
// tool cannot be found at all.
func buildQueryService(cfg *config.Config) (gamedb.QueryService, error) {
	toolPath := cfg.ToolPath
	if toolPath == "" {
		found, err := exec.LookPath("libretrodb_tool")
		if err != nil {
			util.WarnLog("libretrodb_tool not found in PATH; RDB databases will be unavailable")
			util.WarnLog("Set tool_path in the config to enable RDB queries")
			return nil, nil
		}
		toolPath = found
	}

	service, err := gamedb.NewToolQueryService(toolPath)
	if err != nil {
		return nil, fmt.Errorf("row-query tool check failed: %w", err)
	}
	return service, nil
}
