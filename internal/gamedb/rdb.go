package gamedb

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/franz/rom-janitor/internal/util"
)

// QueryService abstracts the row-query capability over an RDB database
// file so the matcher's tier logic is testable without the external
// binary. The production adapter shells out to libretrodb_tool; tests use
// a fixture-backed implementation.
type QueryService interface {
	List(dbPath string) ([]Entry, error)
	FindByCRC(dbPath, crc string) (*Entry, error)
	FindByNameGlob(dbPath, pattern string) ([]Entry, error)
	FindBySerial(dbPath, serial string) (*Entry, error)
	GetNames(dbPath, query string) ([]string, error)
	CreateIndex(dbPath, indexName, fieldName string) error
}

// ToolQueryService runs libretrodb_tool as a subprocess.
// Invocation: libretrodb_tool <db_path> <command> [args...]
type ToolQueryService struct {
	toolPath string
}

// NewToolQueryService validates the tool path and returns the service.
// A missing or non-regular tool is a configuration precondition failure
// and aborts before any matching begins.
func NewToolQueryService(toolPath string) (*ToolQueryService, error) {
	info, err := os.Stat(toolPath)
	if err != nil {
		return nil, fmt.Errorf("libretrodb_tool not found at %s: %w", toolPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("libretrodb_tool is not a regular file: %s", toolPath)
	}
	return &ToolQueryService{toolPath: toolPath}, nil
}

// run executes one tool command and returns its stdout.
// libretrodb_tool exits with status 1 even on success; a non-zero exit is
// only an error when stderr carries a diagnostic.
func (s *ToolQueryService) run(dbPath, command string, args ...string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", util.ErrDatabaseMissing, dbPath)
	}

	cmdArgs := append([]string{dbPath, command}, args...)
	cmd := exec.Command(s.toolPath, cmdArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && strings.TrimSpace(stderr.String()) != "" {
		return "", fmt.Errorf("libretrodb_tool %s failed: %s", command, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// parseEntries decodes the tool's line-oriented JSON output.
// Blank lines and lines that fail to parse are silently skipped.
func parseEntries(output string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// List dumps all rows in the database
func (s *ToolQueryService) List(dbPath string) ([]Entry, error) {
	output, err := s.run(dbPath, "list")
	if err != nil {
		return nil, err
	}
	return parseEntries(output), nil
}

// FindByCRC looks up the row whose crc field equals the given checksum
func (s *ToolQueryService) FindByCRC(dbPath, crc string) (*Entry, error) {
	crc = strings.ToUpper(strings.TrimPrefix(strings.ToUpper(crc), "0X"))

	output, err := s.run(dbPath, "find", fmt.Sprintf("{'crc':b'%s'}", crc))
	if err != nil {
		return nil, err
	}
	entries := parseEntries(output)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// FindByNameGlob returns all rows whose name matches a glob pattern,
// in the order the tool emits them
func (s *ToolQueryService) FindByNameGlob(dbPath, pattern string) ([]Entry, error) {
	output, err := s.run(dbPath, "find", fmt.Sprintf("{'name':glob('%s')}", escapeQuery(pattern)))
	if err != nil {
		return nil, err
	}
	return parseEntries(output), nil
}

// FindBySerial looks up a row by cartridge/disc serial
func (s *ToolQueryService) FindBySerial(dbPath, serial string) (*Entry, error) {
	output, err := s.run(dbPath, "find", fmt.Sprintf("{'serial':'%s'}", escapeQuery(serial)))
	if err != nil {
		return nil, err
	}
	entries := parseEntries(output)
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// GetNames returns only the name field of rows matching a query expression
func (s *ToolQueryService) GetNames(dbPath, query string) ([]string, error) {
	output, err := s.run(dbPath, "get-names", query)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// CreateIndex builds a tool-side index over a database field
func (s *ToolQueryService) CreateIndex(dbPath, indexName, fieldName string) error {
	_, err := s.run(dbPath, "create-index", indexName, fieldName)
	return err
}

// escapeQuery keeps single quotes in user-supplied names from breaking
// the tool's query expression syntax
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
