package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open event log: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad JSONL line %q: %v", scanner.Text(), err)
		}
		events = append(events, e)
	}
	return events
}

func TestEventLogger(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	if err := logger.LogScan("AABBCCDD", "/roms/a.nes", "nes", 1024); err != nil {
		t.Errorf("LogScan failed: %v", err)
	}
	if err := logger.LogMatch("AABBCCDD", "/roms/a.nes", "Game A", "auto"); err != nil {
		t.Errorf("LogMatch failed: %v", err)
	}
	if err := logger.LogUnmatched("EEFF0011", "/roms/b.nes"); err != nil {
		t.Errorf("LogUnmatched failed: %v", err)
	}
	if err := logger.LogError("nes", errors.New("boom")); err != nil {
		t.Errorf("LogError failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events := readEvents(t, logger.Path())
	if len(events) != 4 {
		t.Fatalf("len = %d, expected 4 events", len(events))
	}

	if events[0].Event != EventScan || events[0].Extra["size_bytes"] != "1024" {
		t.Errorf("scan event = %+v", events[0])
	}
	if events[1].Tier != "auto" || events[1].GameName != "Game A" {
		t.Errorf("match event = %+v", events[1])
	}
	if events[2].Level != LevelWarning {
		t.Errorf("unmatched event level = %q, expected warning", events[2].Level)
	}
	if events[3].Error != "boom" {
		t.Errorf("error event = %+v", events[3])
	}

	for _, e := range events {
		if e.Timestamp.IsZero() {
			t.Error("event written without a timestamp")
		}
	}
}

func TestEventLoggerMinLevel(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelWarning)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	// Info-level events are filtered out
	if err := logger.LogScan("AABBCCDD", "/roms/a.nes", "nes", 1024); err != nil {
		t.Errorf("LogScan failed: %v", err)
	}
	if err := logger.LogUnmatched("EEFF0011", "/roms/b.nes"); err != nil {
		t.Errorf("LogUnmatched failed: %v", err)
	}
	logger.Close()

	events := readEvents(t, logger.Path())
	if len(events) != 1 || events[0].Event != EventUnmatched {
		t.Errorf("events = %+v, expected only the warning", events)
	}
}

func TestNullLogger(t *testing.T) {
	logger := NullLogger()
	if err := logger.LogScan("k", "/p", "nes", 1); err != nil {
		t.Errorf("NullLogger.LogScan = %v, expected nil", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("NullLogger.Close = %v, expected nil", err)
	}
	if logger.Path() != "" {
		t.Errorf("NullLogger.Path = %q, expected empty", logger.Path())
	}
}
