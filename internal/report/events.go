package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventScan      EventType = "scan"
	EventChecksum  EventType = "checksum"
	EventMatch     EventType = "match"
	EventUnmatched EventType = "unmatched"
	EventFetch     EventType = "fetch"
	EventPlaylist  EventType = "playlist"
	EventError     EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the pipeline
type Event struct {
	Timestamp time.Time         `json:"ts"`
	Level     EventLevel        `json:"level"`
	Event     EventType         `json:"event"`
	RomKey    string            `json:"rom_key,omitempty"`
	Path      string            `json:"path,omitempty"`
	System    string            `json:"system,omitempty"`
	GameName  string            `json:"game_name,omitempty"`
	Tier      string            `json:"tier,omitempty"`
	Error     string            `json:"error,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level.
// Events below minLevel are not written.
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(outputDir, fmt.Sprintf("events-%s.jsonl", timestamp))

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogScan logs discovery of one ROM file
func (l *EventLogger) LogScan(romKey, path, system string, sizeBytes int64) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  EventScan,
		RomKey: romKey,
		Path:   path,
		System: system,
		Extra: map[string]string{
			"size_bytes": fmt.Sprintf("%d", sizeBytes),
		},
	})
}

// LogChecksum logs the checksum outcome for one file
func (l *EventLogger) LogChecksum(romKey, path, crc string) error {
	level := LevelDebug
	if crc == "" {
		level = LevelWarning
	}
	return l.Log(&Event{
		Level:  level,
		Event:  EventChecksum,
		RomKey: romKey,
		Path:   path,
		Extra: map[string]string{
			"crc32": crc,
		},
	})
}

// LogMatch logs a resolved match; tier is "manual" or "auto"
func (l *EventLogger) LogMatch(romKey, path, gameName, tier string) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventMatch,
		RomKey:   romKey,
		Path:     path,
		GameName: gameName,
		Tier:     tier,
	})
}

// LogUnmatched logs a record that exhausted every tier
func (l *EventLogger) LogUnmatched(romKey, path string) error {
	return l.Log(&Event{
		Level:  LevelWarning,
		Event:  EventUnmatched,
		RomKey: romKey,
		Path:   path,
	})
}

// LogFetch logs a download attempt for a database or thumbnail
func (l *EventLogger) LogFetch(system, url string, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}
	return l.Log(&Event{
		Level:  level,
		Event:  EventFetch,
		System: system,
		Path:   url,
		Error:  errMsg,
	})
}

// LogPlaylist logs emission of one playlist file
func (l *EventLogger) LogPlaylist(system, path string, entryCount int) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  EventPlaylist,
		System: system,
		Path:   path,
		Extra: map[string]string{
			"entries": fmt.Sprintf("%d", entryCount),
		},
	})
}

// LogError logs a pipeline error
func (l *EventLogger) LogError(context string, err error) error {
	return l.Log(&Event{
		Level:  LevelError,
		Event:  EventError,
		System: context,
		Error:  err.Error(),
	})
}

// Close flushes and closes the event log
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Path returns the path of the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NullLogger returns a logger that discards all events
func NullLogger() *EventLogger {
	return &EventLogger{}
}
