package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/franz/rom-janitor/internal/config"
	"github.com/franz/rom-janitor/internal/report"
	"github.com/franz/rom-janitor/internal/rom"
	"github.com/franz/rom-janitor/internal/store"
	"github.com/franz/rom-janitor/internal/util"
)

// Scanner discovers ROM files in a directory tree and populates records
// with checksum, normalized name, hack flag and region.
type Scanner struct {
	cfg         *config.Config
	store       *store.Store
	logger      *report.EventLogger
	concurrency int
	checksums   bool
	recursive   bool
}

// Config holds scanner configuration
type Config struct {
	Config      *config.Config
	Store       *store.Store // optional; records are cataloged when set
	Logger      *report.EventLogger
	Concurrency int
	Checksums   bool // compute CRC-32 checksums (slow on large archives)
	Recursive   bool
}

// New creates a new Scanner
func New(cfg *Config) *Scanner {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = report.NullLogger()
	}
	return &Scanner{
		cfg:         cfg.Config,
		store:       cfg.Store,
		logger:      logger,
		concurrency: concurrency,
		checksums:   cfg.Checksums,
		recursive:   cfg.Recursive,
	}
}

// Result represents a scan result
type Result struct {
	Records    []*rom.Record
	Discovered int
	Skipped    int
	Errors     []error
}

// Scan walks the source directory, identifies ROM files by extension and
// processes them through a worker pool. Checksum extraction parallelizes
// across files; catalog writes are serialized on a single writer.
func (s *Scanner) Scan(ctx context.Context, sourcePath string) (*Result, error) {
	util.InfoLog("Scanning directory: %s", sourcePath)

	extensions := make(map[string]bool)
	for _, ext := range s.cfg.AllExtensions() {
		extensions[ext] = true
	}

	paths, skipped, err := s.discover(ctx, sourcePath, extensions)
	if err != nil {
		return nil, err
	}

	util.InfoLog("Found %d ROM files", len(paths))

	result := &Result{Discovered: len(paths), Skipped: skipped}
	if len(paths) == 0 {
		return result, nil
	}

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	pathCh := make(chan string, 100)
	recordCh := make(chan *rom.Record, 100)

	var processed atomic.Int64
	var errMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				record, err := s.processRom(path)
				processed.Add(1)
				if bar != nil {
					bar.Set64(processed.Load())
				}

				if err != nil {
					util.WarnLog("Failed to process %s: %v", path, err)
					errMu.Lock()
					result.Errors = append(result.Errors, err)
					errMu.Unlock()
					continue
				}
				if record != nil {
					recordCh <- record
				}
			}
		}()
	}

	// Single writer: catalog inserts and the record list are not
	// concurrency-safe, so they stay on one goroutine
	var writerWg sync.WaitGroup
	writerWg.Add(1)
	go func() {
		defer writerWg.Done()
		for record := range recordCh {
			result.Records = append(result.Records, record)
			s.logger.LogScan(record.Key(), record.Path, record.System, record.Size)
			if s.checksums {
				s.logger.LogChecksum(record.Key(), record.Path, record.CRC32)
			}
			if s.store != nil {
				if err := s.store.UpsertRom(record); err != nil {
					util.ErrorLog("Failed to catalog %s: %v", record.Path, err)
					errMu.Lock()
					result.Errors = append(result.Errors, err)
					errMu.Unlock()
				}
			}
		}
	}()

feed:
	for _, path := range paths {
		select {
		case <-ctx.Done():
			break feed
		case pathCh <- path:
		}
	}
	close(pathCh)
	wg.Wait()
	close(recordCh)
	writerWg.Wait()

	if bar != nil {
		bar.Finish()
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// discover collects candidate file paths under sourcePath.
// Access errors are logged and skipped so one unreadable directory does
// not abort the scan.
func (s *Scanner) discover(ctx context.Context, sourcePath string, extensions map[string]bool) ([]string, int, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, 0, fmt.Errorf("cannot access scan path: %w", err)
	}

	var paths []string
	skipped := 0

	err := filepath.WalkDir(sourcePath, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			util.WarnLog("Error accessing path %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if !s.recursive && path != sourcePath {
				return fs.SkipDir
			}
			return nil
		}

		if extensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		} else {
			skipped++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return paths, skipped, nil
}

// processRom builds a full record for one ROM file
func (s *Scanner) processRom(path string) (*rom.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	system, _ := s.cfg.SystemForExtension(ext)
	if system == "" {
		util.DebugLog("No system configured for extension %s: %s", ext, path)
		return nil, nil
	}

	filename := filepath.Base(path)

	record := &rom.Record{
		Path:           path,
		Filename:       filename,
		System:         system,
		Extension:      ext,
		Size:           info.Size(),
		SizeFormatted:  humanize.Bytes(uint64(info.Size())),
		NormalizedName: rom.Normalize(filename),
		Region:         rom.ExtractRegion(filename),
	}

	record.IsHack, record.BaseGameName = rom.DetectHack(filename)

	if s.checksums {
		record.CRC32 = rom.Checksum(path)
	}

	return record, nil
}
