// ABOUTME: Append-only JSONL log for durable LogRecord storage, one file per campaign.
// ABOUTME: Grounded on spec/store/jsonl.go: crash-safe append, sequential replay, repair for truncated files.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

// JsonlLog is an append-only JSONL log backed by a file.
// Each line is a single JSON-serialized LogRecord followed by a newline.
type JsonlLog struct {
	path string
	file *os.File
}

// OpenJsonl opens (or creates) a JSONL log file at the given path, creating parent
// directories as needed. The file is opened in append mode.
func OpenJsonl(path string) (*JsonlLog, error) {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("create parent dirs: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open jsonl file: %w", err)
	}

	return &JsonlLog{path: path, file: file}, nil
}

// Path returns the path to the underlying JSONL file.
func (l *JsonlLog) Path() string { return l.path }

// Append serializes a single LogRecord as one JSON line, writes it with a trailing
// newline, and fsyncs to disk before returning.
func (l *JsonlLog) Append(record core.LogRecord) error {
	data, err := core.MarshalLogRecord(record)
	if err != nil {
		return fmt.Errorf("marshal log record: %w", err)
	}

	line := append(data, '\n')
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("write log record line: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("fsync: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *JsonlLog) Close() error { return l.file.Close() }

// ReplayJsonl reads all records from a JSONL file, returning them in order.
// Empty lines are skipped. Returns a nil slice (no error) for a missing or empty file.
func ReplayJsonl(path string) ([]core.LogRecord, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open jsonl for replay: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []core.LogRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := core.UnmarshalLogRecord([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("parse log record line: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan jsonl file: %w", err)
	}

	return records, nil
}

// RepairJsonl repairs a potentially corrupted JSONL file by keeping only complete,
// parseable lines and discarding any partial trailing data left by a crash mid-write.
// Uses atomic temp-file + fsync + rename so the repair itself cannot lose data if it
// is interrupted. Returns the count of valid records retained.
func RepairJsonl(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open jsonl for repair: %w", err)
	}

	var validLines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := core.UnmarshalLogRecord([]byte(line)); err == nil {
			validLines = append(validLines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		_ = file.Close()
		return 0, fmt.Errorf("scan jsonl for repair: %w", err)
	}
	_ = file.Close()

	count := len(validLines)

	tmpPath := path + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	for _, line := range validLines {
		if _, err := fmt.Fprintln(tmpFile, line); err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
			return 0, fmt.Errorf("write valid line: %w", err)
		}
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("fsync temp file: %w", err)
	}
	_ = tmpFile.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("rename temp to original: %w", err)
	}

	parent := filepath.Dir(path)
	if dir, err := os.Open(parent); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}

	return count, nil
}
