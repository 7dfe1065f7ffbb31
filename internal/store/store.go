// Package store persists code-change and prompt records as append-only,
// day-sharded JSONL files and serves trailing-window reads over them.
package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/johns/codetrace/internal/model"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

const (
	changesDir = "changes"
	promptsDir = "prompts"

	shardDateLayout = "2006-01-02"
)

// Store is rooted at a data directory and owns the changes/ and prompts/
// shard families beneath it. It performs no caching; every read goes back
// to the shards.
type Store struct {
	root           string
	logger         *slog.Logger
	archiveExpired bool

	// now is stubbed in tests to pin shard-window boundaries.
	now func() time.Time
}

// Open returns a store rooted at dir. The directory tree is created lazily
// on first append.
func Open(dir string) *Store {
	return &Store{
		root:   dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}

// SetLogger routes skipped-line notices to the given logger.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Root returns the store's data directory.
func (s *Store) Root() string {
	return s.root
}

// AppendCodeChange appends one record to the shard for its timestamp's
// calendar day, assigning an id if the record has none. The id is written
// back into rec.
func (s *Store) AppendCodeChange(rec *model.CodeChangeRecord) error {
	if rec.ID == "" {
		rec.ID = model.NewID(rec.Timestamp)
	}
	return s.appendLine(changesDir, rec.Timestamp, rec)
}

// AppendPrompt appends one prompt record to its day shard.
func (s *Store) AppendPrompt(rec model.PromptRecord) error {
	return s.appendLine(promptsDir, rec.Timestamp, rec)
}

// appendLine writes a single encoded record plus newline in one write call,
// so concurrent appends to the same shard cannot interleave mid-line.
func (s *Store) appendLine(family string, timestamp int64, v interface{}) error {
	dir := filepath.Join(s.root, family)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s dir: %w", family, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, ShardName(timestamp))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open shard: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	return f.Close()
}

// RecentCodeChanges reads the union of the change shards for today and the
// previous days-1 calendar days. Missing shards are empty, not errors.
func (s *Store) RecentCodeChanges(days int) ([]model.CodeChangeRecord, error) {
	var records []model.CodeChangeRecord

	today := s.now()
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		path := filepath.Join(s.root, changesDir, day.Format(shardDateLayout)+".jsonl")

		shard, err := readShard[model.CodeChangeRecord](path, s.logger)
		if err != nil {
			return nil, err
		}
		records = append(records, shard...)
	}

	return records, nil
}

// CodeChangesBySession scans every change shard for records from one
// session. Full scan; shard count is bounded by retention.
func (s *Store) CodeChangesBySession(sessionID string) ([]model.CodeChangeRecord, error) {
	paths, err := s.shardPaths(changesDir)
	if err != nil {
		return nil, err
	}

	var records []model.CodeChangeRecord
	for _, path := range paths {
		shard, err := readShard[model.CodeChangeRecord](path, s.logger)
		if err != nil {
			return nil, err
		}
		for _, rec := range shard {
			if rec.SessionID == sessionID {
				records = append(records, rec)
			}
		}
	}

	return records, nil
}

// LatestPromptBefore returns the session's prompt with the largest
// timestamp <= beforeTimestamp, or ErrNotFound. Records within a shard are
// not timestamp-ordered, so every candidate is compared.
func (s *Store) LatestPromptBefore(sessionID string, beforeTimestamp int64) (model.PromptRecord, error) {
	paths, err := s.shardPaths(promptsDir)
	if err != nil {
		return model.PromptRecord{}, err
	}

	var best model.PromptRecord
	found := false
	for _, path := range paths {
		shard, err := readShard[model.PromptRecord](path, s.logger)
		if err != nil {
			return model.PromptRecord{}, err
		}
		for _, rec := range shard {
			if rec.SessionID != sessionID || rec.Timestamp > beforeTimestamp {
				continue
			}
			if !found || rec.Timestamp > best.Timestamp {
				best = rec
				found = true
			}
		}
	}

	if !found {
		return model.PromptRecord{}, ErrNotFound
	}
	return best, nil
}

// shardPaths lists every shard file in a family, sorted by name (and
// therefore by date).
func (s *Store) shardPaths(family string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.root, family, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("list %s shards: %w", family, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// readShard decodes one JSONL shard. A missing file yields no records;
// malformed lines are skipped, not propagated. Real I/O errors propagate.
func readShard[T any](path string, logger *slog.Logger) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open shard %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	records, err := decodeLines[T](f, logger, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("scan shard %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func decodeLines[T any](r io.Reader, logger *slog.Logger, shard string) ([]T, error) {
	var records []T

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("skipping malformed record", "shard", shard, "line", line)
			continue
		}
		records = append(records, rec)
	}

	return records, scanner.Err()
}

// ShardName returns the shard file name for an epoch-millisecond timestamp,
// using the local calendar day.
func ShardName(timestamp int64) string {
	return time.UnixMilli(timestamp).Format(shardDateLayout) + ".jsonl"
}
