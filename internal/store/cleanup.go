package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SetArchiveExpired controls whether Cleanup compresses expired shards into
// archive/ before deleting them.
func (s *Store) SetArchiveExpired(enabled bool) {
	s.archiveExpired = enabled
}

// Cleanup removes every shard, in both families, whose calendar date is
// strictly older than today minus retentionDays. Returns the removed shard
// paths. Safe to re-run: a second pass with the same retention removes
// nothing.
func (s *Store) Cleanup(retentionDays int) ([]string, error) {
	if retentionDays < 0 {
		return nil, fmt.Errorf("negative retention: %d", retentionDays)
	}

	today := s.now()
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location()).
		AddDate(0, 0, -retentionDays)

	var removed []string
	for _, family := range []string{changesDir, promptsDir} {
		paths, err := s.shardPaths(family)
		if err != nil {
			return removed, err
		}

		for _, path := range paths {
			date, ok := shardDate(path)
			if !ok {
				continue
			}
			if !date.Before(cutoff) {
				continue
			}

			if s.archiveExpired {
				if err := s.archiveShard(family, path); err != nil {
					return removed, err
				}
			}
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("remove expired shard: %w", err)
			}
			removed = append(removed, path)
		}
	}

	return removed, nil
}

// shardDate parses the calendar date a shard file name encodes.
func shardDate(path string) (time.Time, bool) {
	name := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	date, err := time.ParseInLocation(shardDateLayout, name, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
