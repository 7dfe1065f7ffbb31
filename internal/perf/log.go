package perf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Log appends one compact summary line per tracked detection to
// logs/performance.jsonl under the data directory.
type Log struct {
	path string
}

// NewLog returns a performance log rooted at dataDir.
func NewLog(dataDir string) *Log {
	return &Log{path: filepath.Join(dataDir, "logs", "performance.jsonl")}
}

// entry is the compact on-disk shape; full context lives in reports.
type entry struct {
	Timestamp int64 `json:"timestamp"`
	Metrics
}

// Append writes one metrics line. Each append is a single write of one
// encoded line, matching the record store's discipline.
func (l *Log) Append(m *Metrics) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}

	data, err := json.Marshal(entry{Timestamp: time.Now().UnixMilli(), Metrics: *m})
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open performance log: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append metrics: %w", err)
	}
	return f.Close()
}
