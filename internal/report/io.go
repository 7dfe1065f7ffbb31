package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Serialize renders a report as pretty-printed JSON.
func Serialize(r Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// Parse decodes a serialized report.
func Parse(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

// Write validates and persists a report under
// dataDir/reports/{YYYY-MM-DD}/report-{id}.json, with the date taken from
// the report's own timestamp. Returns the written path.
func Write(dataDir string, r Report) (string, error) {
	if err := Validate(r); err != nil {
		return "", fmt.Errorf("refusing to write invalid report: %w", err)
	}

	day := time.UnixMilli(r.Timestamp).Format("2006-01-02")
	dir := filepath.Join(dataDir, "reports", day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := Serialize(r)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "report-"+r.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
