// Package ledger keeps a queryable history of detection verdicts in
// SQLite, separate from the engine's index-free record store.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/model"
)

// Ledger wraps the verdicts database.
type Ledger struct {
	db *sql.DB
}

// Verdict is one recorded detection outcome.
type Verdict struct {
	FilePath      string
	StartLine     int
	EndLine       int
	Contributor   model.Contributor
	Similarity    float64
	Confidence    float64
	Agent         string
	SessionID     string
	MatchedRecord string
	DurationMs    float64
	CreatedAt     time.Time
}

// Summary aggregates the ledger for display.
type Summary struct {
	Total         int
	ByContributor map[model.Contributor]int
	ByAgent       map[string]int
	AvgSimilarity float64
}

// Open opens (creating if needed) the ledger database and applies any
// pending migrations.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func migrate(db *sql.DB) error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := current + 1; v <= schemaVersion; v++ {
		stmt, ok := migrations[v]
		if !ok {
			return fmt.Errorf("missing migration for version %d", v)
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", v, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
			return fmt.Errorf("bump schema version: %w", err)
		}
	}

	return nil
}

// Record inserts one verdict row. A zero CreatedAt is stamped now.
func (l *Ledger) Record(v Verdict) error {
	created := v.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := l.db.Exec(`
		INSERT INTO verdicts
			(file_path, start_line, end_line, contributor, similarity, confidence,
			 agent, session_id, matched_record, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.FilePath, v.StartLine, v.EndLine, string(v.Contributor), v.Similarity,
		v.Confidence, v.Agent, v.SessionID, v.MatchedRecord, v.DurationMs,
		created.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert verdict: %w", err)
	}
	return nil
}

// RecordResult is a convenience wrapper mapping a detection result onto a
// verdict row.
func (l *Ledger) RecordResult(hunk model.Hunk, res detect.Result) error {
	v := Verdict{
		FilePath:    hunk.FilePath,
		StartLine:   hunk.StartLine,
		EndLine:     hunk.EndLine,
		Contributor: res.Contributor,
		Similarity:  res.Similarity,
		Confidence:  res.Confidence,
	}
	if res.Match != nil {
		v.Agent = res.Match.Source.Agent
		v.SessionID = res.Match.Source.SessionID
		v.MatchedRecord = res.Match.ID
	}
	if res.Metrics != nil {
		v.DurationMs = res.Metrics.TotalMs
	}
	return l.Record(v)
}

// Summarize aggregates every verdict in the ledger.
func (l *Ledger) Summarize() (Summary, error) {
	s := Summary{
		ByContributor: make(map[model.Contributor]int),
		ByAgent:       make(map[string]int),
	}

	rows, err := l.db.Query(`SELECT contributor, agent, similarity FROM verdicts`)
	if err != nil {
		return s, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var similaritySum float64
	for rows.Next() {
		var contributor, agent string
		var similarity float64
		if err := rows.Scan(&contributor, &agent, &similarity); err != nil {
			return s, fmt.Errorf("scan verdict: %w", err)
		}
		s.Total++
		s.ByContributor[model.Contributor(contributor)]++
		if agent != "" {
			s.ByAgent[agent]++
		}
		similaritySum += similarity
	}
	if err := rows.Err(); err != nil {
		return s, fmt.Errorf("iterate verdicts: %w", err)
	}

	if s.Total > 0 {
		s.AvgSimilarity = similaritySum / float64(s.Total)
	}
	return s, nil
}

// RecentVerdicts returns the most recent n verdicts, newest first.
func (l *Ledger) RecentVerdicts(n int) ([]Verdict, error) {
	rows, err := l.db.Query(`
		SELECT file_path, start_line, end_line, contributor, similarity,
		       confidence, agent, session_id, matched_record, duration_ms, created_at
		FROM verdicts ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query recent verdicts: %w", err)
	}
	defer rows.Close()

	var out []Verdict
	for rows.Next() {
		var v Verdict
		var contributor, created string
		if err := rows.Scan(&v.FilePath, &v.StartLine, &v.EndLine, &contributor,
			&v.Similarity, &v.Confidence, &v.Agent, &v.SessionID,
			&v.MatchedRecord, &v.DurationMs, &created); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		v.Contributor = model.Contributor(contributor)
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			v.CreatedAt = ts
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
