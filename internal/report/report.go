// Package report packages a detection verdict into a self-contained,
// shareable record. Reports retain full hunk content by policy but never
// the originating prompt text.
package report

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/match"
	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/perf"
)

const (
	defaultCandidateCap   = 5
	developerCandidateCap = 10
	previewMaxChars       = 200
)

// Environment describes where the report was produced.
type Environment struct {
	AppVersion string `json:"appVersion"`
	Platform   string `json:"platform"`
	GoVersion  string `json:"goVersion"`
}

// MatchDetail is the matched record embedded in a report.
type MatchDetail struct {
	RecordID  string `json:"recordId"`
	Agent     string `json:"agent"`
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
	Content   string `json:"content"`
}

// CandidatePreview is a truncated view of one candidate record.
type CandidatePreview struct {
	ID         string  `json:"id"`
	Agent      string  `json:"agent"`
	SessionID  string  `json:"sessionId"`
	FilePath   string  `json:"filePath"`
	Similarity float64 `json:"similarity"`
	Timestamp  int64   `json:"timestamp"`
	Preview    string  `json:"preview"`
}

// Verdict is the classification section of a report.
type Verdict struct {
	Contributor model.Contributor `json:"contributor"`
	Similarity  float64           `json:"similarity"`
	Confidence  float64           `json:"confidence"`
	Match       *MatchDetail      `json:"match,omitempty"`
}

// Debug is the developer-mode block: full stage counts plus the complete
// candidate list instead of a capped preview.
type Debug struct {
	PathFiltered   int                `json:"pathFiltered"`
	TimeFiltered   int                `json:"timeFiltered"`
	LengthFiltered int                `json:"lengthFiltered"`
	Scored         int                `json:"scored"`
	Candidates     []CandidatePreview `json:"candidates"`
}

// Report is the serializable issue-report shape.
type Report struct {
	ID          string             `json:"id"`
	CreatedAt   string             `json:"createdAt"` // RFC3339, human readable
	Timestamp   int64              `json:"timestamp"` // epoch milliseconds
	FilePath    string             `json:"filePath"`
	LineRange   [2]int             `json:"lineRange"`
	HunkContent string             `json:"hunkContent"`
	Verdict     Verdict            `json:"verdict"`
	Candidates  []CandidatePreview `json:"candidates"`
	Feedback    string             `json:"feedback,omitempty"`
	Performance *perf.Metrics      `json:"performance,omitempty"`
	Environment Environment        `json:"environment"`
	Debug       *Debug             `json:"debug,omitempty"`
}

// Options controls report building.
type Options struct {
	DeveloperMode bool
	MaxCandidates int // 0 means the default cap (5, or 10 in developer mode)
	Feedback      string
}

// Build produces a report from one detection outcome. Candidate previews
// are similarity-sorted and capped; prompt text never crosses into the
// report, in any mode.
func Build(hunk model.Hunk, result detect.Result, pool []model.AgentRecord, env Environment, opts Options) Report {
	now := time.Now()

	limit := opts.MaxCandidates
	if limit <= 0 {
		limit = defaultCandidateCap
		if opts.DeveloperMode {
			limit = developerCandidateCap
		}
	}

	previews := buildPreviews(hunk, pool, previewMaxChars)
	capped := previews
	if len(capped) > limit {
		capped = capped[:limit]
	}

	r := Report{
		ID:          model.NewID(now.UnixMilli()),
		CreatedAt:   now.Format(time.RFC3339),
		Timestamp:   now.UnixMilli(),
		FilePath:    hunk.FilePath,
		LineRange:   [2]int{hunk.StartLine, hunk.EndLine},
		HunkContent: hunk.Content(),
		Verdict: Verdict{
			Contributor: result.Contributor,
			Similarity:  result.Similarity,
			Confidence:  result.Confidence,
			Match:       matchDetail(result.Match),
		},
		Candidates:  capped,
		Feedback:    opts.Feedback,
		Performance: result.Metrics,
		Environment: env,
	}

	if opts.DeveloperMode {
		debug := &Debug{Candidates: buildPreviews(hunk, pool, 0)}
		if m := result.Metrics; m != nil {
			debug.PathFiltered = m.PathFilter.Candidates
			debug.TimeFiltered = m.TimeFilter.Candidates
			debug.LengthFiltered = m.LengthFilter.Candidates
			debug.Scored = m.Scoring.Calls
		}
		r.Debug = debug
	}

	return r
}

// buildPreviews scores and sorts the pool. maxChars 0 means no truncation
// (the developer-mode debug list).
func buildPreviews(hunk model.Hunk, pool []model.AgentRecord, maxChars int) []CandidatePreview {
	hunkContent := hunk.Content()

	previews := make([]CandidatePreview, 0, len(pool))
	for _, rec := range pool {
		content := rec.Content()
		if maxChars > 0 && len(content) > maxChars {
			cut := maxChars
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		previews = append(previews, CandidatePreview{
			ID:         rec.ID,
			Agent:      rec.Source.Agent,
			SessionID:  rec.Source.SessionID,
			FilePath:   rec.FilePath,
			Similarity: match.Similarity(hunkContent, rec.Content()),
			Timestamp:  rec.Timestamp,
			Preview:    content,
		})
	}

	sort.SliceStable(previews, func(i, j int) bool {
		return previews[i].Similarity > previews[j].Similarity
	})
	return previews
}

func matchDetail(rec *model.AgentRecord) *MatchDetail {
	if rec == nil {
		return nil
	}
	return &MatchDetail{
		RecordID:  rec.ID,
		Agent:     rec.Source.Agent,
		SessionID: rec.Source.SessionID,
		Timestamp: rec.Timestamp,
		Content:   rec.Content(),
	}
}
