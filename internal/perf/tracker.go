// Package perf attributes a detection call's wall-clock cost to named
// pipeline stages and flags slow calls with a bottleneck classification.
package perf

import "time"

// Bottleneck names the pipeline stage dominating a slow detection.
type Bottleneck string

const (
	BottleneckScoring   Bottleneck = "scoring"
	BottleneckLoading   Bottleneck = "loading"
	BottleneckFiltering Bottleneck = "filtering"
)

// StageMetrics records one filter stage's cost and surviving candidates.
type StageMetrics struct {
	DurationMs float64 `json:"durationMs"`
	Candidates int     `json:"candidates"`
}

// ScoringMetrics aggregates every similarity call in one detection.
type ScoringMetrics struct {
	Calls         int     `json:"calls"`
	TotalMs       float64 `json:"totalMs"`
	AvgMs         float64 `json:"avgMs"`
	MaxMs         float64 `json:"maxMs"`
	AvgContentLen int     `json:"avgContentLen"`
	MaxContentLen int     `json:"maxContentLen"`
}

// ResultSummary captures the outcome alongside the timings.
type ResultSummary struct {
	BestSimilarity      float64 `json:"bestSimilarity"`
	CandidatesProcessed int     `json:"candidatesProcessed"`
	MatchFound          bool    `json:"matchFound"`
}

// Metrics is the full performance picture of one detection call.
type Metrics struct {
	TotalMs      float64        `json:"totalMs"`
	LoadMs       float64        `json:"loadMs"`
	PathFilter   StageMetrics   `json:"pathFilter"`
	TimeFilter   StageMetrics   `json:"timeFilter"`
	LengthFilter StageMetrics   `json:"lengthFilter"`
	Scoring      ScoringMetrics `json:"scoring"`
	Result       ResultSummary  `json:"result"`
	Warning      bool           `json:"warning"`
	Bottleneck   Bottleneck     `json:"bottleneck,omitempty"`
	Hint         string         `json:"hint,omitempty"`
}

// Tracker is a stopwatch created per detection call. Not safe for sharing
// across calls; each call gets its own instance.
type Tracker struct {
	threshold time.Duration
	start     time.Time
	lastMark  time.Time
	metrics   Metrics
	load      time.Duration

	scoringTotal  time.Duration
	scoringMax    time.Duration
	contentLenSum int
}

// NewTracker starts the stopwatch. threshold is the elapsed time beyond
// which the warning flag is raised.
func NewTracker(threshold time.Duration) *Tracker {
	now := time.Now()
	return &Tracker{threshold: threshold, start: now, lastMark: now}
}

// SetLoad charges the initial data load, which happens in the caller
// before the pipeline starts. The duration counts toward the total.
func (t *Tracker) SetLoad(d time.Duration) {
	t.load = d
	t.metrics.LoadMs = durationMs(d)
}

// MarkPathFilter records the path stage's duration and survivors.
func (t *Tracker) MarkPathFilter(candidates int) {
	t.metrics.PathFilter = StageMetrics{DurationMs: t.sinceMark(), Candidates: candidates}
}

// MarkTimeFilter records the time-window stage's duration and survivors.
func (t *Tracker) MarkTimeFilter(candidates int) {
	t.metrics.TimeFilter = StageMetrics{DurationMs: t.sinceMark(), Candidates: candidates}
}

// MarkLengthFilter records the length stage's duration and survivors.
func (t *Tracker) MarkLengthFilter(candidates int) {
	t.metrics.LengthFilter = StageMetrics{DurationMs: t.sinceMark(), Candidates: candidates}
}

// RecordScore accumulates one similarity call. contentLen is the longer of
// the two compared contents.
func (t *Tracker) RecordScore(d time.Duration, contentLen int) {
	t.metrics.Scoring.Calls++
	t.scoringTotal += d
	if d > t.scoringMax {
		t.scoringMax = d
	}
	t.contentLenSum += contentLen
	if contentLen > t.metrics.Scoring.MaxContentLen {
		t.metrics.Scoring.MaxContentLen = contentLen
	}
}

// Finish closes the stopwatch, fills the result summary, and derives the
// warning flag and bottleneck classification.
func (t *Tracker) Finish(bestSimilarity float64, processed int, matchFound bool) *Metrics {
	t.metrics.Scoring.TotalMs = durationMs(t.scoringTotal)
	t.metrics.Scoring.MaxMs = durationMs(t.scoringMax)
	if t.metrics.Scoring.Calls > 0 {
		t.metrics.Scoring.AvgMs = t.metrics.Scoring.TotalMs / float64(t.metrics.Scoring.Calls)
		t.metrics.Scoring.AvgContentLen = t.contentLenSum / t.metrics.Scoring.Calls
	}

	t.metrics.Result = ResultSummary{
		BestSimilarity:      bestSimilarity,
		CandidatesProcessed: processed,
		MatchFound:          matchFound,
	}

	total := time.Since(t.start) + t.load
	t.metrics.TotalMs = durationMs(total)

	if total > t.threshold {
		t.metrics.Warning = true
		t.metrics.Bottleneck, t.metrics.Hint = classify(t.metrics)
	}

	return &t.metrics
}

// classify picks the dominant stage of a slow detection. Scoring above 70%
// of total wins, then loading above 50%, otherwise filtering. Deterministic
// for fixed timings.
func classify(m Metrics) (Bottleneck, string) {
	if m.TotalMs <= 0 {
		return BottleneckFiltering, hintFiltering
	}
	if m.Scoring.TotalMs/m.TotalMs > 0.70 {
		return BottleneckScoring, hintScoring
	}
	if m.LoadMs/m.TotalMs > 0.50 {
		return BottleneckLoading, hintLoading
	}
	return BottleneckFiltering, hintFiltering
}

const (
	hintScoring   = "too many close-length candidates reach scoring; lower the length tolerance or shrink the time window"
	hintLoading   = "loading dominates; tighten the time window or run retention cleanup to shrink shards"
	hintFiltering = "filter stages dominate; reduce the candidate pool with a shorter time window"
)

func (t *Tracker) sinceMark() float64 {
	now := time.Now()
	elapsed := now.Sub(t.lastMark)
	t.lastMark = now
	return durationMs(elapsed)
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
