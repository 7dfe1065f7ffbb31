// Package detect classifies a hunk of added lines as AI-authored,
// AI-modified, or human by matching it against captured agent edits.
package detect

import (
	"fmt"
	"time"

	"github.com/johns/codetrace/internal/match"
	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/perf"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Config holds the detector's immutable tunables.
type Config struct {
	ThresholdPureAI      float64       // similarity at or above: ai
	ThresholdAIModified  float64       // similarity at or above (below pure): ai_modified
	TimeWindowDays       int           // trailing window of candidate records
	LengthTolerance      float64       // 0.5 means lengths may differ by ±50%
	PerformanceThreshold time.Duration // elapsed time that raises the metrics warning
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		ThresholdPureAI:      0.90,
		ThresholdAIModified:  0.70,
		TimeWindowDays:       3,
		LengthTolerance:      0.5,
		PerformanceThreshold: 500 * time.Millisecond,
	}
}

// Validate rejects configurations that would produce nonsensical
// classifications. Called at construction so bad config fails fast.
func (c Config) Validate() error {
	if c.ThresholdAIModified < 0 || c.ThresholdPureAI > 1 {
		return fmt.Errorf("thresholds out of [0,1]: modified=%v pure=%v", c.ThresholdAIModified, c.ThresholdPureAI)
	}
	if c.ThresholdAIModified >= c.ThresholdPureAI {
		return fmt.Errorf("modified threshold %v must be below pure threshold %v", c.ThresholdAIModified, c.ThresholdPureAI)
	}
	if c.TimeWindowDays < 0 {
		return fmt.Errorf("negative time window: %d", c.TimeWindowDays)
	}
	if c.LengthTolerance < 0 {
		return fmt.Errorf("negative length tolerance: %v", c.LengthTolerance)
	}
	return nil
}

// Options controls a single Detect call.
type Options struct {
	// EnableTracking allocates a performance tracker for this call. When
	// false no timing side effects occur.
	EnableTracking bool
	// LoadDuration is how long the caller spent loading the candidate
	// pool, charged to the metrics' load stage.
	LoadDuration time.Duration
	// Now overrides the time-window reference point. Zero means time.Now.
	Now time.Time
}

// Result is the classification of one hunk.
type Result struct {
	Contributor model.Contributor
	Similarity  float64
	Confidence  float64
	Match       *model.AgentRecord
	Metrics     *perf.Metrics
}

// Detector runs the filter-then-score pipeline. Stateless across calls;
// safe for concurrent use.
type Detector struct {
	cfg Config
}

// New validates cfg and returns a detector.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("detector config: %w", err)
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector's tuning.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect classifies hunk against the caller-supplied candidate pool.
//
// Stages: path equality, time window, length ratio, similarity scoring.
// Each stage only shrinks the pool. An empty hunk or an empty path-filtered
// pool short-circuits to a human verdict.
func (d *Detector) Detect(hunk model.Hunk, candidates []model.AgentRecord, opts Options) Result {
	if len(hunk.AddedLines) == 0 {
		return Result{Contributor: model.ContributorHuman, Similarity: 0, Confidence: 1}
	}

	var tracker *perf.Tracker
	if opts.EnableTracking {
		tracker = perf.NewTracker(d.cfg.PerformanceThreshold)
		tracker.SetLoad(opts.LoadDuration)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Stage 1: exact path match. Callers pre-normalize paths; the engine
	// compares case-sensitively.
	var pathMatched []model.AgentRecord
	for _, rec := range candidates {
		if rec.FilePath == hunk.FilePath {
			pathMatched = append(pathMatched, rec)
		}
	}
	if tracker != nil {
		tracker.MarkPathFilter(len(pathMatched))
	}
	if len(pathMatched) == 0 {
		return d.verdict(0, nil, finish(tracker, 0, 0, false))
	}

	// Stage 2: trailing time window, inclusive boundary.
	earliest := now.UnixMilli() - int64(d.cfg.TimeWindowDays)*millisPerDay
	var inWindow []model.AgentRecord
	for _, rec := range pathMatched {
		if rec.Timestamp >= earliest {
			inWindow = append(inWindow, rec)
		}
	}
	if tracker != nil {
		tracker.MarkTimeFilter(len(inWindow))
	}
	if len(inWindow) == 0 {
		return d.verdict(0, nil, finish(tracker, 0, 0, false))
	}

	// Stage 3: comparable content length. Zero-length content on either
	// side cannot ratio-match and is excluded.
	hunkContent := hunk.Content()
	maxRatio := 1 + d.cfg.LengthTolerance
	var comparable []model.AgentRecord
	for _, rec := range inWindow {
		lh, lr := len(hunkContent), len(rec.Content())
		if lh == 0 || lr == 0 {
			continue
		}
		longer, shorter := lh, lr
		if lr > lh {
			longer, shorter = lr, lh
		}
		if float64(longer)/float64(shorter) <= maxRatio {
			comparable = append(comparable, rec)
		}
	}
	if tracker != nil {
		tracker.MarkLengthFilter(len(comparable))
	}
	if len(comparable) == 0 {
		return d.verdict(0, nil, finish(tracker, 0, 0, false))
	}

	// Stage 4: similarity scoring. Strict > keeps the first record to
	// reach the running maximum.
	var best float64
	var bestRec *model.AgentRecord
	for i := range comparable {
		content := comparable[i].Content()

		scoreStart := time.Now()
		score := match.Similarity(hunkContent, content)
		if tracker != nil {
			longer := len(hunkContent)
			if len(content) > longer {
				longer = len(content)
			}
			tracker.RecordScore(time.Since(scoreStart), longer)
		}

		if score > best {
			best = score
			bestRec = &comparable[i]
		}
	}

	return d.verdict(best, bestRec, finish(tracker, best, len(comparable), bestRec != nil))
}

func finish(tracker *perf.Tracker, best float64, processed int, matched bool) *perf.Metrics {
	if tracker == nil {
		return nil
	}
	return tracker.Finish(best, processed, matched)
}

// verdict applies the classification and confidence policies.
func (d *Detector) verdict(similarity float64, rec *model.AgentRecord, metrics *perf.Metrics) Result {
	var contributor model.Contributor
	switch {
	case similarity >= d.cfg.ThresholdPureAI:
		contributor = model.ContributorAI
	case similarity >= d.cfg.ThresholdAIModified:
		contributor = model.ContributorAIModified
	default:
		contributor = model.ContributorHuman
	}

	return Result{
		Contributor: contributor,
		Similarity:  similarity,
		Confidence:  d.confidence(contributor, similarity),
		Match:       rec,
		Metrics:     metrics,
	}
}

// confidence is a UI hint only; it never feeds back into classification.
func (d *Detector) confidence(contributor model.Contributor, similarity float64) float64 {
	switch contributor {
	case model.ContributorAI:
		span := 1 - d.cfg.ThresholdPureAI
		if span <= 0 {
			return 1
		}
		c := (similarity-d.cfg.ThresholdPureAI)/span*0.5 + 0.5
		if c > 1 {
			return 1
		}
		return c

	case model.ContributorAIModified:
		band := d.cfg.ThresholdPureAI - d.cfg.ThresholdAIModified
		return 0.5 + 0.3*(similarity-d.cfg.ThresholdAIModified)/band

	default:
		if similarity == 0 {
			return 1
		}
		c := 1 - similarity/d.cfg.ThresholdAIModified
		if c < 0.3 {
			return 0.3
		}
		return c
	}
}
