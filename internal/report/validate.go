package report

import (
	"fmt"

	"github.com/johns/codetrace/internal/model"
)

// Validate checks a report's structural well-formedness without re-running
// any detection logic.
func Validate(r Report) error {
	if r.ID == "" {
		return fmt.Errorf("missing id")
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("missing timestamp")
	}
	if r.CreatedAt == "" {
		return fmt.Errorf("missing createdAt")
	}
	if r.FilePath == "" {
		return fmt.Errorf("missing filePath")
	}
	if r.LineRange[0] < 0 || r.LineRange[1] < r.LineRange[0] {
		return fmt.Errorf("invalid line range %v", r.LineRange)
	}

	switch r.Verdict.Contributor {
	case model.ContributorAI, model.ContributorAIModified, model.ContributorHuman:
	default:
		return fmt.Errorf("unknown contributor %q", r.Verdict.Contributor)
	}
	if r.Verdict.Similarity < 0 || r.Verdict.Similarity > 1 {
		return fmt.Errorf("similarity %v out of [0,1]", r.Verdict.Similarity)
	}

	if r.Candidates == nil {
		return fmt.Errorf("candidates must be a list, even when empty")
	}

	if r.Environment.AppVersion == "" || r.Environment.Platform == "" || r.Environment.GoVersion == "" {
		return fmt.Errorf("environment requires appVersion, platform, and goVersion")
	}

	return nil
}
