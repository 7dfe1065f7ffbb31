package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/gitdiff"
	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/perf"
)

// scanVerdict is the per-hunk output row of ct scan.
type scanVerdict struct {
	FilePath    string            `json:"filePath"`
	StartLine   int               `json:"startLine"`
	EndLine     int               `json:"endLine"`
	Contributor model.Contributor `json:"contributor"`
	Similarity  float64           `json:"similarity"`
	Confidence  float64           `json:"confidence"`
	MatchedID   string            `json:"matchedId,omitempty"`
	Agent       string            `json:"agent,omitempty"`
}

func newScanCmd() *cobra.Command {
	var staged bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Classify every changed hunk in the working tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			hunks, err := gitdiff.WorkingTree(cmd.Context(), cwd, staged, args...)
			if err != nil {
				return err
			}
			if len(hunks) == 0 {
				fmt.Println("no changes")
				return nil
			}
			// Hooks record absolute paths; git reports repo-relative ones.
			for i := range hunks {
				hunks[i].FilePath = filepath.Join(cwd, hunks[i].FilePath)
			}

			candidates, loadDur, err := a.loadCandidates()
			if err != nil {
				return err
			}

			led, err := a.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			if led != nil {
				defer led.Close()
			}

			perfLog := perf.NewLog(a.cfg.DataPath)

			var verdicts []scanVerdict
			for _, hunk := range hunks {
				res := a.detector.Detect(hunk, candidates, detect.Options{
					EnableTracking: true,
					LoadDuration:   loadDur,
				})
				// Load time is shared across hunks; charge it once.
				loadDur = 0

				if res.Metrics != nil {
					if err := perfLog.Append(res.Metrics); err != nil {
						fmt.Fprintf(os.Stderr, "warning: performance log: %v\n", err)
					}
				}
				if led != nil {
					if err := led.RecordResult(hunk, res); err != nil {
						fmt.Fprintf(os.Stderr, "warning: ledger: %v\n", err)
					}
				}

				verdicts = append(verdicts, toScanVerdict(hunk, res))
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(verdicts)
			}
			for _, v := range verdicts {
				fmt.Printf("%s:%d-%d\t%s\tsim=%.2f\tconf=%.2f\n",
					v.FilePath, v.StartLine, v.EndLine, v.Contributor, v.Similarity, v.Confidence)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&staged, "staged", false, "diff the index instead of the working tree")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit verdicts as JSON")
	return cmd
}

func toScanVerdict(hunk model.Hunk, res detect.Result) scanVerdict {
	v := scanVerdict{
		FilePath:    hunk.FilePath,
		StartLine:   hunk.StartLine,
		EndLine:     hunk.EndLine,
		Contributor: res.Contributor,
		Similarity:  res.Similarity,
		Confidence:  res.Confidence,
	}
	if res.Match != nil {
		v.MatchedID = res.Match.ID
		v.Agent = res.Match.Source.Agent
	}
	return v
}
