package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/report"
)

// readHunk builds a hunk for filePath from added lines on stdin.
func readHunk(filePath string, startLine int) (model.Hunk, error) {
	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return model.Hunk{}, fmt.Errorf("read stdin: %w", err)
	}

	end := startLine
	if len(lines) > 0 {
		end = startLine + len(lines) - 1
	}
	return model.Hunk{
		FilePath:   filePath,
		StartLine:  startLine,
		EndLine:    end,
		AddedLines: lines,
	}, nil
}

func newDetectCmd() *cobra.Command {
	var filePath string
	var startLine int

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Classify added lines read from stdin",
		Long: `Reads added lines from stdin and classifies them against the
captured agent edits for --file. Prints the verdict as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			hunk, err := readHunk(filePath, startLine)
			if err != nil {
				return err
			}

			candidates, loadDur, err := a.loadCandidates()
			if err != nil {
				return err
			}

			res := a.detector.Detect(hunk, candidates, detect.Options{
				EnableTracking: true,
				LoadDuration:   loadDur,
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(toScanVerdict(hunk, res))
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path of the file the lines were added to")
	cmd.Flags().IntVar(&startLine, "start", 1, "1-based line number of the first added line")
	return cmd
}

func newReportCmd() *cobra.Command {
	var filePath string
	var startLine int
	var feedback string
	var devMode bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a shareable issue report for added lines read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			hunk, err := readHunk(filePath, startLine)
			if err != nil {
				return err
			}

			candidates, loadDur, err := a.loadCandidates()
			if err != nil {
				return err
			}

			res := a.detector.Detect(hunk, candidates, detect.Options{
				EnableTracking: true,
				LoadDuration:   loadDur,
			})

			r := report.Build(hunk, res, candidates, environment(), report.Options{
				DeveloperMode: devMode || a.cfg.Report.DeveloperMode,
				Feedback:      feedback,
			})

			path, err := report.Write(a.cfg.DataPath, r)
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path of the file the lines were added to")
	cmd.Flags().IntVar(&startLine, "start", 1, "1-based line number of the first added line")
	cmd.Flags().StringVar(&feedback, "feedback", "", "free-form note attached to the report")
	cmd.Flags().BoolVar(&devMode, "dev", false, "include the debug block with full candidate details")
	return cmd
}
