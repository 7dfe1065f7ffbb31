// Command ct is the codetrace CLI: it captures agent edits via hooks,
// classifies changed code as AI- or human-authored, and maintains the
// on-disk record store.
package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/codetrace/internal/config"
	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/ledger"
	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/report"
	"github.com/johns/codetrace/internal/store"
)

var cliVersion string

// Execute runs the ct root command with all subcommands registered.
func Execute(v string) error {
	cliVersion = v

	rootCmd := &cobra.Command{
		Use:           "ct",
		Short:         "AI code attribution engine",
		Version:       v,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newScanCmd(),
		newDetectCmd(),
		newReportCmd(),
		newHookCmd(),
		newRecordCmd(),
		newPromptCmd(),
		newWatchCmd(),
		newCleanupCmd(),
		newLedgerCmd(),
		newInitCmd(),
	)

	return rootCmd.Execute()
}

// app bundles the pieces most commands need.
type app struct {
	cfg      config.Config
	store    *store.Store
	detector *detect.Detector
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	st := store.Open(cfg.DataPath)
	st.SetArchiveExpired(cfg.Store.ArchiveExpired)

	det, err := detect.New(cfg.DetectorConfig())
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, store: st, detector: det}, nil
}

// loadCandidates reads the detection window from the store and derives the
// detector's working records, returning how long the load took so it can
// be charged to the metrics' load stage.
func (a *app) loadCandidates() ([]model.AgentRecord, time.Duration, error) {
	start := time.Now()
	changes, err := a.store.RecentCodeChanges(a.cfg.Detector.TimeWindowDays)
	if err != nil {
		return nil, 0, fmt.Errorf("load candidates: %w", err)
	}
	records := detect.AgentRecords(changes, a.store)
	return records, time.Since(start), nil
}

// openLedger opens the verdict ledger when enabled. A nil ledger with nil
// error means the ledger is disabled.
func (a *app) openLedger() (*ledger.Ledger, error) {
	if !a.cfg.Ledger.Enabled {
		return nil, nil
	}
	return ledger.Open(filepath.Join(a.cfg.DataPath, "ledger.db"))
}

func environment() report.Environment {
	return report.Environment{
		AppVersion: cliVersion,
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion:  runtime.Version(),
	}
}
