package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/codetrace/internal/cache"
	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/gitdiff"
	"github.com/johns/codetrace/internal/logx"
	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/watch"
)

// candidateTTL bounds how stale the watch loop's candidate pool may be.
const candidateTTL = 10 * time.Second

func newWatchCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a project tree and classify files as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				root, err = filepath.Abs(args[0])
				if err != nil {
					return err
				}
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			logger := logx.Stderr(logx.ParseLevel(logLevel))
			a.store.SetLogger(logger)

			led, err := a.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			if led != nil {
				defer led.Close()
			}

			pool := cache.New[[]model.AgentRecord](candidateTTL)

			onChange := func(path string) {
				rel, err := filepath.Rel(root, path)
				if err != nil {
					logger.Warn("relativize path", "path", path, "err", err)
					return
				}

				hunks, err := gitdiff.WorkingTree(cmd.Context(), root, false, rel)
				if err != nil {
					logger.Warn("diff changed file", "path", rel, "err", err)
					return
				}

				loadStart := time.Now()
				candidates, err := pool.GetOrLoad("window", func() ([]model.AgentRecord, error) {
					records, _, err := a.loadCandidates()
					return records, err
				})
				if err != nil {
					logger.Warn("load candidates", "err", err)
					return
				}
				loadDur := time.Since(loadStart)

				for _, hunk := range hunks {
					hunk.FilePath = filepath.Join(root, hunk.FilePath)
					res := a.detector.Detect(hunk, candidates, detect.Options{
						EnableTracking: true,
						LoadDuration:   loadDur,
					})
					loadDur = 0

					logger.Info("verdict",
						"file", hunk.FilePath,
						"lines", fmt.Sprintf("%d-%d", hunk.StartLine, hunk.EndLine),
						"contributor", res.Contributor,
						"similarity", res.Similarity,
						"confidence", res.Confidence)

					if led != nil {
						if err := led.RecordResult(hunk, res); err != nil {
							logger.Warn("ledger", "err", err)
						}
					}
				}
			}

			debounce := time.Duration(a.cfg.Watch.DebounceMs) * time.Millisecond
			w, err := watch.New(root, a.cfg.Watch.Ignore, debounce, onChange)
			if err != nil {
				return err
			}
			w.SetLogger(logger)
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("watching", "root", root)
			go w.Run()
			<-ctx.Done()
			logger.Info("stopping")
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}
