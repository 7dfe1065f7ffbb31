package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/codetrace/internal/config"
	"github.com/johns/codetrace/internal/hook"
)

func newCleanupCmd() *cobra.Command {
	var retention int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete record shards older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			days := a.cfg.Store.RetentionDays
			if cmd.Flags().Changed("retention-days") {
				days = retention
			}

			removed, err := a.store.Cleanup(days)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				fmt.Println("nothing to clean")
				return nil
			}
			for _, path := range removed {
				fmt.Println("removed", config.CompressHome(path))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&retention, "retention-days", 0, "override the configured retention window")
	return cmd
}

func newLedgerCmd() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Summarize recorded verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if !a.cfg.Ledger.Enabled {
				return fmt.Errorf("ledger is disabled in config")
			}

			led, err := a.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer led.Close()

			if recent > 0 {
				verdicts, err := led.RecentVerdicts(recent)
				if err != nil {
					return err
				}
				for _, v := range verdicts {
					fmt.Printf("%s  %s:%d-%d\t%s\tsim=%.2f\n",
						v.CreatedAt.Format("2006-01-02 15:04:05"),
						v.FilePath, v.StartLine, v.EndLine, v.Contributor, v.Similarity)
				}
				return nil
			}

			s, err := led.Summarize()
			if err != nil {
				return err
			}
			fmt.Printf("verdicts: %d\n", s.Total)
			for contributor, n := range s.ByContributor {
				fmt.Printf("  %s: %d\n", contributor, n)
			}
			if len(s.ByAgent) > 0 {
				fmt.Println("by agent:")
				for agent, n := range s.ByAgent {
					fmt.Printf("  %s: %d\n", agent, n)
				}
			}
			fmt.Printf("avg similarity: %.3f\n", s.AvgSimilarity)
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "list the n most recent verdicts instead")
	return cmd
}

func newInitCmd() *cobra.Command {
	var noHook bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and register the agent hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault(config.DefaultConfig().DataPath)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Println("config:", config.CompressHome(path))

			if noHook {
				return nil
			}
			return hook.Install()
		},
	}

	cmd.Flags().BoolVar(&noHook, "no-hook", false, "skip agent hook registration")
	return cmd
}
