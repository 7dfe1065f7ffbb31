package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/codetrace/internal/hook"
	"github.com/johns/codetrace/internal/model"
)

func newHookCmd() *cobra.Command {
	var event string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Consume an agent hook event from stdin",
		Long: `Reads a Claude Code hook payload from stdin and appends the
normalized record. Wired into ~/.claude/settings.json by ct init or
ct hook install.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return hook.Handle(a.store, event)
		},
	}

	cmd.Flags().StringVar(&event, "event", "", "override the payload's hook event name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Register ct in the agent's hook configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return hook.Install()
			},
		},
		&cobra.Command{
			Use:   "uninstall",
			Short: "Remove ct from the agent's hook configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return hook.Uninstall()
			},
		},
	)
	return cmd
}

func newRecordCmd() *cobra.Command {
	var sessionID, agent, filePath, toolName string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append a code-change record manually (content from stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}

			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			rec := model.CodeChangeRecord{
				SessionID:  sessionID,
				Agent:      agent,
				Timestamp:  time.Now().UnixMilli(),
				ToolName:   toolName,
				FilePath:   filePath,
				NewContent: string(content),
				Success:    true,
			}
			if err := a.store.AppendCodeChange(&rec); err != nil {
				return fmt.Errorf("append code change: %w", err)
			}
			fmt.Println(rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "manual", "session identifier")
	cmd.Flags().StringVar(&agent, "agent", "manual", "agent name")
	cmd.Flags().StringVar(&filePath, "file", "", "path the change applies to")
	cmd.Flags().StringVar(&toolName, "tool", "Write", "tool name to record")
	return cmd
}

func newPromptCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "prompt [text...]",
		Short: "Append a prompt record manually",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				return fmt.Errorf("empty prompt")
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			rec := model.PromptRecord{
				SessionID: sessionID,
				Prompt:    text,
				Timestamp: time.Now().UnixMilli(),
			}
			if err := a.store.AppendPrompt(rec); err != nil {
				return fmt.Errorf("append prompt: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "manual", "session identifier")
	return cmd
}
