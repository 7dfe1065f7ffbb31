// Package hook adapts agent-native tool-call events into the normalized
// record shapes the store accepts. Each agent gets one small translation
// function; the engine itself only ever sees the normalized records.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/johns/codetrace/internal/model"
	"github.com/johns/codetrace/internal/store"
)

// Input is the JSON object Claude Code sends to hooks via stdin.
type Input struct {
	SessionID     string `json:"session_id"`
	HookEventName string `json:"hook_event_name"`
	CWD           string `json:"cwd"`
	ToolName      string `json:"tool_name,omitempty"`
	Prompt        string `json:"prompt,omitempty"`

	ToolInput    *ToolInput    `json:"tool_input,omitempty"`
	ToolResponse *ToolResponse `json:"tool_response,omitempty"`
}

// ToolInput carries the file-editing fields of Write/Edit tool calls.
type ToolInput struct {
	FilePath  string `json:"file_path"`
	Content   string `json:"content,omitempty"`    // Write: full new file content
	OldString string `json:"old_string,omitempty"` // Edit: replaced text
	NewString string `json:"new_string,omitempty"` // Edit: replacement text
}

// ToolResponse is the subset of the tool result the adapter needs.
type ToolResponse struct {
	Success bool `json:"success"`
}

// Handle reads hook input from stdin and appends the normalized record.
// event overrides the payload's event name when non-empty (--event flag).
func Handle(s *store.Store, event string) error {
	input, err := readStdin()
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	if event != "" {
		input.HookEventName = event
	}

	switch input.HookEventName {
	case "PostToolUse":
		return handleToolUse(s, input)
	case "UserPromptSubmit":
		return handlePrompt(s, input)
	default:
		// Events we did not register for are not errors; agents send more
		// than we consume.
		return nil
	}
}

// handleToolUse translates a Claude Code file-editing tool call into a
// CodeChangeRecord. Non-editing tools are ignored.
func handleToolUse(s *store.Store, input *Input) error {
	switch input.ToolName {
	case "Write", "Edit", "MultiEdit":
	default:
		return nil
	}
	if input.ToolInput == nil || input.ToolInput.FilePath == "" {
		return nil
	}

	rec := ClaudeCodeRecord(input, time.Now().UnixMilli())
	if err := s.AppendCodeChange(&rec); err != nil {
		return fmt.Errorf("append code change: %w", err)
	}
	return nil
}

func handlePrompt(s *store.Store, input *Input) error {
	if input.Prompt == "" {
		return nil
	}
	rec := model.PromptRecord{
		SessionID: input.SessionID,
		Prompt:    input.Prompt,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.AppendPrompt(rec); err != nil {
		return fmt.Errorf("append prompt: %w", err)
	}
	return nil
}

// ClaudeCodeRecord normalizes one Claude Code tool event. A Write carries
// the full new content and no baseline; an Edit carries the replaced and
// replacement text.
func ClaudeCodeRecord(input *Input, timestamp int64) model.CodeChangeRecord {
	rec := model.CodeChangeRecord{
		SessionID: input.SessionID,
		Agent:     "claude-code",
		Timestamp: timestamp,
		ToolName:  input.ToolName,
		FilePath:  input.ToolInput.FilePath,
		Success:   true,
	}

	switch input.ToolName {
	case "Write":
		rec.NewContent = input.ToolInput.Content
	default:
		rec.OldContent = input.ToolInput.OldString
		rec.NewContent = input.ToolInput.NewString
	}

	if input.ToolResponse != nil {
		rec.Success = input.ToolResponse.Success
	}
	return rec
}

func readStdin() (*Input, error) {
	// Read all stdin with a timeout
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, err
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("stdin read timeout")
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty stdin")
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse stdin JSON: %w", err)
	}

	return &input, nil
}
