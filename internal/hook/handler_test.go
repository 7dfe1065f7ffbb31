package hook

import (
	"testing"
)

func TestClaudeCodeRecord_Write(t *testing.T) {
	input := &Input{
		SessionID: "sess-1",
		ToolName:  "Write",
		ToolInput: &ToolInput{
			FilePath: "/tmp/main.go",
			Content:  "package main\n",
		},
	}

	rec := ClaudeCodeRecord(input, 1700000000000)

	if rec.Agent != "claude-code" {
		t.Errorf("Agent = %q, want claude-code", rec.Agent)
	}
	if rec.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", rec.SessionID)
	}
	if rec.FilePath != "/tmp/main.go" {
		t.Errorf("FilePath = %q, want /tmp/main.go", rec.FilePath)
	}
	if rec.OldContent != "" {
		t.Errorf("OldContent = %q, want empty for Write", rec.OldContent)
	}
	if rec.NewContent != "package main\n" {
		t.Errorf("NewContent = %q, want full file content", rec.NewContent)
	}
	if rec.Timestamp != 1700000000000 {
		t.Errorf("Timestamp = %d, want 1700000000000", rec.Timestamp)
	}
	if !rec.Success {
		t.Error("Success = false, want true when tool response absent")
	}
}

func TestClaudeCodeRecord_Edit(t *testing.T) {
	input := &Input{
		SessionID: "sess-2",
		ToolName:  "Edit",
		ToolInput: &ToolInput{
			FilePath:  "/tmp/main.go",
			OldString: "old line",
			NewString: "new line",
		},
	}

	rec := ClaudeCodeRecord(input, 42)

	if rec.OldContent != "old line" {
		t.Errorf("OldContent = %q, want old line", rec.OldContent)
	}
	if rec.NewContent != "new line" {
		t.Errorf("NewContent = %q, want new line", rec.NewContent)
	}
	if rec.ToolName != "Edit" {
		t.Errorf("ToolName = %q, want Edit", rec.ToolName)
	}
}

func TestClaudeCodeRecord_FailedCall(t *testing.T) {
	input := &Input{
		SessionID:    "sess-3",
		ToolName:     "Edit",
		ToolInput:    &ToolInput{FilePath: "/tmp/x.go", NewString: "x"},
		ToolResponse: &ToolResponse{Success: false},
	}

	rec := ClaudeCodeRecord(input, 42)

	if rec.Success {
		t.Error("Success = true, want false when tool response reports failure")
	}
}
