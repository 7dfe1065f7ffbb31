// Package model holds the shared record and result types exchanged between
// the store, the detector, and the agent adapters.
package model

import "strings"

// Contributor classifies who authored a hunk.
type Contributor string

const (
	ContributorAI         Contributor = "ai"
	ContributorAIModified Contributor = "ai_modified"
	ContributorHuman      Contributor = "human"
)

// Hunk is a contiguous block of added lines in one file, built per detection
// call from live editor state or a diff. Never persisted.
type Hunk struct {
	FilePath   string
	StartLine  int // 1-based
	EndLine    int
	AddedLines []string
}

// Content returns the hunk's added lines joined with newlines.
func (h Hunk) Content() string {
	return strings.Join(h.AddedLines, "\n")
}

// CodeChangeRecord is a raw capture of one tool-driven edit, produced by an
// agent adapter and persisted by the store. Immutable once appended.
type CodeChangeRecord struct {
	ID         string `json:"id,omitempty"` // assigned by the store if absent
	SessionID  string `json:"sessionId"`
	Agent      string `json:"agent"`
	Timestamp  int64  `json:"timestamp"` // epoch milliseconds
	ToolName   string `json:"toolName"`
	FilePath   string `json:"filePath"`
	OldContent string `json:"oldContent,omitempty"`
	NewContent string `json:"newContent,omitempty"`
	Success    bool   `json:"success"`
}

// PromptRecord captures a user instruction so it can be back-attributed to a
// later code change in the same session.
type PromptRecord struct {
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"`
}

// SessionSource identifies where an AgentRecord came from.
type SessionSource struct {
	Agent      string `json:"agent"`
	SessionID  string `json:"sessionId"`
	EventIndex int    `json:"eventIndex"` // per-session ordinal
	Timestamp  int64  `json:"timestamp"`
	Prompt     string `json:"prompt,omitempty"` // originating user prompt, if resolvable
}

// AgentRecord is the detector's working representation of a captured edit,
// derived from a CodeChangeRecord on read. Not separately persisted.
type AgentRecord struct {
	ID         string        `json:"id"`
	Source     SessionSource `json:"source"`
	FilePath   string        `json:"filePath"`
	NewContent string        `json:"newContent"`
	AddedLines []string      `json:"addedLines"`
	Timestamp  int64         `json:"timestamp"`
}

// Content returns the record's added lines joined with newlines, the form
// the similarity matcher compares against hunk content.
func (r AgentRecord) Content() string {
	return strings.Join(r.AddedLines, "\n")
}
