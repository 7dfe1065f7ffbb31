package detect

import (
	"github.com/johns/codetrace/internal/linediff"
	"github.com/johns/codetrace/internal/model"
)

// PromptSource resolves the user prompt preceding a code change. The record
// store satisfies this; tests supply in-memory fakes.
type PromptSource interface {
	LatestPromptBefore(sessionID string, beforeTimestamp int64) (model.PromptRecord, error)
}

// AgentRecords converts raw code-change records into the detector's working
// representation: added lines derived by line diff, a per-session ordinal,
// and the originating prompt when prompts can resolve one.
//
// Failed tool calls are dropped; they did not change the file. prompts may
// be nil, in which case no back-attribution is attempted.
func AgentRecords(records []model.CodeChangeRecord, prompts PromptSource) []model.AgentRecord {
	sessionCounts := make(map[string]int)

	var out []model.AgentRecord
	for _, rec := range records {
		if !rec.Success {
			continue
		}

		index := sessionCounts[rec.SessionID]
		sessionCounts[rec.SessionID]++

		source := model.SessionSource{
			Agent:      rec.Agent,
			SessionID:  rec.SessionID,
			EventIndex: index,
			Timestamp:  rec.Timestamp,
		}
		if prompts != nil {
			if p, err := prompts.LatestPromptBefore(rec.SessionID, rec.Timestamp); err == nil {
				source.Prompt = p.Prompt
			}
		}

		out = append(out, model.AgentRecord{
			ID:         rec.ID,
			Source:     source,
			FilePath:   rec.FilePath,
			NewContent: rec.NewContent,
			AddedLines: linediff.AddedLines(rec.OldContent, rec.NewContent),
			Timestamp:  rec.Timestamp,
		})
	}

	return out
}
