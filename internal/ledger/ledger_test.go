package ledger

import (
	"path/filepath"
	"testing"

	"github.com/johns/codetrace/internal/detect"
	"github.com/johns/codetrace/internal/model"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := l.Record(Verdict{FilePath: "/a.go", Contributor: model.ContributorAI}); err != nil {
		t.Fatal(err)
	}
	l.Close()

	// Migrations must be idempotent across reopens.
	l2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer l2.Close()

	s, err := l2.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Total != 1 {
		t.Errorf("Total = %d, want 1", s.Total)
	}
}

func TestSummarize(t *testing.T) {
	l := testLedger(t)

	verdicts := []Verdict{
		{FilePath: "/a.go", Contributor: model.ContributorAI, Similarity: 1.0, Agent: "claude-code"},
		{FilePath: "/b.go", Contributor: model.ContributorAI, Similarity: 0.92, Agent: "claude-code"},
		{FilePath: "/c.go", Contributor: model.ContributorAIModified, Similarity: 0.80, Agent: "aider"},
		{FilePath: "/d.go", Contributor: model.ContributorHuman, Similarity: 0.0},
	}
	for _, v := range verdicts {
		if err := l.Record(v); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	s, err := l.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.ByContributor[model.ContributorAI] != 2 {
		t.Errorf("ai count = %d, want 2", s.ByContributor[model.ContributorAI])
	}
	if s.ByContributor[model.ContributorHuman] != 1 {
		t.Errorf("human count = %d, want 1", s.ByContributor[model.ContributorHuman])
	}
	if s.ByAgent["claude-code"] != 2 {
		t.Errorf("claude-code count = %d, want 2", s.ByAgent["claude-code"])
	}
	want := (1.0 + 0.92 + 0.80) / 4
	if diff := s.AvgSimilarity - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AvgSimilarity = %v, want %v", s.AvgSimilarity, want)
	}
}

func TestRecordResult(t *testing.T) {
	l := testLedger(t)

	hunk := model.Hunk{FilePath: "/src/a.go", StartLine: 3, EndLine: 8, AddedLines: []string{"x"}}
	res := detect.Result{
		Contributor: model.ContributorAIModified,
		Similarity:  0.82,
		Confidence:  0.68,
		Match: &model.AgentRecord{
			ID:     "rec-1",
			Source: model.SessionSource{Agent: "claude-code", SessionID: "sess-9"},
		},
	}

	if err := l.RecordResult(hunk, res); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	got, err := l.RecentVerdicts(1)
	if err != nil {
		t.Fatalf("RecentVerdicts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	v := got[0]
	if v.FilePath != "/src/a.go" || v.StartLine != 3 || v.EndLine != 8 {
		t.Errorf("location = %s:%d-%d, want /src/a.go:3-8", v.FilePath, v.StartLine, v.EndLine)
	}
	if v.Contributor != model.ContributorAIModified {
		t.Errorf("Contributor = %q, want ai_modified", v.Contributor)
	}
	if v.MatchedRecord != "rec-1" || v.Agent != "claude-code" || v.SessionID != "sess-9" {
		t.Errorf("match detail not carried: %+v", v)
	}
	if v.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestRecentVerdicts_NewestFirst(t *testing.T) {
	l := testLedger(t)

	for _, path := range []string{"/first.go", "/second.go", "/third.go"} {
		if err := l.Record(Verdict{FilePath: path, Contributor: model.ContributorHuman}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := l.RecentVerdicts(2)
	if err != nil {
		t.Fatalf("RecentVerdicts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].FilePath != "/third.go" || got[1].FilePath != "/second.go" {
		t.Errorf("order = [%s %s], want newest first", got[0].FilePath, got[1].FilePath)
	}
}
