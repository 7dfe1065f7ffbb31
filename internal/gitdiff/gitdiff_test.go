package gitdiff

import (
	"strings"
	"testing"
)

const sampleDiff = `diff --git a/internal/app/server.go b/internal/app/server.go
index 1a2b3c4..5d6e7f8 100644
--- a/internal/app/server.go
+++ b/internal/app/server.go
@@ -10,0 +11,2 @@ func main() {
+	srv := newServer()
+	srv.listen()
@@ -40 +42 @@ func shutdown() {
+	log.Println("bye")
diff --git a/README.md b/README.md
index aaa..bbb 100644
--- a/README.md
+++ b/README.md
@@ -1,2 +0,0 @@
-old title
-old subtitle
`

func TestParseUnified(t *testing.T) {
	hunks, err := ParseUnified(strings.NewReader(sampleDiff))
	if err != nil {
		t.Fatalf("ParseUnified: %v", err)
	}

	if len(hunks) != 2 {
		t.Fatalf("len(hunks) = %d, want 2 (deletion-only hunk dropped)", len(hunks))
	}

	h := hunks[0]
	if h.FilePath != "internal/app/server.go" {
		t.Errorf("FilePath = %q, want internal/app/server.go", h.FilePath)
	}
	if h.StartLine != 11 || h.EndLine != 12 {
		t.Errorf("range = %d-%d, want 11-12", h.StartLine, h.EndLine)
	}
	if len(h.AddedLines) != 2 || h.AddedLines[0] != "\tsrv := newServer()" {
		t.Errorf("AddedLines = %q, want the two added lines", h.AddedLines)
	}

	h = hunks[1]
	if h.StartLine != 42 || h.EndLine != 42 {
		t.Errorf("single-line range = %d-%d, want 42-42", h.StartLine, h.EndLine)
	}
	if len(h.AddedLines) != 1 || h.AddedLines[0] != "\tlog.Println(\"bye\")" {
		t.Errorf("AddedLines = %q, want one line", h.AddedLines)
	}
}

func TestParseUnified_NewFile(t *testing.T) {
	diff := `diff --git a/new.go b/new.go
new file mode 100644
index 0000000..1111111
--- /dev/null
+++ b/new.go
@@ -0,0 +1,2 @@
+package main
+
`
	hunks, err := ParseUnified(strings.NewReader(diff))
	if err != nil {
		t.Fatalf("ParseUnified: %v", err)
	}
	if len(hunks) != 1 {
		t.Fatalf("len(hunks) = %d, want 1", len(hunks))
	}
	if hunks[0].FilePath != "new.go" {
		t.Errorf("FilePath = %q, want new.go", hunks[0].FilePath)
	}
	if hunks[0].StartLine != 1 || hunks[0].EndLine != 2 {
		t.Errorf("range = %d-%d, want 1-2", hunks[0].StartLine, hunks[0].EndLine)
	}
}

func TestParseUnified_DeletedFile(t *testing.T) {
	diff := `diff --git a/gone.go b/gone.go
deleted file mode 100644
--- a/gone.go
+++ /dev/null
@@ -1,3 +0,0 @@
-package gone
-
-var x = 1
`
	hunks, err := ParseUnified(strings.NewReader(diff))
	if err != nil {
		t.Fatalf("ParseUnified: %v", err)
	}
	if len(hunks) != 0 {
		t.Errorf("len(hunks) = %d, want 0 for deleted file", len(hunks))
	}
}

func TestParseUnified_Empty(t *testing.T) {
	hunks, err := ParseUnified(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseUnified: %v", err)
	}
	if len(hunks) != 0 {
		t.Errorf("len(hunks) = %d, want 0", len(hunks))
	}
}

func TestParseUnified_BadHeader(t *testing.T) {
	diff := "+++ b/x.go\n@@ garbage @@\n"
	if _, err := ParseUnified(strings.NewReader(diff)); err == nil {
		t.Error("expected error for malformed hunk header")
	}
}
