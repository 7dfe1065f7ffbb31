package linediff

import (
	"reflect"
	"testing"
)

func TestAddedLines_AppendOnly(t *testing.T) {
	oldContent := "line one\nline two\n"
	newContent := "line one\nline two\nline three\n"

	got := AddedLines(oldContent, newContent)
	want := []string{"line three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AddedLines = %v, want %v", got, want)
	}
}

func TestAddedLines_InsertInMiddle(t *testing.T) {
	oldContent := "func a() {}\nfunc c() {}\n"
	newContent := "func a() {}\nfunc b() {}\nfunc c() {}\n"

	got := AddedLines(oldContent, newContent)
	want := []string{"func b() {}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AddedLines = %v, want %v", got, want)
	}
}

func TestAddedLines_Replacement(t *testing.T) {
	oldContent := "const x = 1\nconst y = 2\n"
	newContent := "const x = 1\nconst y = 3\n"

	got := AddedLines(oldContent, newContent)
	want := []string{"const y = 3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AddedLines = %v, want %v", got, want)
	}
}

func TestAddedLines_NoChange(t *testing.T) {
	content := "a\nb\nc\n"
	if got := AddedLines(content, content); got != nil {
		t.Errorf("AddedLines identical = %v, want nil", got)
	}
}

func TestAddedLines_DeleteOnly(t *testing.T) {
	oldContent := "a\nb\nc\n"
	newContent := "a\nc\n"
	if got := AddedLines(oldContent, newContent); got != nil {
		t.Errorf("AddedLines delete-only = %v, want nil", got)
	}
}

func TestAddedLines_FullFileWrite(t *testing.T) {
	newContent := "package main\n\nfunc main() {}\n"

	got := AddedLines("", newContent)
	want := []string{"package main", "func main() {}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AddedLines full write = %v, want %v (blank lines skipped)", got, want)
	}
}

func TestAddedLines_EmptyNew(t *testing.T) {
	if got := AddedLines("anything", ""); got != nil {
		t.Errorf("AddedLines empty new = %v, want nil", got)
	}
}

func TestAddedLines_DuplicateLines(t *testing.T) {
	oldContent := "x\nx\n"
	newContent := "x\nx\nx\n"

	got := AddedLines(oldContent, newContent)
	want := []string{"x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AddedLines duplicates = %v, want %v", got, want)
	}
}
