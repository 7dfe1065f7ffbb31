package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Cancel()

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger("file.go", func() { calls.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (burst collapsed)", got)
	}
}

func TestDebouncer_IndependentKeys(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Cancel()

	var calls atomic.Int32
	d.Trigger("a.go", func() { calls.Add(1) })
	d.Trigger("b.go", func() { calls.Add(1) })

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2 (keys debounce independently)", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger("a.go", func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 after Cancel", got)
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan string, 8)
	w, err := New(dir, []string{".git"}, 20*time.Millisecond, func(path string) {
		changed <- path
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	go w.Run()

	path := filepath.Join(dir, "sample.go")
	if err := os.WriteFile(path, []byte("package sample\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("changed path = %s, want %s", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}
