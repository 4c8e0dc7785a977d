package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcher_ReportsCourse(t *testing.T) {
	root := t.TempDir()
	course := filepath.Join(root, "tutorials", "python")
	if err := os.MkdirAll(course, 0o755); err != nil {
		t.Fatal(err)
	}

	var (
		mu      sync.Mutex
		changed []string
	)
	w, err := New(root,
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func(c string) {
			mu.Lock()
			changed = append(changed, c)
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	// Several writes in a burst collapse into one notification.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(course, "loops.md"), []byte("# Loops"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(changed)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	got := append([]string(nil), changed...)
	mu.Unlock()
	if len(got) != 1 || got[0] != "python" {
		t.Errorf("changed = %v, want [python]", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestWatcher_MissingTutorialsDir(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() should fail without a tutorials directory")
	}
}

func TestWatcher_RunTwice(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "tutorials"), 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); err != ErrAlreadyStarted {
		t.Errorf("second Run() error = %v, want ErrAlreadyStarted", err)
	}
	cancel()
	<-done
}

func TestWatcher_IgnoresPlainFilesUnderTutorials(t *testing.T) {
	root := t.TempDir()
	tutorials := filepath.Join(root, "tutorials")
	if err := os.MkdirAll(filepath.Join(tutorials, "python"), 0o755); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 8)
	w, err := New(root,
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func(c string) { changed <- c }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(tutorials, "README.md"), []byte("# Notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-changed:
		t.Fatalf("onChange(%q) for a plain file under tutorials/", c)
	case <-time.After(300 * time.Millisecond):
	}

	// A new course directory still counts.
	if err := os.Mkdir(filepath.Join(tutorials, "golang"), 0o755); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-changed:
		if c != "golang" {
			t.Errorf("onChange(%q), want golang", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no onChange for a new course directory")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
