// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(100*time.Millisecond, []string{"__pycache__"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	// Create a source file
	testFile := filepath.Join(tmpDir, "main.py")
	os.WriteFile(testFile, []byte("import os"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Unsupported files must not trigger events
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("ignore me"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "notes.txt" {
				t.Error("Unsupported file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "pkg")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.go")
	if err := os.WriteFile(subFile, []byte("package nested"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
				}
			}
		case <-timeout:
			t.Fatal("Timed out waiting for nested file event")
		}
	}
}

func TestWatcherExcludedDir(t *testing.T) {
	tmpDir := t.TempDir()

	excluded := filepath.Join(tmpDir, ".venv")
	if err := os.MkdirAll(excluded, 0755); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(50*time.Millisecond, []string{".venv"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(excluded, "site.py"), []byte("import sys"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("Excluded directory triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

func TestWatcherBadPattern(t *testing.T) {
	_, err := NewWatcher(time.Second, []string{"[invalid"}, func([]string) {})
	if err == nil {
		t.Fatal("expected error for invalid glob pattern")
	}
}
