package main

import (
	"path/filepath"
	"testing"
)

func TestHistoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := OpenHistoryStore(path, 100)
	if err != nil {
		t.Fatalf("failed to open history store: %v", err)
	}
	defer store.Close()

	t.Run("AppendAndRecall", func(t *testing.T) {
		for _, cmd := range []string{"ls", "pwd", "echo hi"} {
			if err := store.Append(cmd); err != nil {
				t.Fatalf("append failed: %v", err)
			}
		}

		lines, err := store.Recent(10)
		if err != nil {
			t.Fatalf("recent failed: %v", err)
		}
		want := []string{"ls", "pwd", "echo hi"}
		if len(lines) != len(want) {
			t.Fatalf("got %d lines, want %d", len(lines), len(want))
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
			}
		}
	})

	t.Run("SkipsBlankAndConsecutiveDuplicates", func(t *testing.T) {
		store.Append("")
		store.Append("   ")
		store.Append("echo hi") // duplicate of the latest entry
		store.Append("date")
		store.Append("date")

		lines, err := store.Recent(10)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"ls", "pwd", "echo hi", "date"}
		if len(lines) != len(want) {
			t.Fatalf("got %v, want %v", lines, want)
		}
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		store.Close()

		reopened, err := OpenHistoryStore(path, 100)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer reopened.Close()

		lines, err := reopened.Recent(10)
		if err != nil || len(lines) == 0 {
			t.Fatalf("history lost across reopen: %v, %v", lines, err)
		}
		store = reopened
	})
}

func TestHistoryStoreTrimsToCap(t *testing.T) {
	store, err := OpenHistoryStore(filepath.Join(t.TempDir(), "history.db"), 3)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, cmd := range []string{"one", "two", "three", "four", "five"} {
		if err := store.Append(cmd); err != nil {
			t.Fatal(err)
		}
	}

	lines, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"three", "four", "five"}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
