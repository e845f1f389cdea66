package index

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEventIndexPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", FileName)

	idx, err := NewEventIndexAt(path)
	if err != nil {
		t.Fatalf("NewEventIndexAt failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("Expected empty index, got %d entries", idx.Len())
	}

	// Nothing changed, so nothing is written.
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Expected no file for clean index, stat err = %v", err)
	}

	idx.Set("t1", "e1")
	idx.Set("t2", "e2")
	idx.Remove("t2")
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewEventIndexAt(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := reloaded.Get("t1"); got != "e1" {
		t.Errorf("Expected e1, got %q", got)
	}
	if got := reloaded.Get("t2"); got != "" {
		t.Errorf("Expected removed mapping, got %q", got)
	}
}

func TestEventIndexCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEventIndexAt(path); err == nil {
		t.Error("Expected error for corrupt index file")
	}
}

func TestEventIndexNullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("null"), 0600); err != nil {
		t.Fatal(err)
	}
	idx, err := NewEventIndexAt(path)
	if err != nil {
		t.Fatalf("NewEventIndexAt failed: %v", err)
	}
	idx.Set("t1", "e1")
	if got := idx.Get("t1"); got != "e1" {
		t.Errorf("Expected e1, got %q", got)
	}
}

func TestEventIndexTaskIDs(t *testing.T) {
	idx, err := NewEventIndexAt(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatal(err)
	}
	idx.Set("b", "e2")
	idx.Set("a", "e1")
	ids := idx.TaskIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("Expected [a b], got %v", ids)
	}
}
