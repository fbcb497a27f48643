package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistoryAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	h, err := NewHistory(path)
	if err != nil {
		t.Fatalf("NewHistory failed: %v", err)
	}

	if err := h.Append(HistoryEntry{Source: "page.html", Response: "第一条"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := h.Append(HistoryEntry{Source: "page.html", Response: "第二条"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := h.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Response != "第二条" {
		t.Errorf("unexpected last entry: %q", entries[1].Response)
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp should be filled in")
	}
}

func TestHistoryTrimsOldEntries(t *testing.T) {
	h, _ := NewHistory(filepath.Join(t.TempDir(), "history.json"))

	for i := 0; i < maxHistoryEntries+5; i++ {
		if err := h.Append(HistoryEntry{Response: "x"}); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	entries, err := h.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != maxHistoryEntries {
		t.Errorf("expected %d entries, got %d", maxHistoryEntries, len(entries))
	}
}

func TestHistoryRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	h, _ := NewHistory(path)
	if _, err := h.Load(); err == nil {
		t.Error("expected error for corrupt history")
	}
	if err := h.Append(HistoryEntry{Response: "ok"}); err != nil {
		t.Fatalf("Append should overwrite corrupt file: %v", err)
	}
	entries, err := h.Load()
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 entry after recovery, got %d (%v)", len(entries), err)
	}
}

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TROLLSHIELD_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir = %q, want %q", got, dir)
	}
}
