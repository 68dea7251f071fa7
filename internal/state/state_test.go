package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st != nil {
		t.Errorf("Load() = %+v, want nil for missing file", st)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	want := InstalledState{
		Version:     "1.3.0",
		InstallPath: "/opt/codegen",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil {
		t.Fatal("Load() = nil after Save")
	}
	if *got != want {
		t.Errorf("Load() = %+v, want %+v", *got, want)
	}
}

func TestStore_SaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")
	store := NewStore(path)

	if err := store.Save(InstalledState{Version: "1.0.0"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file missing after Save: %v", err)
	}
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "state.json"))

	if err := store.Save(InstalledState{Version: "1.0.0"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if e.Name() != "state.json" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

func TestStore_RepeatedSaveIsByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path)

	st := InstalledState{Version: "1.3.0", InstallPath: "/opt/codegen"}
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if err := store.Save(st); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("state file changed between identical saves:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	store := NewStore(path)
	if _, err := store.Load(); err == nil {
		t.Error("Load() expected error for corrupt file, got nil")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"))

	if err := store.Save(InstalledState{Version: "1.2.0", InstallPath: "/opt/codegen"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(InstalledState{Version: "1.3.0", InstallPath: "/opt/codegen"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Version != "1.3.0" {
		t.Errorf("Version = %q, want %q", got.Version, "1.3.0")
	}
}
