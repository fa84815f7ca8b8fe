package telemetry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/lenia/engine"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	e, err := engine.New(32, engine.DefaultParams(), engine.WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}
	e.Randomize(0.5, 0.4)
	e.Run(3)

	snapshot := NewSnapshot(e, 7)
	snapshot.Bookmark = &Bookmark{
		Type:        BookmarkStableSoliton,
		Step:        3,
		Description: "Test bookmark",
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expectedName := "snapshot_3_stable_soliton.json"
	if filepath.Base(path) != expectedName {
		t.Errorf("expected filename %s, got %s", expectedName, filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != SnapshotVersion || loaded.RNGSeed != 7 || loaded.Step != 3 {
		t.Errorf("header = %d/%d/%d", loaded.Version, loaded.RNGSeed, loaded.Step)
	}
	if loaded.Size() != 32 {
		t.Errorf("size = %d, want 32", loaded.Size())
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkStableSoliton {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}

	restored, err := engine.New(32, engine.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := loaded.Restore(restored); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	want, got := e.State(), restored.State()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %v, want %v", i, got[i], want[i])
		}
	}
	if restored.Stats() != e.Stats() {
		t.Errorf("stats = %+v, want %+v", restored.Stats(), e.Stats())
	}

	if err := loaded.RestoreMulti(nil); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("RestoreMulti on single snapshot: %v", err)
	}
}

func TestSnapshotMulti(t *testing.T) {
	m, err := engine.NewMulti(16, engine.DefaultParams(), engine.DefaultSpread(), engine.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	m.Randomize(0.5, 0.5)
	m.Step()

	snap := NewMultiSnapshot(m, 1)
	path, err := SaveSnapshot(snap, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "snapshot_1.json" {
		t.Errorf("filename = %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	other, err := engine.NewMulti(16, engine.DefaultParams(), engine.DefaultSpread())
	if err != nil {
		t.Fatal(err)
	}
	if err := loaded.RestoreMulti(other); err != nil {
		t.Fatalf("RestoreMulti: %v", err)
	}
	if other.ChannelParams() != m.ChannelParams() {
		t.Errorf("channel params differ after restore")
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	e, err := engine.New(8, engine.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(NewSnapshot(e, 0))
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["multi"]; ok {
		t.Error("single snapshot serialized a multi field")
	}

	var single map[string]json.RawMessage
	if err := json.Unmarshal(raw["single"], &single); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"size", "params", "state", "stats"} {
		if _, ok := single[key]; !ok {
			t.Errorf("export missing %q", key)
		}
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"version":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(empty); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("expected ErrEmptySnapshot, got %v", err)
	}
}
