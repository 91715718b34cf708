package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/tank/denizen"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		TankWidth:  1280,
		TankHeight: 720,
		Frame:      1000,
		SimTimeSec: 16.5,
		Denizens: []denizen.RenderRules{
			{ID: 1, Kind: denizen.KindBiteFish, ImageURI: "/images/fish02.gif", CSS: denizen.CSS{Width: 60, Height: 60}, X: 120, Y: 220},
			{ID: 4, Kind: denizen.KindSeed, ImageURI: "/images/seed.png", CSS: denizen.CSS{Width: 30, Height: 30}, X: 15, Y: 400},
		},
		Bookmark: &Bookmark{Type: BookmarkFeedingFrenzy, SimTimeSec: 16.5, Description: "bites spiked"},
	}

	path, err := SaveSnapshot(snapshot, filepath.Join(tmpDir, "snapshots"))
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if base := filepath.Base(path); base != "snapshot_1000_feeding_frenzy.json" {
		t.Errorf("file name = %q", base)
	}

	// Kinds are written by name
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"kind": "bite_fish"`) {
		t.Errorf("snapshot does not name kinds:\n%s", data)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !reflect.DeepEqual(loaded, snapshot) {
		t.Errorf("loaded = %+v, want %+v", loaded, snapshot)
	}
}

func TestSnapshotWithoutBookmark(t *testing.T) {
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 7}, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if base := filepath.Base(path); base != "snapshot_7.json" {
		t.Errorf("file name = %q", base)
	}

	var raw map[string]any
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := raw["bookmark"]; ok {
		t.Error("empty bookmark was written")
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file loaded")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"denizens": [{"kind": "kraken"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("unknown kind loaded")
	}

	future := filepath.Join(dir, "future.json")
	if err := os.WriteFile(future, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(future); err == nil {
		t.Error("unknown version loaded")
	}
}
