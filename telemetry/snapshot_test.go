package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ooze/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		Seed:       42,
		WorldWidth: 64,
		WorldDepth: 48,
		Tick:       1000,
		Entities: []EntityState{
			{
				ID:     1,
				Kind:   components.KindOoze,
				X:      10,
				Y:      0,
				Z:      12.5,
				VelX:   0.1,
				VelY:   -0.08,
				Width:  1.02,
				Height: 1.02,
				Health: 12,
				Ooze: &OozeState{
					Variant:             2,
					Size:                5,
					FollowRangeModifier: 0.03,
					Mirrored:            true,
					Phase:               1.2,
				},
				Lifetime: &LifetimeStats{
					BirthTick:   100,
					InitialSize: 2,
					PeakSize:    5,
					Merges:      2,
				},
			},
			{
				ID:     2,
				Kind:   components.KindPlayer,
				X:      11,
				Width:  0.6,
				Height: 1.8,
				Health: 20,
			},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkGiant,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != snapshot.Seed {
		t.Errorf("Seed mismatch: got %d, want %d", loaded.Seed, snapshot.Seed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if len(loaded.Entities) != len(snapshot.Entities) {
		t.Fatalf("Entities count mismatch: got %d, want %d", len(loaded.Entities), len(snapshot.Entities))
	}

	ooze := loaded.Entities[0]
	if ooze.Ooze == nil || ooze.Ooze.Size != 5 || !ooze.Ooze.Mirrored || ooze.Ooze.Variant != 2 {
		t.Errorf("ooze state not restored: %+v", ooze.Ooze)
	}
	if ooze.Lifetime == nil || ooze.Lifetime.Merges != 2 || ooze.Lifetime.PeakSize != 5 {
		t.Errorf("lifetime not restored: %+v", ooze.Lifetime)
	}
	if player := loaded.Entities[1]; player.Ooze != nil || player.Kind != components.KindPlayer {
		t.Errorf("player entity = %+v, want no ooze state", player)
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkPopulationCrash,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_population_crash.json.zst")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json.zst")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestSnapshotIsCompressed(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 1}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.Contains(string(data), `"version"`) {
		t.Error("snapshot file contains plain JSON")
	}
	// zstd frame magic number.
	if len(data) < 4 || data[0] != 0x28 || data[1] != 0xb5 || data[2] != 0x2f || data[3] != 0xfd {
		t.Errorf("missing zstd magic: % x", data[:min(4, len(data))])
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion + 1, Tick: 1}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version mismatch error")
	}
}
