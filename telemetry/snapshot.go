package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/ooze/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// SnapshotExt is the file extension of compressed snapshots.
const SnapshotExt = ".json.zst"

// Snapshot holds the simulation state at a tick.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`

	WorldWidth float64 `json:"world_width"`
	WorldDepth float64 `json:"world_depth"`

	Tick int32 `json:"tick"`

	Entities []EntityState `json:"entities"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// EntityState holds one entity's state.
type EntityState struct {
	ID   uint32          `json:"id"`
	Kind components.Kind `json:"kind"`

	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	VelX float64 `json:"vel_x"`
	VelY float64 `json:"vel_y"`
	VelZ float64 `json:"vel_z"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Health float64 `json:"health,omitempty"`

	Ooze     *OozeState     `json:"ooze,omitempty"`
	Lifetime *LifetimeStats `json:"lifetime,omitempty"`
}

// OozeState holds the creature-specific part of an entity.
type OozeState struct {
	Variant             components.Variant `json:"variant"`
	Family              components.Family  `json:"family"`
	Size                int32              `json:"size"`
	FollowRangeModifier float64            `json:"follow_range_modifier"`
	Mirrored            bool               `json:"mirrored"`
	Squish              float64            `json:"squish"`
	Phase               float64            `json:"phase"`
}

// SnapshotPath returns the file name a snapshot is saved under.
func SnapshotPath(dir string, snapshot *Snapshot) string {
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	return filepath.Join(dir, name+SnapshotExt)
}

// SaveSnapshot writes a zstd-compressed JSON snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := SnapshotPath(dir, snapshot)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", fmt.Errorf("zstd writer: %w", err)
	}

	bw := bufio.NewWriter(enc)
	if err := json.NewEncoder(bw).Encode(snapshot); err != nil {
		enc.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return "", fmt.Errorf("flush snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("close zstd writer: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var snapshot Snapshot
	if err := json.NewDecoder(bufio.NewReader(dec)).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
