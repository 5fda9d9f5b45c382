package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/scanner"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/universe"
	"github.com/lcrow/starhelm/warp"
	"github.com/lcrow/starhelm/weapons"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state for save and restore.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Pose    PoseState      `json:"pose"`
	Warp    *warp.Session  `json:"warp,omitempty"`
	Ship    ship.State     `json:"ship"`
	Weapons weapons.State  `json:"weapons"`
	Scanner scanner.State  `json:"scanner"`
	Sector  universe.State `json:"sector"`
}

// PoseState holds the ship's spatial state.
type PoseState struct {
	Position rl.Vector3    `json:"position"`
	Rotation rl.Quaternion `json:"rotation"`
	Velocity rl.Vector3    `json:"velocity"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d.json", snapshot.Tick)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}

// LatestSnapshot returns the path of the newest snapshot in dir, or ""
// if there are none.
func LatestSnapshot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	best := ""
	var bestTick int64 = -1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var tick int64
		if _, err := fmt.Sscanf(e.Name(), "snapshot_%d.json", &tick); err != nil {
			continue
		}
		if tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, e.Name())
		}
	}
	return best
}
