package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// EngineVersion is the wire/format compatibility version this build of the
// core writes to new info.json files and checks loaded worlds against.
const EngineVersion = "v1.0.0"

// Info is the per-world metadata persisted at {world}/info.json: pure JSON,
// distinct from the tunable world.toml engine config (§4.10), grounded on
// the teacher's use of uuid.UUID as a stable identity separate from a
// human-readable name, and mgl64.Vec3 for world-space positions throughout
// server/world/world.go.
type Info struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	Seed    int64      `json:"seed"`
	Spawn   mgl64.Vec3 `json:"spawn"`
	Version string     `json:"version"`
}

// ErrIncompatibleVersion is returned by LoadInfo when the stored version is
// not semver-compatible with EngineVersion (differing major version).
var ErrIncompatibleVersion = errors.New("voxelcore/world: incompatible world version")

// NewInfo returns a freshly-minted Info for a new world named name, with a
// random id and the current EngineVersion.
func NewInfo(name string, seed int64, spawn mgl64.Vec3) Info {
	return Info{ID: uuid.New(), Name: name, Seed: seed, Spawn: spawn, Version: EngineVersion}
}

// LoadInfo reads and validates {dir}/info.json. A missing file is reported
// via fs.ErrNotExist (unwrapped, so callers can errors.Is against it
// directly) so the caller can decide whether to create a new world.
func LoadInfo(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, err
		}
		return Info{}, fmt.Errorf("world: read info.json: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("world: decode info.json: %w", err)
	}
	if !semver.IsValid(info.Version) {
		return Info{}, fmt.Errorf("world: info.json version %q is not valid semver", info.Version)
	}
	if semver.Major(info.Version) != semver.Major(EngineVersion) {
		return Info{}, fmt.Errorf("%w: world is %s, engine is %s", ErrIncompatibleVersion, info.Version, EngineVersion)
	}
	return info, nil
}

// Save writes info to {dir}/info.json.
func (info Info) Save(path string) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("world: encode info.json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("world: write info.json: %w", err)
	}
	return nil
}
