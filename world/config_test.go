package world

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dm-vev/voxelcore/chunk"
)

func TestLoadEngineConfigMissingReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, interval, err := LoadEngineConfig(filepath.Join(dir, "world.toml"))
	if err != nil {
		t.Fatalf("LoadEngineConfig: %v", err)
	}
	if cfg != (chunk.EngineConfig{}.Defaults()) {
		t.Fatalf("LoadEngineConfig() cfg = %+v, want defaults", cfg)
	}
	if interval != defaultTickInterval {
		t.Fatalf("LoadEngineConfig() interval = %v, want %v", interval, defaultTickInterval)
	}
}

func TestSaveLoadEngineConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	want := chunk.EngineConfig{
		MaxLoadingTasks:       9,
		MaxGenerationTasks:    6,
		MaxDecorationTasks:    3,
		MaxSavingTasks:        5,
		RandomTicksPerSection: 2,
		BlockLimit:            1_000_000,
		AutosaveInterval:      1200,
	}
	wantInterval := 25 * time.Millisecond

	if err := SaveEngineConfig(path, want, wantInterval); err != nil {
		t.Fatalf("SaveEngineConfig: %v", err)
	}

	got, interval, err := LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("LoadEngineConfig: %v", err)
	}
	if got != want {
		t.Fatalf("LoadEngineConfig() cfg = %+v, want %+v", got, want)
	}
	if interval != wantInterval {
		t.Fatalf("LoadEngineConfig() interval = %v, want %v", interval, wantInterval)
	}
}
