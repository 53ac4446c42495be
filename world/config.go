package world

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/dm-vev/voxelcore/chunk"
)

// engineConfigFile mirrors chunk.EngineConfig field-for-field with toml
// tags, grounded on the teacher's whitelistFile pattern
// (server/whitelist.go): a small unexported mirror struct dedicated to the
// on-disk shape, kept separate from the runtime struct it populates.
type engineConfigFile struct {
	MaxLoadingTasks       int   `toml:"max_loading_tasks"`
	MaxGenerationTasks    int   `toml:"max_generation_tasks"`
	MaxDecorationTasks    int   `toml:"max_decoration_tasks"`
	MaxSavingTasks        int   `toml:"max_saving_tasks"`
	RandomTicksPerSection int   `toml:"random_ticks_per_section"`
	BlockLimit            int64 `toml:"block_limit"`
	AutosaveInterval      int   `toml:"autosave_interval_ticks"`
	TickIntervalMillis    int64 `toml:"tick_interval_millis"`
}

// LoadEngineConfig reads path as a world.toml file and returns the
// chunk.EngineConfig and tick interval it describes, with zero fields
// defaulted per chunk.EngineConfig.Defaults. If path does not exist, the
// all-defaults configuration is returned; the file is not created (use
// SaveEngineConfig for that).
func LoadEngineConfig(path string) (chunk.EngineConfig, time.Duration, error) {
	var f engineConfigFile
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return chunk.EngineConfig{}.Defaults(), defaultTickInterval, nil
		}
		return chunk.EngineConfig{}, 0, fmt.Errorf("world: read engine config: %w", err)
	}
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &f); err != nil {
			return chunk.EngineConfig{}, 0, fmt.Errorf("world: decode engine config: %w", err)
		}
	}
	cfg := chunk.EngineConfig{
		MaxLoadingTasks:       f.MaxLoadingTasks,
		MaxGenerationTasks:    f.MaxGenerationTasks,
		MaxDecorationTasks:    f.MaxDecorationTasks,
		MaxSavingTasks:        f.MaxSavingTasks,
		RandomTicksPerSection: f.RandomTicksPerSection,
		BlockLimit:            f.BlockLimit,
		AutosaveInterval:      f.AutosaveInterval,
	}.Defaults()

	interval := defaultTickInterval
	if f.TickIntervalMillis > 0 {
		interval = time.Duration(f.TickIntervalMillis) * time.Millisecond
	}
	return cfg, interval, nil
}

// SaveEngineConfig writes cfg and interval to path as world.toml.
func SaveEngineConfig(path string, cfg chunk.EngineConfig, interval time.Duration) error {
	f := engineConfigFile{
		MaxLoadingTasks:       cfg.MaxLoadingTasks,
		MaxGenerationTasks:    cfg.MaxGenerationTasks,
		MaxDecorationTasks:    cfg.MaxDecorationTasks,
		MaxSavingTasks:        cfg.MaxSavingTasks,
		RandomTicksPerSection: cfg.RandomTicksPerSection,
		BlockLimit:            cfg.BlockLimit,
		AutosaveInterval:      cfg.AutosaveInterval,
		TickIntervalMillis:    interval.Milliseconds(),
	}
	encoded, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("world: encode engine config: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("world: write engine config: %w", err)
	}
	return nil
}
