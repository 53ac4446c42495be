// Command voxelcored is a small illustrative wiring binary: it opens a
// world directory, requests a block of chunks around the origin, runs the
// tick loop, and logs activation/deactivation as they happen. It exists to
// demonstrate how an embedding application assembles chunk.Generator,
// chunk.Decorator and chunk.Codec implementations into a world.World, not
// as a deployable server.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dm-vev/voxelcore/chunk"
	"github.com/dm-vev/voxelcore/chunk/chunkio"
	"github.com/dm-vev/voxelcore/chunk/gen"
	"github.com/dm-vev/voxelcore/world"
)

func main() {
	dir := flag.String("dir", "world", "world directory")
	radius := flag.Int("radius", 2, "chunk request radius around the origin")
	seed := flag.Int64("seed", 1, "terrain generation seed")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(*dir, *radius, *seed, log); err != nil {
		log.Error("voxelcored exited with an error", "err", err)
		os.Exit(1)
	}
}

func run(dir string, radius int, seed int64, log *slog.Logger) error {
	engineCfgPath := filepath.Join(dir, "world.toml")
	engineCfg, tickInterval, err := world.LoadEngineConfig(engineCfgPath)
	if err != nil {
		return err
	}
	if err := world.SaveEngineConfig(engineCfgPath, engineCfg, tickInterval); err != nil {
		return err
	}

	generator := gen.New(gen.ColumnConfig{
		Seed:            seed,
		StoneID:         1,
		AirID:           0,
		WaterID:         2,
		TreeTrunkID:     3,
		TreeLeafID:      4,
		TreesPerSection: 1,
	})
	decorator := &gen.OreDecorator{
		Seed: seed,
		Ores: []gen.OreType{
			{BlockID: 5, ReplaceID: 1, ClusterSize: 6, ClustersPerSection: 1},
		},
	}

	w, err := world.Open(world.Config{
		Directory:    dir,
		Log:          log,
		Generator:    generator,
		Decorator:    decorator,
		Codec:        chunkio.FileCodec{},
		Engine:       engineCfg,
		TickInterval: tickInterval,
		OnActivation: func(c *chunk.Chunk) {
			log.Info("chunk activated", "pos", c.Position())
		},
		OnDeactivation: func(c *chunk.Chunk) {
			log.Info("chunk deactivated", "pos", c.Position())
		},
		FatalHandler: func(pos chunk.ChunkPosition, err error) {
			log.Error("fatal chunk failure", "pos", pos, "err", err)
		},
	}, world.NewInfo(filepath.Base(dir), seed, mgl64.Vec3{}))
	if err != nil {
		return err
	}

	r := int32(radius)
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				w.Request(chunk.ChunkPosition{X: x, Y: y, Z: z})
			}
		}
	}

	go w.Run()
	log.Info("voxelcored running", "dir", dir, "tick_interval", tickInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("world close timed out")
	}
	return nil
}
