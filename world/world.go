// Package world is the world-level orchestrator: it owns a chunk.ChunkSet,
// the task pools and external collaborators bound to it, the tick loop
// (grounded on the teacher's server/world/tick.go ticker.tickLoop), and the
// on-disk world directory layout of §6.
package world

import (
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/dm-vev/voxelcore/chunk"
)

const defaultTickInterval = 50 * time.Millisecond

const (
	tpsSampleSize       = 20
	tpsWarningThreshold = 19.0
	// saturationLogInterval is the minimum time between two task-pool
	// backlog warnings from logSaturationIfDue.
	saturationLogInterval = time.Minute
)

// Config bundles everything needed to open or create a World, grounded on
// the teacher's Config-struct-plus-New pattern (server/conf.go's Config).
type Config struct {
	Directory string
	Log       *slog.Logger
	Generator chunk.Generator
	Decorator chunk.Decorator
	Codec     chunk.Codec
	Engine    chunk.EngineConfig
	// TickInterval defaults to 50ms (20 TPS) if zero.
	TickInterval time.Duration
	// OnActivation, OnNeighborActivation, OnDeactivation, OnRandomTick and
	// OnScheduledEvent are forwarded verbatim to chunk.Context; see there.
	OnActivation         func(c *chunk.Chunk)
	OnNeighborActivation func(neighbor, activated *chunk.Chunk)
	OnDeactivation       func(c *chunk.Chunk)
	OnRandomTick         func(c *chunk.Chunk, sec *chunk.Section, x, y, z int, cell chunk.Cell)
	OnScheduledEvent     func(c *chunk.Chunk, ev chunk.ScheduledEvent, fluid bool)
	// FatalHandler receives FatalGenerationError/FatalDecorationError
	// failures; if nil, the World panics, matching chunk.Context's default.
	FatalHandler func(pos chunk.ChunkPosition, err error)
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.Generator == nil {
		c.Generator = chunk.NopGenerator{}
	}
	if c.Decorator == nil {
		c.Decorator = chunk.NopDecorator{}
	}
	if c.Codec == nil {
		c.Codec = chunk.NopCodec{}
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	c.Engine = c.Engine.Defaults()
	return c
}

// World drives the chunk lifecycle core against one on-disk world
// directory: binding a chunk.ChunkSet and chunk.Context, applying
// Request/Release from embedding callers, and running the tick loop that
// calls ChunkSet.UpdateAll at the configured rate.
type World struct {
	layout Layout
	info   Info
	conf   Config
	set    *chunk.ChunkSet
	ctx    *chunk.Context

	tps     atomic.Uint64
	closing chan struct{}
	done    chan struct{}
}

// Open loads (or creates, if absent) the world at conf.Directory, ensuring
// its directory layout exists, and returns a World ready to Request/Release
// chunks and Run its tick loop.
func Open(conf Config, info Info) (*World, error) {
	conf = conf.withDefaults()
	layout := Layout{Root: conf.Directory}
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}

	loaded, err := LoadInfo(layout.infoPath())
	switch {
	case err == nil:
		info = loaded
	case errors.Is(err, fs.ErrNotExist):
		if err := info.Save(layout.infoPath()); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	set := chunk.NewChunkSet(conf.Engine)
	ctx := &chunk.Context{
		Config:               conf.Engine,
		Generator:            conf.Generator,
		Decorator:            conf.Decorator,
		Codec:                conf.Codec,
		Directory:            layout.Chunks(),
		Log:                  conf.Log,
		FatalHandler:         conf.FatalHandler,
		OnActivation:         conf.OnActivation,
		OnNeighborActivation: conf.OnNeighborActivation,
		OnDeactivation:       conf.OnDeactivation,
		OnRandomTick:         conf.OnRandomTick,
		OnScheduledEvent:     conf.OnScheduledEvent,
		Pools: chunk.Pools{
			Loading:    &chunk.TaskPool{},
			Generation: &chunk.TaskPool{},
			Decoration: &chunk.TaskPool{},
			Saving:     &chunk.TaskPool{},
		},
	}
	set.BindContext(ctx)
	set.Request(chunk.ChunkPosition{})

	return &World{
		layout:  layout,
		info:    info,
		conf:    conf,
		set:     set,
		ctx:     ctx,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Info returns the world's persisted metadata.
func (w *World) Info() Info { return w.info }

// Layout returns the world's on-disk directory layout.
func (w *World) Layout() Layout { return w.layout }

// Request marks pos as live, per chunk.ChunkSet.Request.
func (w *World) Request(pos chunk.ChunkPosition) { w.set.Request(pos) }

// Release marks pos as no longer live, per chunk.ChunkSet.Release.
func (w *World) Release(pos chunk.ChunkPosition) { w.set.Release(pos) }

// GetActive returns the chunk at pos only if it is currently Active.
func (w *World) GetActive(pos chunk.ChunkPosition) (*chunk.Chunk, bool) { return w.set.GetActive(pos) }

// ActiveCount returns the number of chunks currently Active.
func (w *World) ActiveCount() int { return w.set.ActiveCount() }

// TPS returns the most recently sampled ticks-per-second figure, or 0 if
// fewer than tpsSampleSize ticks have elapsed yet.
func (w *World) TPS() float64 {
	return math.Float64frombits(w.tps.Load())
}

// Run starts the tick loop, blocking until Close is called. Grounded on the
// teacher's ticker.tickLoop (server/world/tick.go): a time.Ticker drives
// ChunkSet.UpdateAll, sampling actual tick duration over a window to derive
// an effective TPS and warning when it drops under threshold.
func (w *World) Run() {
	defer close(w.done)
	tc := time.NewTicker(w.conf.TickInterval)
	defer tc.Stop()

	lastTick := time.Now()
	var durationSum time.Duration
	var ticksCount int
	var warned bool
	var lastSatLog time.Time

	for {
		select {
		case <-tc.C:
			tickStart := time.Now()
			duration := tickStart.Sub(lastTick)
			lastTick = tickStart
			if duration > 0 {
				durationSum += duration
				ticksCount++
				if ticksCount >= tpsSampleSize {
					avg := durationSum / time.Duration(ticksCount)
					if avg > 0 {
						tps := 1.0 / avg.Seconds()
						w.tps.Store(math.Float64bits(tps))
						if tps < tpsWarningThreshold {
							if !warned {
								w.conf.Log.Warn("tick rate dropped below threshold", "tps", tps)
								warned = true
							}
						} else {
							warned = false
						}
					}
					durationSum, ticksCount = 0, 0
				}
			}

			w.set.UpdateAll()
			w.logSaturationIfDue(&lastSatLog)
		case <-w.closing:
			return
		}
	}
}

// logSaturationIfDue emits a rate-limited warning when any task pool has
// recorded allocation failures, grounded on the teacher's
// handleGeneratorBackpressure (generatorQueueSaturation/
// lastQueueSaturationLog) pattern.
func (w *World) logSaturationIfDue(last *time.Time) {
	now := time.Now()
	if !last.IsZero() && now.Sub(*last) < saturationLogInterval {
		return
	}
	loading := w.ctx.Pools.Loading.Saturation()
	generation := w.ctx.Pools.Generation.Saturation()
	decoration := w.ctx.Pools.Decoration.Saturation()
	saving := w.ctx.Pools.Saving.Saturation()
	if loading == 0 && generation == 0 && decoration == 0 && saving == 0 {
		return
	}
	*last = now
	w.conf.Log.Warn("task pool backlog detected",
		"loading_saturated", loading,
		"generation_saturated", generation,
		"decoration_saturated", decoration,
		"saving_saturated", saving,
	)
}

// Close stops the tick loop and blocks until it has exited.
func (w *World) Close() error {
	close(w.closing)
	<-w.done
	return nil
}
