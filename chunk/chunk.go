package chunk

import "log/slog"

// S is the edge length of a Chunk in Sections (S^3 sections per chunk, so
// S^3 * N^3 cells per chunk).
const S = 4

// Pools bundles the bounded task allocators each background-work state
// draws its concurrency slot from.
type Pools struct {
	Loading    *TaskPool
	Generation *TaskPool
	Decoration *TaskPool
	Saving     *TaskPool
}

// EngineConfig holds the tunables governing how aggressively the chunk
// lifecycle pursues background work. The zero value is not directly
// usable; call Defaults to fill in sensible ceilings, grounded on the
// teacher's Config/withDefaults pattern (server/world/redstone/config.go).
type EngineConfig struct {
	MaxLoadingTasks       int
	MaxGenerationTasks    int
	MaxDecorationTasks    int
	MaxSavingTasks        int
	RandomTicksPerSection int
	// BlockLimit bounds the world in block units along any axis; requests
	// outside |x|,|y|,|z| <= BlockLimit/(S*N) are silently ignored.
	BlockLimit int64
	// AutosaveInterval is the number of UpdateAll ticks between periodic
	// saves of every Active chunk. Zero takes Defaults' value; set to -1
	// explicitly to disable autosave.
	AutosaveInterval int
}

// Defaults returns c with zero fields replaced by sensible ceilings.
func (c EngineConfig) Defaults() EngineConfig {
	if c.MaxLoadingTasks <= 0 {
		c.MaxLoadingTasks = 4
	}
	if c.MaxGenerationTasks <= 0 {
		c.MaxGenerationTasks = 4
	}
	if c.MaxDecorationTasks <= 0 {
		c.MaxDecorationTasks = 2
	}
	if c.MaxSavingTasks <= 0 {
		c.MaxSavingTasks = 4
	}
	if c.RandomTicksPerSection <= 0 {
		c.RandomTicksPerSection = 3
	}
	if c.BlockLimit <= 0 {
		c.BlockLimit = 30_000_000
	}
	if c.AutosaveInterval == 0 {
		c.AutosaveInterval = 6000
	} else if c.AutosaveInterval < 0 {
		c.AutosaveInterval = -1
	}
	return c
}

// Context is threaded through every ChunkState hook. It bundles everything
// a state needs beyond the Chunk itself: the world-level chunk registry
// (for neighbor lookups and deactivation), the bounded task pools, the
// external collaborators, and a logger.
type Context struct {
	Set       *ChunkSet
	Config    EngineConfig
	Pools     Pools
	Generator Generator
	Decorator Decorator
	Codec     Codec
	Directory string
	Log       *slog.Logger
	// FatalHandler is invoked when a Generator or Decorator failure
	// surfaces (spec.md §7: FatalGeneration/FatalDecoration, "the world
	// is considered poisoned and terminates"). If nil, the error is
	// panicked, which is the default "the world crashes" behavior;
	// embedding applications that want an orderly shutdown should set
	// this instead of relying on the panic.
	FatalHandler func(pos ChunkPosition, err error)

	// OnActivation, if set, is invoked once a chunk's Active state is
	// entered (spec.md §4.4, "runs on_activation()").
	OnActivation func(c *Chunk)
	// OnNeighborActivation, if set, is invoked against every already-Active
	// face neighbor of c once c becomes Active ("notifies each existing
	// active neighbor via on_neighbor_activation(self)").
	OnNeighborActivation func(neighbor, activated *Chunk)
	// OnDeactivation, if set, is invoked when a chunk's Active state is
	// exited.
	OnDeactivation func(c *Chunk)
	// OnRandomTick, if set, is invoked once per sampled cell per section
	// per Active update, per EngineConfig.RandomTicksPerSection. The core
	// does not interpret the sampled Cell itself.
	OnRandomTick func(c *Chunk, sec *Section, x, y, z int, cell Cell)
	// OnScheduledEvent, if set, is invoked for every block/fluid
	// ScheduledEvent that elapses during an Active update; fluid reports
	// whether the event came from the fluid queue rather than the block
	// queue.
	OnScheduledEvent func(c *Chunk, ev ScheduledEvent, fluid bool)
}

// notifyActivation runs OnActivation for c and OnNeighborActivation for
// each of c's six face neighbors that are themselves currently Active.
func (ctx *Context) notifyActivation(c *Chunk) {
	if ctx.OnActivation != nil {
		ctx.OnActivation(c)
	}
	if ctx.OnNeighborActivation == nil || ctx.Set == nil {
		return
	}
	offsets := [6]ChunkPosition{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	for _, o := range offsets {
		n, ok := ctx.Set.getAny(c.pos.Add(o))
		if !ok || !n.IsActive() {
			continue
		}
		ctx.OnNeighborActivation(n, c)
	}
}

func (ctx *Context) logger() *slog.Logger {
	if ctx.Log != nil {
		return ctx.Log
	}
	return slog.Default()
}

// reportFatal routes a fatal generation/decoration failure to
// ctx.FatalHandler, or panics if none is set.
func (ctx *Context) reportFatal(pos ChunkPosition, err error) {
	if ctx.FatalHandler != nil {
		ctx.FatalHandler(pos, err)
		return
	}
	panic(err)
}

// anyNeighborIntendsToReady reports whether any of c's six face neighbors
// currently exist and are in a state that IntendsToReady.
func (ctx *Context) anyNeighborIntendsToReady(c *Chunk) bool {
	if ctx.Set == nil {
		return false
	}
	offsets := [6]ChunkPosition{
		{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
	}
	for _, o := range offsets {
		n, ok := ctx.Set.getAny(c.pos.Add(o))
		if !ok {
			continue
		}
		if n.state.IntendsToReady() {
			return true
		}
	}
	return false
}

// Chunk holds S^3 Sections, the two resources guarding core and extended
// data, the decoration bitmap, the scheduled-tick queues and the current
// ChunkState. External callers only ever observe it through ChunkSet and
// the Active-state sharing contract; they never set state directly.
type Chunk struct {
	pos ChunkPosition

	sections [S * S * S]*Section

	core     Resource
	extended Resource

	coreGuard *Guard
	extGuard  *Guard

	decoration DecorationBits

	blockTicks TickScheduler
	fluidTicks TickScheduler

	state   ChunkState
	entered bool

	neighborWait int

	queue []requestEntry

	declaredNext     ChunkState
	declaredRequired bool

	isRequested bool
	disposed    bool
}

// NewChunk returns a freshly-born Unloaded chunk at pos.
func NewChunk(pos ChunkPosition) *Chunk {
	c := &Chunk{
		pos:        pos,
		state:      newUnloaded(),
		blockTicks: NewTickQueue(),
		fluidTicks: NewTickQueue(),
	}
	for i := range c.sections {
		x, y, z := sectionCoordsFromIndex(i)
		c.sections[i] = NewSection(SectionPosition{X: x, Y: y, Z: z})
	}
	return c
}

func sectionIndex(x, y, z int) int {
	return (x*S+y)*S + z
}

func sectionCoordsFromIndex(i int) (x, y, z int) {
	z = i % S
	i /= S
	y = i % S
	x = i / S
	return
}

// Position returns the chunk's identity.
func (c *Chunk) Position() ChunkPosition { return c.pos }

// State returns the chunk's current ChunkState.
func (c *Chunk) State() ChunkState { return c.state }

// StateKind is a convenience accessor for c.State().Kind().
func (c *Chunk) StateKind() StateKind { return c.state.Kind() }

// IsActive reports whether the chunk's current state permits outside
// sharing access, i.e. is the Active state.
func (c *Chunk) IsActive() bool { return c.state.Kind() == KindActive }

// IsRequested reports whether an outside caller currently wants this
// chunk live.
func (c *Chunk) IsRequested() bool { return c.isRequested }

// Decoration returns the chunk's decoration bitmap.
func (c *Chunk) Decoration() DecorationBits { return c.decoration }

// Section returns the section at local section coordinate (x, y, z), each
// in [0, S).
func (c *Chunk) Section(x, y, z int) *Section {
	return c.sections[sectionIndex(x, y, z)]
}

// SectionAt returns the section containing the world block position
// (wx, wy, wz), along with the local cell coordinate within it.
func (c *Chunk) SectionAt(wx, wy, wz int) (*Section, int, int, int) {
	fx, fy, fz := c.pos.FirstBlock()
	lx, ly, lz := wx-fx, wy-fy, wz-fz
	sx, sy, sz := lx/N, ly/N, lz/N
	return c.Section(sx, sy, sz), lx % N, ly % N, lz % N
}

// BlockTicks returns the chunk's block-event scheduler.
func (c *Chunk) BlockTicks() TickScheduler { return c.blockTicks }

// FluidTicks returns the chunk's fluid-event scheduler.
func (c *Chunk) FluidTicks() TickScheduler { return c.fluidTicks }

// AcquireCore attempts to acquire the core resource directly, for callers
// outside the state machine (e.g. a renderer wanting Read access to an
// Active chunk). Fails with ErrUseAfterDisposal if the chunk has been
// disposed.
func (c *Chunk) AcquireCore(access Access) (*Guard, error) {
	if c.disposed {
		return nil, ErrUseAfterDisposal
	}
	g, ok := c.core.TryAcquire(access)
	if !ok {
		return nil, nil
	}
	return g, nil
}

// CanAcquireCore is a non-mutating check mirroring AcquireCore's rules.
func (c *Chunk) CanAcquireCore(access Access) bool {
	if c.disposed {
		return false
	}
	return c.core.CanAcquire(access)
}

// AcquireExtended mirrors AcquireCore for the extended resource.
func (c *Chunk) AcquireExtended(access Access) (*Guard, error) {
	if c.disposed {
		return nil, ErrUseAfterDisposal
	}
	g, ok := c.extended.TryAcquire(access)
	if !ok {
		return nil, nil
	}
	return g, nil
}

// CanAcquireExtended mirrors CanAcquireCore for the extended resource.
func (c *Chunk) CanAcquireExtended(access Access) bool {
	if c.disposed {
		return false
	}
	return c.extended.CanAcquire(access)
}

// TryStealAccess is the main-thread-only steal operation of spec.md §5. It
// succeeds iff the current state allows stealing and both resources are
// write-held by that state (coreGuard/extGuard non-nil, Write), in which
// case both guards are transferred to the caller and the chunk is parked
// in Used.
func (c *Chunk) TryStealAccess(ctx *Context) (*Guard, *Guard, bool) {
	if c.disposed || !c.state.AllowStealing() {
		return nil, nil, false
	}
	if c.coreGuard == nil || c.coreGuard.Access() != Write || c.extGuard == nil || c.extGuard.Access() != Write {
		return nil, nil, false
	}
	wasActive := c.state.Kind() == KindActive
	core := c.core.steal()
	ext := c.extended.steal()

	c.state.OnExit(c, ctx)
	c.coreGuard = nil
	c.extGuard = nil
	c.state = newUsed(wasActive)
	c.entered = false
	c.neighborWait = 0
	if wasActive && ctx != nil && ctx.Set != nil {
		ctx.Set.removeActive(c.pos)
	}
	return core, ext, true
}

// dispose marks the chunk unusable. Called by ChunkSet once Deactivating
// reports IsFinal and the chunk has been removed from the registry.
func (c *Chunk) dispose() {
	c.disposed = true
}
