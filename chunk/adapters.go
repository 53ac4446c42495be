package chunk

import "iter"

// Content is a single generated voxel, as produced column-by-column by a
// Generator. The core never interprets Block/Fluid beyond their numeric
// ranges.
type Content struct {
	Block, Data, Fluid uint32
	Level              LiquidLevel
	Static             bool
}

// Cell encodes the content, clamping Data/Fluid into their valid ranges
// first so a slightly-out-of-range generator cannot fail the whole column;
// Block is not clamped since silently remapping an out-of-range block id
// would hide a real generator bug.
func (c Content) Cell() (Cell, error) {
	data := clamp(c.Data, 0, DataMask)
	fluid := clamp(c.Fluid, 0, FluidMask)
	return EncodeCell(c.Block, data, fluid, c.Level, c.Static)
}

// Generator produces the initial voxel content of a chunk. It is consumed
// by the Generating state. Implementations may run for an unbounded time;
// the core only ever calls them from a background goroutine bounded by a
// TaskPool slot.
type Generator interface {
	// GenerateColumn produces a lazy sequence of Content for the block
	// column at world (x, z), one entry per y from yLow to yHigh
	// inclusive. The core requests exactly yHigh-yLow+1 values and
	// truncates the sequence if the generator yields more, or pads with
	// the zero Content if it yields fewer. A generator that stops yielding
	// without returning blocks its generation task; the core applies no
	// timeout.
	GenerateColumn(x, z int, yLow, yHigh int) iter.Seq[Content]
	// GenerateStructures populates a single section with deterministic
	// structures (trees, ores, ...). Called once per section during
	// Generating, after all columns intersecting it have been written.
	GenerateStructures(section *Section, pos SectionPosition)
}

// Decorator applies the multi-chunk decoration pass described in
// spec.md §4.5. It is consumed by the Decorating state, which supplies the
// center/corner iteration the algorithm requires; the Decorator itself
// only ever sees one section and its read-only 3x3x3 neighborhood.
type Decorator interface {
	// DecorateSection modifies the section at pos in place, using the
	// read-only 3x3x3 section neighborhood (indexed [x+1][y+1][z+1]
	// relative to pos) for context. A nil neighbor entry means that
	// neighbor section does not exist (e.g. at the world's vertical
	// extent) and must be treated as uniformly air/default.
	DecorateSection(pos SectionPosition, neighbors [3][3][3]*Section)
}

// LoadOutcome classifies the result of a Codec.Load call.
type LoadOutcome int

const (
	LoadSuccess LoadOutcome = iota
	LoadIOError
	LoadFormatError
	LoadValidationError
)

// LoadingResult is returned by Codec.Load.
type LoadingResult struct {
	Outcome LoadOutcome
	// Sections, Decoration, BlockTicks and FluidTicks are populated only
	// when Outcome is LoadSuccess.
	Sections   []*Section
	Decoration DecorationBits
	BlockTicks []ScheduledEvent
	FluidTicks []ScheduledEvent
	Err        error
}

// Codec reads and writes a chunk's persisted form. It is consumed by the
// Loading and Saving states. The core does not depend on any particular
// Codec; chunkio ships a flat-file and a LevelDB-backed implementation.
type Codec interface {
	// FileName returns the normative file name for pos, per spec.md §6:
	// x{X}y{Y}z{Z}.chunk.
	FileName(pos ChunkPosition) string
	// Load reads the chunk at pos from path, the directory the chunk
	// files live in (the Loading state passes Context.Directory); a codec
	// that is not file-backed may ignore it. Implementations
	// must validate that the stored position equals pos before returning
	// LoadSuccess.
	Load(path string, pos ChunkPosition) LoadingResult
	// Save atomically persists c's voxel data, decoration bitmap and tick
	// queues under directory. Save failures are reported but are treated
	// as non-fatal by the Saving state.
	Save(c *Chunk, directory string) error
}

// TickScheduler owns one chunk's scheduled block/fluid tick queue. The
// default implementation is *TickQueue; embedding applications may supply
// their own as long as it satisfies this interface.
type TickScheduler interface {
	// Add schedules kind to fire delay local ticks from now.
	Add(kind uint32, pos [3]int, delay int64)
	// Process advances the local counter by one tick and invokes fn for
	// every event whose offset has elapsed. Called during Active.on_update.
	Process(fn func(ScheduledEvent))
	// Normalize rebases every pending event's offset against the current
	// local counter and resets the counter to zero. Called before Saving
	// so the persisted offsets do not depend on how long the chunk has
	// been active.
	Normalize()
	// Entries returns the pending events for persistence.
	Entries() []ScheduledEvent
	// Load replaces the pending events, e.g. after reading them back from
	// a Codec. The local counter is reset to zero.
	Load(events []ScheduledEvent)
}

// ScheduledEvent is one entry in a TickScheduler's queue.
type ScheduledEvent struct {
	Kind   uint32
	Pos    [3]int
	Offset int64
}

// NopGenerator generates nothing but air; used in tests where generation
// is not under test.
type NopGenerator struct{}

func (NopGenerator) GenerateColumn(_, _ int, yLow, yHigh int) iter.Seq[Content] {
	return func(yield func(Content) bool) {
		for y := yLow; y <= yHigh; y++ {
			if !yield(Content{}) {
				return
			}
		}
	}
}

func (NopGenerator) GenerateStructures(*Section, SectionPosition) {}

// NopDecorator performs no decoration; used in tests where decoration is
// not under test.
type NopDecorator struct{}

func (NopDecorator) DecorateSection(SectionPosition, [3][3][3]*Section) {}

// NopCodec always reports the chunk missing (LoadIOError) and treats Save
// as a trivial success; used in tests that exercise the
// Loading-falls-back-to-Generating path.
type NopCodec struct{}

func (NopCodec) FileName(pos ChunkPosition) string {
	return fileName(pos)
}

func (NopCodec) Load(string, ChunkPosition) LoadingResult {
	return LoadingResult{Outcome: LoadIOError, Err: ErrChunkNotFound}
}

func (NopCodec) Save(*Chunk, string) error { return nil }
