package chunk

import (
	"github.com/brentp/intintmap"
)

// activeRef pairs a position with the chunk found there, for the
// slice-backed active-chunk index below.
type activeRef struct {
	pos ChunkPosition
	c   *Chunk
}

// ChunkSet is the world-level chunk registry described in spec.md §4.6: it
// owns every Chunk, tracks which positions are "requested" (kept live),
// and drives Chunk.Update across all of them once per tick.
//
// Active-chunk lookup is index-backed the same way the teacher indexes its
// Column active set (server/world.go's activeColumns/activeColumnIndex): a
// dense slice plus a position -> slice-index map, here backed by
// github.com/brentp/intintmap instead of a plain Go map for a faster,
// allocation-light position key.
type ChunkSet struct {
	chunks map[ChunkPosition]*Chunk

	active      []activeRef
	activeIndex *intintmap.Map

	config EngineConfig
	ctx    *Context

	ticksSinceMaintenance int
	ticksSinceAutosave    int
}

// NewChunkSet returns an empty ChunkSet with config's zero fields
// defaulted. It has no Context yet; call BindContext before first use.
func NewChunkSet(config EngineConfig) *ChunkSet {
	return &ChunkSet{
		chunks:      make(map[ChunkPosition]*Chunk),
		activeIndex: intintmap.New(64, 0.6),
		config:      config.Defaults(),
	}
}

// BindContext attaches the Context the set will pass to every Chunk.Update
// call. Must be called once before Request/UpdateAll.
func (s *ChunkSet) BindContext(ctx *Context) {
	ctx.Set = s
	s.ctx = ctx
}

// inBounds reports whether pos lies within the configured BlockLimit.
func (s *ChunkSet) inBounds(pos ChunkPosition) bool {
	limit := int32(s.config.BlockLimit / int64(S*N))
	return pos.X >= -limit && pos.X <= limit &&
		pos.Y >= -limit && pos.Y <= limit &&
		pos.Z >= -limit && pos.Z <= limit
}

// Request marks pos as live, per spec.md §4.6. Positions outside the
// configured world size bound are silently ignored. If no chunk exists yet
// at pos, a new Unloaded Chunk is created for it.
func (s *ChunkSet) Request(pos ChunkPosition) {
	if !s.inBounds(pos) {
		return
	}
	c, ok := s.chunks[pos]
	if !ok {
		c = NewChunk(pos)
		s.chunks[pos] = c
	}
	c.isRequested = true
}

// Release marks pos as no longer live. The origin chunk can never be
// released. On the next UpdateAll, a released chunk proceeds through
// Deactivating -> Saving -> removal.
func (s *ChunkSet) Release(pos ChunkPosition) {
	if pos.IsOrigin() {
		return
	}
	if c, ok := s.chunks[pos]; ok {
		c.isRequested = false
	}
}

// GetActive returns the chunk at pos only if it exists and its state
// IsActive.
func (s *ChunkSet) GetActive(pos ChunkPosition) (*Chunk, bool) {
	c, ok := s.chunks[pos]
	if !ok || !c.IsActive() {
		return nil, false
	}
	return c, true
}

// GetAny returns the chunk at pos regardless of its state, used for
// decoration planning and neighbor-wait checks.
func (s *ChunkSet) GetAny(pos ChunkPosition) (*Chunk, bool) {
	c, ok := s.chunks[pos]
	return c, ok
}

func (s *ChunkSet) getAny(pos ChunkPosition) (*Chunk, bool) { return s.GetAny(pos) }

// addActive registers pos/c in the active index, grounded on the teacher's
// addActiveColumn.
func (s *ChunkSet) addActive(pos ChunkPosition, c *Chunk) {
	if idx, ok := s.activeIndex.Get(pos.pack()); ok {
		s.active[idx].c = c
		return
	}
	s.activeIndex.Put(pos.pack(), int64(len(s.active)))
	s.active = append(s.active, activeRef{pos: pos, c: c})
}

// removeActive mirrors the teacher's removeActiveColumn swap-remove.
func (s *ChunkSet) removeActive(pos ChunkPosition) {
	idx, ok := s.activeIndex.Get(pos.pack())
	if !ok {
		return
	}
	last := int64(len(s.active) - 1)
	if idx != last {
		s.active[idx] = s.active[last]
		s.activeIndex.Put(s.active[idx].pos.pack(), idx)
	}
	s.active = s.active[:last]
	s.activeIndex.Del(pos.pack())
}

// ActiveCount returns the number of chunks currently in the Active state.
func (s *ChunkSet) ActiveCount() int { return len(s.active) }

// IsEveryChunkToSimulateActive reports whether every requested chunk has
// reached the Active state, the signal the world-level Activating ->
// Active transition waits on.
func (s *ChunkSet) IsEveryChunkToSimulateActive() bool {
	for _, c := range s.chunks {
		if c.isRequested && !c.IsActive() {
			return false
		}
	}
	return true
}

// passiveMaintenanceInterval mirrors the teacher's constant of the same
// name (server/world/tick.go): a cheaper bookkeeping pass that need not run
// every tick.
const passiveMaintenanceInterval = 80

// UpdateAll calls Chunk.Update on every registered chunk, then removes
// chunks whose state has reported IsFinal (i.e. Deactivating has finished
// and there is nothing left to simulate). It also performs the active-set
// bookkeeping so GetActive/ActiveCount/neighbor notifications stay
// consistent, and, every passiveMaintenanceInterval ticks, logs pool
// saturation for operators.
func (s *ChunkSet) UpdateAll() {
	for pos, c := range s.chunks {
		before := c.state.Kind()
		c.Update(s.ctx)
		after := c.state.Kind()
		if before != KindActive && after == KindActive {
			s.addActive(pos, c)
		} else if before == KindActive && after != KindActive {
			s.removeActive(pos)
		}
	}
	for pos, c := range s.chunks {
		if c.state.IsFinal() {
			c.dispose()
			delete(s.chunks, pos)
			s.removeActive(pos)
		}
	}

	s.ticksSinceAutosave++
	if s.config.AutosaveInterval > 0 && s.ticksSinceAutosave >= s.config.AutosaveInterval {
		s.ticksSinceAutosave = 0
		s.requestAutosave()
	}

	s.ticksSinceMaintenance++
	if s.ticksSinceMaintenance >= passiveMaintenanceInterval {
		s.ticksSinceMaintenance = 0
		s.logMaintenance()
	}
}

// requestAutosave enqueues a Saving request on every Active chunk via the
// shared request queue rather than touching state directly: Active's
// on_update declares no opinion (TransitionDesc{Required: false}), so
// choose_next's queue step picks this up on the chunk's next update, and
// Saving's own completion path (Required: true) carries it straight back to
// Activating afterwards.
func (s *ChunkSet) requestAutosave() {
	desc := RequestDescription{
		AllowDuplicateByType:    false,
		AllowSkipOnDeactivation: true,
		AllowDiscardOnRepeat:    true,
	}
	for _, ref := range s.active {
		ref.c.RequestNextState(newSaving(), desc)
	}
}

func (s *ChunkSet) logMaintenance() {
	log := s.ctx.logger()
	log.Debug("chunk set maintenance",
		"loaded", len(s.chunks),
		"active", len(s.active),
		"loading_saturated", s.ctx.Pools.Loading.Saturation(),
		"generation_saturated", s.ctx.Pools.Generation.Saturation(),
		"decoration_saturated", s.ctx.Pools.Decoration.Saturation(),
		"saving_saturated", s.ctx.Pools.Saving.Saturation(),
	)
}

// deactivate drops pos from the live set immediately; used by the
// Deactivating state once it has determined the chunk is no longer
// requested and ready to go.
func (s *ChunkSet) deactivate(pos ChunkPosition) {
	if c, ok := s.chunks[pos]; ok {
		c.isRequested = false
	}
}
