package chunk

import "math/rand/v2"

// activeState is the live, simulated state (spec.md §4.4). It holds both
// resources at Write from entry until exit, so outside code cannot
// co-acquire either one while the chunk is Active; the only way in is to
// steal both guards (see TryStealAccess), which parks the chunk in Used.
//
// The per-chunk rng is seeded deterministically from the chunk's position
// so random ticking is reproducible across runs given the same request
// sequence, rather than drawing on global, run-dependent entropy.
type activeState struct {
	rng *rand.Rand
}

func newActive() ChunkState { return &activeState{} }

func (*activeState) Kind() StateKind          { return KindActive }
func (*activeState) CoreAccess() Access       { return Write }
func (*activeState) ExtendedAccess() Access   { return Write }
func (*activeState) IsFinal() bool            { return false }
func (*activeState) AllowSharingAccess() bool { return true }
func (*activeState) AllowStealing() bool      { return true }
func (*activeState) WaitOnNeighbors() bool    { return false }
func (*activeState) IntendsToReady() bool     { return false }

func (a *activeState) OnEnter(c *Chunk, ctx *Context) {
	a.rng = rand.New(rand.NewPCG(uint64(c.pos.pack()), 0x9E3779B97F4A7C15))
	ctx.notifyActivation(c)
}

func (a *activeState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if ctx.OnScheduledEvent != nil {
		c.blockTicks.Process(func(ev ScheduledEvent) { ctx.OnScheduledEvent(c, ev, false) })
		c.fluidTicks.Process(func(ev ScheduledEvent) { ctx.OnScheduledEvent(c, ev, true) })
	} else {
		c.blockTicks.Process(func(ScheduledEvent) {})
		c.fluidTicks.Process(func(ScheduledEvent) {})
	}

	if ctx.OnRandomTick != nil && ctx.Config.RandomTicksPerSection > 0 {
		for _, sec := range c.sections {
			if sec.Empty() {
				continue
			}
			sec.RandomTick(a.rng, ctx.Config.RandomTicksPerSection, func(x, y, z int, cell Cell) {
				ctx.OnRandomTick(c, sec, x, y, z, cell)
			})
		}
	}

	return &TransitionDesc{Next: nil, Required: false}
}

func (*activeState) OnExit(c *Chunk, ctx *Context) {
	if ctx.OnDeactivation != nil {
		ctx.OnDeactivation(c)
	}
}
