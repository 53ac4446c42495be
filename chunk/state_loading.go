package chunk

import "fmt"

// loadingState reads a chunk's persisted form from a Codec in the
// background. extended_access is None: loading never touches the extended
// resource. A failed or missing load falls back to Generating rather than
// failing the chunk outright (spec.md §4.4, §7).
type loadingState struct {
	slot *Slot
	fut  *future[LoadingResult]
}

func newLoading() ChunkState { return &loadingState{} }

func (*loadingState) Kind() StateKind          { return KindLoading }
func (*loadingState) CoreAccess() Access       { return Write }
func (*loadingState) ExtendedAccess() Access   { return None }
func (*loadingState) IsFinal() bool            { return false }
func (*loadingState) AllowSharingAccess() bool { return false }
func (*loadingState) AllowStealing() bool      { return false }
func (*loadingState) WaitOnNeighbors() bool    { return false }
func (*loadingState) IntendsToReady() bool     { return true }

func (*loadingState) OnEnter(*Chunk, *Context) {}

func (l *loadingState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if l.fut == nil {
		if l.slot == nil {
			slot, ok := ctx.Pools.Loading.TryAllocate(c.pos, ctx.Config.MaxLoadingTasks)
			if !ok {
				return nil
			}
			l.slot = slot
		}
		codec, dir, pos := ctx.Codec, ctx.Directory, c.pos
		l.fut = spawn(func() LoadingResult {
			return codec.Load(dir, pos)
		}, func(r any) LoadingResult {
			return LoadingResult{Outcome: LoadIOError, Err: fmt.Errorf("panic during load: %v", r)}
		})
		return nil
	}

	res, ok := l.fut.poll()
	if !ok {
		return nil
	}
	l.slot.Release()

	log := ctx.logger()
	switch res.Outcome {
	case LoadSuccess:
		c.applyLoaded(res)
		return &TransitionDesc{Next: newActivating(false, nil), Required: true}
	case LoadIOError:
		log.Debug("load chunk: not found, scheduling generation", "x", c.pos.X, "y", c.pos.Y, "z", c.pos.Z, "err", res.Err)
		return &TransitionDesc{Next: newGenerating(), Required: true}
	case LoadFormatError, LoadValidationError:
		log.Error("load chunk: corrupt, regenerating", "x", c.pos.X, "y", c.pos.Y, "z", c.pos.Z, "err", res.Err)
		return &TransitionDesc{Next: newGenerating(), Required: true}
	default:
		log.Error("load chunk: unexpected failure, regenerating", "x", c.pos.X, "y", c.pos.Y, "z", c.pos.Z, "err", res.Err)
		return &TransitionDesc{Next: newGenerating(), Required: true}
	}
}

func (l *loadingState) OnExit(*Chunk, *Context) {
	if l.slot != nil {
		l.slot.Release()
	}
}

// applyLoaded copies a successful LoadingResult's payload into c.
func (c *Chunk) applyLoaded(res LoadingResult) {
	for _, s := range res.Sections {
		if s == nil {
			continue
		}
		p := s.Position()
		if p.X < 0 || p.X >= S || p.Y < 0 || p.Y >= S || p.Z < 0 || p.Z >= S {
			continue
		}
		c.sections[sectionIndex(p.X, p.Y, p.Z)] = s
	}
	c.decoration = res.Decoration
	c.blockTicks.Load(res.BlockTicks)
	c.fluidTicks.Load(res.FluidTicks)
}
