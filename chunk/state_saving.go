package chunk

import "fmt"

// savingState persists a chunk via a Codec, per spec.md §4.4. core_access
// is Read only: saving never mutates the chunk, only reads it, so it does
// not exclude another reader. Tick queues are normalized (rebased against
// a zero counter) before the save, so persisted offsets are independent of
// how long the chunk happened to be active beforehand.
type savingState struct {
	slot *Slot
	fut  *future[error]
}

func newSaving() ChunkState { return &savingState{} }

func (*savingState) Kind() StateKind          { return KindSaving }
func (*savingState) CoreAccess() Access       { return Read }
func (*savingState) ExtendedAccess() Access   { return None }
func (*savingState) IsFinal() bool            { return false }
func (*savingState) AllowSharingAccess() bool { return false }
func (*savingState) AllowStealing() bool      { return false }
func (*savingState) WaitOnNeighbors() bool    { return false }
func (*savingState) IntendsToReady() bool     { return true }

func (*savingState) OnEnter(*Chunk, *Context) {}

func (s *savingState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if s.fut == nil {
		if s.slot == nil {
			slot, ok := ctx.Pools.Saving.TryAllocate(c.pos, ctx.Config.MaxSavingTasks)
			if !ok {
				return nil
			}
			s.slot = slot
		}
		c.blockTicks.Normalize()
		c.fluidTicks.Normalize()
		codec, dir := ctx.Codec, ctx.Directory
		s.fut = spawn(func() error {
			return codec.Save(c, dir)
		}, func(r any) error {
			return fmt.Errorf("panic during save: %v", r)
		})
		return nil
	}

	err, ok := s.fut.poll()
	if !ok {
		return nil
	}
	s.slot.Release()
	if err != nil {
		ctx.logger().Error("save chunk failed", "x", c.pos.X, "y", c.pos.Y, "z", c.pos.Z, "err", err)
	}
	if c.isRequested {
		return &TransitionDesc{Next: newActivating(false, nil), Required: true}
	}
	return &TransitionDesc{Next: &deactivatingState{final: true}, Required: true}
}

func (s *savingState) OnExit(*Chunk, *Context) {
	if s.slot != nil {
		s.slot.Release()
	}
}
