package chunk

// deactivatingState is the terminal exit path of spec.md §4.4. A freshly
// arrived (final == false) instance first ensures the chunk is saved
// before it is dropped; an instance created directly by Saving's
// completion (final == true) has nothing left to do and is immediately
// reported IsFinal so ChunkSet.UpdateAll can dispose of the chunk.
type deactivatingState struct {
	final bool
}

func newDeactivating() ChunkState { return &deactivatingState{} }

func (d *deactivatingState) Kind() StateKind          { return KindDeactivating }
func (*deactivatingState) CoreAccess() Access         { return None }
func (*deactivatingState) ExtendedAccess() Access     { return None }
func (d *deactivatingState) IsFinal() bool            { return d.final }
func (*deactivatingState) AllowSharingAccess() bool   { return false }
func (*deactivatingState) AllowStealing() bool        { return false }
func (*deactivatingState) WaitOnNeighbors() bool      { return false }
func (*deactivatingState) IntendsToReady() bool       { return false }

func (*deactivatingState) OnEnter(*Chunk, *Context) {}

func (d *deactivatingState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if d.final {
		return nil
	}
	if c.isRequested {
		return &TransitionDesc{Next: newActivating(true, nil), Required: true}
	}
	ctx.Set.deactivate(c.pos)
	return &TransitionDesc{Next: newSaving(), Required: true}
}

func (*deactivatingState) OnExit(*Chunk, *Context) {}
