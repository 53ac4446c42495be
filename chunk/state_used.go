package chunk

// usedState is the parked state a chunk enters when its write access is
// stolen (spec.md §5, TryStealAccess). It holds neither resource; the
// borrower owns both guards until it releases them, at which point this
// state's on_update notices they are acquirable again and resumes the
// chunk. A chunk stolen while Active resumes directly to Active (it was
// already fully decorated); one stolen while Hidden resumes through the
// normal Hidden gate.
type usedState struct {
	wasActive bool
}

func newUsed(wasActive bool) ChunkState { return &usedState{wasActive: wasActive} }

func (*usedState) Kind() StateKind          { return KindUsed }
func (*usedState) CoreAccess() Access       { return None }
func (*usedState) ExtendedAccess() Access   { return None }
func (*usedState) IsFinal() bool            { return false }
func (*usedState) AllowSharingAccess() bool { return false }
func (*usedState) AllowStealing() bool      { return false }
func (*usedState) WaitOnNeighbors() bool    { return false }
func (*usedState) IntendsToReady() bool     { return false }

func (*usedState) OnEnter(*Chunk, *Context) {}

func (u *usedState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if !c.core.CanAcquire(Write) || !c.extended.CanAcquire(Write) {
		return nil
	}
	if u.wasActive {
		return &TransitionDesc{Next: newActivatingActive(true, nil), Required: true}
	}
	return &TransitionDesc{Next: newActivating(true, nil), Required: true}
}

func (*usedState) OnExit(*Chunk, *Context) {}
