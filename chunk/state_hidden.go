package chunk

// hiddenState is the "ready enough" placeholder of spec.md §4.4: it holds
// both resources at Write, permits mutation, but is not yet eligible for
// outside sharing. Every update it either notices decoration is complete
// and moves on to Active, or runs the decoration-eligibility check of
// §4.5 and, if a corner is decoratable, hands off to Decorating. None of
// these transitions is required, so a queued request or deactivation of an
// unrequested chunk always takes precedence.
type hiddenState struct{}

func newHidden() ChunkState { return hiddenState{} }

func (hiddenState) Kind() StateKind          { return KindHidden }
func (hiddenState) CoreAccess() Access       { return Write }
func (hiddenState) ExtendedAccess() Access   { return Write }
func (hiddenState) IsFinal() bool            { return false }
func (hiddenState) AllowSharingAccess() bool { return false }
func (hiddenState) AllowStealing() bool      { return true }
func (hiddenState) WaitOnNeighbors() bool    { return true }
func (hiddenState) IntendsToReady() bool     { return true }

func (hiddenState) OnEnter(*Chunk, *Context) {}

func (hiddenState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if c.decoration.Complete() {
		return &TransitionDesc{Next: newActive(), Required: false}
	}
	plan, ok := planDecoration(c, ctx)
	if !ok {
		return &TransitionDesc{Next: nil, Required: false}
	}
	return &TransitionDesc{
		Next:     newDecorating(plan),
		Required: false,
		Cleanup:  plan.release,
	}
}

func (hiddenState) OnExit(*Chunk, *Context) {}
