package chunk

// activatingState is the delayed activation sequence described in
// spec.md §4.4: "Activation transitions (set_next_ready / set_next_active)
// are delayed: they first release the current state's guards, then, when
// both core and extended Write can be acquired, pick one of: strong
// activation; weak activation (used by Used to re-enter active)."
//
// set_next_ready targets Hidden, the decoration-eligibility gate: a chunk
// that has just finished Loading/Generating/Decorating/Saving is not
// necessarily fully decorated yet. set_next_active targets Active directly,
// used only by a Used chunk that was Active before it got stolen, since it
// was already fully decorated and does not need to revisit the gate.
//
// Both targets reduce to the same delay mechanism: a state requiring both
// resources at Write, so the framework's own ensureAccess naturally
// provides the "wait until acquirable" behaviour before the unconditional
// transition fires.
type activatingState struct {
	weak     bool
	toActive bool
	cleanup  func()
}

// newActivating returns the set_next_ready helper state, landing in Hidden.
func newActivating(weak bool, cleanup func()) ChunkState {
	return &activatingState{weak: weak, cleanup: cleanup}
}

// newActivatingActive returns the set_next_active helper state, landing in
// Active directly.
func newActivatingActive(weak bool, cleanup func()) ChunkState {
	return &activatingState{weak: weak, toActive: true, cleanup: cleanup}
}

func (*activatingState) Kind() StateKind          { return KindActivating }
func (*activatingState) CoreAccess() Access       { return Write }
func (*activatingState) ExtendedAccess() Access   { return Write }
func (*activatingState) IsFinal() bool            { return false }
func (*activatingState) AllowSharingAccess() bool { return false }
func (*activatingState) AllowStealing() bool      { return false }
func (*activatingState) WaitOnNeighbors() bool    { return false }
func (*activatingState) IntendsToReady() bool     { return true }

func (*activatingState) OnEnter(*Chunk, *Context) {}

func (a *activatingState) OnUpdate(*Chunk, *Context) *TransitionDesc {
	next := newHidden()
	if a.toActive {
		next = newActive()
	}
	return &TransitionDesc{
		Next:                   next,
		Required:               true,
		PrioritizeDeactivation: a.weak,
		Cleanup:                a.cleanup,
	}
}

func (*activatingState) OnExit(*Chunk, *Context) {}
