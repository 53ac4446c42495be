package chunk

// unloadedState is a Chunk's initial state, per spec.md §3: "Chunks are
// born Unloaded."
type unloadedState struct{}

func newUnloaded() ChunkState { return unloadedState{} }

func (unloadedState) Kind() StateKind          { return KindUnloaded }
func (unloadedState) CoreAccess() Access       { return Write }
func (unloadedState) ExtendedAccess() Access   { return Write }
func (unloadedState) IsFinal() bool            { return false }
func (unloadedState) AllowSharingAccess() bool { return false }
func (unloadedState) AllowStealing() bool      { return false }
func (unloadedState) WaitOnNeighbors() bool    { return false }
func (unloadedState) IntendsToReady() bool     { return false }

func (unloadedState) OnEnter(*Chunk, *Context) {}

func (unloadedState) OnUpdate(*Chunk, *Context) *TransitionDesc {
	return &TransitionDesc{Next: newLoading(), Required: true, PrioritizeDeactivation: true}
}

func (unloadedState) OnExit(*Chunk, *Context) {}
