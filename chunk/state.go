package chunk

// StateKind identifies the concrete type of a ChunkState for the purposes
// of duplicate/same-type checks in the request queue and transition
// resolution. spec.md §9 redesigns the teacher's inheritance-based state
// machine into a tagged-variant shape; StateKind is the tag.
type StateKind int

const (
	KindUnloaded StateKind = iota
	KindLoading
	KindGenerating
	KindDecorating
	KindSaving
	KindHidden
	KindActivating
	KindActive
	KindUsed
	KindDeactivating
)

func (k StateKind) String() string {
	switch k {
	case KindUnloaded:
		return "Unloaded"
	case KindLoading:
		return "Loading"
	case KindGenerating:
		return "Generating"
	case KindDecorating:
		return "Decorating"
	case KindSaving:
		return "Saving"
	case KindHidden:
		return "Hidden"
	case KindActivating:
		return "Activating"
	case KindActive:
		return "Active"
	case KindUsed:
		return "Used"
	case KindDeactivating:
		return "Deactivating"
	default:
		return "unknown"
	}
}

// TransitionDesc is returned by ChunkState.OnUpdate to describe the state
// the machine would like to move to next, and how strongly it insists.
type TransitionDesc struct {
	// Next is the state to enter, absent overrides. Nil is only valid
	// together with Required == false (meaning "no opinion"; the queue
	// and deactivation rules still apply).
	Next ChunkState
	// Required means the declared transition must be honoured unless
	// PrioritizeDeactivation or PrioritizeLoop fires first.
	Required bool
	// PrioritizeDeactivation means: if the chunk is not requested, prefer
	// Deactivating (or a queued Deactivating request) over Next.
	PrioritizeDeactivation bool
	// PrioritizeLoop means: if the request queue holds another request of
	// the same kind as Next, prefer that queued request over Next.
	PrioritizeLoop bool
	// Cleanup is invoked if Next ends up overridden by the queue or by
	// deactivation, so the state can free anything it speculatively
	// reserved for Next.
	Cleanup func()
}

// ChunkState is the per-state contract described in spec.md §4.2. A
// concrete state is a value (usually carrying its own small amount of
// data, e.g. an in-flight future) implementing this interface; the
// generalised on_enter/on_update/on_exit hooks replace the teacher's
// subclass-based design (see spec.md §9, "inheritance-based state
// machine").
type ChunkState interface {
	Kind() StateKind
	CoreAccess() Access
	ExtendedAccess() Access
	// IsFinal is true only for Deactivating once it is ready to let the
	// chunk be dropped by its ChunkSet.
	IsFinal() bool
	AllowSharingAccess() bool
	AllowStealing() bool
	WaitOnNeighbors() bool
	// IntendsToReady reports whether a neighbor with WaitOnNeighbors
	// should delay entry while this chunk is in this state.
	IntendsToReady() bool

	OnEnter(c *Chunk, ctx *Context)
	// OnUpdate may schedule background work and return nil (parked),
	// observe a future's completion, or declare a transition.
	OnUpdate(c *Chunk, ctx *Context) *TransitionDesc
	OnExit(c *Chunk, ctx *Context)
}

// RequestDescription controls how RequestNextState enqueues a request.
type RequestDescription struct {
	// AllowDuplicateByType: if false, the request is dropped when a
	// queued request of the same kind already exists.
	AllowDuplicateByType bool
	// AllowSkipOnDeactivation: if true, choose_next skips this request
	// while the chunk's current state is Deactivating.
	AllowSkipOnDeactivation bool
	// AllowDiscardOnRepeat: if true, the request is dropped when the
	// chunk's current, not-yet-entered state or its declared required
	// next state already has the same kind.
	AllowDiscardOnRepeat bool
}

type requestEntry struct {
	state ChunkState
	desc  RequestDescription
}

// RequestNextState enqueues s onto the chunk's single shared request
// queue, honoring desc's de-duplication rules.
func (c *Chunk) RequestNextState(s ChunkState, desc RequestDescription) {
	if !desc.AllowDuplicateByType {
		for _, e := range c.queue {
			if e.state.Kind() == s.Kind() {
				return
			}
		}
	}
	if desc.AllowDiscardOnRepeat {
		if !c.entered && c.state.Kind() == s.Kind() {
			return
		}
		if c.declaredNext != nil && c.declaredRequired && c.declaredNext.Kind() == s.Kind() {
			return
		}
	}
	c.queue = append(c.queue, requestEntry{state: s, desc: desc})
}

// dequeueFirst removes and returns the first queued entry matching pred.
func (c *Chunk) dequeueFirst(pred func(requestEntry) bool) (ChunkState, bool) {
	for i, e := range c.queue {
		if pred(e) {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return e.state, true
		}
	}
	return nil, false
}

// chooseNext implements spec.md §4.3's resolution order.
func (c *Chunk) chooseNext(declared *TransitionDesc) ChunkState {
	isDeactivatingNow := c.state.Kind() == KindDeactivating

	if declared.PrioritizeDeactivation && !c.isRequested {
		if s, ok := c.dequeueFirst(func(e requestEntry) bool { return e.state.Kind() == KindDeactivating }); ok {
			c.runCleanupIfOverridden(declared, s)
			return s
		}
		next := newDeactivating()
		c.runCleanupIfOverridden(declared, next)
		return next
	}
	if declared.PrioritizeLoop && declared.Next != nil {
		if s, ok := c.dequeueFirst(func(e requestEntry) bool { return e.state.Kind() == declared.Next.Kind() }); ok {
			c.runCleanupIfOverridden(declared, s)
			return s
		}
	}
	if declared.Required {
		return declared.Next
	}
	if s, ok := c.dequeueFirst(func(e requestEntry) bool {
		return !(isDeactivatingNow && e.desc.AllowSkipOnDeactivation)
	}); ok {
		c.runCleanupIfOverridden(declared, s)
		return s
	}
	if !c.isRequested {
		next := newDeactivating()
		c.runCleanupIfOverridden(declared, next)
		return next
	}
	return declared.Next
}

// runCleanupIfOverridden invokes declared.Cleanup when chosen differs from
// declared.Next, per spec.md §4.3's final rule.
func (c *Chunk) runCleanupIfOverridden(declared *TransitionDesc, chosen ChunkState) {
	overridden := declared.Next == nil || chosen.Kind() != declared.Next.Kind()
	if overridden && declared.Cleanup != nil {
		declared.Cleanup()
	}
}

// maxTransitionsPerUpdate bounds how many type changes a single Update call
// may perform, preventing pathological transition loops (spec.md §5).
const maxTransitionsPerUpdate = 3

// NeighborWaitTimeout is the number of updates a WaitOnNeighbors state will
// delay entry for while a neighbor intends to ready itself.
const NeighborWaitTimeout = 10

// Update advances the chunk's state machine by at most
// maxTransitionsPerUpdate transitions. It is the only place state
// transitions occur; external callers never set Chunk.state directly.
func (c *Chunk) Update(ctx *Context) {
	if c.disposed {
		return
	}
	for i := 0; i < maxTransitionsPerUpdate; i++ {
		if !c.step(ctx) {
			return
		}
	}
}

// step runs one pass of the per-update protocol in spec.md §4.2 and
// reports whether a state transition (type change) occurred.
func (c *Chunk) step(ctx *Context) bool {
	st := c.state

	if !c.ensureAccess(st) {
		return false
	}

	if st.WaitOnNeighbors() && !c.entered {
		if c.neighborWait < NeighborWaitTimeout && ctx.anyNeighborIntendsToReady(c) {
			c.neighborWait++
			return false
		}
	}

	if !c.entered {
		st.OnEnter(c, ctx)
		c.entered = true
	}

	declared := st.OnUpdate(c, ctx)
	if declared == nil {
		return false
	}
	c.declaredNext = declared.Next
	c.declaredRequired = declared.Required

	next := c.chooseNext(declared)
	if next == nil || next.Kind() == st.Kind() {
		return false
	}

	st.OnExit(c, ctx)
	c.releaseStateGuards()
	c.state = next
	c.entered = false
	c.neighborWait = 0
	c.declaredNext = nil
	c.declaredRequired = false
	return true
}

// ensureAccess acquires any core/extended guards the current state needs
// but does not yet hold. It returns false (and acquires nothing further)
// if either required guard is unavailable this update.
func (c *Chunk) ensureAccess(st ChunkState) bool {
	if c.coreGuard == nil && st.CoreAccess() != None {
		g, ok := c.core.TryAcquire(st.CoreAccess())
		if !ok {
			return false
		}
		c.coreGuard = g
	}
	if c.extGuard == nil && st.ExtendedAccess() != None {
		g, ok := c.extended.TryAcquire(st.ExtendedAccess())
		if !ok {
			if c.coreGuard != nil {
				c.coreGuard.Release()
				c.coreGuard = nil
			}
			return false
		}
		c.extGuard = g
	}
	return true
}

// releaseStateGuards drops any guards the exiting state still directly
// holds. Guards that were handed off into a spawned future's closure are
// already nil here (see e.g. state_loading.go), since the future owns
// them for its duration.
func (c *Chunk) releaseStateGuards() {
	if c.coreGuard != nil {
		c.coreGuard.Release()
		c.coreGuard = nil
	}
	if c.extGuard != nil {
		c.extGuard.Release()
		c.extGuard = nil
	}
}
