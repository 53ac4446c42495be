package chunk

import "sync"

// Access is the level at which a Resource may be acquired.
type Access uint8

const (
	// None grants no access; try_acquire(None) always degenerately
	// succeeds and its Guard permits nothing.
	None Access = iota
	// Read grants non-exclusive read access. Multiple Read guards may be
	// held concurrently.
	Read
	// Write grants exclusive access. No other holder, of any access
	// level, may coexist with a Write guard.
	Write
)

// Resource is a two-mode lock (read/write) that grants ordered Guard
// handles and may be revoked out from under its holder by a steal
// operation (see Chunk.TryStealAccess). Unlike sync.RWMutex, acquisition
// never blocks: try_acquire reports failure immediately so the caller (the
// chunk state machine) can retry on a later update instead of stalling the
// single update thread.
//
// All mutation of a Resource's bookkeeping happens on the world's update
// thread; the mutex below only protects against a background worker
// releasing a handed-off guard concurrently with the update thread probing
// can_acquire.
type Resource struct {
	mu      sync.Mutex
	writers int
	readers int
	// gen is bumped on every successful Write acquisition and is used by
	// Guard.heldBy to answer is_held_by without storing back-pointers.
	gen uint64
}

// Guard is an ownership token representing currently-held read or write
// access on a Resource. Releasing a Guard is idempotent; a Guard that has
// already been released is a harmless no-op on a second Release call.
type Guard struct {
	res      *Resource
	access   Access
	gen      uint64
	released bool
}

// TryAcquire attempts to grant access at the given level. It returns nil
// and false if incompatible holders already exist:
//   - Write requires no other holder of any kind.
//   - Read coexists with other Read holders but not with a Write holder.
//   - None always succeeds and returns a Guard that holds nothing.
func (r *Resource) TryAcquire(access Access) (*Guard, bool) {
	if access == None {
		return &Guard{res: r, access: None}, true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch access {
	case Read:
		if r.writers > 0 {
			return nil, false
		}
		r.readers++
		return &Guard{res: r, access: Read}, true
	case Write:
		if r.writers > 0 || r.readers > 0 {
			return nil, false
		}
		r.writers++
		r.gen++
		return &Guard{res: r, access: Write, gen: r.gen}, true
	}
	return nil, false
}

// CanAcquire is a non-mutating check with the same compatibility rules as
// TryAcquire.
func (r *Resource) CanAcquire(access Access) bool {
	if access == None {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch access {
	case Read:
		return r.writers == 0
	case Write:
		return r.writers == 0 && r.readers == 0
	}
	return false
}

// IsHeldBy is an identity check: it reports whether g is a live guard on r
// granting at least the given access level. Intended for debug assertions,
// not for control flow.
func (r *Resource) IsHeldBy(g *Guard, access Access) bool {
	if g == nil || g.res != r || g.released {
		return false
	}
	switch access {
	case None:
		return true
	case Read:
		return g.access == Read || g.access == Write
	case Write:
		return g.access == Write
	}
	return false
}

// Release drops the guard's hold on its Resource. Calling Release more
// than once is a no-op.
func (g *Guard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	if g.access == None {
		return
	}
	g.res.mu.Lock()
	defer g.res.mu.Unlock()
	switch g.access {
	case Read:
		g.res.readers--
	case Write:
		g.res.writers--
	}
}

// Access returns the level this guard was acquired at.
func (g *Guard) Access() Access {
	if g == nil {
		return None
	}
	return g.access
}

// steal forcibly detaches a held Write guard's bookkeeping without going
// through the normal reader/writer counters, returning a fresh Guard with
// the same generation so IsHeldBy semantics are preserved for the new
// owner. Callers must already know, via CanAcquire/state invariants, that
// the resource is currently held for Write by the state being stolen from;
// stealing a Resource that is not held for Write panics, since it
// indicates a violated ChunkState invariant rather than contention.
func (r *Resource) steal() *Guard {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writers != 1 || r.readers != 0 {
		panic("voxelcore/chunk: steal of a resource not exclusively write-held")
	}
	return &Guard{res: r, access: Write, gen: r.gen}
}
