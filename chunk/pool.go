package chunk

import (
	"sync"
	"sync/atomic"

	"github.com/segmentio/fasthash/fnv1a"
)

// poolStripes bounds the number of independently-locked counters a
// TaskPool shards its per-stripe bookkeeping across. Sharding avoids a
// single contended mutex when many chunks from different parts of the
// world release a slot in the same update; the stripe a position hashes to
// has no bearing on whether an allocation is granted, only on which lock
// protects its bookkeeping.
const poolStripes = 8

// TaskPool is a bounded, counting allocator for background activities
// (loading, generation, decoration, saving). TryAllocate(limit) returns a
// Slot counting one permit, or false if the category already has limit
// permits outstanding globally. A Slot returns its permit when Release is
// called (idempotent), keeping the number of in-flight futures bounded.
type TaskPool struct {
	// total is the actual number of outstanding permits across every
	// stripe; limit is enforced against this, not against any one stripe,
	// so the ceiling holds regardless of how positions hash.
	total   atomic.Int64
	stripes [poolStripes]struct {
		mu  sync.Mutex
		cur int
	}
	// saturated counts how many allocation attempts found the pool already
	// at its limit; exposed so the world tick loop can emit rate-limited
	// backpressure warnings.
	saturated atomic.Uint64
}

// Slot is a single outstanding permit from a TaskPool. Releasing it
// deterministically frees the permit; a Slot must not be copied after
// being obtained.
type Slot struct {
	pool   *TaskPool
	stripe int
	done   bool
}

// stripeFor picks a shard for the given chunk position using an FNV-1a
// hash of its components, so repeated allocations for the same chunk land
// on the same stripe (helpful for debugging saturation) while spreading
// load across positions.
func stripeFor(pos ChunkPosition) int {
	h := fnv1a.Init64
	h = fnv1a.AddUint64(h, uint64(uint32(pos.X)))
	h = fnv1a.AddUint64(h, uint64(uint32(pos.Y)))
	h = fnv1a.AddUint64(h, uint64(uint32(pos.Z)))
	return int(h % poolStripes)
}

// TryAllocate attempts to reserve one permit for pos under the given cap.
// limit is a true global ceiling on outstanding permits: it is enforced
// against the pool's total count, not against whichever stripe pos hashes
// to, so a cap smaller than poolStripes still holds. It returns nil and
// false if the pool already has limit permits outstanding.
func (p *TaskPool) TryAllocate(pos ChunkPosition, limit int) (*Slot, bool) {
	if limit <= 0 {
		p.saturated.Add(1)
		return nil, false
	}
	for {
		cur := p.total.Load()
		if cur >= int64(limit) {
			p.saturated.Add(1)
			return nil, false
		}
		if p.total.CompareAndSwap(cur, cur+1) {
			break
		}
	}
	i := stripeFor(pos)
	s := &p.stripes[i]
	s.mu.Lock()
	s.cur++
	s.mu.Unlock()
	return &Slot{pool: p, stripe: i}, true
}

// Release returns the permit to its pool. Calling Release more than once
// is a no-op.
func (s *Slot) Release() {
	if s == nil || s.done {
		return
	}
	s.done = true
	st := &s.pool.stripes[s.stripe]
	st.mu.Lock()
	st.cur--
	st.mu.Unlock()
	s.pool.total.Add(-1)
}

// Saturation returns the number of allocation attempts since the pool was
// created that found no free permit.
func (p *TaskPool) Saturation() uint64 {
	return p.saturated.Load()
}
