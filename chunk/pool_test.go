package chunk

import "testing"

func TestTaskPoolAllocateUpToGlobalLimit(t *testing.T) {
	var p TaskPool
	const limit = poolStripes * 3
	pos := ChunkPosition{X: 11, Y: -4, Z: 9}

	var slots []*Slot
	for i := 0; i < limit; i++ {
		slot, ok := p.TryAllocate(pos, limit)
		if !ok {
			t.Fatalf("allocation %d should succeed under limit %d", i, limit)
		}
		slots = append(slots, slot)
	}
	if _, ok := p.TryAllocate(pos, limit); ok {
		t.Fatal("allocation beyond the global limit should fail")
	}
	for _, s := range slots {
		s.Release()
	}
	if _, ok := p.TryAllocate(pos, limit); !ok {
		t.Fatal("allocation should succeed again once permits are released")
	}
}

func TestTaskPoolSaturates(t *testing.T) {
	var p TaskPool
	pos := ChunkPosition{X: 7, Y: 3, Z: 1}
	slot, ok := p.TryAllocate(pos, 1)
	if !ok {
		t.Fatal("first allocation on an empty pool should succeed")
	}
	if _, ok := p.TryAllocate(pos, 1); ok {
		t.Fatal("a pool at its limit should refuse further allocations")
	}
	if got := p.Saturation(); got != 1 {
		t.Fatalf("Saturation() = %d, want 1", got)
	}
	slot.Release()
	if _, ok := p.TryAllocate(pos, 1); !ok {
		t.Fatal("allocation should succeed again after release")
	}
}

// TestTaskPoolSubStripeLimitIsGlobal mirrors a small loading pool (cap
// smaller than poolStripes) being requested for chunks at different
// positions, which may hash to different stripes. The cap must still hold
// as a global ceiling regardless of how those positions shard.
func TestTaskPoolSubStripeLimitIsGlobal(t *testing.T) {
	var p TaskPool
	const limit = 1

	positions := []ChunkPosition{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 5, Y: -7, Z: 3},
		{X: -4, Y: 2, Z: 9},
		{X: 100, Y: -100, Z: 17},
		{X: 3, Y: 3, Z: 3},
	}

	slot, ok := p.TryAllocate(positions[0], limit)
	if !ok {
		t.Fatal("first allocation should succeed")
	}
	for _, pos := range positions[1:] {
		if _, ok := p.TryAllocate(pos, limit); ok {
			t.Fatalf("allocation for %+v should have been refused: cap=%d is already held", pos, limit)
		}
	}
	slot.Release()
	if _, ok := p.TryAllocate(positions[1], limit); !ok {
		t.Fatal("allocation should succeed again once the sole permit is released")
	}
}

func TestTaskPoolZeroLimitAlwaysSaturated(t *testing.T) {
	var p TaskPool
	if _, ok := p.TryAllocate(ChunkPosition{}, 0); ok {
		t.Fatal("a zero limit must never grant a permit")
	}
	if got := p.Saturation(); got != 1 {
		t.Fatalf("Saturation() = %d, want 1", got)
	}
}

func TestTaskPoolReleaseIdempotent(t *testing.T) {
	var p TaskPool
	slot, ok := p.TryAllocate(ChunkPosition{}, 1)
	if !ok {
		t.Fatal("allocation should succeed")
	}
	slot.Release()
	slot.Release()
	if _, ok := p.TryAllocate(ChunkPosition{}, 1); !ok {
		t.Fatal("double release must not double-free the permit count")
	}
}
