package chunk

import "testing"

func TestResourceWriteExclusive(t *testing.T) {
	var r Resource
	g1, ok := r.TryAcquire(Write)
	if !ok {
		t.Fatal("first write acquire should succeed")
	}
	if _, ok := r.TryAcquire(Write); ok {
		t.Fatal("second write acquire should fail while first is held")
	}
	if _, ok := r.TryAcquire(Read); ok {
		t.Fatal("read acquire should fail while write is held")
	}
	g1.Release()
	g2, ok := r.TryAcquire(Write)
	if !ok {
		t.Fatal("write acquire should succeed after release")
	}
	g2.Release()
}

func TestResourceReadSharing(t *testing.T) {
	var r Resource
	g1, ok := r.TryAcquire(Read)
	if !ok {
		t.Fatal("first read acquire should succeed")
	}
	g2, ok := r.TryAcquire(Read)
	if !ok {
		t.Fatal("concurrent read acquire should succeed")
	}
	if _, ok := r.TryAcquire(Write); ok {
		t.Fatal("write acquire should fail while reads are held")
	}
	g1.Release()
	if _, ok := r.TryAcquire(Write); ok {
		t.Fatal("write acquire should still fail with one read outstanding")
	}
	g2.Release()
	g3, ok := r.TryAcquire(Write)
	if !ok {
		t.Fatal("write acquire should succeed once all reads release")
	}
	g3.Release()
}

func TestResourceNoneAlwaysSucceeds(t *testing.T) {
	var r Resource
	wg, _ := r.TryAcquire(Write)
	g, ok := r.TryAcquire(None)
	if !ok {
		t.Fatal("None access should always succeed")
	}
	if !r.IsHeldBy(g, None) {
		t.Fatal("None guard should report held for None")
	}
	wg.Release()
}

func TestResourceReleaseIdempotent(t *testing.T) {
	var r Resource
	g, _ := r.TryAcquire(Write)
	g.Release()
	g.Release()
	if _, ok := r.TryAcquire(Write); !ok {
		t.Fatal("double release must not double-decrement the writer count")
	}
}

func TestResourceSteal(t *testing.T) {
	var r Resource
	g, ok := r.TryAcquire(Write)
	if !ok {
		t.Fatal("write acquire should succeed")
	}
	stolen := r.steal()
	if !r.IsHeldBy(stolen, Write) {
		t.Fatal("stolen guard should report write-held")
	}
	if _, ok := r.TryAcquire(Write); ok {
		t.Fatal("resource should still appear write-held after steal")
	}
	stolen.Release()
	_ = g // the original guard is now orphaned bookkeeping-wise by design
	if _, ok := r.TryAcquire(Write); !ok {
		t.Fatal("write acquire should succeed once the stolen guard releases")
	}
}

func TestResourceStealPanicsWithoutExclusiveWriter(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("steal of a non-exclusively-held resource should panic")
		}
	}()
	var r Resource
	r.steal()
}
