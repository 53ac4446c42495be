package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dm-vev/voxelcore/chunk"
)

func pollUntil(t *testing.T, deadline time.Duration, cond func() bool) {
	t.Helper()
	end := time.Now().Add(deadline)
	for {
		if cond() {
			return
		}
		if time.Now().After(end) {
			t.Fatalf("condition not met within %s", deadline)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOpenCreatesInfoAndLayout(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(Config{Directory: dir, TickInterval: time.Millisecond}, NewInfo("test", 1, mgl64.Vec3{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	if w.Info().Name != "test" {
		t.Fatalf("Info().Name = %q, want %q", w.Info().Name, "test")
	}

	loaded, err := LoadInfo(w.Layout().infoPath())
	if err != nil {
		t.Fatalf("LoadInfo: %v", err)
	}
	if loaded != w.Info() {
		t.Fatalf("persisted info %+v does not match in-memory info %+v", loaded, w.Info())
	}
}

func TestOpenReusesExistingInfo(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(Config{Directory: dir, TickInterval: time.Millisecond}, NewInfo("first-name", 1, mgl64.Vec3{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first.Close()

	second, err := Open(Config{Directory: dir, TickInterval: time.Millisecond}, NewInfo("second-name", 2, mgl64.Vec3{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer second.Close()

	if second.Info().Name != "first-name" {
		t.Fatalf("Info().Name = %q, want the previously persisted %q", second.Info().Name, "first-name")
	}
}

func TestWorldRunActivatesRequestedChunks(t *testing.T) {
	dir := t.TempDir()
	w, err := Open(Config{
		Directory:    dir,
		TickInterval: time.Millisecond,
	}, NewInfo("test", 1, mgl64.Vec3{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w.Close()

	for x := int32(-1); x <= 1; x++ {
		for y := int32(-1); y <= 1; y++ {
			for z := int32(-1); z <= 1; z++ {
				w.Request(chunk.ChunkPosition{X: x, Y: y, Z: z})
			}
		}
	}

	go w.Run()

	pollUntil(t, 5*time.Second, func() bool {
		_, ok := w.GetActive(chunk.ChunkPosition{})
		return ok
	})
	if w.ActiveCount() == 0 {
		t.Fatal("expected at least one active chunk")
	}
}
