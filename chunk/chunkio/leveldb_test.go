package chunkio

import (
	"testing"

	"github.com/dm-vev/voxelcore/chunk"
)

func TestLevelDBCodecSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	codec, err := OpenLevelDBCodec(dir)
	if err != nil {
		t.Fatalf("OpenLevelDBCodec: %v", err)
	}
	defer codec.Close()

	pos := chunk.ChunkPosition{X: 3, Y: -1, Z: -2}
	c := buildTestChunk(pos)

	if err := codec.Save(c, dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	res := codec.Load(dir, pos)
	if res.Outcome != chunk.LoadSuccess {
		t.Fatalf("Load outcome = %v, want LoadSuccess (err: %v)", res.Outcome, res.Err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("len(Sections) = %d, want 1", len(res.Sections))
	}
	if len(res.BlockTicks) != 1 {
		t.Fatalf("len(BlockTicks) = %d, want 1", len(res.BlockTicks))
	}
}

func TestLevelDBCodecLoadMissingReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	codec, err := OpenLevelDBCodec(dir)
	if err != nil {
		t.Fatalf("OpenLevelDBCodec: %v", err)
	}
	defer codec.Close()

	res := codec.Load(dir, chunk.ChunkPosition{X: 123})
	if res.Outcome != chunk.LoadIOError {
		t.Fatalf("Load outcome = %v, want LoadIOError", res.Outcome)
	}
}
