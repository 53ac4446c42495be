package chunkio

import (
	"testing"

	"github.com/dm-vev/voxelcore/chunk"
)

func buildTestChunk(pos chunk.ChunkPosition) *chunk.Chunk {
	c := chunk.NewChunk(pos)
	sec := c.Section(0, 0, 0)
	cell, err := chunk.EncodeCell(7, 2, 0, chunk.LevelOne, true)
	if err != nil {
		panic(err)
	}
	sec.SetRaw(1, 2, 3, cell)

	c.BlockTicks().Add(5, [3]int{1, 2, 3}, 20)
	c.FluidTicks().Add(9, [3]int{4, 5, 6}, 3)
	return c
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pos := chunk.ChunkPosition{X: 2, Y: -3, Z: 9}
	c := buildTestChunk(pos)

	data := encodeWithChecksum(c)
	res := decode(data, pos)
	if res.Outcome != chunk.LoadSuccess {
		t.Fatalf("decode outcome = %v, want LoadSuccess (err: %v)", res.Outcome, res.Err)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("len(Sections) = %d, want 1", len(res.Sections))
	}
	got := res.Sections[0].Cell(1, 2, 3)
	if got.Block() != 7 || got.Fluid() != 0 || !got.Static() {
		t.Fatalf("round-tripped cell = %+v, want block=7 static=true", got)
	}

	if len(res.BlockTicks) != 1 || res.BlockTicks[0].Kind != 5 || res.BlockTicks[0].Pos != [3]int{1, 2, 3} || res.BlockTicks[0].Offset != 20 {
		t.Fatalf("BlockTicks round-trip mismatch: %+v", res.BlockTicks)
	}
	if len(res.FluidTicks) != 1 || res.FluidTicks[0].Kind != 9 || res.FluidTicks[0].Pos != [3]int{4, 5, 6} || res.FluidTicks[0].Offset != 3 {
		t.Fatalf("FluidTicks round-trip mismatch: %+v", res.FluidTicks)
	}
}

func TestDecodeRejectsPositionMismatch(t *testing.T) {
	c := buildTestChunk(chunk.ChunkPosition{X: 1})
	data := encodeWithChecksum(c)
	res := decode(data, chunk.ChunkPosition{X: 2})
	if res.Outcome != chunk.LoadValidationError {
		t.Fatalf("decode outcome = %v, want LoadValidationError", res.Outcome)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	c := buildTestChunk(chunk.ChunkPosition{})
	data := encodeWithChecksum(c)
	data[len(data)-1] ^= 0xff // flip a checksum byte

	res := decode(data, chunk.ChunkPosition{})
	if res.Outcome != chunk.LoadFormatError {
		t.Fatalf("decode outcome = %v, want LoadFormatError", res.Outcome)
	}
}

func TestFileCodecSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pos := chunk.ChunkPosition{X: -1, Y: 0, Z: 4}
	c := buildTestChunk(pos)

	var codec FileCodec
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
}

func TestFileCodecLoadMissingReportsNotFound(t *testing.T) {
	dir := t.TempDir()
	var codec FileCodec
	res := codec.Load(dir, chunk.ChunkPosition{X: 99})
	if res.Outcome != chunk.LoadIOError {
		t.Fatalf("Load outcome = %v, want LoadIOError", res.Outcome)
	}
}
