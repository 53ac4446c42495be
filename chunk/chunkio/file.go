// Package chunkio provides Codec implementations for the chunk package: a
// flat-file codec and a LevelDB-backed one, both reading and writing the
// normative binary format (magic, position header, per-section cell dump,
// decoration bitmap, tick queues, xxhash64 trailer).
package chunkio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/dm-vev/voxelcore/chunk"
)

const magic = "VXC1"

// sectionIndex mirrors chunk's own S^3 flattening (x*S+y)*S+z so the
// on-disk section index round-trips without depending on chunk's
// unexported helpers.
func sectionIndex(x, y, z int) int { return (x*chunk.S+y)*chunk.S + z }

func sectionCoords(i int) (x, y, z int) {
	z = i % chunk.S
	i /= chunk.S
	y = i % chunk.S
	x = i / chunk.S
	return
}

// FileName returns the normative file name for pos: x{X}y{Y}z{Z}.chunk.
func FileName(pos chunk.ChunkPosition) string {
	return fmt.Sprintf("x%dy%dz%d.chunk", pos.X, pos.Y, pos.Z)
}

// encode serialises c into the §3 binary format (everything except the
// trailing checksum, which the caller appends).
func encode(c *chunk.Chunk) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)

	pos := c.Position()
	binary.Write(&buf, binary.LittleEndian, pos.X)
	binary.Write(&buf, binary.LittleEndian, pos.Y)
	binary.Write(&buf, binary.LittleEndian, pos.Z)

	type nonEmpty struct {
		index int
		sec   *chunk.Section
	}
	var sections []nonEmpty
	for x := 0; x < chunk.S; x++ {
		for y := 0; y < chunk.S; y++ {
			for z := 0; z < chunk.S; z++ {
				sec := c.Section(x, y, z)
				if sec == nil || sec.Empty() {
					continue
				}
				sections = append(sections, nonEmpty{index: sectionIndex(x, y, z), sec: sec})
			}
		}
	}

	binary.Write(&buf, binary.LittleEndian, uint16(len(sections)))
	for _, se := range sections {
		binary.Write(&buf, binary.LittleEndian, uint16(se.index))
		for x := 0; x < chunk.N; x++ {
			for y := 0; y < chunk.N; y++ {
				for z := 0; z < chunk.N; z++ {
					binary.Write(&buf, binary.LittleEndian, uint32(se.sec.Cell(x, y, z)))
				}
			}
		}
	}

	binary.Write(&buf, binary.LittleEndian, uint16(c.Decoration()))

	writeEvents := func(events []chunk.ScheduledEvent) {
		binary.Write(&buf, binary.LittleEndian, uint32(len(events)))
		for _, ev := range events {
			binary.Write(&buf, binary.LittleEndian, ev.Kind)
			binary.Write(&buf, binary.LittleEndian, int32(ev.Pos[0]))
			binary.Write(&buf, binary.LittleEndian, int32(ev.Pos[1]))
			binary.Write(&buf, binary.LittleEndian, int32(ev.Pos[2]))
			binary.Write(&buf, binary.LittleEndian, ev.Offset)
		}
	}
	writeEvents(c.BlockTicks().Entries())
	writeEvents(c.FluidTicks().Entries())

	return buf.Bytes()
}

// encodeWithChecksum appends the xxhash64 trailer to encode's output.
func encodeWithChecksum(c *chunk.Chunk) []byte {
	body := encode(c)
	sum := xxhash.Sum64(body)
	out := make([]byte, len(body)+8)
	copy(out, body)
	binary.LittleEndian.PutUint64(out[len(body):], sum)
	return out
}

// decode parses the §3 binary format, validating the checksum and the
// position header against want. Position events whose kind/pos do not
// round-trip cleanly are treated as FormatCorruption, never panicking on
// malformed input.
func decode(data []byte, want chunk.ChunkPosition) chunk.LoadingResult {
	if len(data) < len(magic)+4+4+4+2+8 {
		return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
	}
	body, trailer := data[:len(data)-8], data[len(data)-8:]
	want64 := binary.LittleEndian.Uint64(trailer)
	if xxhash.Sum64(body) != want64 {
		return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
	}

	r := bytes.NewReader(body)
	var gotMagic [4]byte
	if _, err := r.Read(gotMagic[:]); err != nil || string(gotMagic[:]) != magic {
		return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
	}

	var x, y, z int32
	binary.Read(r, binary.LittleEndian, &x)
	binary.Read(r, binary.LittleEndian, &y)
	binary.Read(r, binary.LittleEndian, &z)
	got := chunk.ChunkPosition{X: x, Y: y, Z: z}
	if got != want {
		return chunk.LoadingResult{Outcome: chunk.LoadValidationError, Err: chunk.ErrPositionMismatch}
	}

	var count uint16
	binary.Read(r, binary.LittleEndian, &count)
	sections := make([]*chunk.Section, 0, count)
	for i := uint16(0); i < count; i++ {
		var idx uint16
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
		}
		sx, sy, sz := sectionCoords(int(idx))
		sec := chunk.NewSection(chunk.SectionPosition{X: sx, Y: sy, Z: sz})
		for lx := 0; lx < chunk.N; lx++ {
			for ly := 0; ly < chunk.N; ly++ {
				for lz := 0; lz < chunk.N; lz++ {
					var cell uint32
					if err := binary.Read(r, binary.LittleEndian, &cell); err != nil {
						return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
					}
					sec.SetRaw(lx, ly, lz, chunk.Cell(cell))
				}
			}
		}
		sections = append(sections, sec)
	}

	var decoration uint16
	binary.Read(r, binary.LittleEndian, &decoration)

	readEvents := func() ([]chunk.ScheduledEvent, error) {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		events := make([]chunk.ScheduledEvent, 0, n)
		for i := uint32(0); i < n; i++ {
			var kind uint32
			var px, py, pz int32
			var offset int64
			if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &px); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &py); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &pz); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
				return nil, err
			}
			events = append(events, chunk.ScheduledEvent{
				Kind:   kind,
				Pos:    [3]int{int(px), int(py), int(pz)},
				Offset: offset,
			})
		}
		return events, nil
	}
	blockTicks, err := readEvents()
	if err != nil {
		return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
	}
	fluidTicks, err := readEvents()
	if err != nil {
		return chunk.LoadingResult{Outcome: chunk.LoadFormatError, Err: chunk.ErrFormatCorruption}
	}

	return chunk.LoadingResult{
		Outcome:    chunk.LoadSuccess,
		Sections:   sections,
		Decoration: chunk.DecorationBits(decoration),
		BlockTicks: blockTicks,
		FluidTicks: fluidTicks,
	}
}

// FileCodec implements chunk.Codec by reading and writing one file per
// chunk under a directory, named per FileName. Save is an atomic
// temp-file-then-rename, grounded on the teacher's compact-then-store
// discipline in server/world.go's saveChunk.
type FileCodec struct{}

func (FileCodec) FileName(pos chunk.ChunkPosition) string { return FileName(pos) }

func (FileCodec) Load(dir string, pos chunk.ChunkPosition) chunk.LoadingResult {
	data, err := os.ReadFile(filepath.Join(dir, FileName(pos)))
	if err != nil {
		if os.IsNotExist(err) {
			return chunk.LoadingResult{Outcome: chunk.LoadIOError, Err: chunk.ErrChunkNotFound}
		}
		return chunk.LoadingResult{Outcome: chunk.LoadIOError, Err: err}
	}
	return decode(data, pos)
}

func (FileCodec) Save(c *chunk.Chunk, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("chunkio: mkdir %s: %w", dir, err)
	}
	data := encodeWithChecksum(c)
	final := filepath.Join(dir, FileName(c.Position()))
	tmp, err := os.CreateTemp(dir, ".tmp-chunk-*")
	if err != nil {
		return fmt.Errorf("chunkio: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chunkio: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chunkio: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chunkio: rename %s -> %s: %w", tmpName, final, err)
	}
	return nil
}
