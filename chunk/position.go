package chunk

import "fmt"

// SectionPosition is the immutable identity of a Section within a Chunk, in
// section units relative to the chunk's first section.
type SectionPosition struct {
	X, Y, Z int
}

func (p SectionPosition) String() string {
	return fmt.Sprintf("SectionPosition(%d, %d, %d)", p.X, p.Y, p.Z)
}

// ChunkPosition is the identity of a Chunk, in chunk units. Equality is by
// components. The origin (0, 0, 0) is sentinel: it is never released.
type ChunkPosition struct {
	X, Y, Z int32
}

// IsOrigin reports whether p is the sentinel origin chunk.
func (p ChunkPosition) IsOrigin() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// FirstSection returns the world position, in section units, of this
// chunk's first section: position * S.
func (p ChunkPosition) FirstSection() SectionPosition {
	return SectionPosition{X: int(p.X) * S, Y: int(p.Y) * S, Z: int(p.Z) * S}
}

// FirstBlock returns the world position, in block units, of this chunk's
// first block: position * S * N.
func (p ChunkPosition) FirstBlock() (x, y, z int) {
	return int(p.X) * S * N, int(p.Y) * S * N, int(p.Z) * S * N
}

// Add returns the component-wise sum of p and o.
func (p ChunkPosition) Add(o ChunkPosition) ChunkPosition {
	return ChunkPosition{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// pack encodes p into a single int64 suitable for use as a key in a
// brentp/intintmap-backed index; 21 bits per axis comfortably covers any
// BlockLimit-bounded world.
func (p ChunkPosition) pack() int64 {
	const bits = 21
	const mask = int64(1)<<bits - 1
	return (int64(p.X)&mask)<<(2*bits) | (int64(p.Y)&mask)<<bits | (int64(p.Z) & mask)
}

func (p ChunkPosition) String() string {
	return fmt.Sprintf("ChunkPosition(%d, %d, %d)", p.X, p.Y, p.Z)
}
