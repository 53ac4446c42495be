package gen

import (
	"math/rand/v2"

	"github.com/dm-vev/voxelcore/chunk"
)

// OreType describes one ore kind to scatter, loosely grounded on the
// teacher's populate/ore.go OreType (clusters of a fixed size placed along
// a random direction from a random anchor cell), minus its cube.Pos/Transaction
// coupling.
type OreType struct {
	// BlockID replaces ReplaceID cells with this id.
	BlockID uint32
	// ReplaceID is the only id a cluster is permitted to overwrite; this
	// mirrors pmgen's "stone-only" ore placement rule in a registry-free
	// way.
	ReplaceID uint32
	// ClusterSize is the number of cells attempted per cluster.
	ClusterSize int
	// ClustersPerSection is how many cluster anchors are attempted per
	// section.
	ClustersPerSection int
}

// OreDecorator scatters clusters of each configured OreType across every
// decorated section's local volume, seeded deterministically from the
// SectionPosition it is called with (the section's coordinate within its
// chunk) so reruns are reproducible.
type OreDecorator struct {
	Seed int64
	Ores []OreType
}

// DecorateSection implements chunk.Decorator. It only ever writes into the
// center section (neighbors are read-only context per the interface
// contract); a cluster that would wander past the section's bounds is
// simply clipped.
func (d *OreDecorator) DecorateSection(pos chunk.SectionPosition, neighbors [3][3][3]*chunk.Section) {
	center := neighbors[1][1][1]
	if center == nil {
		return
	}
	r := rand.New(rand.NewPCG(uint64(d.Seed), sectionSeed(pos)))
	for _, ore := range d.Ores {
		for i := 0; i < ore.ClustersPerSection; i++ {
			placeCluster(center, r, ore)
		}
	}
}

func sectionSeed(pos chunk.SectionPosition) uint64 {
	h := uint64(0xCBF29CE484222325)
	for _, v := range [3]int{pos.X, pos.Y, pos.Z} {
		h ^= uint64(int64(v))
		h *= 0x100000001B3
	}
	return h
}

// placeCluster walks a short random direction from a random anchor cell,
// replacing matching cells with ore.BlockID, mirroring the teacher's
// diagonal-walk cluster shape without its angle/vector math.
func placeCluster(sec *chunk.Section, r *rand.Rand, ore OreType) {
	x, y, z := r.IntN(chunk.N), r.IntN(chunk.N), r.IntN(chunk.N)
	dx, dy, dz := r.IntN(3)-1, r.IntN(3)-1, r.IntN(3)-1
	for i := 0; i < ore.ClusterSize; i++ {
		if x < 0 || x >= chunk.N || y < 0 || y >= chunk.N || z < 0 || z >= chunk.N {
			break
		}
		cell := sec.Cell(x, y, z)
		if cell.Block() == ore.ReplaceID {
			if placed, err := (chunk.Content{Block: ore.BlockID, Static: true}).Cell(); err == nil {
				sec.SetRaw(x, y, z, placed)
			}
		}
		x, y, z = x+dx, y+dy, z+dz
		if r.IntN(4) == 0 {
			dx, dy, dz = r.IntN(3)-1, r.IntN(3)-1, r.IntN(3)-1
		}
	}
}
