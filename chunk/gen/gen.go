// Package gen provides a minimal, deterministic chunk.Generator and
// chunk.Decorator pair, grounded on the teacher's pmgen two-phase shape
// (generate_column then generate_structures) but trimmed of any block or
// biome registry: every id this package writes is whatever numeric id the
// caller configured it with.
package gen

import (
	"iter"
	"math"
	"math/rand/v2"

	"github.com/dm-vev/voxelcore/chunk"
)

// ColumnConfig configures ColumnGenerator's terrain shape. Ids are opaque
// numeric values the embedding application assigns meaning to.
type ColumnConfig struct {
	Seed       int64
	StoneID    uint32
	AirID      uint32
	WaterID    uint32
	SeaLevel   int
	BaseHeight int
	Amplitude  float64
	Frequency  float64

	// TreeTrunkID and TreeLeafID, if non-zero, enable a simple per-section
	// tree scatter in GenerateStructures. Grounded loosely on the teacher's
	// populate/tree.go two-part shape (scan for a workable surface, then
	// grow a trunk-plus-canopy) without its block-registry-bound Grow
	// interface.
	TreeTrunkID      uint32
	TreeLeafID       uint32
	TreesPerSection  int
	MinTrunkHeight   int
	MaxTrunkHeight   int
}

func (c ColumnConfig) withDefaults() ColumnConfig {
	if c.Frequency == 0 {
		c.Frequency = 1.0 / 48
	}
	if c.Amplitude == 0 {
		c.Amplitude = 24
	}
	if c.BaseHeight == 0 {
		c.BaseHeight = 40
	}
	if c.SeaLevel == 0 {
		c.SeaLevel = 32
	}
	if c.MinTrunkHeight == 0 {
		c.MinTrunkHeight = 4
	}
	if c.MaxTrunkHeight == 0 {
		c.MaxTrunkHeight = 6
	}
	return c
}

// ColumnGenerator is a value-noise height-field terrain generator: stone up
// to a noise-derived surface height, water filling down to SeaLevel, air
// above. It has no dependency on any block/biome catalog.
type ColumnGenerator struct {
	cfg ColumnConfig
}

// New returns a ColumnGenerator with cfg's zero fields replaced by sensible
// defaults.
func New(cfg ColumnConfig) *ColumnGenerator {
	return &ColumnGenerator{cfg: cfg.withDefaults()}
}

// GenerateColumn implements chunk.Generator.
func (g *ColumnGenerator) GenerateColumn(x, z int, yLow, yHigh int) iter.Seq[chunk.Content] {
	surface := g.surfaceHeight(x, z)
	return func(yield func(chunk.Content) bool) {
		for y := yLow; y <= yHigh; y++ {
			var content chunk.Content
			switch {
			case y < surface:
				content = chunk.Content{Block: g.cfg.StoneID, Static: true}
			case y < g.cfg.SeaLevel:
				content = chunk.Content{Fluid: g.cfg.WaterID, Level: chunk.LevelEight}
			default:
				content = chunk.Content{Block: g.cfg.AirID}
			}
			if !yield(content) {
				return
			}
		}
	}
}

// GenerateStructures implements chunk.Generator: a small per-section tree
// scatter when TreeTrunkID/TreeLeafID are configured, otherwise a no-op.
// Each attempted column is scanned top-down for the first air cell (block
// id 0) resting on a non-air cell, mirroring the teacher's highestWorkableBlock scan, and a
// trunk-plus-canopy is grown there if found.
func (g *ColumnGenerator) GenerateStructures(sec *chunk.Section, pos chunk.SectionPosition) {
	if g.cfg.TreeTrunkID == 0 || g.cfg.TreeLeafID == 0 {
		return
	}
	r := rand.New(rand.NewPCG(uint64(g.cfg.Seed), treeSectionSeed(pos)))
	for i := 0; i < g.cfg.TreesPerSection; i++ {
		x, z := r.IntN(chunk.N), r.IntN(chunk.N)
		y, ok := highestWorkable(sec, x, z)
		if !ok {
			continue
		}
		height := g.cfg.MinTrunkHeight + r.IntN(g.cfg.MaxTrunkHeight-g.cfg.MinTrunkHeight+1)
		growTree(sec, x, y, z, height, g.cfg.TreeTrunkID, g.cfg.TreeLeafID)
	}
}

func treeSectionSeed(pos chunk.SectionPosition) uint64 {
	h := uint64(0x27D4EB2F165667C5)
	for _, v := range [3]int{pos.X, pos.Y, pos.Z} {
		h ^= uint64(int64(v))
		h *= 0x100000001B3
	}
	return h
}

// highestWorkable scans column (x, z) top-down for the first y where the
// cell has block id 0 and the cell below it has any non-zero block id,
// mirroring the teacher's surface scan.
func highestWorkable(sec *chunk.Section, x, z int) (int, bool) {
	for y := chunk.N - 1; y > 0; y-- {
		if sec.Cell(x, y, z).Block() == 0 && sec.Cell(x, y-1, z).Block() != 0 {
			return y, true
		}
	}
	return 0, false
}

// growTree writes a trunk of height blocks starting at (x, y, z) plus a
// small spherical leaf canopy around its top, clipping anything outside the
// section's bounds. Existing non-air cells are left untouched, matching the
// teacher's overridable-only canopy rule.
func growTree(sec *chunk.Section, x, y, z, height int, trunkID, leafID uint32) {
	top := y
	for dy := 0; dy < height && y+dy < chunk.N; dy++ {
		setIfAir(sec, x, y+dy, z, trunkID, true)
		top = y + dy
	}
	const radius = 2
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			for dy := -1; dy <= 1; dy++ {
				if dx*dx+dz*dz+dy*dy > radius*radius {
					continue
				}
				setIfAir(sec, x+dx, top+dy, z+dz, leafID, false)
			}
		}
	}
}

func setIfAir(sec *chunk.Section, x, y, z int, block uint32, static bool) {
	if x < 0 || x >= chunk.N || y < 0 || y >= chunk.N || z < 0 || z >= chunk.N {
		return
	}
	if sec.Cell(x, y, z).Block() != 0 {
		return
	}
	if placed, err := (chunk.Content{Block: block, Static: static}).Cell(); err == nil {
		sec.SetRaw(x, y, z, placed)
	}
}

// surfaceHeight samples a small sum of value-noise octaves at integer
// column coordinates, deterministic in the generator's Seed.
func (g *ColumnGenerator) surfaceHeight(x, z int) int {
	n := fractalNoise(g.cfg.Seed, float64(x)*g.cfg.Frequency, float64(z)*g.cfg.Frequency, 4)
	return g.cfg.BaseHeight + int(math.Round(n*g.cfg.Amplitude))
}

// fractalNoise sums octaves of valueNoise2D, each at double the frequency
// and half the amplitude of the last (standard fBm construction).
func fractalNoise(seed int64, x, z float64, octaves int) float64 {
	var sum, amp, freq, norm float64
	amp = 1
	freq = 1
	for i := 0; i < octaves; i++ {
		sum += valueNoise2D(seed, x*freq, z*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// valueNoise2D is a bilinear-interpolated hash-based value noise, returning
// values roughly in [-1, 1]. It avoids pulling in a dedicated noise
// dependency since none of the example repos' domain stacks carry one; see
// DESIGN.md.
func valueNoise2D(seed int64, x, z float64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	x1, z1 := x0+1, z0+1
	tx, tz := x-x0, z-z0
	sx, sz := smooth(tx), smooth(tz)

	v00 := latticeValue(seed, int64(x0), int64(z0))
	v10 := latticeValue(seed, int64(x1), int64(z0))
	v01 := latticeValue(seed, int64(x0), int64(z1))
	v11 := latticeValue(seed, int64(x1), int64(z1))

	a := lerp(v00, v10, sx)
	b := lerp(v01, v11, sx)
	return lerp(a, b, sz)
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// latticeValue hashes an integer lattice point plus the generator seed into
// a deterministic pseudo-random value in [-1, 1], via a splitmix64-style
// avalanche.
func latticeValue(seed, x, z int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x9E3779B97F4A7C15
	h ^= uint64(z) * 0xC2B2AE3D27D4EB4F
	h = (h ^ (h >> 30)) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 27)) * 0x94D049BB133111EB
	h ^= h >> 31
	return (float64(h%2_000_000_007) / 1_000_000_003.5) - 1
}
