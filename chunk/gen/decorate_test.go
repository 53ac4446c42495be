package gen

import (
	"testing"

	"github.com/dm-vev/voxelcore/chunk"
)

func filledStoneSection() *chunk.Section {
	sec := chunk.NewSection(chunk.SectionPosition{})
	for x := 0; x < chunk.N; x++ {
		for y := 0; y < chunk.N; y++ {
			for z := 0; z < chunk.N; z++ {
				if err := sec.SetCell(x, y, z, 1, 0, 0, chunk.LevelOne, true); err != nil {
					panic(err)
				}
			}
		}
	}
	return sec
}

func TestOreDecoratorPlacesClusters(t *testing.T) {
	sec := filledStoneSection()
	var neighbors [3][3][3]*chunk.Section
	neighbors[1][1][1] = sec

	d := &OreDecorator{
		Seed: 7,
		Ores: []OreType{{BlockID: 5, ReplaceID: 1, ClusterSize: 8, ClustersPerSection: 4}},
	}
	d.DecorateSection(chunk.SectionPosition{}, neighbors)

	var placed int
	for x := 0; x < chunk.N; x++ {
		for y := 0; y < chunk.N; y++ {
			for z := 0; z < chunk.N; z++ {
				if sec.Cell(x, y, z).Block() == 5 {
					placed++
				}
			}
		}
	}
	if placed == 0 {
		t.Fatal("expected at least one ore cell to be placed")
	}
}

func TestOreDecoratorNilCenterIsNoop(t *testing.T) {
	d := &OreDecorator{Seed: 1, Ores: []OreType{{BlockID: 5, ReplaceID: 1, ClusterSize: 4, ClustersPerSection: 1}}}
	var neighbors [3][3][3]*chunk.Section
	d.DecorateSection(chunk.SectionPosition{}, neighbors) // must not panic with a nil center
}
