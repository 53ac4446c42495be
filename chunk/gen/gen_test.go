package gen

import (
	"testing"

	"github.com/dm-vev/voxelcore/chunk"
)

func TestGenerateColumnDeterministic(t *testing.T) {
	g := New(ColumnConfig{Seed: 42, StoneID: 1, AirID: 0, WaterID: 2})

	collect := func() []chunk.Content {
		var out []chunk.Content
		for c := range g.GenerateColumn(5, -3, 0, 63) {
			out = append(out, c)
		}
		return out
	}

	a, b := collect(), collect()
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("len(a)=%d len(b)=%d, want 64 each", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("GenerateColumn is not deterministic at y=%d: %+v vs %+v", i, a[i], b[i])
		}
	}

	var sawStone, sawAir bool
	for _, c := range a {
		if c.Block == 1 {
			sawStone = true
		}
		if c.Block == 0 && c.Fluid == 0 {
			sawAir = true
		}
	}
	if !sawStone || !sawAir {
		t.Fatalf("expected both stone and air in the generated column, got sawStone=%v sawAir=%v", sawStone, sawAir)
	}
}

func TestGenerateStructuresPlantsTreeOnWorkableSurface(t *testing.T) {
	g := New(ColumnConfig{
		Seed:            1,
		StoneID:         1,
		TreeTrunkID:     3,
		TreeLeafID:      4,
		TreesPerSection: 1,
		MinTrunkHeight:  2,
		MaxTrunkHeight:  2,
	})

	sec := chunk.NewSection(chunk.SectionPosition{})
	for x := 0; x < chunk.N; x++ {
		for z := 0; z < chunk.N; z++ {
			for y := 0; y < chunk.N/2; y++ {
				if err := sec.SetCell(x, y, z, 1, 0, 0, chunk.LevelOne, true); err != nil {
					t.Fatalf("SetCell: %v", err)
				}
			}
		}
	}

	g.GenerateStructures(sec, chunk.SectionPosition{})

	var sawTrunk, sawLeaf bool
	for x := 0; x < chunk.N; x++ {
		for y := 0; y < chunk.N; y++ {
			for z := 0; z < chunk.N; z++ {
				switch sec.Cell(x, y, z).Block() {
				case 3:
					sawTrunk = true
				case 4:
					sawLeaf = true
				}
			}
		}
	}
	if !sawTrunk || !sawLeaf {
		t.Fatalf("expected a tree to be grown, sawTrunk=%v sawLeaf=%v", sawTrunk, sawLeaf)
	}
}

func TestGenerateStructuresNoopWithoutTreeIDs(t *testing.T) {
	g := New(ColumnConfig{Seed: 1, StoneID: 1})
	sec := chunk.NewSection(chunk.SectionPosition{})
	g.GenerateStructures(sec, chunk.SectionPosition{})
	if !sec.Empty() {
		t.Fatal("GenerateStructures should be a no-op when tree ids are unset")
	}
}
