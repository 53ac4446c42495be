package chunk

import "testing"

func TestCellEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name               string
		block, data, fluid uint32
		level              LiquidLevel
		static             bool
	}{
		{"zero", 0, 0, 0, LevelOne, false},
		{"max fields", BlockMask, DataMask, FluidMask, LevelEight, true},
		{"typical block", 42, 3, 0, LevelOne, false},
		{"fluid only", 0, 0, 17, LevelFour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := EncodeCell(tc.block, tc.data, tc.fluid, tc.level, tc.static)
			if err != nil {
				t.Fatalf("EncodeCell: %v", err)
			}
			block, data, fluid, level, static := c.Decode()
			if block != tc.block || data != tc.data || fluid != tc.fluid || level != tc.level || static != tc.static {
				t.Fatalf("Decode() = (%d, %d, %d, %d, %v), want (%d, %d, %d, %d, %v)",
					block, data, fluid, level, static, tc.block, tc.data, tc.fluid, tc.level, tc.static)
			}
			if c.Block() != tc.block {
				t.Fatalf("Block() = %d, want %d", c.Block(), tc.block)
			}
			if c.Fluid() != tc.fluid {
				t.Fatalf("Fluid() = %d, want %d", c.Fluid(), tc.fluid)
			}
			if c.Static() != tc.static {
				t.Fatalf("Static() = %v, want %v", c.Static(), tc.static)
			}
		})
	}
}

func TestEncodeCellRejectsOutOfRangeFields(t *testing.T) {
	if _, err := EncodeCell(BlockMask+1, 0, 0, LevelOne, false); err == nil {
		t.Fatal("expected ErrOutOfRange for an oversized block id")
	}
	if _, err := EncodeCell(0, DataMask+1, 0, LevelOne, false); err == nil {
		t.Fatal("expected ErrOutOfRange for oversized block data")
	}
	if _, err := EncodeCell(0, 0, FluidMask+1, LevelOne, false); err == nil {
		t.Fatal("expected ErrOutOfRange for an oversized fluid id")
	}
}

func TestVoxelGridGetSet(t *testing.T) {
	var g VoxelGrid
	if !g.empty() {
		t.Fatal("a freshly zeroed grid should be empty")
	}
	c, err := EncodeCell(5, 1, 0, LevelOne, true)
	if err != nil {
		t.Fatalf("EncodeCell: %v", err)
	}
	g.Set(3, 7, 11, c)
	if got := g.Get(3, 7, 11); got != c {
		t.Fatalf("Get(3, 7, 11) = %v, want %v", got, c)
	}
	if g.empty() {
		t.Fatal("a grid with one non-zero cell must not report empty")
	}
}
