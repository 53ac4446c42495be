package chunk

// decorationNeighbor is one held neighbor chunk participating in a
// decoration pass, identified by its chunk-grid offset from self. extGuard
// is non-nil only when the neighbor was acquired via stealing rather than a
// plain core acquire, since stealing takes both resources at once and the
// neighbor (parked in Used) will not resume until both are released.
type decorationNeighbor struct {
	offset   ChunkPosition
	chunk    *Chunk
	guard    *Guard
	extGuard *Guard
}

// decorationPlan is the output of planDecoration: the set of corners about
// to be decorated and the Write guards held on every neighbor chunk needed
// to do it, per spec.md §4.5.
type decorationPlan struct {
	self      *Chunk
	corners   []DecorationBits
	neighbors []decorationNeighbor
}

// release drops every held neighbor guard. Both the normal completion path
// and an overridden-transition Cleanup may call it; a second call is
// harmless because Guard.Release is idempotent.
func (p *decorationPlan) release() {
	for _, nb := range p.neighbors {
		nb.guard.Release()
		if nb.extGuard != nil {
			nb.extGuard.Release()
		}
	}
}

// neighborAt returns the held chunk at chunk-grid offset off from self, or
// self itself at the zero offset.
func (p *decorationPlan) neighborAt(off ChunkPosition) *Chunk {
	if off == (ChunkPosition{}) {
		return p.self
	}
	for _, nb := range p.neighbors {
		if nb.offset == off {
			return nb.chunk
		}
	}
	return nil
}

// cornerOffsets returns the 8 chunk-grid offsets forming the 2x2x2 block of
// corner (cx, cy, cz), direction (cx*2-1, cy*2-1, cz*2-1), per spec.md §4.5.
func cornerOffsets(cx, cy, cz int) [8]ChunkPosition {
	sx, sy, sz := int32(cx*2-1), int32(cy*2-1), int32(cz*2-1)
	var out [8]ChunkPosition
	i := 0
	for _, ox := range [2]int32{0, sx} {
		for _, oy := range [2]int32{0, sy} {
			for _, oz := range [2]int32{0, sz} {
				out[i] = ChunkPosition{X: ox, Y: oy, Z: oz}
				i++
			}
		}
	}
	return out
}

// planDecoration runs the decoration-eligibility check of spec.md §4.5
// steps 1-6. ok is false if decoration is already complete or no corner is
// currently decoratable; in the latter case nothing is acquired.
func planDecoration(c *Chunk, ctx *Context) (*decorationPlan, bool) {
	if c.decoration.Complete() || ctx.Set == nil {
		return nil, false
	}

	var available [3][3][3]bool
	var chunks [3][3][3]*Chunk
	available[1][1][1] = true
	chunks[1][1][1] = c

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				n, ok := ctx.Set.GetAny(c.pos.Add(ChunkPosition{X: int32(dx), Y: int32(dy), Z: int32(dz)}))
				if !ok || !(n.CanAcquireCore(Write) || n.state.AllowStealing()) {
					continue
				}
				available[dx+1][dy+1][dz+1] = true
				chunks[dx+1][dy+1][dz+1] = n
			}
		}
	}

	var decoratable []DecorationBits
	needed := map[ChunkPosition]bool{{}: true}

	for cx := 0; cx <= 1; cx++ {
		for cy := 0; cy <= 1; cy++ {
			for cz := 0; cz <= 1; cz++ {
				bit := CornerBit(cx, cy, cz)
				if c.decoration.Has(bit) {
					continue
				}
				offs := cornerOffsets(cx, cy, cz)
				ok := true
				for _, o := range offs {
					if !available[o.X+1][o.Y+1][o.Z+1] {
						ok = false
						break
					}
				}
				if !ok {
					continue
				}
				decoratable = append(decoratable, bit)
				for _, o := range offs {
					needed[o] = true
				}
			}
		}
	}

	if len(decoratable) == 0 {
		return nil, false
	}

	plan := &decorationPlan{self: c, corners: decoratable}
	for off := range needed {
		if off == (ChunkPosition{}) {
			continue
		}
		n := chunks[off.X+1][off.Y+1][off.Z+1]
		g, err := n.AcquireCore(Write)
		if err != nil {
			plan.release()
			return nil, false
		}
		if g != nil {
			plan.neighbors = append(plan.neighbors, decorationNeighbor{offset: off, chunk: n, guard: g})
			continue
		}
		// n's own state is holding core Write continuously (e.g. Hidden or
		// Active); the only way in is stealing both guards at once, which
		// parks n in Used until both are released below.
		core, ext, ok := n.TryStealAccess(ctx)
		if !ok {
			plan.release()
			return nil, false
		}
		plan.neighbors = append(plan.neighbors, decorationNeighbor{offset: off, chunk: n, guard: core, extGuard: ext})
	}
	return plan, true
}

// applyDecorationResult sets each decorated corner's flag on every one of
// the 8 chunks sharing that physical corner, each recording its own view of
// the flag via a symmetric, axis-flipped offset (spec.md §4.5: "Setting a
// flag on a chunk does so on all 8 chunks that share that corner").
func applyDecorationResult(plan *decorationPlan) {
	for _, bit := range plan.corners {
		cx, cy, cz := decodeCornerBit(bit)
		offs := cornerOffsets(cx, cy, cz)
		for _, o := range offs {
			target := plan.neighborAt(o)
			if target == nil {
				continue
			}
			tcx, tcy, tcz := cx, cy, cz
			if o.X != 0 {
				tcx = 1 - cx
			}
			if o.Y != 0 {
				tcy = 1 - cy
			}
			if o.Z != 0 {
				tcz = 1 - cz
			}
			target.decoration.Set(CornerBit(tcx, tcy, tcz))
		}
	}
}

func decodeCornerBit(bit DecorationBits) (cx, cy, cz int) {
	for x := 0; x <= 1; x++ {
		for y := 0; y <= 1; y++ {
			for z := 0; z <= 1; z++ {
				if CornerBit(x, y, z) == bit {
					return x, y, z
				}
			}
		}
	}
	return 0, 0, 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// sectionAt resolves the Section at absolute section coordinates
// (relative to self's own FirstSection) to whichever held chunk in plan
// owns it, returning nil if that chunk is not part of the plan (i.e. lies
// outside the acquired 3x3x3 neighborhood).
func sectionAt(plan *decorationPlan, relX, relY, relZ int) *Section {
	ox, lx := floorDiv(relX, S), ((relX%S)+S)%S
	oy, ly := floorDiv(relY, S), ((relY%S)+S)%S
	oz, lz := floorDiv(relZ, S), ((relZ%S)+S)%S
	owner := plan.neighborAt(ChunkPosition{X: int32(ox), Y: int32(oy), Z: int32(oz)})
	if owner == nil {
		return nil
	}
	return owner.Section(lx, ly, lz)
}

// runDecoration performs the actual per-corner sweep of spec.md §4.5: for
// each decoratable corner, every section in the 4x4x4 cube centered on that
// corner except its 8 literal section-corners (56 sections) is decorated
// with its 3x3x3 section neighborhood.
func runDecoration(plan *decorationPlan, dec Decorator) {
	half := S / 2
	for _, bit := range plan.corners {
		cx, cy, cz := decodeCornerBit(bit)
		sx, sy, sz := cx*2-1, cy*2-1, cz*2-1

		startX := windowStart(sx, half)
		startY := windowStart(sy, half)
		startZ := windowStart(sz, half)

		for ox := 0; ox < S; ox++ {
			for oy := 0; oy < S; oy++ {
				for oz := 0; oz < S; oz++ {
					if isSectionCorner(ox, oy, oz) {
						continue
					}
					relX, relY, relZ := startX+ox, startY+oy, startZ+oz
					sec := sectionAt(plan, relX, relY, relZ)
					if sec == nil {
						continue
					}
					var neighbors [3][3][3]*Section
					for nx := -1; nx <= 1; nx++ {
						for ny := -1; ny <= 1; ny++ {
							for nz := -1; nz <= 1; nz++ {
								neighbors[nx+1][ny+1][nz+1] = sectionAt(plan, relX+nx, relY+ny, relZ+nz)
							}
						}
					}
					dec.DecorateSection(sec.Position(), neighbors)
				}
			}
		}
	}
}

// windowStart returns the starting absolute-section offset (relative to
// self's FirstSection) of the S-wide window centered on a corner in
// direction sign along one axis.
func windowStart(sign, half int) int {
	if sign < 0 {
		return -half
	}
	return S - half
}

// isSectionCorner reports whether (ox, oy, oz), each in [0, S), is one of
// the 8 literal corners of the S-wide decoration window.
func isSectionCorner(ox, oy, oz int) bool {
	atEdge := func(v int) bool { return v == 0 || v == S-1 }
	return atEdge(ox) && atEdge(oy) && atEdge(oz)
}
