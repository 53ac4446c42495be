package chunk

import "fmt"

// generatingState fills a fresh chunk's voxel content from a Generator, in
// the background, then runs the "center" decoration pass described in
// spec.md §4.5 (the inner 2x2x2 sections, using only in-chunk neighbors)
// before handing off to activation. Unlike Loading, a Generator failure is
// fatal and is never silently recovered (spec.md §4.4, §7).
type generatingState struct {
	slot *Slot
	fut  *future[error]
}

func newGenerating() ChunkState { return &generatingState{} }

func (*generatingState) Kind() StateKind          { return KindGenerating }
func (*generatingState) CoreAccess() Access       { return Write }
func (*generatingState) ExtendedAccess() Access   { return None }
func (*generatingState) IsFinal() bool            { return false }
func (*generatingState) AllowSharingAccess() bool { return false }
func (*generatingState) AllowStealing() bool      { return false }
func (*generatingState) WaitOnNeighbors() bool    { return false }
func (*generatingState) IntendsToReady() bool     { return true }

func (*generatingState) OnEnter(*Chunk, *Context) {}

func (g *generatingState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if g.fut == nil {
		if g.slot == nil {
			slot, ok := ctx.Pools.Generation.TryAllocate(c.pos, ctx.Config.MaxGenerationTasks)
			if !ok {
				return nil
			}
			g.slot = slot
		}
		gen, dec := ctx.Generator, ctx.Decorator
		g.fut = spawn(func() error {
			return generateChunk(c, gen, dec)
		}, func(r any) error {
			return &FatalGenerationError{Cause: fmt.Errorf("panic during generation: %v", r)}
		})
		return nil
	}

	err, ok := g.fut.poll()
	if !ok {
		return nil
	}
	g.slot.Release()
	if err != nil {
		ctx.reportFatal(c.pos, err)
		return nil
	}
	return &TransitionDesc{Next: newActivating(false, nil), Required: true}
}

func (g *generatingState) OnExit(*Chunk, *Context) {
	if g.slot != nil {
		g.slot.Release()
	}
}

// generateChunk populates every column of c via gen.GenerateColumn,
// invokes gen.GenerateStructures per section, and then runs the
// center-decoration pass over the inner 2x2x2 sections using only
// in-chunk neighbors.
func generateChunk(c *Chunk, gen Generator, dec Decorator) error {
	fx, _, fz := c.pos.FirstBlock()
	for sx := 0; sx < S; sx++ {
		for sz := 0; sz < S; sz++ {
			for lx := 0; lx < N; lx++ {
				for lz := 0; lz < N; lz++ {
					wx, wz := fx+sx*N+lx, fz+sz*N+lz
					yLow, yHigh := 0, S*N-1
					y := 0
					for content := range gen.GenerateColumn(wx, wz, yLow, yHigh) {
						if y > yHigh {
							break
						}
						sy := y / N
						ly := y % N
						cell, err := content.Cell()
						if err != nil {
							return &FatalGenerationError{Cause: err}
						}
						c.sections[sectionIndex(sx, sy, sz)].SetRaw(lx, ly, lz, cell)
						y++
					}
				}
			}
		}
	}
	for sx := 0; sx < S; sx++ {
		for sy := 0; sy < S; sy++ {
			for sz := 0; sz < S; sz++ {
				sec := c.sections[sectionIndex(sx, sy, sz)]
				gen.GenerateStructures(sec, sec.Position())
			}
		}
	}

	decorateCenter(c, dec)
	c.decoration.Set(DecorationCenter)
	return nil
}

// decorateCenter runs the Decorator over the inner 2x2x2 sections of a
// freshly-generated chunk (indices {1, 2} on each axis when S=4), using
// only in-chunk neighbors: a section at the chunk's own edge simply sees a
// nil neighbor in that direction, per spec.md §4.5.
func decorateCenter(c *Chunk, dec Decorator) {
	for _, sx := range [2]int{S/2 - 1, S / 2} {
		for _, sy := range [2]int{S/2 - 1, S / 2} {
			for _, sz := range [2]int{S/2 - 1, S / 2} {
				var neighbors [3][3][3]*Section
				for dx := -1; dx <= 1; dx++ {
					for dy := -1; dy <= 1; dy++ {
						for dz := -1; dz <= 1; dz++ {
							nx, ny, nz := sx+dx, sy+dy, sz+dz
							if nx < 0 || nx >= S || ny < 0 || ny >= S || nz < 0 || nz >= S {
								continue
							}
							neighbors[dx+1][dy+1][dz+1] = c.sections[sectionIndex(nx, ny, nz)]
						}
					}
				}
				sec := c.sections[sectionIndex(sx, sy, sz)]
				dec.DecorateSection(sec.Position(), neighbors)
			}
		}
	}
}
