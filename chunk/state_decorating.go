package chunk

import "fmt"

// decoratingState runs the coordinated multi-chunk decoration pass of
// spec.md §4.5, holding the self core guard (via the framework's regular
// CoreAccess contract) plus the guards for every needed neighbor, acquired
// ahead of time by planDecoration and carried in plan.
type decoratingState struct {
	plan *decorationPlan
	slot *Slot
	fut  *future[error]
}

func newDecorating(plan *decorationPlan) ChunkState {
	return &decoratingState{plan: plan}
}

func (*decoratingState) Kind() StateKind          { return KindDecorating }
func (*decoratingState) CoreAccess() Access       { return Write }
func (*decoratingState) ExtendedAccess() Access   { return Write }
func (*decoratingState) IsFinal() bool            { return false }
func (*decoratingState) AllowSharingAccess() bool { return false }
func (*decoratingState) AllowStealing() bool      { return false }
func (*decoratingState) WaitOnNeighbors() bool    { return false }
func (*decoratingState) IntendsToReady() bool     { return true }

func (*decoratingState) OnEnter(*Chunk, *Context) {}

func (d *decoratingState) OnUpdate(c *Chunk, ctx *Context) *TransitionDesc {
	if d.fut == nil {
		if d.slot == nil {
			slot, ok := ctx.Pools.Decoration.TryAllocate(c.pos, ctx.Config.MaxDecorationTasks)
			if !ok {
				return nil
			}
			d.slot = slot
		}
		plan, dec := d.plan, ctx.Decorator
		d.fut = spawn(func() error {
			runDecoration(plan, dec)
			return nil
		}, func(r any) error {
			return &FatalDecorationError{Cause: fmt.Errorf("panic during decoration: %v", r)}
		})
		return nil
	}

	err, ok := d.fut.poll()
	if !ok {
		return nil
	}
	d.slot.Release()
	if err != nil {
		d.plan.release()
		ctx.reportFatal(c.pos, err)
		return nil
	}
	applyDecorationResult(d.plan)
	d.plan.release()
	return &TransitionDesc{Next: newActivating(false, nil), Required: true}
}

func (d *decoratingState) OnExit(*Chunk, *Context) {
	if d.slot != nil {
		d.slot.Release()
	}
	d.plan.release()
}
