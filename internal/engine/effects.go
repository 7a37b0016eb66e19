package engine

// EffectScope distinguishes per-player-across-mons effects from effects
// local to whichever mon is currently active for that player.
type EffectScope uint8

const (
	ScopeGlobal EffectScope = iota
	ScopeLocal
)

// EffectInstance is one slot in a scope's append-only vector. A tombstoned
// instance has EffectRef == tombstoneRef and StepsBitmap/Data zeroed, but
// keeps its index — surviving instances never shift (invariant 4).
type EffectInstance struct {
	EffectRef   EffectRef
	StepsBitmap uint16
	Data        [32]byte
	Scope       EffectScope
	impl        Effect
}

func (inst *EffectInstance) tombstoned() bool {
	return inst.EffectRef == tombstoneRef
}

// effectVector is the append-only per-(scope, player) store described in
// spec.md §3.
type effectVector struct {
	instances []*EffectInstance
}

func (v *effectVector) append(inst *EffectInstance) int {
	v.instances = append(v.instances, inst)
	return len(v.instances) - 1
}

// effectTable holds all four buckets the engine dispatches through, in the
// fixed order spec.md §4.1 specifies: global p0, global p1, local p0,
// local p1.
type effectTable struct {
	global [2]effectVector
	local  [2]effectVector
}

func (t *effectTable) vector(scope EffectScope, player PlayerIndex) *effectVector {
	if scope == ScopeGlobal {
		return &t.global[player]
	}
	return &t.local[player]
}

// orderedBuckets returns the four buckets in dispatch order.
func (t *effectTable) orderedBuckets() []*effectVector {
	return []*effectVector{&t.global[Player0], &t.global[Player1], &t.local[Player0], &t.local[Player1]}
}

// AddEffect appends a new effect instance to the given scope/player bucket,
// after consulting the effect's ShouldApply gate. It returns the slot index,
// or -1 if the gate rejected the insertion.
func (t *effectTable) AddEffect(ctx *BattleContext, impl Effect, scope EffectScope, player PlayerIndex, monIdx int, data [32]byte) int {
	if !impl.ShouldApply(ctx, data, player, monIdx) {
		return -1
	}
	inst := &EffectInstance{
		EffectRef:   impl.Ref(),
		StepsBitmap: impl.StepsBitmap(),
		Data:        data,
		Scope:       scope,
		impl:        impl,
	}
	idx := t.vector(scope, player).append(inst)
	if HasStep(inst.StepsBitmap, StepOnApply) {
		res := impl.OnApply(ctx, inst)
		t.writeBack(inst, res)
	}
	return idx
}

// EditEffect lets an effect mutate its own stored data without changing its
// slot position.
func (t *effectTable) EditEffect(scope EffectScope, player PlayerIndex, idx int, newData [32]byte) bool {
	v := t.vector(scope, player)
	if idx < 0 || idx >= len(v.instances) {
		return false
	}
	inst := v.instances[idx]
	if inst.tombstoned() {
		return false
	}
	inst.Data = newData
	return true
}

// RemoveEffect tombstones a slot: the ref is replaced with the sentinel and
// StepsBitmap/Data are zeroed, but the index is preserved.
func (t *effectTable) RemoveEffect(ctx *BattleContext, scope EffectScope, player PlayerIndex, idx int) bool {
	v := t.vector(scope, player)
	if idx < 0 || idx >= len(v.instances) {
		return false
	}
	inst := v.instances[idx]
	if inst.tombstoned() {
		return false
	}
	if HasStep(inst.StepsBitmap, StepOnRemove) && inst.impl != nil {
		inst.impl.OnRemove(ctx, inst)
	}
	t.tombstone(inst)
	return true
}

func (t *effectTable) tombstone(inst *EffectInstance) {
	inst.EffectRef = tombstoneRef
	inst.StepsBitmap = 0
	inst.Data = [32]byte{}
	inst.impl = nil
}

func (t *effectTable) writeBack(inst *EffectInstance, res HookResult) {
	if inst.tombstoned() {
		return
	}
	inst.Data = res.Data
	if res.RemoveAfterRun {
		t.tombstone(inst)
	}
}

// runOrderedStep iterates the four buckets in fixed order, invoking dispatch
// for every live instance whose bitmap includes step. It re-reads each
// bucket's length after every call so effects added mid-step (addEffect
// called from inside a hook) run within the same pass, per invariant 4 and
// spec.md §4.1's add-during-iteration rule.
func (t *effectTable) runOrderedStep(step EffectStep, dispatch func(inst *EffectInstance) HookResult) {
	for _, bucket := range t.orderedBuckets() {
		i := 0
		for i < len(bucket.instances) {
			inst := bucket.instances[i]
			if !inst.tombstoned() && HasStep(inst.StepsBitmap, step) {
				res := dispatch(inst)
				t.writeBack(inst, res)
			}
			i++
		}
	}
}

// RoundStart runs the RoundStart hook on every live effect in dispatch
// order.
func (t *effectTable) RoundStart(ctx *BattleContext) {
	t.runOrderedStep(StepRoundStart, func(inst *EffectInstance) HookResult {
		return inst.impl.RoundStart(ctx, inst)
	})
}

// RoundEnd runs the RoundEnd hook on every live effect in dispatch order.
func (t *effectTable) RoundEnd(ctx *BattleContext) {
	t.runOrderedStep(StepRoundEnd, func(inst *EffectInstance) HookResult {
		return inst.impl.RoundEnd(ctx, inst)
	})
}

// BeforeMove runs the BeforeMove hook for the given mover.
func (t *effectTable) BeforeMove(ctx *BattleContext, mover PlayerIndex) {
	t.runOrderedStep(StepBeforeMove, func(inst *EffectInstance) HookResult {
		return inst.impl.BeforeMove(ctx, inst, mover)
	})
}

// AfterMove runs the AfterMove hook for the given mover.
func (t *effectTable) AfterMove(ctx *BattleContext, mover PlayerIndex) {
	t.runOrderedStep(StepAfterMove, func(inst *EffectInstance) HookResult {
		return inst.impl.AfterMove(ctx, inst, mover)
	})
}

// AfterDamage runs the AfterDamage hook for a non-zero damage application.
func (t *effectTable) AfterDamage(ctx *BattleContext, target PlayerIndex, amount uint32) {
	if amount == 0 {
		return
	}
	t.runOrderedStep(StepAfterDamage, func(inst *EffectInstance) HookResult {
		return inst.impl.AfterDamage(ctx, inst, target, amount)
	})
}

// OnMonSwitchIn runs the switch-in hook across all buckets, like
// OnMonSwitchOut; each hook is told the switching player and team slot.
func (t *effectTable) OnMonSwitchIn(ctx *BattleContext, player PlayerIndex, monIdx int) {
	t.runOrderedStep(StepOnMonSwitchIn, func(inst *EffectInstance) HookResult {
		return inst.impl.OnMonSwitchIn(ctx, inst, player, monIdx)
	})
}

// OnMonSwitchOut fires the switch-out hook across all buckets, then
// tombstones every local effect belonging to player that declares
// RemoveOnSwitchOut.
func (t *effectTable) OnMonSwitchOut(ctx *BattleContext, player PlayerIndex, monIdx int) {
	t.runOrderedStep(StepOnMonSwitchOut, func(inst *EffectInstance) HookResult {
		return inst.impl.OnMonSwitchOut(ctx, inst, player, monIdx)
	})

	local := &t.local[player]
	for _, inst := range local.instances {
		if inst.tombstoned() {
			continue
		}
		if inst.impl.RemoveOnSwitchOut() {
			t.tombstone(inst)
		}
	}
}

// Effects returns a snapshot of the live (non-tombstoned) effect instances
// visible to player in the requested scope — the read the EVM-facing
// `getEffects` surface exposes.
func (t *effectTable) Effects(scope EffectScope, player PlayerIndex) []*EffectInstance {
	v := t.vector(scope, player)
	out := make([]*EffectInstance, 0, len(v.instances))
	for _, inst := range v.instances {
		if !inst.tombstoned() {
			out = append(out, inst)
		}
	}
	return out
}
