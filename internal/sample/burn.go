package sample

import "github.com/opd-ai/monbattle/internal/engine"

// burnRef is Burn's stable effect identifier.
const burnRef engine.EffectRef = "sample.burn"

// BurnDivisor is the fraction of max HP Burn deals each round at degree 1
// (1/16, the classic damage-over-time fraction). Each reapplication past the
// first raises the degree by one and halves the effective divisor, so
// degree 2 deals 1/8, degree 3 deals 1/4, and so on.
const BurnDivisor = 16

// degreeKey is the KV-store book-keeping key for a target's burn degree —
// spec.md §4.6's glossary example key, used for exactly this purpose.
func degreeKey(target engine.PlayerIndex) [32]byte {
	return engine.KVKey(target, "burn degree")
}

// Burn is a damage-over-time status: it ticks for max(1, HP/divisor) at the
// end of every round it is active, where divisor shrinks each time Burn is
// reapplied onto an already-burning target.
type Burn struct {
	player engine.PlayerIndex
}

func (e *Burn) Ref() engine.EffectRef { return burnRef }

func (e *Burn) StepsBitmap() uint16 {
	return engine.EffectStepBit(engine.StepOnApply) | engine.EffectStepBit(engine.StepRoundEnd) | engine.EffectStepBit(engine.StepOnMonSwitchOut)
}

// ShouldApply never inserts a second Burn instance onto a target that
// already carries one; instead it raises the existing instance's degree in
// the KV store and rejects the insert.
func (e *Burn) ShouldApply(ctx *engine.BattleContext, data [32]byte, target engine.PlayerIndex, monIdx int) bool {
	for _, inst := range ctx.Effects(engine.ScopeLocal, target) {
		if inst.EffectRef == burnRef {
			key := degreeKey(target)
			ctx.SetGlobalKV(key, ctx.GlobalKV(key)+1)
			return false
		}
	}
	return true
}

func (e *Burn) OnApply(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	ctx.SetGlobalKV(degreeKey(e.player), 1)
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) OnRemove(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) BeforeMove(ctx *engine.BattleContext, inst *engine.EffectInstance, mover engine.PlayerIndex) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) AfterMove(ctx *engine.BattleContext, inst *engine.EffectInstance, mover engine.PlayerIndex) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) RoundStart(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}

// RoundEnd deals the burn tick, keyed off the owning player's current base
// HP (not the damaged HP, matching the "percentage of max HP" convention)
// and the degree stored in the KV store: degree 1 divides by BurnDivisor,
// each degree past that halves the divisor again.
func (e *Burn) RoundEnd(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	stats, ok := ctx.MonStats(e.player)
	if ok {
		degree := ctx.GlobalKV(degreeKey(e.player))
		if degree == 0 {
			degree = 1
		}
		divisor := uint32(BurnDivisor)
		for i := uint64(1); i < degree && divisor > 1; i++ {
			divisor /= 2
		}
		amount := stats.HP / divisor
		if amount < 1 {
			amount = 1
		}
		ctx.DealDamage(e.player, amount)
	}
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) AfterDamage(ctx *engine.BattleContext, inst *engine.EffectInstance, target engine.PlayerIndex, amount uint32) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) OnMonSwitchIn(ctx *engine.BattleContext, inst *engine.EffectInstance, player engine.PlayerIndex, monIdx int) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Burn) OnMonSwitchOut(ctx *engine.BattleContext, inst *engine.EffectInstance, player engine.PlayerIndex, monIdx int) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}

// RemoveOnSwitchOut reports true: Burn clears when its carrier switches out,
// matching the 1v1 baseline's "status is tied to the mon that's on the
// field" convention (a permanent variant would override this to false and
// re-apply via OnMonSwitchIn instead).
func (e *Burn) RemoveOnSwitchOut() bool { return true }
