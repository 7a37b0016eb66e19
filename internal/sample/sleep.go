package sample

import "github.com/opd-ai/monbattle/internal/engine"

const sleepRef engine.EffectRef = "sample.sleep"

// Sleep is a pre-move status: at the start of every round it is active, it
// rolls to wake; while it stays asleep it overwrites its carrier's decision
// to a no-op before that carrier's priority has a chance to act on the
// original move.
type Sleep struct {
	player engine.PlayerIndex
}

func (e *Sleep) Ref() engine.EffectRef { return sleepRef }

func (e *Sleep) StepsBitmap() uint16 {
	return engine.EffectStepBit(engine.StepRoundStart) | engine.EffectStepBit(engine.StepOnMonSwitchOut)
}

// ShouldApply refuses to stack onto an already-sleeping target.
func (e *Sleep) ShouldApply(ctx *engine.BattleContext, data [32]byte, target engine.PlayerIndex, monIdx int) bool {
	for _, inst := range ctx.Effects(engine.ScopeLocal, target) {
		if inst.EffectRef == sleepRef {
			return false
		}
	}
	return true
}

func (e *Sleep) OnApply(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Sleep) OnRemove(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Sleep) BeforeMove(ctx *engine.BattleContext, inst *engine.EffectInstance, mover engine.PlayerIndex) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Sleep) AfterMove(ctx *engine.BattleContext, inst *engine.EffectInstance, mover engine.PlayerIndex) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}

// RoundStart rolls a one-in-three wake chance for the carrier; on a miss it
// overwrites the carrier's decision to a no-op via SetMove before the
// carrier's turn runs, so the move it chose this round never fires.
func (e *Sleep) RoundStart(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	var seed [32]byte
	seed[0] = byte(e.player)
	seed[1] = byte(ctx.TurnID())
	roll := ctx.RollRng(seed)
	if roll[1]%3 == 0 {
		return engine.HookResult{Data: inst.Data, RemoveAfterRun: true}
	}
	ctx.SetMove(e.player, engine.NoOpMoveIndex, 0)
	return engine.HookResult{Data: inst.Data}
}

func (e *Sleep) RoundEnd(ctx *engine.BattleContext, inst *engine.EffectInstance) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Sleep) AfterDamage(ctx *engine.BattleContext, inst *engine.EffectInstance, target engine.PlayerIndex, amount uint32) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Sleep) OnMonSwitchIn(ctx *engine.BattleContext, inst *engine.EffectInstance, player engine.PlayerIndex, monIdx int) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}
func (e *Sleep) OnMonSwitchOut(ctx *engine.BattleContext, inst *engine.EffectInstance, player engine.PlayerIndex, monIdx int) engine.HookResult {
	return engine.HookResult{Data: inst.Data}
}

// RemoveOnSwitchOut reports true: switching out cures sleep, matching
// Burn's convention.
func (e *Sleep) RemoveOnSwitchOut() bool { return true }
