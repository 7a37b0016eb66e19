package engine

// staminaRegenEffect is the always-present local effect that implements the
// no-op stamina regeneration rule of spec.md §4.1 step 3a. NewBattle
// installs one instance per player, in that player's local bucket; it is never
// tombstoned by a switch-out (RemoveOnSwitchOut reports false), since it is
// engine infrastructure, not a status.
type staminaRegenEffect struct {
	player PlayerIndex
}

const staminaRegenRef EffectRef = "engine.stamina_regen"

func (e *staminaRegenEffect) Ref() EffectRef { return staminaRegenRef }

func (e *staminaRegenEffect) StepsBitmap() uint16 { return EffectStepBit(StepAfterMove) }

func (e *staminaRegenEffect) ShouldApply(ctx *BattleContext, data [32]byte, target PlayerIndex, monIdx int) bool {
	return true
}

func (e *staminaRegenEffect) OnApply(ctx *BattleContext, inst *EffectInstance) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) OnRemove(ctx *BattleContext, inst *EffectInstance) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) BeforeMove(ctx *BattleContext, inst *EffectInstance, mover PlayerIndex) HookResult {
	return HookResult{Data: inst.Data}
}

// AfterMove regenerates stamina for this effect's owning player whenever
// that player's decision for the turn was a no-op.
func (e *staminaRegenEffect) AfterMove(ctx *BattleContext, inst *EffectInstance, mover PlayerIndex) HookResult {
	if mover == e.player {
		decision := ctx.MoveDecision(mover)
		if decision != nil && decision.MoveIndex == NoOpMoveIndex {
			ctx.UpdateMonState(mover, StateStaminaDelta, DefaultStaminaRegenAmount)
		}
	}
	return HookResult{Data: inst.Data}
}

func (e *staminaRegenEffect) RoundStart(ctx *BattleContext, inst *EffectInstance) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) RoundEnd(ctx *BattleContext, inst *EffectInstance) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) AfterDamage(ctx *BattleContext, inst *EffectInstance, target PlayerIndex, amount uint32) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) OnMonSwitchIn(ctx *BattleContext, inst *EffectInstance, player PlayerIndex, monIdx int) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) OnMonSwitchOut(ctx *BattleContext, inst *EffectInstance, player PlayerIndex, monIdx int) HookResult {
	return HookResult{Data: inst.Data}
}
func (e *staminaRegenEffect) RemoveOnSwitchOut() bool { return false }

// installBuiltinEffects registers the engine's always-on infrastructure
// effects for both players. Called once from NewBattle.
func installBuiltinEffects(b *Battle) {
	ctx := newBattleContext(b)
	for _, p := range []PlayerIndex{Player0, Player1} {
		b.effects.AddEffect(ctx, &staminaRegenEffect{player: p}, ScopeLocal, p, -1, [32]byte{})
	}
}
