package sample

import "github.com/opd-ai/monbattle/internal/engine"

const intimidateRef engine.AbilityRef = "sample.intimidate"

// Intimidate lowers the opponent's effective Attack by a flat percentage
// the moment its bearer switches in, using the Temp-scoped stat boost layer
// so it clears automatically when the affected opponent mon switches out;
// the bearer switching out does not clear it.
type Intimidate struct {
	// Percent is how much of the opponent's base Attack is subtracted
	// (e.g. 10 means -10% of base Attack).
	Percent uint8
}

func (Intimidate) Ref() engine.AbilityRef { return intimidateRef }

func (a Intimidate) OnSwitchIn(ctx *engine.BattleContext, player engine.PlayerIndex, monIdx int) {
	opponent := player.Opponent()
	ctx.ApplyStatBoost(opponent, engine.StatBoostToApply{
		Stat:         engine.StateAttackDelta,
		BoostPercent: a.Percent,
		BoostType:    engine.BoostDivide,
	}, engine.BoostTemp)
}
