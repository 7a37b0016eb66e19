package engine

// BattleContext is passed into every hook, move and ability invocation. It
// carries the battle key, current turn id, and a handle to the engine API —
// the "explicit context instead of a process-wide global" design note of
// spec.md §9. All mutation goes through its methods; nothing here is safe to
// call outside of Execute.
type BattleContext struct {
	battle *Battle
}

func newBattleContext(b *Battle) *BattleContext {
	return &BattleContext{battle: b}
}

// --- Reads (spec.md §6) ---

func (c *BattleContext) TurnID() uint64 { return c.battle.State.TurnID }

// ActiveMonIndex returns player's active slot index(es); the 1v1 baseline
// has exactly one entry.
func (c *BattleContext) ActiveMonIndex(player PlayerIndex) []int {
	return c.battle.State.ActiveMonIndex[player]
}

// ActiveMonIndexPacked returns lo8=p0 active slot, hi8=p1 active slot,
// matching the EVM-facing getActiveMonIndexPacked packing.
func (c *BattleContext) ActiveMonIndexPacked() uint16 {
	p0 := c.battle.State.ActiveMonIndex[Player0]
	p1 := c.battle.State.ActiveMonIndex[Player1]
	var lo, hi uint8
	if len(p0) > 0 && p0[0] >= 0 {
		lo = uint8(p0[0])
	}
	if len(p1) > 0 && p1[0] >= 0 {
		hi = uint8(p1[0])
	}
	return uint16(lo) | uint16(hi)<<8
}

func (c *BattleContext) MonStats(player PlayerIndex) (MonStats, bool) {
	mon, ok := c.battle.ActiveMon(player)
	return mon.Stats, ok
}

// MonState returns the persistent state of player's active mon (see
// Battle.ActiveState).
func (c *BattleContext) MonState(player PlayerIndex) *MonState {
	return c.battle.ActiveState(player)
}

// MonValue reads a single resolved (sentinel-collapsed) delta/flag value by
// StateIndex, the EVM-facing getMonValueForBattle surface.
func (c *BattleContext) MonValue(player PlayerIndex, idx StateIndex) int32 {
	s := c.battle.ActiveState(player)
	switch idx {
	case StateHPDelta:
		return s.EffectiveHPDelta()
	case StateStaminaDelta:
		return s.EffectiveStaminaDelta()
	case StateSpeedDelta:
		return s.EffectiveSpeedDelta()
	case StateAttackDelta:
		return s.EffectiveAttackDelta()
	case StateDefenseDelta:
		return s.EffectiveDefenseDelta()
	case StateSpecialAttackDelta:
		return s.EffectiveSpecialAttackDelta()
	case StateSpecialDefenseDelta:
		return s.EffectiveSpecialDefenseDelta()
	case StateIsKnockedOut:
		if s.IsKnockedOut {
			return 1
		}
		return 0
	case StateShouldSkipTurn:
		if s.ShouldSkipTurn {
			return 1
		}
		return 0
	}
	return 0
}

// DamageCalcContext gathers the damage pipeline's inputs for a move of the
// given shape targeting defender, read from attacker/defender's current
// stats and deltas.
func (c *BattleContext) DamageCalcContext(attacker, defender PlayerIndex, move Move) DamageCalcContext {
	atkMon, _ := c.battle.ActiveMon(attacker)
	defMon, _ := c.battle.ActiveMon(defender)
	atkState := c.battle.ActiveState(attacker)
	defState := c.battle.ActiveState(defender)

	return DamageCalcContext{
		MoveType:               move.MoveType(),
		MoveClass:               move.MoveClass(),
		BasePower:               move.BasePower(),
		Accuracy:                move.Accuracy(),
		Volatility:              move.Volatility(),
		CritRate:                move.CritRate(),
		AttackerAttack:          EffectiveStat(atkMon.Stats.Attack, atkState.AttackDelta),
		AttackerSpecialAttack:   EffectiveStat(atkMon.Stats.SpecialAttack, atkState.SpecialAttackDelta),
		DefenderType1:           defMon.Stats.Type1,
		DefenderType2:           defMon.Stats.Type2,
		DefenderDefense:         EffectiveStat(defMon.Stats.Defense, defState.DefenseDelta),
		DefenderSpecialDefense:  EffectiveStat(defMon.Stats.SpecialDefense, defState.SpecialDefenseDelta),
	}
}

func (c *BattleContext) Effects(scope EffectScope, player PlayerIndex) []*EffectInstance {
	return c.battle.effects.Effects(scope, player)
}

func (c *BattleContext) GlobalKV(key [32]byte) uint64 { return c.battle.kv.GetUint64(key) }

// RollRng runs seed through the configured Rng, the same seam Invoke's rng
// parameter gives moves — effect hooks take no such parameter, so they read
// randomness through here instead.
func (c *BattleContext) RollRng(seed [32]byte) [32]byte {
	if c.battle.Config.RNG != nil {
		return c.battle.Config.RNG.GetRng(seed)
	}
	return seed
}

func (c *BattleContext) KOBitmap(player PlayerIndex) uint64 {
	return c.battle.State.KnockoutBitmaps[player]
}

func (c *BattleContext) TeamSize() int { return c.battle.TeamSize() }

func (c *BattleContext) PlayerSwitchForTurnFlag() uint8 {
	return c.battle.State.PlayerSwitchForTurnFlag
}

func (c *BattleContext) MoveDecision(player PlayerIndex) *Decision {
	return c.battle.decisions[player]
}

// --- Writes (spec.md §6) ---

// UpdateMonState adds delta to player's stateIndex field (sentinel-aware:
// the first write to a sentinel field starts from zero).
func (c *BattleContext) UpdateMonState(player PlayerIndex, idx StateIndex, delta int32) {
	s := c.battle.ActiveState(player)
	switch idx {
	case StateHPDelta:
		addDelta(&s.HPDelta, delta)
	case StateStaminaDelta:
		addDelta(&s.StaminaDelta, delta)
	case StateSpeedDelta:
		addDelta(&s.SpeedDelta, delta)
	case StateAttackDelta:
		addDelta(&s.AttackDelta, delta)
	case StateDefenseDelta:
		addDelta(&s.DefenseDelta, delta)
	case StateSpecialAttackDelta:
		addDelta(&s.SpecialAttackDelta, delta)
	case StateSpecialDefenseDelta:
		addDelta(&s.SpecialDefenseDelta, delta)
	}
}

// DealDamage applies amount of damage to player's active mon and returns
// whether it was newly knocked out. On knockout it sets the durable KO
// bitmap bit, per spec.md §4.4.
func (c *BattleContext) DealDamage(player PlayerIndex, amount uint32) bool {
	mon, _ := c.battle.ActiveMon(player)
	state := c.battle.ActiveState(player)
	newlyKO := DealDamage(state, mon.Stats.HP, amount)
	if newlyKO {
		idx := c.battle.State.ActiveMonIndex[player]
		if len(idx) > 0 && idx[0] >= 0 {
			c.battle.setKOBit(player, idx[0])
		}
	}
	if amount > 0 {
		c.battle.effects.AfterDamage(c, player, amount)
		c.battle.emit(Event{Type: EventDamage, BattleKey: c.battle.Key, TurnID: c.battle.State.TurnID, Fields: map[string]any{
			"target": player, "amount": amount, "knockout": newlyKO,
		}})
	}
	return newlyKO
}

func (c *BattleContext) AddEffect(impl Effect, scope EffectScope, player PlayerIndex, monIdx int, data [32]byte) int {
	idx := c.battle.effects.AddEffect(c, impl, scope, player, monIdx, data)
	if idx >= 0 {
		c.battle.emit(Event{Type: EventEffectApplied, BattleKey: c.battle.Key, TurnID: c.battle.State.TurnID, Fields: map[string]any{
			"player": player, "ref": string(impl.Ref()), "scope": scope,
		}})
	}
	return idx
}

func (c *BattleContext) EditEffect(scope EffectScope, player PlayerIndex, idx int, newData [32]byte) bool {
	return c.battle.effects.EditEffect(scope, player, idx, newData)
}

func (c *BattleContext) RemoveEffect(scope EffectScope, player PlayerIndex, idx int) bool {
	ok := c.battle.effects.RemoveEffect(c, scope, player, idx)
	if ok {
		c.battle.emit(Event{Type: EventEffectRemoved, BattleKey: c.battle.Key, TurnID: c.battle.State.TurnID, Fields: map[string]any{
			"player": player, "index": idx, "scope": scope,
		}})
	}
	return ok
}

func (c *BattleContext) SetGlobalKV(key [32]byte, value uint64) {
	c.battle.kv.SetUint64(key, value)
}

func (c *BattleContext) SwitchActiveMon(player PlayerIndex, targetSlot int) {
	c.battle.SwitchActiveMon(c, player, targetSlot)
}

func (c *BattleContext) EmitEngineEvent(e Event) {
	e.BattleKey = c.battle.Key
	e.TurnID = c.battle.State.TurnID
	c.battle.emit(e)
}

// ApplyStatBoost is the stat-boost layer's write surface, exposed to
// effects/abilities through the same context as every other mutation.
func (c *BattleContext) ApplyStatBoost(player PlayerIndex, boost StatBoostToApply, scope BoostScope) {
	mon, _ := c.battle.ActiveMon(player)
	state := c.battle.ActiveState(player)
	boost.BoostPercent = CapBoostPercent(state.boosts, boost.Stat, boost.BoostPercent, c.battle.Config.Ruleset.MaxBoostStackPercent)
	ApplyStatBoost(state, mon.Stats, boost, scope)
}

func (c *BattleContext) RemoveStatBoosts(player PlayerIndex, scope BoostScope) {
	RemoveStatBoosts(c.battle.ActiveState(player), scope)
}
