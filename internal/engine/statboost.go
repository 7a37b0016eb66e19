package engine

// BoostType selects how a StatBoostToApply's percentage is folded into the
// target delta (spec.md §4.5). Add and Multiply compute the identical
// positive delta contribution (+base*percent/100); they are kept distinct
// because callers reason about them differently (a flat bonus vs. a scaling
// bonus) even though the arithmetic coincides, exactly as spec.md §4.5
// describes.
type BoostType uint8

const (
	BoostAdd BoostType = iota
	BoostMultiply
	BoostDivide
)

// BoostScope controls when a stack of boosts is bulk-reversed.
type BoostScope uint8

const (
	BoostTemp BoostScope = iota
	BoostPerm
)

// StatBoostToApply is the instruction an effect/ability hands to
// ApplyStatBoost: which delta field, by how much (as a percent of base),
// and via which arithmetic.
type StatBoostToApply struct {
	Stat         StateIndex
	BoostPercent uint8
	BoostType    BoostType
}

// statBoostEntry is the bookkeeping the engine keeps per applied boost so
// RemoveStatBoosts can reverse exactly what was added, never more.
type statBoostEntry struct {
	Stat    StateIndex
	Scope   BoostScope
	Delta   int32
	Percent uint8 // the raw percent magnitude this entry contributed, for stacking-cap bookkeeping
}

type statBoostSet []statBoostEntry

func boostContribution(base uint32, percent uint8, kind BoostType) int32 {
	amount := int32(base) * int32(percent) / 100
	if kind == BoostDivide {
		return -amount
	}
	return amount
}

// statDeltaPtr returns a pointer to the MonState field a StateIndex names,
// restricted to the seven stat fields boosts are allowed to touch.
func statDeltaPtr(state *MonState, stat StateIndex) *int32 {
	switch stat {
	case StateHPDelta:
		return &state.HPDelta
	case StateStaminaDelta:
		return &state.StaminaDelta
	case StateSpeedDelta:
		return &state.SpeedDelta
	case StateAttackDelta:
		return &state.AttackDelta
	case StateDefenseDelta:
		return &state.DefenseDelta
	case StateSpecialAttackDelta:
		return &state.SpecialAttackDelta
	case StateSpecialDefenseDelta:
		return &state.SpecialDefenseDelta
	}
	return nil
}

func baseStatValue(stats MonStats, stat StateIndex) uint32 {
	switch stat {
	case StateHPDelta:
		return stats.HP
	case StateStaminaDelta:
		return stats.Stamina
	case StateSpeedDelta:
		return stats.Speed
	case StateAttackDelta:
		return stats.Attack
	case StateDefenseDelta:
		return stats.Defense
	case StateSpecialAttackDelta:
		return stats.SpecialAttack
	case StateSpecialDefenseDelta:
		return stats.SpecialDefense
	}
	return 0
}

// addDelta adds v to the pointed-at delta, upgrading a sentinel to an
// explicit value first (invariant 3: sentinel reads as unmodified, so the
// first modification starts from zero, not from -2^31).
func addDelta(ptr *int32, v int32) {
	if *ptr == CLEAREDSENTINEL {
		*ptr = 0
	}
	*ptr += v
}

// ApplyStatBoost mutates the corresponding delta on state and records the
// contribution so it can be reversed later by RemoveStatBoosts.
func ApplyStatBoost(state *MonState, base MonStats, boost StatBoostToApply, scope BoostScope) {
	ptr := statDeltaPtr(state, boost.Stat)
	if ptr == nil {
		return
	}
	delta := boostContribution(baseStatValue(base, boost.Stat), boost.BoostPercent, boost.BoostType)
	addDelta(ptr, delta)
	state.boosts = append(state.boosts, statBoostEntry{Stat: boost.Stat, Scope: scope, Delta: delta, Percent: boost.BoostPercent})
}

// CapBoostPercent clamps percent so that, added to whatever of the same
// stat is already stacked across boosts, the total never exceeds
// maxStackPercent. A maxStackPercent of 0 means uncapped.
func CapBoostPercent(boosts []statBoostEntry, stat StateIndex, percent, maxStackPercent uint8) uint8 {
	if maxStackPercent == 0 {
		return percent
	}
	var used uint8
	for _, b := range boosts {
		if b.Stat == stat {
			used += b.Percent
		}
	}
	if used >= maxStackPercent {
		return 0
	}
	if used+percent > maxStackPercent {
		return maxStackPercent - used
	}
	return percent
}

// RemoveStatBoosts reverses every active boost of the given scope and drops
// them from the tracking set. Entries of the other scope are left alone.
func RemoveStatBoosts(state *MonState, scope BoostScope) {
	remaining := state.boosts[:0]
	for _, entry := range state.boosts {
		if entry.Scope == scope {
			if ptr := statDeltaPtr(state, entry.Stat); ptr != nil {
				addDelta(ptr, -entry.Delta)
			}
			continue
		}
		remaining = append(remaining, entry)
	}
	state.boosts = remaining
}

// EffectiveStat returns a stat's combined (base + delta) value, clamped to
// zero — the "effective stat clamps to 0 at read time" rule of spec.md
// §4.5.
func EffectiveStat(base uint32, delta int32) uint32 {
	resolvedDelta := resolved(delta)
	total := int64(base) + int64(resolvedDelta)
	if total < 0 {
		return 0
	}
	return uint32(total)
}
