package engine

import "golang.org/x/crypto/sha3"

// DamageCalcContext carries everything dealDamage's formula (spec.md §4.4)
// needs, gathered ahead of time so the pure ComputeDamage function has no
// side effects and is trivially unit-testable.
type DamageCalcContext struct {
	MoveType   MonType
	MoveClass  MoveClass
	BasePower  uint32
	Accuracy   uint8
	Volatility uint8
	CritRate   uint8

	AttackerAttack        uint32
	AttackerSpecialAttack uint32
	DefenderType1         MonType
	DefenderType2         *MonType
	DefenderDefense       uint32
	DefenderSpecialDefense uint32
}

// rngRoll derives an independent pseudorandom stream from a base 256-bit
// seed and a small integer salt, so the accuracy/volatility/crit rolls of a
// single move invocation don't all read off the same bits of one Rng call.
func rngRoll(seed [32]byte, salt byte) uint64 {
	h := sha3.NewLegacyKeccak256()
	h.Write(seed[:])
	h.Write([]byte{salt})
	sum := h.Sum(nil)
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(sum[i])
	}
	return v
}

// ComputeDamage implements the exact pipeline of spec.md §4.4. It returns 0
// when the accuracy gate fails. typeCalc may be nil only in tests that don't
// care about type effectiveness; production callers always supply one. It is
// exported so concrete Move implementations outside this package (see
// internal/sample) can run the damage pipeline from Invoke.
func ComputeDamage(dc DamageCalcContext, typeCalc TypeCalculator, seed [32]byte) uint32 {
	if rngRoll(seed, 0)%100 >= uint64(dc.Accuracy) {
		return 0
	}

	scaledPower := dc.BasePower
	if typeCalc != nil {
		scaledPower = typeCalc.ScalePower(dc.MoveType, dc.DefenderType1, scaledPower)
		if dc.DefenderType2 != nil {
			scaledPower = typeCalc.ScalePower(dc.MoveType, *dc.DefenderType2, scaledPower)
		}
	}

	attack := dc.AttackerAttack
	defense := dc.DefenderDefense
	if dc.MoveClass == MoveClassSpecial {
		attack = dc.AttackerSpecialAttack
		defense = dc.DefenderSpecialDefense
	}
	if attack < 1 {
		attack = 1
	}
	if defense < 1 {
		defense = 1
	}

	raw := uint64(scaledPower) * uint64(attack) / uint64(defense)

	vol := uint64(dc.Volatility)
	band := 2*vol + 1
	var volRoll uint64
	if band > 0 {
		volRoll = rngRoll(seed, 1) % band
	}
	volatized := raw * (100 - vol + volRoll) / 100

	critRoll := rngRoll(seed, 2) % 100
	damage := volatized
	if critRoll < uint64(dc.CritRate) {
		damage = damage * CritNumerator / CritDenominator
	}

	if damage > 0xFFFFFFFF {
		damage = 0xFFFFFFFF
	}
	return uint32(damage)
}

// DealDamage subtracts amount from the target's HP delta and evaluates the
// knockout condition, mutating state in place. It reports whether the
// target was newly knocked out by this call.
func DealDamage(state *MonState, baseHP uint32, amount uint32) (newlyKO bool) {
	if state.IsKnockedOut {
		return false
	}
	addDelta(&state.HPDelta, -int32(amount))
	if int64(baseHP)+int64(resolved(state.HPDelta)) <= 0 {
		state.IsKnockedOut = true
		state.ShouldSkipTurn = true
		return true
	}
	return false
}
