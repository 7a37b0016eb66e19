// Package sample provides concrete Move, Effect, Ability and TypeCalculator
// implementations. Spec.md §1 explicitly keeps these out of the core
// engine ("concrete move/status/ability implementations are out of
// scope" — only the capability surface lives there); this package is the
// reference catalog cmd/battlesim, this package's scenario tests and the
// registry wire up against.
package sample

import "github.com/opd-ai/monbattle/internal/engine"

// A small four-type chart: enough to exercise both legs of the
// dual-defender-type scaling rule (spec.md §4.4) without the bookkeeping of
// a full type table.
const (
	TypeNormal engine.MonType = iota
	TypeFire
	TypeWater
	TypeGrass
)

// Chart is a super-effective/not-very-effective TypeCalculator: Water beats
// Fire, Fire beats Grass, Grass beats Water, everything else is neutral.
// ScalePower is called once per defending type, so a dual-typed defender
// gets the multiplier applied twice (spec.md §4.4).
type Chart struct{}

func (Chart) ScalePower(moveType, defType engine.MonType, basePower uint32) uint32 {
	switch {
	case moveType == TypeWater && defType == TypeFire,
		moveType == TypeFire && defType == TypeGrass,
		moveType == TypeGrass && defType == TypeWater:
		return basePower * 2
	case moveType == TypeFire && defType == TypeWater,
		moveType == TypeGrass && defType == TypeFire,
		moveType == TypeWater && defType == TypeGrass:
		return basePower / 2
	default:
		return basePower
	}
}
