package engine

// ExtraData is the move-invocation payload. The source substrate packs this
// into 240 bits for EVM word-alignment; Go has no such constraint, so the
// engine carries it as a plain uint64, which comfortably holds every
// concrete use (a team index, a flag bitmap, ...).
type ExtraData uint64

// ExtraDataType tells the validator what shape of ExtraData a move expects,
// so validatePlayerMoveBasics/validateSpecificMoveSelection can range-check
// it before the move ever runs.
type ExtraDataType uint8

const (
	ExtraDataNone ExtraDataType = iota
	ExtraDataSelfTeamIndex
	ExtraDataOpponentNonKOTeamIndex
)

// Rng is the engine's only source of randomness. Implementations may be
// VRF-backed, derived from commit salts, or a deterministic test double —
// the engine requires only that the same seed always yields the same
// output.
type Rng interface {
	GetRng(seed [32]byte) [32]byte
}

// TypeCalculator supplies the type-effectiveness multiplier the damage
// pipeline applies once per defending type (spec.md §4.4). basePower comes
// in as the move's declared power (or the previously scaled value, when
// called a second time for a dual-typed defender) and scaledPower comes
// back out.
type TypeCalculator interface {
	ScalePower(moveType, defType MonType, basePower uint32) uint32
}

// Move is the capability abstract "move" objects expose. The engine never
// knows what a move actually does beyond this surface; BurnStatus,
// BubbleBop and friends live entirely outside the core.
type Move interface {
	Name() string
	Stamina() uint32
	Priority(ctx *BattleContext, player PlayerIndex) int32
	MoveType() MonType
	MoveClass() MoveClass
	BasePower() uint32
	Accuracy() uint8 // 0-100
	Volatility() uint8
	CritRate() uint8 // 0-100
	ExtraDataKind() ExtraDataType
	IsValidTarget(extra ExtraData) bool
	// Invoke runs the move's effect against the battle. Implementations may
	// only mutate state through the BattleContext's engine-primitive
	// methods (dealDamage, updateMonState, addEffect, ...).
	Invoke(ctx *BattleContext, attacker PlayerIndex, extra ExtraData, rng Rng) error
}

// EffectStep names one of the nine lifecycle points an Effect can respond
// to. The top bits of an effect's 160-bit address encode a bitmap of these
// (spec.md §4.3); EffectStepBit(s) returns the bit for a given step.
type EffectStep uint8

const (
	StepOnApply EffectStep = iota
	StepOnRemove
	StepBeforeMove
	StepAfterMove
	StepRoundStart
	StepRoundEnd
	StepAfterDamage
	StepOnMonSwitchIn
	StepOnMonSwitchOut
	stepCount
)

// EffectStepBit returns the single-bit mask for step within a stepsBitmap.
func EffectStepBit(step EffectStep) uint16 {
	return 1 << uint16(step)
}

// HasStep reports whether bitmap includes step.
func HasStep(bitmap uint16, step EffectStep) bool {
	return bitmap&EffectStepBit(step) != 0
}

// HookResult is what every Effect lifecycle hook returns: the effect's new
// opaque data (always written back into its slot) and whether the engine
// should tombstone the effect once the hook returns.
type HookResult struct {
	Data          [32]byte
	RemoveAfterRun bool
}

// Effect is the capability abstract "effect" objects expose: a gate,
// and up to nine lifecycle callbacks. An effect that doesn't respond to a
// step simply omits the corresponding bit from StepsBitmap(); the engine
// never calls a hook whose bit isn't set, so implementations are free to
// leave unused hook methods as trivial passthroughs.
type Effect interface {
	// Ref is the effect's stable identifier, used as EffectInstance.EffectRef.
	Ref() EffectRef
	// StepsBitmap is the bitset of steps this effect responds to. It must
	// match the bits this effect's hook methods actually act on (invariant 5).
	StepsBitmap() uint16
	// ShouldApply gates insertion: addEffect calls this before appending the
	// instance, so e.g. sleep can refuse to stack onto an already-sleeping
	// team.
	ShouldApply(ctx *BattleContext, data [32]byte, target PlayerIndex, monIdx int) bool

	OnApply(ctx *BattleContext, inst *EffectInstance) HookResult
	OnRemove(ctx *BattleContext, inst *EffectInstance) HookResult
	BeforeMove(ctx *BattleContext, inst *EffectInstance, mover PlayerIndex) HookResult
	AfterMove(ctx *BattleContext, inst *EffectInstance, mover PlayerIndex) HookResult
	RoundStart(ctx *BattleContext, inst *EffectInstance) HookResult
	RoundEnd(ctx *BattleContext, inst *EffectInstance) HookResult
	AfterDamage(ctx *BattleContext, inst *EffectInstance, target PlayerIndex, amount uint32) HookResult
	OnMonSwitchIn(ctx *BattleContext, inst *EffectInstance, player PlayerIndex, monIdx int) HookResult
	OnMonSwitchOut(ctx *BattleContext, inst *EffectInstance, player PlayerIndex, monIdx int) HookResult
	// RemoveOnSwitchOut reports whether this (local-scope) effect should be
	// tombstoned automatically when its owning mon switches out.
	RemoveOnSwitchOut() bool
}

// EffectRef is an effect's stable 160-bit-equivalent identifier. The top
// bits of the real substrate's address encode StepsBitmap(); a portable
// implementation is free to just store the bitmap next to the handle, which
// is what EffectInstance does, so EffectRef here only needs to be a stable,
// comparable handle.
type EffectRef string

// tombstoneRef is the sentinel EffectRef a removed slot is rewritten to.
const tombstoneRef EffectRef = ""

// Ability is a passive attached to a mon definition (not to the per-battle
// effect table) that triggers on specific lifecycle events, most commonly
// switch-in.
type Ability interface {
	Ref() AbilityRef
	OnSwitchIn(ctx *BattleContext, player PlayerIndex, monIdx int)
}

// Hook is the engine-wide, read-only observer capability (spec.md §6).
// Hooks may not write engine state.
type Hook interface {
	OnBattleStart(battleKey BattleKey)
	OnTurnStart(battleKey BattleKey, turnID uint64)
	OnTurnEnd(battleKey BattleKey, turnID uint64)
	OnBattleEnd(battleKey BattleKey, winner *PlayerIndex)
}

// Matchmaker installs a Battle configuration. The core treats it as an
// external collaborator reachable through this single seam; concrete
// pairing/queueing logic lives entirely outside the engine.
type Matchmaker interface {
	// NewBattleConfig returns the immutable configuration for a fresh battle
	// between p0 and p1, including their team references.
	NewBattleConfig(p0, p1 string, pairHashNonce uint64) (Config, error)
}

// TeamRegistry resolves a player's chosen team reference into a concrete
// Team. It is the thin external seam spec.md §1 calls out as out of core
// scope ("Team/mon registry ... reachable through small pluggable
// interfaces").
type TeamRegistry interface {
	ResolveTeam(player string, teamIndex uint32) (Team, error)
}

// MoveManager resolves a MoveRef into the Move capability that implements
// it, and an AbilityRef into an Ability.
type MoveManager interface {
	ResolveMove(ref MoveRef) (Move, error)
	ResolveAbility(ref AbilityRef) (Ability, error)
}
