package sample

import (
	"strconv"

	"github.com/opd-ai/monbattle/internal/engine"
)

// Attack is a generic damaging move: no status side effects, just the
// standard damage pipeline against the opponent's active mon.
type Attack struct {
	name       string
	stamina    uint32
	priority   int32
	moveType   engine.MonType
	moveClass  engine.MoveClass
	basePower  uint32
	accuracy   uint8
	volatility uint8
	critRate   uint8
}

// NewAttack builds a damaging move with the given shape. accuracy/critRate
// are percentages (0-100); volatility is the +/- percent band the damage
// pipeline rolls within.
func NewAttack(name string, stamina uint32, priority int32, moveType engine.MonType, class engine.MoveClass, basePower uint32, accuracy, volatility, critRate uint8) *Attack {
	return &Attack{
		name: name, stamina: stamina, priority: priority,
		moveType: moveType, moveClass: class, basePower: basePower,
		accuracy: accuracy, volatility: volatility, critRate: critRate,
	}
}

func (m *Attack) Name() string                  { return m.name }
func (m *Attack) Stamina() uint32               { return m.stamina }
func (m *Attack) Priority(ctx *engine.BattleContext, player engine.PlayerIndex) int32 { return m.priority }
func (m *Attack) MoveType() engine.MonType      { return m.moveType }
func (m *Attack) MoveClass() engine.MoveClass   { return m.moveClass }
func (m *Attack) BasePower() uint32             { return m.basePower }
func (m *Attack) Accuracy() uint8               { return m.accuracy }
func (m *Attack) Volatility() uint8             { return m.volatility }
func (m *Attack) CritRate() uint8               { return m.critRate }
func (m *Attack) ExtraDataKind() engine.ExtraDataType { return engine.ExtraDataNone }
func (m *Attack) IsValidTarget(extra engine.ExtraData) bool { return true }

// Invoke deals damage to the attacker's opponent, rolling the pipeline off
// the supplied rng seeded from the current turn.
func (m *Attack) Invoke(ctx *engine.BattleContext, attacker engine.PlayerIndex, extra engine.ExtraData, rng engine.Rng) error {
	defender := attacker.Opponent()
	dc := ctx.DamageCalcContext(attacker, defender, m)
	seed := rng.GetRng(engine.KVKey(attacker, m.name+"#"+strconv.FormatUint(ctx.TurnID(), 10)))
	amount := engine.ComputeDamage(dc, Chart{}, seed)
	ctx.DealDamage(defender, amount)
	return nil
}

// NoDamageStatusMove is the base for moves whose entire effect is an
// AddEffect call rather than direct damage. It has no subtypes: constructors
// such as NewBurnInducer and NewSleepInducer set its apply function.
type NoDamageStatusMove struct {
	name       string
	stamina    uint32
	priority   int32
	accuracy   uint8
	apply      func(ctx *engine.BattleContext, attacker, defender engine.PlayerIndex)
}

func (m *NoDamageStatusMove) Name() string                  { return m.name }
func (m *NoDamageStatusMove) Stamina() uint32               { return m.stamina }
func (m *NoDamageStatusMove) Priority(ctx *engine.BattleContext, player engine.PlayerIndex) int32 {
	return m.priority
}
func (m *NoDamageStatusMove) MoveType() engine.MonType            { return TypeNormal }
func (m *NoDamageStatusMove) MoveClass() engine.MoveClass         { return engine.MoveClassStatus }
func (m *NoDamageStatusMove) BasePower() uint32                   { return 0 }
func (m *NoDamageStatusMove) Accuracy() uint8                     { return m.accuracy }
func (m *NoDamageStatusMove) Volatility() uint8                   { return 0 }
func (m *NoDamageStatusMove) CritRate() uint8                     { return 0 }
func (m *NoDamageStatusMove) ExtraDataKind() engine.ExtraDataType { return engine.ExtraDataNone }
func (m *NoDamageStatusMove) IsValidTarget(extra engine.ExtraData) bool { return true }

func (m *NoDamageStatusMove) Invoke(ctx *engine.BattleContext, attacker engine.PlayerIndex, extra engine.ExtraData, rng engine.Rng) error {
	if rng.GetRng(engine.KVKey(attacker, m.name))[0]%100 >= m.accuracy {
		return nil
	}
	m.apply(ctx, attacker, attacker.Opponent())
	return nil
}

// NewBurnInducer returns a status move that afflicts the defender with
// Burn.
func NewBurnInducer(name string, stamina uint32, accuracy uint8) *NoDamageStatusMove {
	return &NoDamageStatusMove{
		name: name, stamina: stamina, accuracy: accuracy,
		apply: func(ctx *engine.BattleContext, attacker, defender engine.PlayerIndex) {
			ctx.AddEffect(&Burn{player: defender}, engine.ScopeLocal, defender, -1, [32]byte{})
		},
	}
}

// NewSleepInducer returns a status move that puts the defender to sleep.
func NewSleepInducer(name string, stamina uint32, accuracy uint8) *NoDamageStatusMove {
	return &NoDamageStatusMove{
		name: name, stamina: stamina, accuracy: accuracy,
		apply: func(ctx *engine.BattleContext, attacker, defender engine.PlayerIndex) {
			ctx.AddEffect(&Sleep{player: defender}, engine.ScopeLocal, defender, -1, [32]byte{})
		},
	}
}

// Switch is a placeholder Move satisfying engine.Move for registries that
// want a uniform MoveRef-to-Move lookup even for the switch pseudo-move;
// the engine itself never calls ResolveMove for SwitchMoveIndex, so Invoke
// here is unreachable in practice.
type Switch struct{}

func (Switch) Name() string                                                    { return "switch" }
func (Switch) Stamina() uint32                                                 { return 0 }
func (Switch) Priority(ctx *engine.BattleContext, player engine.PlayerIndex) int32 { return engine.SwitchPriority }
func (Switch) MoveType() engine.MonType                                        { return TypeNormal }
func (Switch) MoveClass() engine.MoveClass                                     { return engine.MoveClassStatus }
func (Switch) BasePower() uint32                                               { return 0 }
func (Switch) Accuracy() uint8                                                 { return 100 }
func (Switch) Volatility() uint8                                               { return 0 }
func (Switch) CritRate() uint8                                                 { return 0 }
func (Switch) ExtraDataKind() engine.ExtraDataType                             { return engine.ExtraDataSelfTeamIndex }
func (Switch) IsValidTarget(extra engine.ExtraData) bool                      { return true }
func (Switch) Invoke(ctx *engine.BattleContext, attacker engine.PlayerIndex, extra engine.ExtraData, rng engine.Rng) error {
	return nil
}
