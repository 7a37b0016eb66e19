package validator

import (
	"testing"

	"github.com/opd-ai/monbattle/internal/engine"
)

type noopMoveManager struct{}

func (noopMoveManager) ResolveMove(ref engine.MoveRef) (engine.Move, error) {
	return stubMove{}, nil
}
func (noopMoveManager) ResolveAbility(ref engine.AbilityRef) (engine.Ability, error) {
	return nil, engine.ErrUnknownEffect
}

type stubMove struct{}

func (stubMove) Name() string                                              { return "stub" }
func (stubMove) Stamina() uint32                                           { return 10 }
func (stubMove) Priority(ctx *engine.BattleContext, player engine.PlayerIndex) int32 { return 0 }
func (stubMove) MoveType() engine.MonType                                  { return 0 }
func (stubMove) MoveClass() engine.MoveClass                               { return engine.MoveClassPhysical }
func (stubMove) BasePower() uint32                                         { return 10 }
func (stubMove) Accuracy() uint8                                           { return 100 }
func (stubMove) Volatility() uint8                                         { return 0 }
func (stubMove) CritRate() uint8                                           { return 0 }
func (stubMove) ExtraDataKind() engine.ExtraDataType                       { return engine.ExtraDataNone }
func (stubMove) IsValidTarget(extra engine.ExtraData) bool                 { return true }
func (stubMove) Invoke(ctx *engine.BattleContext, attacker engine.PlayerIndex, extra engine.ExtraData, rng engine.Rng) error {
	return nil
}

func newTestBattle() *engine.Battle {
	team := engine.Team{Mons: []engine.Mon{
		{ID: "a", Stats: engine.MonStats{HP: 100, Stamina: 20}, Moves: [4]engine.MoveRef{"hit"}},
		{ID: "b", Stats: engine.MonStats{HP: 100, Stamina: 20}, Moves: [4]engine.MoveRef{"hit"}},
	}}
	cfg := engine.Config{
		P0: "alice", P1: "bob",
		P0Team: team, P1Team: team,
		Ruleset:     engine.Ruleset{TeamSize: 2, NumActiveSlots: 1},
		MoveManager: noopMoveManager{},
	}
	return engine.NewBattle(cfg, 1)
}

func TestValidatePlayerMoveBasicsRequiresSwitchOnTurnZero(t *testing.T) {
	v := New()
	b := newTestBattle()
	if err := v.ValidatePlayerMoveBasics(b, engine.Player0, 0); err != engine.ErrMustSwitch {
		t.Errorf("ValidatePlayerMoveBasics() on turn 0 with a regular move = %v, want ErrMustSwitch", err)
	}
	if err := v.ValidatePlayerMoveBasics(b, engine.Player0, engine.SwitchMoveIndex); err != nil {
		t.Errorf("ValidatePlayerMoveBasics() on turn 0 with a switch = %v, want nil", err)
	}
}

func TestValidatePlayerMoveBasicsRejectsOutOfBoundsIndex(t *testing.T) {
	v := New()
	b := newTestBattle()
	b.SetDecisions(&engine.Decision{MoveIndex: engine.SwitchMoveIndex}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() lead error = %v", err)
	}
	if err := v.ValidatePlayerMoveBasics(b, engine.Player0, 99); err != engine.ErrMoveOutOfBounds {
		t.Errorf("ValidatePlayerMoveBasics() with index 99 = %v, want ErrMoveOutOfBounds", err)
	}
}

func TestValidateSpecificMoveSelectionChecksStamina(t *testing.T) {
	v := New()
	b := newTestBattle()
	b.SetDecisions(&engine.Decision{MoveIndex: engine.SwitchMoveIndex}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() lead error = %v", err)
	}
	b.ActiveState(engine.Player0).StaminaDelta = -15 // effective stamina = 20-15 = 5, below the move's cost of 10
	if err := v.ValidateSpecificMoveSelection(b, engine.Player0, 0, 0); err != engine.ErrStaminaExhausted {
		t.Errorf("ValidateSpecificMoveSelection() with insufficient stamina = %v, want ErrStaminaExhausted", err)
	}
}

func TestValidateSwitchRejectsKOAndSelfTarget(t *testing.T) {
	v := New()
	b := newTestBattle()
	b.SetDecisions(&engine.Decision{MoveIndex: engine.SwitchMoveIndex}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() lead error = %v", err)
	}

	if err := v.ValidateSwitch(b, engine.Player0, 0); err != engine.ErrSwitchToSame {
		t.Errorf("ValidateSwitch() to already-active slot = %v, want ErrSwitchToSame", err)
	}
	if err := v.ValidateSwitch(b, engine.Player0, 5); err != engine.ErrSwitchToKO {
		t.Errorf("ValidateSwitch() out of bounds = %v, want ErrSwitchToKO", err)
	}
	if err := v.ValidateSwitch(b, engine.Player0, 1); err != nil {
		t.Errorf("ValidateSwitch() to a live, different slot = %v, want nil", err)
	}
}
