// Package validator implements the pure, side-effect-free move/switch
// validation rules of spec.md §4.7. Every function here takes fully
// materialized inputs and performs no storage reads of its own. The
// commit-reveal coordinator calls it on reveal and for a dual-signed turn;
// the engine's Execute does not call it.
package validator

import "github.com/opd-ai/monbattle/internal/engine"

// Validator implements engine.Validator.
type Validator struct{}

// New returns a Validator. It carries no state — every rule is a pure
// function of its arguments.
func New() *Validator { return &Validator{} }

// mustSwitch reports whether player's decision this turn is required to be
// a switch: turn 0 (everyone leads), or the active mon is knocked out.
func mustSwitch(b *engine.Battle, player engine.PlayerIndex) bool {
	if b.State.TurnID == 0 {
		return true
	}
	return b.ActiveState(player).IsKnockedOut
}

// ValidatePlayerMoveBasics checks the coarse shape of a move selection
// before looking at the move's own metadata: is a switch required, is the
// index in range.
func (v *Validator) ValidatePlayerMoveBasics(b *engine.Battle, player engine.PlayerIndex, moveIndex uint8) error {
	if b.State.Winner != nil {
		return engine.ErrBattleOver
	}
	if mustSwitch(b, player) && moveIndex != engine.SwitchMoveIndex {
		return engine.ErrMustSwitch
	}
	if moveIndex == engine.SwitchMoveIndex || moveIndex == engine.NoOpMoveIndex {
		return nil
	}
	if moveIndex >= engine.MovesPerMon {
		return engine.ErrMoveOutOfBounds
	}
	mon, ok := b.ActiveMon(player)
	if !ok {
		return engine.ErrIllegalMove
	}
	if mon.Moves[moveIndex] == "" {
		return engine.ErrIllegalMove
	}
	return nil
}

// ValidateSpecificMoveSelection additionally checks the move's own stamina
// cost and target legality, resolving the move through b.Config.MoveManager.
func (v *Validator) ValidateSpecificMoveSelection(b *engine.Battle, player engine.PlayerIndex, moveIndex uint8, extra engine.ExtraData) error {
	if moveIndex == engine.SwitchMoveIndex || moveIndex == engine.NoOpMoveIndex {
		return nil
	}
	mon, ok := b.ActiveMon(player)
	if !ok {
		return engine.ErrIllegalMove
	}
	if int(moveIndex) >= engine.MovesPerMon || mon.Moves[moveIndex] == "" {
		return engine.ErrMoveOutOfBounds
	}
	move, err := b.Config.MoveManager.ResolveMove(mon.Moves[moveIndex])
	if err != nil {
		return engine.ErrIllegalMove
	}
	stamina := mon.Stats.Stamina
	current := engine.EffectiveStat(stamina, b.ActiveState(player).StaminaDelta)
	if current < move.Stamina() {
		return engine.ErrStaminaExhausted
	}
	if !move.IsValidTarget(extra) {
		return engine.ErrIllegalMove
	}
	return nil
}

// ValidateSwitch checks that targetSlot is a legal switch destination:
// in-bounds, alive, and (outside of turn 0) different from the mon already
// active.
func (v *Validator) ValidateSwitch(b *engine.Battle, player engine.PlayerIndex, targetSlot int) error {
	team := b.Team(player)
	if targetSlot < 0 || targetSlot >= len(team.Mons) {
		return engine.ErrSwitchToKO
	}
	if b.IsKOBit(player, targetSlot) {
		return engine.ErrSwitchToKO
	}
	if b.State.TurnID != 0 {
		idx := b.State.ActiveMonIndex[player]
		if len(idx) > 0 && idx[0] == targetSlot {
			return engine.ErrSwitchToSame
		}
	}
	return nil
}

// ValidateSwitchForSlot and ValidatePlayerMoveBasicsForSlot anticipate the
// doubles variant (spec.md §9): the same rules as above, but scoped to one
// of several active slots rather than the single 1v1 slot. Both ignore slot
// and forward to the single-slot checks above; nothing in this module calls
// them.
func (v *Validator) ValidateSwitchForSlot(b *engine.Battle, player engine.PlayerIndex, slot, targetSlot int) error {
	return v.ValidateSwitch(b, player, targetSlot)
}

func (v *Validator) ValidatePlayerMoveBasicsForSlot(b *engine.Battle, player engine.PlayerIndex, slot int, moveIndex uint8) error {
	return v.ValidatePlayerMoveBasics(b, player, moveIndex)
}
