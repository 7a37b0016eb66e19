package sample

import (
	"testing"

	"github.com/opd-ai/monbattle/internal/engine"
	"github.com/opd-ai/monbattle/internal/registry"
	"github.com/opd-ai/monbattle/internal/rngoracle"
)

func newMoves() *registry.Moves {
	moves := registry.NewMoves()
	moves.RegisterMove("tackle", NewAttack("tackle", 10, 0, TypeNormal, engine.MoveClassPhysical, 50, 100, 0, 0))
	moves.RegisterMove("ember", NewAttack("ember", 10, 0, TypeFire, engine.MoveClassSpecial, 40, 100, 0, 0))
	moves.RegisterMove("burn-touch", NewBurnInducer("burn-touch", 5, 100))
	moves.RegisterMove("lullaby", NewSleepInducer("lullaby", 5, 100))
	moves.RegisterAbility(intimidateRef, Intimidate{Percent: 10})
	return moves
}

func newScenarioBattle(t *testing.T, p0Moves, p1Moves [4]engine.MoveRef, p0Ability, p1Ability engine.AbilityRef) *engine.Battle {
	t.Helper()
	p0Team := engine.Team{Mons: []engine.Mon{
		{ID: "p0a", Stats: engine.MonStats{HP: 100, Attack: 60, Defense: 40, Speed: 50, Stamina: 30, Type1: TypeWater}, Moves: p0Moves, Ability: p0Ability},
		{ID: "p0b", Stats: engine.MonStats{HP: 100, Attack: 60, Defense: 40, Speed: 50, Stamina: 30, Type1: TypeWater}, Moves: p0Moves},
	}}
	p1Team := engine.Team{Mons: []engine.Mon{
		{ID: "p1a", Stats: engine.MonStats{HP: 100, Attack: 60, Defense: 40, Speed: 10, Stamina: 30, Type1: TypeFire}, Moves: p1Moves, Ability: p1Ability},
		{ID: "p1b", Stats: engine.MonStats{HP: 100, Attack: 60, Defense: 40, Speed: 10, Stamina: 30, Type1: TypeFire}, Moves: p1Moves},
	}}
	cfg := engine.Config{
		P0: "alice", P1: "bob",
		P0Team: p0Team, P1Team: p1Team,
		Ruleset:     engine.Ruleset{TeamSize: 2, NumActiveSlots: 1},
		MoveManager: newMoves(),
		RNG:         rngoracle.Identity{},
	}
	b := engine.NewBattle(cfg, 1)
	b.SetDecisions(&engine.Decision{MoveIndex: engine.SwitchMoveIndex}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("lead Execute() error = %v", err)
	}
	return b
}

func TestAttackDealsDamageThroughPipeline(t *testing.T) {
	tackle := [4]engine.MoveRef{"tackle"}
	ember := [4]engine.MoveRef{"ember"}
	b := newScenarioBattle(t, ember, tackle, "", "")

	b.SetDecisions(&engine.Decision{MoveIndex: 0}, &engine.Decision{MoveIndex: engine.NoOpMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// A Water attacker's ember (a Fire-typed move) into a Fire defender is a
	// neutral matchup; what matters is that damage lands at all through the
	// full pipeline.
	if got := b.ActiveState(engine.Player1).EffectiveHPDelta(); got >= 0 {
		t.Errorf("defender HPDelta after a landed attack = %d, want negative", got)
	}
}

func TestBurnTicksEachRound(t *testing.T) {
	moves := [4]engine.MoveRef{"burn-touch"}
	b := newScenarioBattle(t, moves, moves, "", "")

	b.SetDecisions(&engine.Decision{MoveIndex: 0}, &engine.Decision{MoveIndex: engine.NoOpMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	afterFirstRound := b.ActiveState(engine.Player1).EffectiveHPDelta()
	if afterFirstRound >= 0 {
		t.Fatalf("HPDelta after burn applied = %d, want negative from the round-end tick", afterFirstRound)
	}

	b.SetDecisions(&engine.Decision{MoveIndex: engine.NoOpMoveIndex}, &engine.Decision{MoveIndex: engine.NoOpMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	afterSecondRound := b.ActiveState(engine.Player1).EffectiveHPDelta()
	wantPerTick := int32(100 / BurnDivisor)
	if afterSecondRound != afterFirstRound-wantPerTick {
		t.Errorf("HPDelta after second round = %d, want %d (one degree-1 tick on top of the first round)", afterSecondRound, afterFirstRound-wantPerTick)
	}
}

// TestBurnDegreeDoublesTickOnReapplication is spec.md §8 scenario 2,
// verbatim: burn at degree 1 with maxHp=160 ticks for 160/16=10; reapplying
// burn raises the degree to 2, and the next RoundEnd tick deals 160/8=20.
func TestBurnDegreeDoublesTickOnReapplication(t *testing.T) {
	moves := [4]engine.MoveRef{"burn-touch"}
	p0Team := engine.Team{Mons: []engine.Mon{
		{ID: "p0a", Stats: engine.MonStats{HP: 100, Attack: 60, Defense: 40, Speed: 50, Stamina: 30, Type1: TypeWater}, Moves: moves},
	}}
	p1Team := engine.Team{Mons: []engine.Mon{
		{ID: "p1a", Stats: engine.MonStats{HP: 160, Attack: 60, Defense: 40, Speed: 10, Stamina: 30, Type1: TypeFire}, Moves: moves},
	}}
	cfg := engine.Config{
		P0: "alice", P1: "bob",
		P0Team: p0Team, P1Team: p1Team,
		Ruleset:     engine.Ruleset{TeamSize: 1, NumActiveSlots: 1},
		MoveManager: newMoves(),
		RNG:         rngoracle.Identity{},
	}
	b := engine.NewBattle(cfg, 1)
	b.SetDecisions(&engine.Decision{MoveIndex: engine.SwitchMoveIndex}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("lead Execute() error = %v", err)
	}

	// Turn 1: p0 afflicts p1 with burn at degree 1; this round's tick is
	// 160/16 = 10.
	b.SetDecisions(&engine.Decision{MoveIndex: 0}, &engine.Decision{MoveIndex: engine.NoOpMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() turn 1 error = %v", err)
	}
	if got := b.ActiveState(engine.Player1).EffectiveHPDelta(); got != -10 {
		t.Fatalf("p1 HPDelta after first burn tick = %d, want -10 (160/16)", got)
	}

	// Turn 2: p0 reapplies burn-touch; the existing instance's degree rises
	// to 2, so this round's tick doubles to 160/8 = 20.
	b.SetDecisions(&engine.Decision{MoveIndex: 0}, &engine.Decision{MoveIndex: engine.NoOpMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() turn 2 error = %v", err)
	}
	if got := b.ActiveState(engine.Player1).EffectiveHPDelta(); got != -30 {
		t.Errorf("p1 HPDelta after second (degree-2) burn tick = %d, want -30 (-10 then -20)", got)
	}
}

func TestSleepForcesSkippedTurnThenWakes(t *testing.T) {
	lullaby := [4]engine.MoveRef{"lullaby"}
	tackle := [4]engine.MoveRef{"tackle"}
	b := newScenarioBattle(t, lullaby, tackle, "", "")

	// Turn 1: p0 puts p1 to sleep.
	b.SetDecisions(&engine.Decision{MoveIndex: 0}, &engine.Decision{MoveIndex: engine.NoOpMoveIndex})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() turn 1 error = %v", err)
	}

	// Turn 2: p1 attempts tackle but should be asleep and skip.
	b.SetDecisions(&engine.Decision{MoveIndex: engine.NoOpMoveIndex}, &engine.Decision{MoveIndex: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() turn 2 error = %v", err)
	}
	if got := b.ActiveState(engine.Player0).EffectiveHPDelta(); got != 0 {
		t.Errorf("p0 HPDelta after p1's forced-skip turn = %d, want 0 (still asleep)", got)
	}

	// Turn 3: the wake roll hits (rng % 3 == 0 for this turn id), p1's
	// tackle lands.
	b.SetDecisions(&engine.Decision{MoveIndex: engine.NoOpMoveIndex}, &engine.Decision{MoveIndex: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() turn 3 error = %v", err)
	}
	if got := b.ActiveState(engine.Player0).EffectiveHPDelta(); got >= 0 {
		t.Errorf("p0 HPDelta after sleep wears off = %d, want negative (tackle lands)", got)
	}
}

func TestIntimidateLowersOpponentAttackAndClearsOnSwitchOut(t *testing.T) {
	tackle := [4]engine.MoveRef{"tackle"}
	b := newScenarioBattle(t, tackle, tackle, intimidateRef, "")

	if got := b.ActiveState(engine.Player1).EffectiveAttackDelta(); got >= 0 {
		t.Errorf("opponent AttackDelta after Intimidate's switch-in = %d, want negative", got)
	}

	// Switching p1's mon out and back resets its Temp-scoped boosts.
	b.SetDecisions(&engine.Decision{MoveIndex: engine.SwitchMoveIndex, SwitchSlot: 1}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex, SwitchSlot: 1})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() switch turn error = %v", err)
	}
	if got := b.ActiveState(engine.Player1).EffectiveAttackDelta(); got != 0 {
		t.Errorf("AttackDelta on the freshly switched-in mon = %d, want 0", got)
	}

	b.SetDecisions(&engine.Decision{MoveIndex: engine.NoOpMoveIndex}, &engine.Decision{MoveIndex: engine.SwitchMoveIndex, SwitchSlot: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() switch-back turn error = %v", err)
	}
	if got := b.ActiveState(engine.Player1).EffectiveAttackDelta(); got != 0 {
		t.Errorf("AttackDelta on the intimidated mon after switching back in = %d, want 0 (Temp boost cleared on switch-out)", got)
	}
}
