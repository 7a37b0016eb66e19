package engine

import "testing"

// stubMove is the smallest possible Move implementation: a fixed-power
// physical hit with perfect accuracy, no crit, no volatility, so its damage
// output is fully deterministic regardless of rng seed.
type stubMove struct {
	power uint32
}

func (m stubMove) Name() string                                      { return "stub" }
func (m stubMove) Stamina() uint32                                   { return 5 }
func (m stubMove) Priority(ctx *BattleContext, player PlayerIndex) int32 { return 0 }
func (m stubMove) MoveType() MonType                                 { return 0 }
func (m stubMove) MoveClass() MoveClass                              { return MoveClassPhysical }
func (m stubMove) BasePower() uint32                                 { return m.power }
func (m stubMove) Accuracy() uint8                                   { return 100 }
func (m stubMove) Volatility() uint8                                 { return 0 }
func (m stubMove) CritRate() uint8                                   { return 0 }
func (m stubMove) ExtraDataKind() ExtraDataType                      { return ExtraDataNone }
func (m stubMove) IsValidTarget(extra ExtraData) bool                { return true }
func (m stubMove) Invoke(ctx *BattleContext, attacker PlayerIndex, extra ExtraData, rng Rng) error {
	ctx.DealDamage(attacker.Opponent(), m.power)
	return nil
}

type stubMoveManager struct {
	moves map[MoveRef]Move
}

func (mm stubMoveManager) ResolveMove(ref MoveRef) (Move, error) { return mm.moves[ref], nil }
func (mm stubMoveManager) ResolveAbility(ref AbilityRef) (Ability, error) { return nil, ErrUnknownEffect }

type identityRng struct{}

func (identityRng) GetRng(seed [32]byte) [32]byte { return seed }

func newStubTeam(hp, attack, defense, speed uint32) Team {
	return Team{Mons: []Mon{
		{ID: "a", Stats: MonStats{HP: hp, Stamina: 100, Attack: attack, Defense: defense, Speed: speed}, Moves: [4]MoveRef{"hit"}},
		{ID: "b", Stats: MonStats{HP: hp, Stamina: 100, Attack: attack, Defense: defense, Speed: speed}, Moves: [4]MoveRef{"hit"}},
	}}
}

func newStubBattle(t *testing.T) *Battle {
	t.Helper()
	mm := stubMoveManager{moves: map[MoveRef]Move{"hit": stubMove{power: 30}}}
	cfg := Config{
		P0:          "alice",
		P1:          "bob",
		P0Team:      newStubTeam(100, 60, 40, 50),
		P1Team:      newStubTeam(100, 60, 40, 10),
		RNG:         identityRng{},
		Ruleset:     Ruleset{TeamSize: 2, TimeoutDuration: 0, NumActiveSlots: 1},
		MoveManager: mm,
	}
	return NewBattle(cfg, 1)
}

func leadBoth(t *testing.T, b *Battle) {
	t.Helper()
	b.SetDecisions(&Decision{MoveIndex: SwitchMoveIndex, SwitchSlot: 0}, &Decision{MoveIndex: SwitchMoveIndex, SwitchSlot: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("initial lead Execute() error = %v", err)
	}
}

func TestNewBattleStartsInAwaitingInitialSwitch(t *testing.T) {
	b := newStubBattle(t)
	if b.Phase != PhaseAwaitingInitialSwitch {
		t.Errorf("Phase = %v, want PhaseAwaitingInitialSwitch", b.Phase)
	}
	if b.State.PlayerSwitchForTurnFlag != 2 {
		t.Errorf("PlayerSwitchForTurnFlag = %d, want 2 (both lead)", b.State.PlayerSwitchForTurnFlag)
	}
}

func TestExecuteAppliesDamageFromHigherSpeedMover(t *testing.T) {
	b := newStubBattle(t)
	leadBoth(t, b)

	b.SetDecisions(&Decision{MoveIndex: 0}, &Decision{MoveIndex: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// p0 (speed 50) outruns p1 (speed 10) and hits first; both deal 30
	// damage since nothing knocked the other out first.
	if got := b.ActiveState(Player1).EffectiveHPDelta(); got != -30 {
		t.Errorf("p1 HPDelta = %d, want -30", got)
	}
	if got := b.ActiveState(Player0).EffectiveHPDelta(); got != -30 {
		t.Errorf("p0 HPDelta = %d, want -30", got)
	}
	if b.State.TurnID != 2 {
		t.Errorf("TurnID after two executed turns = %d, want 2", b.State.TurnID)
	}
}

func TestExecuteStopsSecondMoverWhenFirstMoverKOs(t *testing.T) {
	b := newStubBattle(t)
	leadBoth(t, b)
	// Drop p1's HP so the 30-power hit is lethal, then the scheduler must
	// skip p1's own turn this round (it never gets a turn since it was
	// knocked out by the higher-speed p0's move).
	b.monStates[Player1][0].HPDelta = -71 // effective HP = 100-71 = 29

	b.SetDecisions(&Decision{MoveIndex: 0}, &Decision{MoveIndex: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !b.ActiveState(Player1).IsKnockedOut {
		t.Fatal("p1 not marked knocked out after lethal hit")
	}
	if got := b.ActiveState(Player0).EffectiveHPDelta(); got != 0 {
		t.Errorf("p0 HPDelta = %d, want 0 (p1's turn must have been skipped)", got)
	}
	if b.State.PlayerSwitchForTurnFlag != 1 {
		t.Errorf("PlayerSwitchForTurnFlag after p1 KO = %d, want 1", b.State.PlayerSwitchForTurnFlag)
	}
}

func TestExecuteDetectsGameOverOnFullTeamKO(t *testing.T) {
	b := newStubBattle(t)
	leadBoth(t, b)
	b.monStates[Player1][0].HPDelta = -71
	b.State.KnockoutBitmaps[Player1] = 2 // slot 1 already down from a prior (simulated) turn; this turn's KO of active slot 0 completes the team wipe

	b.SetDecisions(&Decision{MoveIndex: 0}, &Decision{MoveIndex: 0})
	if err := b.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if b.State.Winner == nil || *b.State.Winner != Player0 {
		t.Fatalf("Winner = %v, want Player0", b.State.Winner)
	}
	if b.Phase != PhaseGameOver {
		t.Errorf("Phase = %v, want PhaseGameOver", b.Phase)
	}
}

func TestExecuteAfterGameOverReturnsErrBattleOver(t *testing.T) {
	b := newStubBattle(t)
	winner := Player0
	b.State.Winner = &winner
	if err := b.Execute(); err != ErrBattleOver {
		t.Errorf("Execute() after game over = %v, want ErrBattleOver", err)
	}
}

func TestSwitchActiveMonKeepsDeltasAndClearsTempBoosts(t *testing.T) {
	b := newStubBattle(t)
	leadBoth(t, b)
	ctx := newBattleContext(b)

	b.monStates[Player0][0].HPDelta = -20
	ApplyStatBoost(&b.monStates[Player0][0], b.Team(Player0).Mons[0].Stats, StatBoostToApply{Stat: StateAttackDelta, BoostPercent: 50, BoostType: BoostAdd}, BoostTemp)
	if b.monStates[Player0][0].AttackDelta == CLEAREDSENTINEL {
		t.Fatal("setup: stat boost did not apply")
	}

	b.SwitchActiveMon(ctx, Player0, 1)

	// Slot 1 has never been modified, so its own state reads as fresh — this
	// is per-mon persistence, not a blanket reset of slot 0's data (which the
	// slot 0 checks below, and TestSwitchOutPreservesPermBoostAndSwitchBackInRestoresIt
	// for Perm boosts, confirm).
	if b.ActiveState(Player0).EffectiveHPDelta() != 0 {
		t.Errorf("HPDelta after switch = %d, want 0 (slot 1's own, never-modified state)", b.ActiveState(Player0).EffectiveHPDelta())
	}
	if b.ActiveState(Player0).EffectiveAttackDelta() != 0 {
		t.Errorf("AttackDelta after switch = %d, want 0 (slot 1's own, never-modified state)", b.ActiveState(Player0).EffectiveAttackDelta())
	}
	if b.State.ActiveMonIndex[Player0][0] != 1 {
		t.Errorf("ActiveMonIndex[Player0] = %v, want [1]", b.State.ActiveMonIndex[Player0])
	}

	// Slot 0's own state — the mon that switched out — must still carry its
	// damage and Temp boost cleared, but untouched otherwise.
	if b.monStates[Player0][0].EffectiveHPDelta() != -20 {
		t.Errorf("slot 0 HPDelta after switch-out = %d, want -20 (persisted, not wiped)", b.monStates[Player0][0].EffectiveHPDelta())
	}
	if b.monStates[Player0][0].EffectiveAttackDelta() != 0 {
		t.Errorf("slot 0 AttackDelta after switch-out = %d, want 0 (Temp boost cleared)", b.monStates[Player0][0].EffectiveAttackDelta())
	}
}

func TestSwitchOutPreservesPermBoostAndSwitchBackInRestoresIt(t *testing.T) {
	b := newStubBattle(t)
	leadBoth(t, b)
	ctx := newBattleContext(b)

	ApplyStatBoost(&b.monStates[Player0][0], b.Team(Player0).Mons[0].Stats, StatBoostToApply{Stat: StateDefenseDelta, BoostPercent: 20, BoostType: BoostDivide}, BoostPerm)
	wantDelta := b.monStates[Player0][0].DefenseDelta
	if wantDelta == CLEAREDSENTINEL {
		t.Fatal("setup: Perm boost did not apply")
	}

	b.SwitchActiveMon(ctx, Player0, 1)
	if b.monStates[Player0][0].EffectiveDefenseDelta() != resolved(wantDelta) {
		t.Errorf("slot 0 DefenseDelta after switch-out = %d, want %d (Perm boost survives switch-out)", b.monStates[Player0][0].EffectiveDefenseDelta(), resolved(wantDelta))
	}

	b.SwitchActiveMon(ctx, Player0, 0)
	if got := b.ActiveState(Player0).EffectiveDefenseDelta(); got != resolved(wantDelta) {
		t.Errorf("DefenseDelta after switching back in = %d, want %d (Perm boost restored)", got, resolved(wantDelta))
	}

	RemoveStatBoosts(b.ActiveState(Player0), BoostPerm)
	if got := b.ActiveState(Player0).EffectiveDefenseDelta(); got != 0 {
		t.Errorf("DefenseDelta after RemoveStatBoosts(Perm) = %d, want 0", got)
	}
	// The mon that is still on the bench (slot 1) must be unaffected by a
	// RemoveStatBoosts call against slot 0's own state.
	if got := b.monStates[Player0][1].EffectiveDefenseDelta(); got != 0 {
		t.Errorf("slot 1 DefenseDelta = %d, want 0 (never touched)", got)
	}
}
