// Package cpu provides a heuristic, non-interactive move/switch decision
// provider for filling in a player slot no human is driving. It reads a
// *engine.Battle's public state and returns an *engine.Decision the caller
// feeds into the normal commit-reveal (or direct SetDecisions) path; it
// never mutates the battle itself, matching spec.md §1's "concrete
// decision-making is out of scope for the core engine" boundary.
package cpu

import (
	"math/rand"

	"github.com/opd-ai/monbattle/internal/engine"
)

// Difficulty tunes how willing the CPU is to make a non-obvious play.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// Strategy biases move selection between raw power and preserving its own
// mon's health via a defensive switch.
type Strategy string

const (
	StrategyAggressive Strategy = "aggressive" // favors the highest base-power move
	StrategyDefensive  Strategy = "defensive"  // switches out of bad matchups sooner
	StrategyBalanced   Strategy = "balanced"   // mixes both
)

// switchHealthRatio below this threshold, a Defensive/Balanced decider
// prefers switching out over attacking, mirroring the teacher's
// health-ratio-gated heal override.
const switchHealthRatio = 0.3

// Decider picks a Decision for one player each turn. It keeps no reference
// to the Battle between calls; all state needed to vary behavior turn to
// turn (the recent-move history) lives on the Decider itself.
type Decider struct {
	player      engine.PlayerIndex
	difficulty  Difficulty
	strategy    Strategy
	rng         *rand.Rand
	lastIndexes []uint8
}

// NewDecider returns a Decider for player. seed controls the Decider's
// internal randomness (move-variety tie-breaking only — it never
// participates in the engine's own deterministic RNG pipeline).
func NewDecider(player engine.PlayerIndex, difficulty Difficulty, strategy Strategy, seed int64) *Decider {
	return &Decider{
		player:     player,
		difficulty: difficulty,
		strategy:   strategy,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Decide returns the Decision this Decider would make for the current turn.
// On turn zero, or whenever the active mon is knocked out, it always
// switches (matching the must-switch rule internal/validator enforces).
func (d *Decider) Decide(b *engine.Battle) engine.Decision {
	if b.State.TurnID == 0 || b.ActiveState(d.player).IsKnockedOut {
		return d.decideSwitch(b)
	}

	if d.shouldSwitch(b) {
		if decision, ok := d.tryDefensiveSwitch(b); ok {
			return decision
		}
	}

	return d.decideMove(b)
}

// shouldSwitch reports whether the active mon's health is low enough that
// a Defensive or Balanced strategy prefers retreating over attacking.
func (d *Decider) shouldSwitch(b *engine.Battle) bool {
	if d.strategy == StrategyAggressive {
		return false
	}
	mon, ok := b.ActiveMon(d.player)
	if !ok || mon.Stats.HP == 0 {
		return false
	}
	state := b.ActiveState(d.player)
	ratio := float64(int64(mon.Stats.HP)+int64(state.EffectiveHPDelta())) / float64(mon.Stats.HP)
	return ratio < switchHealthRatio
}

// tryDefensiveSwitch looks for a healthy, non-active bench slot to retreat
// into; it reports false if every bench slot is knocked out or already
// active, leaving the caller to fall through to a regular move.
func (d *Decider) tryDefensiveSwitch(b *engine.Battle) (engine.Decision, bool) {
	team := b.Team(d.player)
	active := b.State.ActiveMonIndex[d.player]
	for idx, mon := range team.Mons {
		if containsInt(active, idx) || mon.Stats.HP == 0 {
			continue
		}
		if b.IsKOBit(d.player, idx) {
			continue
		}
		return engine.Decision{MoveIndex: engine.SwitchMoveIndex, SwitchSlot: idx}, true
	}
	return engine.Decision{}, false
}

// decideSwitch picks the first live bench slot, used for the mandatory
// lead/forced switch.
func (d *Decider) decideSwitch(b *engine.Battle) engine.Decision {
	team := b.Team(d.player)
	active := b.State.ActiveMonIndex[d.player]
	for idx, mon := range team.Mons {
		if containsInt(active, idx) || mon.Stats.HP == 0 {
			continue
		}
		if b.IsKOBit(d.player, idx) {
			continue
		}
		return engine.Decision{MoveIndex: engine.SwitchMoveIndex, SwitchSlot: idx}
	}
	return engine.Decision{MoveIndex: engine.SwitchMoveIndex, SwitchSlot: 0}
}

// decideMove ranks the active mon's known moves by a strategy-weighted
// score and returns the best-affordable one, falling back to a no-op if
// none can be paid for with remaining stamina.
func (d *Decider) decideMove(b *engine.Battle) engine.Decision {
	mon, ok := b.ActiveMon(d.player)
	if !ok {
		return engine.Decision{MoveIndex: engine.NoOpMoveIndex}
	}
	state := b.ActiveState(d.player)
	effectiveStamina := engine.EffectiveStat(mon.Stats.Stamina, state.EffectiveStaminaDelta())

	var bestIdx = -1
	var bestScore float64
	for i, ref := range mon.Moves {
		if ref == "" {
			continue
		}
		move, err := b.Config.MoveManager.ResolveMove(ref)
		if err != nil {
			continue
		}
		if move.Stamina() > effectiveStamina {
			continue
		}
		score := d.scoreMove(move, uint8(i))
		if bestIdx == -1 || score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx == -1 {
		return engine.Decision{MoveIndex: engine.NoOpMoveIndex}
	}
	d.remember(uint8(bestIdx))
	return engine.Decision{MoveIndex: uint8(bestIdx)}
}

// scoreMove weighs a move's base power against its accuracy. Aggressive adds
// the move's crit rate; Defensive scales every score by the same 0.75, which
// leaves the ranking unchanged. Anything above Easy discounts any move in its
// recent-move history (lastIndexes), matching the teacher's
// action-history-based variety bias.
func (d *Decider) scoreMove(move engine.Move, idx uint8) float64 {
	score := float64(move.BasePower()) * (float64(move.Accuracy()) / 100.0)
	switch d.strategy {
	case StrategyAggressive:
		score += float64(move.CritRate())
	case StrategyDefensive:
		score *= 0.75
	}
	if d.difficulty != Easy && d.recentlyUsed(idx) {
		score *= 0.9
	}
	return score
}

func (d *Decider) recentlyUsed(idx uint8) bool {
	for _, used := range d.lastIndexes {
		if used == idx {
			return true
		}
	}
	return false
}

func (d *Decider) remember(idx uint8) {
	d.lastIndexes = append(d.lastIndexes, idx)
	if len(d.lastIndexes) > 3 {
		d.lastIndexes = d.lastIndexes[1:]
	}
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
