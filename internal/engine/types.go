// Package engine implements the deterministic turn-based battle core: the
// turn state machine, the effect pipeline, the damage and stat-boost
// pipelines, and the per-battle KV store. Concrete moves, statuses and
// abilities are external collaborators the engine only ever sees through
// the capability interfaces in capability.go.
package engine

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// CLEAREDSENTINEL distinguishes "never set" from "explicitly zero" for the
// delta fields on MonState. Every mon's deltas start at this value; a
// switch-out does not set them back to it, it only reverses that mon's
// Temp-scoped boosts, which leaves explicit values in the affected deltas.
const CLEAREDSENTINEL int32 = -1 << 31

// MovesPerMon bounds the number of move slots a mon definition carries.
const MovesPerMon = 4

// Packed move-index constants (spec.md §6).
const (
	SwitchMoveIndex uint8 = 125
	NoOpMoveIndex   uint8 = 126
	MoveIndexMask   uint8 = 0x7F
)

// SwitchPriority is the fixed priority tuple component used by switches and
// no-ops when the scheduler orders movers for a turn.
const SwitchPriority int32 = 6

// Damage-pipeline constants (spec.md §4.4).
const (
	CritNumerator   = 3
	CritDenominator = 2
)

// BattleKey opaquely identifies one scheduled contest. It is derived from
// (p0, p1, pairHashNonce, params) so that replaying an identical
// configuration with a fresh nonce never collides with a prior battle.
type BattleKey [32]byte

// DeriveBattleKey hashes the battle's identifying tuple with Keccak256,
// mirroring the hash construction the rest of the engine (KV keys, the
// commit-reveal typed-data digest) uses throughout.
func DeriveBattleKey(p0, p1 string, pairHashNonce uint64, params []byte) BattleKey {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(p0))
	h.Write([]byte(p1))
	var nonceBuf [8]byte
	binary.BigEndian.PutUint64(nonceBuf[:], pairHashNonce)
	h.Write(nonceBuf[:])
	h.Write(params)
	var out BattleKey
	copy(out[:], h.Sum(nil))
	return out
}

// PlayerIndex is 0 or 1; there are exactly two players per battle.
type PlayerIndex uint8

const (
	Player0 PlayerIndex = 0
	Player1 PlayerIndex = 1
)

// Opponent returns the other player's index.
func (p PlayerIndex) Opponent() PlayerIndex {
	return 1 - p
}

// MonType enumerates the elemental typing used by the damage pipeline's
// type-effectiveness lookup. The concrete table lives behind TypeCalculator;
// the engine only needs the type identifiers themselves.
type MonType uint8

// MoveClass distinguishes the stat pair a move's damage computation reads.
type MoveClass uint8

const (
	MoveClassPhysical MoveClass = iota
	MoveClassSpecial
	MoveClassStatus
)

// StateIndex names one of the seven per-mon delta fields tracked in
// MonState, plus the two non-delta flags. It is also the index used by the
// EVM-facing `updateMonState`/`getMonValueForBattle` reads and writes.
type StateIndex uint8

const (
	StateHPDelta StateIndex = iota
	StateStaminaDelta
	StateSpeedDelta
	StateAttackDelta
	StateDefenseDelta
	StateSpecialAttackDelta
	StateSpecialDefenseDelta
	StateIsKnockedOut
	StateShouldSkipTurn
	stateIndexCount
)

// MonStats holds a mon definition's immutable base numbers plus its typing
// and move/ability references. Stats are intentionally plain uint32s: the
// engine never needs signed base stats, only signed deltas.
type MonStats struct {
	HP               uint32
	Stamina          uint32
	Speed            uint32
	Attack           uint32
	Defense          uint32
	SpecialAttack    uint32
	SpecialDefense   uint32
	Type1            MonType
	Type2            *MonType // nil means single-typed
}

// MoveRef and AbilityRef are opaque handles into an external registry. The
// engine never dereferences them itself; it hands them to the MoveManager /
// Ability capability lookups.
type MoveRef string
type AbilityRef string

// Mon is one roster slot: its base stats, up to MovesPerMon move slots
// (unused slots are explicitly empty strings), and an optional ability.
type Mon struct {
	ID      string
	Stats   MonStats
	Moves   [MovesPerMon]MoveRef
	Ability AbilityRef
}

// Team is the full roster a player brings to a battle. Size is validated
// against the active Ruleset by the caller (the registry / matchmaker), not
// by the engine itself.
type Team struct {
	Mons []Mon
}

// MonState is the set of deltas stacked onto one mon's base stats; Battle
// keeps one per team slot for the whole battle, so it persists across
// switches. CLEAREDSENTINEL marks "never set";
// ordinary zero is a real, explicit value distinct from sentinel (invariant
// 3 of spec.md §3).
type MonState struct {
	HPDelta              int32
	StaminaDelta         int32
	SpeedDelta           int32
	AttackDelta          int32
	DefenseDelta         int32
	SpecialAttackDelta   int32
	SpecialDefenseDelta  int32
	IsKnockedOut         bool
	ShouldSkipTurn       bool
	boosts               statBoostSet
}

// NewMonState returns a state with every delta at CLEAREDSENTINEL, i.e. "no
// modification yet", the state every mon starts the battle with.
func NewMonState() MonState {
	return MonState{
		HPDelta:             CLEAREDSENTINEL,
		StaminaDelta:        CLEAREDSENTINEL,
		SpeedDelta:          CLEAREDSENTINEL,
		AttackDelta:         CLEAREDSENTINEL,
		DefenseDelta:        CLEAREDSENTINEL,
		SpecialAttackDelta:  CLEAREDSENTINEL,
		SpecialDefenseDelta: CLEAREDSENTINEL,
	}
}

// resolved returns v if it isn't the sentinel, else 0 — the read-time
// collapse described by invariant 3.
func resolved(v int32) int32 {
	if v == CLEAREDSENTINEL {
		return 0
	}
	return v
}

// EffectiveHPDelta, etc. expose each delta with the sentinel already
// resolved to zero, the form every reader outside this package should use.
func (s *MonState) EffectiveHPDelta() int32              { return resolved(s.HPDelta) }
func (s *MonState) EffectiveStaminaDelta() int32          { return resolved(s.StaminaDelta) }
func (s *MonState) EffectiveSpeedDelta() int32            { return resolved(s.SpeedDelta) }
func (s *MonState) EffectiveAttackDelta() int32           { return resolved(s.AttackDelta) }
func (s *MonState) EffectiveDefenseDelta() int32          { return resolved(s.DefenseDelta) }
func (s *MonState) EffectiveSpecialAttackDelta() int32    { return resolved(s.SpecialAttackDelta) }
func (s *MonState) EffectiveSpecialDefenseDelta() int32   { return resolved(s.SpecialDefenseDelta) }

// KVKey derives the 32-byte KV-store key for a (player, label) pair the way
// concrete effects are expected to: Keccak256(player || label). Effects that
// need a per-mon key instead hash in the mon ID as part of label.
func KVKey(player PlayerIndex, label string) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte{byte(player)})
	h.Write([]byte(label))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
