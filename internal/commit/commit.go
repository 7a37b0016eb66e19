// Package commit implements the commit-reveal move coordination of
// spec.md §4.2: each player first submits a hash committing to their move,
// then reveals the underlying selection once both commits are in. The
// coordinator also supports the dual-signed fast path (spec.md §4.2's "one
// player produces a signed tuple ... authorizing the counterparty to also
// submit their own reveal") and the timeout/forfeit policy.
//
// Signing follows the Ed25519 pattern of the teacher's
// internal/network.ProtocolManager: a message is canonically serialized,
// signed with crypto/ed25519, and verified against a known public key. The
// dual-signed digest itself is EIP-712-style typed data under a fixed
// TypedDataHasher domain, per spec.md §9.
package commit

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/opd-ai/monbattle/internal/engine"
)

var (
	ErrAlreadyCommitted  = errors.New("commit: player already committed this turn")
	ErrNoCommit          = errors.New("commit: no commit on file for this player")
	ErrRevealMismatch    = engine.ErrHashMismatch
	ErrNotReady          = errors.New("commit: both players have not yet revealed")
	ErrTimeoutNotReached = engine.ErrNotTimedOut
	ErrAlreadyRevealed   = errors.New("commit: player already revealed this turn")
)

// MoveCommitment is what a player submits during the commit phase: a hash
// binding them to a move index, extra data, switch slot and a salt (see
// DigestMove), without revealing any of it.
type MoveCommitment struct {
	Hash      [32]byte
	Timestamp time.Time
}

// RevealedMove is what a player discloses during the reveal phase. The
// coordinator recomputes DigestMove(MoveIndex, ExtraData, Salt) and compares
// it against the stored commitment hash.
type RevealedMove struct {
	MoveIndex  uint8
	ExtraData  engine.ExtraData
	SwitchSlot int
	Salt       [32]byte
}

// DigestMove is the commit hash function: Keccak256 over the move's fields,
// matching the battle key/KV key derivation style of engine.DeriveBattleKey.
func DigestMove(battleKey engine.BattleKey, turnID uint64, moveIndex uint8, extra engine.ExtraData, switchSlot int, salt [32]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(battleKey[:])
	var turnBuf [8]byte
	putUint64(turnBuf[:], turnID)
	h.Write(turnBuf[:])
	h.Write([]byte{moveIndex})
	var extraBuf [8]byte
	putUint64(extraBuf[:], uint64(extra))
	h.Write(extraBuf[:])
	var slotBuf [8]byte
	putUint64(slotBuf[:], uint64(int64(switchSlot)))
	h.Write(slotBuf[:])
	h.Write(salt[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[7-i] = byte(v)
		v >>= 8
	}
}

// Coordinator tracks one battle's in-flight commit/reveal state. It never
// touches the Battle directly except to call SetDecisions and Execute once
// both reveals are in — matching the engine's "commit-reveal coordinator
// installs decisions, then triggers Execute" boundary (spec.md §4.2).
type Coordinator struct {
	battle       *engine.Battle
	validator    engine.Validator
	hasher       TypedDataHasher
	turnDeadline time.Time
	commits      [2]*MoveCommitment
	reveals      [2]*RevealedMove
	forfeited    bool
}

// NewCoordinator wraps battle with commit-reveal bookkeeping for its first
// turn deadline. chainID and verifyingContract fix the EIP-712 domain the
// dual-signed fast path's signatures are bound to (spec.md §9: "extract a
// TypedDataHasher with the exact domain above to keep signatures
// interoperable across client languages").
func NewCoordinator(battle *engine.Battle, validator engine.Validator, chainID uint64, verifyingContract [20]byte) *Coordinator {
	return &Coordinator{
		battle:    battle,
		validator: validator,
		hasher: TypedDataHasher{Domain: Domain{
			Name:              "SignedCommitManager",
			Version:           "1",
			ChainID:           chainID,
			VerifyingContract: verifyingContract,
		}},
		turnDeadline: time.Now().Add(battle.Config.Ruleset.TimeoutDuration),
	}
}

// Commit records player's commitment hash for the turn in progress. Only one
// commit per player per turn is accepted.
func (c *Coordinator) Commit(player engine.PlayerIndex, hash [32]byte) error {
	if c.battle.Phase == engine.PhaseGameOver {
		return engine.ErrBattleOver
	}
	if c.commits[player] != nil {
		return ErrAlreadyCommitted
	}
	c.commits[player] = &MoveCommitment{Hash: hash, Timestamp: time.Now()}
	return nil
}

// Reveal discloses player's move for the turn. It is rejected unless it
// matches the stored commitment hash and passes both validator stages; the
// engine's Execute does not run the validator again.
func (c *Coordinator) Reveal(player engine.PlayerIndex, reveal RevealedMove) error {
	if c.battle.Phase == engine.PhaseGameOver {
		return engine.ErrBattleOver
	}
	if c.reveals[player] != nil {
		return ErrAlreadyRevealed
	}
	commitment := c.commits[player]
	if commitment == nil {
		return ErrNoCommit
	}
	digest := DigestMove(c.battle.Key, c.battle.State.TurnID, reveal.MoveIndex, reveal.ExtraData, reveal.SwitchSlot, reveal.Salt)
	if digest != commitment.Hash {
		return ErrRevealMismatch
	}
	if err := c.validator.ValidatePlayerMoveBasics(c.battle, player, reveal.MoveIndex); err != nil {
		return err
	}
	if reveal.MoveIndex == engine.SwitchMoveIndex {
		if err := c.validator.ValidateSwitch(c.battle, player, reveal.SwitchSlot); err != nil {
			return err
		}
	} else if reveal.MoveIndex != engine.NoOpMoveIndex {
		if err := c.validator.ValidateSpecificMoveSelection(c.battle, player, reveal.MoveIndex, reveal.ExtraData); err != nil {
			return err
		}
	}
	r := reveal
	c.reveals[player] = &r
	return nil
}

// ready reports whether every player whose participation is required this
// turn (per PlayerSwitchForTurnFlag) has revealed.
func (c *Coordinator) ready() bool {
	switch c.battle.State.PlayerSwitchForTurnFlag {
	case 0:
		return c.reveals[engine.Player0] != nil
	case 1:
		return c.reveals[engine.Player1] != nil
	default:
		return c.reveals[engine.Player0] != nil && c.reveals[engine.Player1] != nil
	}
}

func toDecision(r *RevealedMove) *engine.Decision {
	if r == nil {
		return nil
	}
	return &engine.Decision{MoveIndex: r.MoveIndex, ExtraData: r.ExtraData, SwitchSlot: r.SwitchSlot}
}

// ExecuteIfReady installs both decisions and runs the engine's Execute once
// every required reveal for the turn is in; it returns ErrNotReady
// otherwise. On success it resets commit/reveal bookkeeping and the turn
// deadline for the next turn.
func (c *Coordinator) ExecuteIfReady() error {
	if !c.ready() {
		return ErrNotReady
	}
	c.battle.SetDecisions(toDecision(c.reveals[engine.Player0]), toDecision(c.reveals[engine.Player1]))
	if err := c.battle.Execute(); err != nil {
		return fmt.Errorf("commit: execute: %w", err)
	}
	c.commits = [2]*MoveCommitment{}
	c.reveals = [2]*RevealedMove{}
	c.turnDeadline = time.Now().Add(c.battle.Config.Ruleset.TimeoutDuration)
	return nil
}

// TimedOut reports whether the current turn's deadline has passed without
// every required reveal landing.
func (c *Coordinator) TimedOut(now time.Time) bool {
	return !c.ready() && now.After(c.turnDeadline)
}

// Forfeit resolves a timed-out turn per spec.md §4.2: the player who failed
// to reveal forfeits the battle. It may only be called once TimedOut
// reports true, and only once per battle.
func (c *Coordinator) Forfeit(now time.Time) (loser engine.PlayerIndex, err error) {
	if c.forfeited {
		return 0, engine.ErrAlreadyForfeited
	}
	if !c.TimedOut(now) {
		return 0, ErrTimeoutNotReached
	}
	switch c.battle.State.PlayerSwitchForTurnFlag {
	case 0:
		loser = engine.Player0
	case 1:
		loser = engine.Player1
	default:
		if c.reveals[engine.Player0] == nil {
			loser = engine.Player0
		} else {
			loser = engine.Player1
		}
	}
	winner := loser.Opponent()
	c.battle.State.Winner = &winner
	c.battle.Phase = engine.PhaseGameOver
	c.forfeited = true
	return loser, nil
}

// --- Dual-signed fast path ---

// SignatureVerifier abstracts Ed25519 public-key verification so the
// coordinator doesn't have to know where player public keys come from (a
// registry, a wallet, a test double).
type SignatureVerifier interface {
	PublicKeyFor(player string) (ed25519.PublicKey, error)
}

// Domain is the EIP-712 domain separator the dual-signed fast path's
// signatures are bound to, per spec.md §4.2/§9: `{name: "SignedCommitManager",
// version: "1", chainId, verifyingContract}`. ChainID and VerifyingContract
// are deployment-specific so a signature collected for one battle contract
// or chain can never be replayed against another.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract [20]byte
}

func (d Domain) separator() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(d.Name))
	h.Write([]byte(d.Version))
	var chainBuf [8]byte
	putUint64(chainBuf[:], d.ChainID)
	h.Write(chainBuf[:])
	h.Write(d.VerifyingContract[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// TypedDataHasher is the extracted small protocol library spec.md §9 asks
// for: it computes the EIP-712-style typed-data digest a player signs to
// authorize a counterparty to submit a dual-signed turn on their behalf.
type TypedDataHasher struct {
	Domain Domain
}

// Hash returns the digest over `(battleKey, turnId, moveHash, myMoveIndex,
// mySalt, myExtraData)` under h.Domain, exactly as spec.md §4.2 specifies.
// moveHash is the signer's own DigestMove commit hash for this move.
func (h TypedDataHasher) Hash(battleKey engine.BattleKey, turnID uint64, moveHash [32]byte, myMoveIndex uint8, mySalt [32]byte, myExtraData engine.ExtraData) [32]byte {
	sep := h.Domain.separator()
	hh := sha3.NewLegacyKeccak256()
	hh.Write(sep[:])
	hh.Write(battleKey[:])
	var turnBuf [8]byte
	putUint64(turnBuf[:], turnID)
	hh.Write(turnBuf[:])
	hh.Write(moveHash[:])
	hh.Write([]byte{myMoveIndex})
	hh.Write(mySalt[:])
	var extraBuf [8]byte
	putUint64(extraBuf[:], uint64(myExtraData))
	hh.Write(extraBuf[:])
	var out [32]byte
	copy(out[:], hh.Sum(nil))
	return out
}

// DualSignedTurn is the payload a committer submits to skip commit/reveal
// for a turn: both players' cleartext moves, plus a single signature from
// Signer (the non-calling counterparty) authorizing the committer to submit
// on their behalf — spec.md §4.2's "one player produces a signed tuple ...
// authorizing the counterparty to also submit their own reveal."
type DualSignedTurn struct {
	P0Move    RevealedMove
	P1Move    RevealedMove
	Signer    engine.PlayerIndex
	Signature []byte
}

func (t DualSignedTurn) signerMove() RevealedMove {
	if t.Signer == engine.Player0 {
		return t.P0Move
	}
	return t.P1Move
}

func (t DualSignedTurn) signerName(cfg engine.Config) string {
	if t.Signer == engine.Player0 {
		return cfg.P0
	}
	return cfg.P1
}

// ExecuteDualSigned verifies Signer's signature over their own move digest
// and, if it checks out, installs both decisions (the committer's in
// cleartext, the signer's as authorized) and executes immediately —
// bypassing Commit/Reveal for this turn.
func (c *Coordinator) ExecuteDualSigned(verifier SignatureVerifier, turn DualSignedTurn) error {
	if c.battle.Phase == engine.PhaseGameOver {
		return engine.ErrBattleOver
	}
	signerMove := turn.signerMove()
	moveHash := DigestMove(c.battle.Key, c.battle.State.TurnID, signerMove.MoveIndex, signerMove.ExtraData, signerMove.SwitchSlot, signerMove.Salt)
	digest := c.hasher.Hash(c.battle.Key, c.battle.State.TurnID, moveHash, signerMove.MoveIndex, signerMove.Salt, signerMove.ExtraData)

	signerKey, err := verifier.PublicKeyFor(turn.signerName(c.battle.Config))
	if err != nil {
		return fmt.Errorf("commit: signer key: %w", err)
	}
	if !ed25519.Verify(signerKey, digest[:], turn.Signature) {
		return engine.ErrInvalidSignature
	}

	if err := c.validator.ValidatePlayerMoveBasics(c.battle, engine.Player0, turn.P0Move.MoveIndex); err != nil {
		return err
	}
	if err := c.validator.ValidatePlayerMoveBasics(c.battle, engine.Player1, turn.P1Move.MoveIndex); err != nil {
		return err
	}

	c.battle.SetDecisions(toDecision(&turn.P0Move), toDecision(&turn.P1Move))
	if err := c.battle.Execute(); err != nil {
		return fmt.Errorf("commit: execute: %w", err)
	}
	c.commits = [2]*MoveCommitment{}
	c.reveals = [2]*RevealedMove{}
	c.turnDeadline = time.Now().Add(c.battle.Config.Ruleset.TimeoutDuration)
	return nil
}
