// Package rngoracle provides engine.Rng implementations. The deterministic
// oracle derives every output from Keccak256 the same way engine derives
// BattleKey and commit hashes, so a deployment that wants a verifiable
// source of randomness (a VRF, a later-revealed block hash) only has to
// plug its output in as the seed.
package rngoracle

import "golang.org/x/crypto/sha3"

// Deterministic is an engine.Rng that hashes its input seed with an
// instance-specific pepper, so repeated calls with the same seed always
// produce the same output (the engine's only contract) while two
// Deterministic instances with different peppers diverge — useful for
// giving every test its own oracle without reusing raw seeds verbatim.
type Deterministic struct {
	pepper [32]byte
}

// NewDeterministic returns a Deterministic oracle salted with pepper.
func NewDeterministic(pepper [32]byte) *Deterministic {
	return &Deterministic{pepper: pepper}
}

// GetRng implements engine.Rng.
func (d *Deterministic) GetRng(seed [32]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(seed[:])
	h.Write(d.pepper[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Identity is an engine.Rng that returns its input unchanged — useful in
// tests that want to control the seed (and therefore every downstream roll)
// directly without an extra hashing step in between.
type Identity struct{}

// GetRng implements engine.Rng.
func (Identity) GetRng(seed [32]byte) [32]byte { return seed }
