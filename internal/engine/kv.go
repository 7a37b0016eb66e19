package engine

import "math/big"

// Uint192Max is the largest value a KV slot can legally hold.
var Uint192Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 192), big.NewInt(1))

// kvStore is the flat (key -> value) map described in spec.md §4.6. It is
// scoped to a single Battle; the Battle owns one instance. Reads of absent
// keys return zero rather than an error.
type kvStore struct {
	values map[[32]byte]*big.Int
}

func newKVStore() *kvStore {
	return &kvStore{values: make(map[[32]byte]*big.Int)}
}

// Get returns the stored value for key, or zero if never written.
func (s *kvStore) Get(key [32]byte) *big.Int {
	if v, ok := s.values[key]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

// Set writes value for key, clamped into [0, Uint192Max]. Writes are
// authenticated by the caller (engine primitives are only reachable from
// within execute, by registered moves/effects/abilities or the engine
// itself — see context.go's BattleContext).
func (s *kvStore) Set(key [32]byte, value *big.Int) {
	clamped := new(big.Int).Set(value)
	if clamped.Sign() < 0 {
		clamped.SetInt64(0)
	}
	if clamped.Cmp(Uint192Max) > 0 {
		clamped.Set(Uint192Max)
	}
	s.values[key] = clamped
}

// SetUint64 is a convenience wrapper for the overwhelmingly common case of
// small counters (burn degree, turn counters, boolean markers).
func (s *kvStore) SetUint64(key [32]byte, value uint64) {
	s.Set(key, new(big.Int).SetUint64(value))
}

// GetUint64 truncates the stored value to uint64, which is safe for every
// value this engine itself ever writes via SetUint64.
func (s *kvStore) GetUint64(key [32]byte) uint64 {
	return s.Get(key).Uint64()
}
