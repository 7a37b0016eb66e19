package rngoracle

import "testing"

func TestDeterministicSameSeedSameOutput(t *testing.T) {
	d := NewDeterministic([32]byte{1, 2, 3})
	seed := [32]byte{9, 9, 9}
	a := d.GetRng(seed)
	b := d.GetRng(seed)
	if a != b {
		t.Error("GetRng() is not deterministic for repeated calls with the same seed")
	}
}

func TestDeterministicDifferentPeppersDiverge(t *testing.T) {
	seed := [32]byte{9, 9, 9}
	a := NewDeterministic([32]byte{1}).GetRng(seed)
	b := NewDeterministic([32]byte{2}).GetRng(seed)
	if a == b {
		t.Error("two Deterministic oracles with different peppers produced the same output")
	}
}

func TestIdentityReturnsSeedUnchanged(t *testing.T) {
	seed := [32]byte{1, 2, 3, 4}
	if got := (Identity{}).GetRng(seed); got != seed {
		t.Errorf("Identity.GetRng() = %v, want unchanged seed %v", got, seed)
	}
}
