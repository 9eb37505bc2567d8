// routines_test.go - stateless SRP-6a formulas
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"crypto"
	"math/big"
	"testing"
)

func TestGeneratePrivateValueEntropyAndRange(t *testing.T) {
	r := NewRoutines(DefaultParameters())
	for i := 0; i < 8; i++ {
		v, err := r.generatePrivateValue()
		if err != nil {
			t.Fatalf("generatePrivateValue: %v", err)
		}
		if v.Sign() <= 0 {
			t.Fatalf("expected strictly positive value, got %v", v)
		}
		if v.Cmp(r.Parameters().N) >= 0 {
			t.Fatalf("value not less than N")
		}
		if v.BitLen() < minEphemeralBits-8 {
			// Allow a little slack: a uniformly random draw occasionally
			// has a handful of leading zero bits.
			t.Fatalf("ephemeral has too little entropy: %d bits", v.BitLen())
		}
	}
}

func TestIsValidPublicValue(t *testing.T) {
	r := NewRoutines(DefaultParameters())
	if r.isValidPublicValue(big.NewInt(0)) {
		t.Fatal("0 should be invalid")
	}
	if r.isValidPublicValue(r.Parameters().N) {
		t.Fatal("N (0 mod N) should be invalid")
	}
	if !r.isValidPublicValue(big.NewInt(1)) {
		t.Fatal("1 should be valid")
	}
}

func TestComputeKIsDeterministic(t *testing.T) {
	r := NewRoutines(DefaultParameters())
	k1 := r.computeK()
	k2 := r.computeK()
	if k1.Cmp(k2) != 0 {
		t.Fatal("computeK should be a pure function of parameters")
	}
}

func TestComputeXIsDeterministicAndPasswordSensitive(t *testing.T) {
	r := NewRoutines(DefaultParameters())
	salt := []byte{0xBE, 0xB2, 0x53, 0x79}

	x1 := r.computeX("alice", "password123", salt)
	x2 := r.computeX("alice", "password123", salt)
	if x1.Cmp(x2) != 0 {
		t.Fatal("computeX should be deterministic given the same inputs")
	}

	x3 := r.computeX("alice", "password124", salt)
	if x1.Cmp(x3) == 0 {
		t.Fatal("different passwords should not collide")
	}
}

func TestGenerateRandomSaltDefaultLength(t *testing.T) {
	r := NewRoutines(DefaultParameters())
	s, err := r.generateRandomSalt(0)
	if err != nil {
		t.Fatalf("generateRandomSalt: %v", err)
	}
	if len(s) != r.Parameters().hashLen() {
		t.Fatalf("expected salt length %d, got %d", r.Parameters().hashLen(), len(s))
	}
}

func TestGenerateRandomSaltMinimumFloor(t *testing.T) {
	r := NewRoutines(mustSHA1Params(t))
	s, err := r.generateRandomSalt(0)
	if err != nil {
		t.Fatalf("generateRandomSalt: %v", err)
	}
	if len(s) < minSaltBytes {
		t.Fatalf("salt shorter than the %d-byte floor: %d", minSaltBytes, len(s))
	}
}

func mustSHA1Params(t *testing.T) *SRPParameters {
	t.Helper()
	p, err := NewParameters(1024, crypto.SHA1)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	return p
}
