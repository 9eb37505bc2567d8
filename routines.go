// routines.go - stateless SRP-6a formulas bound to a parameter set
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"fmt"
	"math/big"
)

// minEphemeralBits is the minimum entropy spec.md requires for a and b.
const minEphemeralBits = 256

// minSaltBytes is the minimum salt length generateRandomSalt will use
// when the hash's own digest length is smaller.
const minSaltBytes = 16

// SRPRoutines is a stateless service bound to one SRPParameters. Every
// method is a pure function of its arguments and p; SRPRoutines carries
// no mutable state and is safe for concurrent use.
type SRPRoutines struct {
	p *SRPParameters
}

// NewRoutines binds a stateless routines service to p.
func NewRoutines(p *SRPParameters) *SRPRoutines {
	return &SRPRoutines{p: p}
}

// Parameters returns the parameter set this routines instance is bound
// to.
func (r *SRPRoutines) Parameters() *SRPParameters { return r.p }

// computeK computes the multiplier k = H(PAD(N) || PAD(g)).
func (r *SRPRoutines) computeK() *big.Int {
	p := r.p
	return p.hashPaddedInt(p.Nbytes, p.N.Bytes(), p.G.Bytes())
}

// computeX computes the private key x = H(s || H(I || ":" || P)). The
// inner hash is over raw UTF-8 bytes; the outer hash prepends the raw
// (unpadded) salt, matching RFC 5054 / RFC 2945.
func (r *SRPRoutines) computeX(I, P string, s []byte) *big.Int {
	inner := r.p.hashBytes([]byte(I), []byte(":"), []byte(P))
	return r.p.hashInt(s, inner)
}

// computeVerifier computes v = g^x mod N.
func (r *SRPRoutines) computeVerifier(x *big.Int) (*big.Int, error) {
	return modPow(r.p.G, x, r.p.N)
}

// computeU computes the scrambler u = H(PAD(A) || PAD(B)).
func (r *SRPRoutines) computeU(A, B *big.Int) *big.Int {
	p := r.p
	return p.hashPaddedInt(p.Nbytes, A.Bytes(), B.Bytes())
}

// computeClientPublicValue computes A = g^a mod N.
func (r *SRPRoutines) computeClientPublicValue(a *big.Int) (*big.Int, error) {
	return modPow(r.p.G, a, r.p.N)
}

// computeServerPublicValue computes B = (k*v + g^b) mod N.
func (r *SRPRoutines) computeServerPublicValue(k, v, b *big.Int) (*big.Int, error) {
	gb, err := modPow(r.p.G, b, r.p.N)
	if err != nil {
		return nil, err
	}
	B := new(big.Int).Mul(k, v)
	B.Add(B, gb)
	B.Mod(B, r.p.N)
	return B, nil
}

// computeClientPremaster computes S = (B - k*g^x)^(a + u*x) mod N.
func (r *SRPRoutines) computeClientPremaster(k, x, u, a, B *big.Int) (*big.Int, error) {
	gx, err := modPow(r.p.G, x, r.p.N)
	if err != nil {
		return nil, err
	}
	base := new(big.Int).Mul(k, gx)
	base.Sub(B, base)
	base.Mod(base, r.p.N)

	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, a)

	return modPow(base, exp, r.p.N)
}

// computeServerPremaster computes S = (A * v^u)^b mod N.
func (r *SRPRoutines) computeServerPremaster(v, u, A, b *big.Int) (*big.Int, error) {
	vu, err := modPow(v, u, r.p.N)
	if err != nil {
		return nil, err
	}
	base := new(big.Int).Mul(A, vu)
	base.Mod(base, r.p.N)
	return modPow(base, b, r.p.N)
}

// computeM1 computes the client evidence M1 = H(PAD(A) || PAD(B) || PAD(S)).
func (r *SRPRoutines) computeM1(A, B, S *big.Int) *big.Int {
	p := r.p
	return p.hashPaddedInt(p.Nbytes, A.Bytes(), B.Bytes(), S.Bytes())
}

// computeM2 computes the server evidence M2 = H(PAD(A) || M1 || PAD(S)).
func (r *SRPRoutines) computeM2(A, M1, S *big.Int) *big.Int {
	p := r.p
	return p.hashPaddedInt(p.Nbytes, A.Bytes(), M1.Bytes(), S.Bytes())
}

// computeSessionKey computes the session key K = H(PAD(S)).
func (r *SRPRoutines) computeSessionKey(S *big.Int) []byte {
	return r.p.hashPadded(r.p.Nbytes, S.Bytes())
}

// generateRandomSalt returns a random salt. byteLen <= 0 selects the
// hash's own digest length, floored at minSaltBytes.
func (r *SRPRoutines) generateRandomSalt(byteLen int) ([]byte, error) {
	if byteLen <= 0 {
		byteLen = r.p.hashLen()
		if byteLen < minSaltBytes {
			byteLen = minSaltBytes
		}
	}
	return generateRandomBytes(byteLen)
}

// generatePrivateValue returns a random ephemeral private value (a or b):
// at least minEphemeralBits bits of entropy and strictly within [1, N-1].
// Each draw is max(Nbytes, 32) random bytes; a draw outside [1, N-1] is
// discarded, and after 16 discarded draws it fails with ErrBadArgument.
// The share of discarded draws depends on N's leading bits: about a
// third for the 2048-bit group, whose N begins 0xAC.
func (r *SRPRoutines) generatePrivateValue() (*big.Int, error) {
	nbytes := r.p.Nbytes
	minBytes := (minEphemeralBits + 7) / 8
	if nbytes < minBytes {
		nbytes = minBytes
	}

	one := big.NewInt(1)
	upper := new(big.Int).Sub(r.p.N, one)
	for i := 0; i < 16; i++ {
		v, err := generateRandomBigInt(nbytes)
		if err != nil {
			return nil, err
		}
		if v.Sign() > 0 && v.Cmp(upper) <= 0 {
			return v, nil
		}
	}
	return nil, fmt.Errorf("srp: generatePrivateValue: could not draw value in range: %w", ErrBadArgument)
}

// isValidPublicValue reports whether x mod N != 0, the validity test
// applied to both A (server-side) and B (client-side).
func (r *SRPRoutines) isValidPublicValue(x *big.Int) bool {
	return new(big.Int).Mod(x, r.p.N).Sign() != 0
}

// isInDomain reports whether x is a non-negative integer strictly less
// than N, the domain every big-integer protocol input must satisfy.
func (r *SRPRoutines) isInDomain(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(r.p.N) < 0
}
