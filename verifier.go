// verifier.go - registration-time verifier creation and portable encoding
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Verifier is the registration-time output a server persists against an
// identity: the salt and the password verifier. It never holds the
// password or x.
type Verifier struct {
	Salt *big.Int
	V    *big.Int
}

// CreateVerifier runs the registration-time routine: given an identity
// and password, draw a fresh salt and derive the verifier v = g^x mod N.
// saltByteLen <= 0 selects the routines' default salt length.
//
// I must be non-empty after trimming whitespace; P must be non-empty.
// Both failures are ErrBadArgument.
func CreateVerifier(r *SRPRoutines, I, P string, saltByteLen int) (*Verifier, error) {
	if strings.TrimSpace(I) == "" {
		return nil, fmt.Errorf("srp: CreateVerifier: empty identity: %w", ErrBadArgument)
	}
	if P == "" {
		return nil, fmt.Errorf("srp: CreateVerifier: empty password: %w", ErrBadArgument)
	}

	s, err := r.generateRandomSalt(saltByteLen)
	if err != nil {
		return nil, fmt.Errorf("srp: CreateVerifier: salt: %w", err)
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("srp: CreateVerifier: nil salt: %w", ErrBadArgument)
	}

	// x is computed over the salt's minimal big-endian encoding, the same
	// bytes a server hands back via Salt.Bytes().
	salt := new(big.Int).SetBytes(s)
	x := r.computeX(I, P, salt.Bytes())
	v, err := r.computeVerifier(x)
	if err != nil {
		return nil, fmt.Errorf("srp: CreateVerifier: %w", err)
	}

	return &Verifier{
		Salt: salt,
		V:    v,
	}, nil
}

// Encode renders the verifier as a colon-joined record suitable for
// storage: "<Nbytes>:<hash>:<salt>:<v>", with Nbytes and the crypto.Hash
// identifier in decimal and salt and v in hex. p identifies the parameter set
// the verifier was computed under, which DecodeVerifier needs to rebuild
// an SRPParameters to match against.
func (v *Verifier) Encode(p *SRPParameters) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(p.Nbytes))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(p.H)))
	b.WriteByte(':')
	b.WriteString(hex.EncodeToString(v.Salt.Bytes()))
	b.WriteByte(':')
	b.WriteString(hex.EncodeToString(v.V.Bytes()))
	return b.String()
}

// DecodeVerifier parses a record produced by Verifier.Encode, returning
// both the reconstructed SRPParameters and the Verifier.
func DecodeVerifier(encoded string) (*SRPParameters, *Verifier, error) {
	fields := strings.Split(encoded, ":")
	if len(fields) != 4 {
		return nil, nil, fmt.Errorf("srp: DecodeVerifier: expected 4 fields, saw %d: %w", len(fields), ErrBadArgument)
	}

	nbytes, err := strconv.Atoi(fields[0])
	if err != nil || nbytes <= 0 {
		return nil, nil, fmt.Errorf("srp: DecodeVerifier: bad Nbytes field %q: %w", fields[0], ErrBadArgument)
	}
	hv, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, nil, fmt.Errorf("srp: DecodeVerifier: bad hash field %q: %w", fields[1], ErrBadArgument)
	}

	p, err := NewParameters(nbytes*8, hashFromInt(hv))
	if err != nil {
		return nil, nil, fmt.Errorf("srp: DecodeVerifier: %w", err)
	}

	salt, err := hex.DecodeString(fields[2])
	if err != nil {
		return nil, nil, fmt.Errorf("srp: DecodeVerifier: bad salt: %w", ErrBadArgument)
	}
	vBytes, err := hex.DecodeString(fields[3])
	if err != nil {
		return nil, nil, fmt.Errorf("srp: DecodeVerifier: bad verifier: %w", ErrBadArgument)
	}

	return p, &Verifier{
		Salt: new(big.Int).SetBytes(salt),
		V:    new(big.Int).SetBytes(vBytes),
	}, nil
}
