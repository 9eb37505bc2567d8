// client.go - SRP-6a client state machine: C0 -> C1 -> C2 -> C3
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"fmt"
	"math/big"
)

// ClientSession is the bare client stage (C0), holding only the routines
// a login attempt will run against. Each call to Step1 starts an
// independent attempt; C0 itself is reusable and safe to share the way
// SRPRoutines is, since it carries no per-attempt state.
type ClientSession struct {
	r *SRPRoutines
}

// NewClientSession creates a C0 client stage bound to r.
func NewClientSession(r *SRPRoutines) *ClientSession {
	return &ClientSession{r: r}
}

// ClientSession1 is the client stage after Step1 (C1): it holds the
// identity and password for this attempt. Step2 consumes it exactly
// once.
type ClientSession1 struct {
	r        *SRPRoutines
	identity string
	password string
	done     bool
}

// Step1 validates and stores the identity/password for this login
// attempt. identity is trimmed and must be non-empty; password must be
// non-empty.
func (c *ClientSession) Step1(identity, password string) (*ClientSession1, error) {
	trimmed := trimIdentity(identity)
	if trimmed == "" {
		return nil, fmt.Errorf("srp: client step1: empty identity: %w", ErrBadArgument)
	}
	if password == "" {
		return nil, fmt.Errorf("srp: client step1: empty password: %w", ErrBadArgument)
	}

	return &ClientSession1{r: c.r, identity: trimmed, password: password}, nil
}

// ClientSession2 is the client stage after Step2 (C2): it holds the
// client's public ephemeral A, the evidence M1 to send the server, and
// the premaster secret S (from which the encryption layer derives its
// keys). Step3 consumes it exactly once.
type ClientSession2 struct {
	r    *SRPRoutines
	a    *big.Int
	xA   *big.Int
	xM1  *big.Int
	s    *big.Int
	salt []byte
	done bool
	*cipherSession
}

// A returns the client's public ephemeral value to send to the server.
func (c *ClientSession2) A() *big.Int { return c.xA }

// M1 returns the client evidence to send to the server alongside A.
func (c *ClientSession2) M1() *big.Int { return c.xM1 }

// Step2 runs the client side of the handshake's second message: it
// derives the ephemeral private a, the public A, the scrambler u, the
// premaster S and the client evidence M1, given the server's salt and
// public ephemeral B.
//
// s and B must be non-nil; B mod N == 0 fails with
// ErrBadServerPublicValue. u == 0 fails with ErrBadScrambler.
func (c *ClientSession1) Step2(salt []byte, B *big.Int) (*ClientSession2, error) {
	if c.done {
		return nil, fmt.Errorf("srp: client step2: %w", ErrSessionConsumed)
	}
	if salt == nil || B == nil {
		return nil, fmt.Errorf("srp: client step2: nil salt or B: %w", ErrBadArgument)
	}
	c.done = true

	r := c.r
	p := r.Parameters()
	if !r.isInDomain(B) {
		return nil, fmt.Errorf("srp: client step2: B out of domain: %w", ErrBadArgument)
	}
	if !r.isValidPublicValue(B) {
		return nil, fmt.Errorf("srp: client step2: B mod N == 0: %w", ErrBadServerPublicValue)
	}

	a, err := r.generatePrivateValue()
	if err != nil {
		return nil, fmt.Errorf("srp: client step2: %w", err)
	}
	A, err := r.computeClientPublicValue(a)
	if err != nil {
		return nil, fmt.Errorf("srp: client step2: %w", err)
	}
	if !r.isValidPublicValue(A) {
		return nil, fmt.Errorf("srp: client step2: A mod N == 0: %w", ErrBadServerPublicValue)
	}

	u := r.computeU(A, B)
	if u.Sign() == 0 {
		return nil, fmt.Errorf("srp: client step2: u == 0: %w", ErrBadScrambler)
	}

	k := r.computeK()
	x := r.computeX(c.identity, c.password, salt)

	S, err := r.computeClientPremaster(k, x, u, a, B)
	if err != nil {
		return nil, fmt.Errorf("srp: client step2: %w", err)
	}

	M1 := r.computeM1(A, B, S)

	zeroBigInt(x)

	return &ClientSession2{
		r:             r,
		a:             a,
		xA:            A,
		xM1:           M1,
		s:             S,
		salt:          salt,
		cipherSession: newCipherSession(p, S, ModeLegacyStream),
	}, nil
}

// ClientSession3 is the terminal client stage (C3): the handshake
// succeeded and S is confirmed identical on both sides.
type ClientSession3 struct {
	*cipherSession
	s *big.Int
}

// S returns the shared premaster secret.
func (c *ClientSession3) S() *big.Int { return c.s }

// Step3 validates the server's evidence M2 against the client's own
// recomputation. On success it returns the terminal C3 stage; on
// mismatch it fails with ErrBadServerEvidence and the session must be
// discarded.
func (c *ClientSession2) Step3(serverM2 *big.Int) (*ClientSession3, error) {
	if c.done {
		return nil, fmt.Errorf("srp: client step3: %w", ErrSessionConsumed)
	}
	if serverM2 == nil {
		return nil, fmt.Errorf("srp: client step3: nil M2: %w", ErrBadArgument)
	}
	c.done = true

	expected := c.r.computeM2(c.xA, c.xM1, c.s)
	if !constantTimeEqual(expected.Bytes(), serverM2.Bytes()) {
		return nil, fmt.Errorf("srp: client step3: %w", ErrBadServerEvidence)
	}

	zeroBigInt(c.a)

	return &ClientSession3{cipherSession: c.cipherSession, s: c.s}, nil
}

// SetEncryptionMode switches this session's encryption layer to mode.
// Call it before the first Encrypt/Decrypt; it must be called
// identically on both sides of the session.
func (c *ClientSession2) SetEncryptionMode(mode EncryptionMode) {
	c.cipherSession = newCipherSession(c.cipherSession.p, c.s, mode)
}

// SetEncryptionMode is ClientSession2.SetEncryptionMode's C3 counterpart.
func (c *ClientSession3) SetEncryptionMode(mode EncryptionMode) {
	c.cipherSession = newCipherSession(c.cipherSession.p, c.s, mode)
}

// EncryptString is Encrypt with a UTF-8 encode of s.
func (c *ClientSession2) EncryptString(s string) (*Encrypted, error) {
	return c.Encrypt([]byte(s))
}

// EncryptString is ClientSession2.EncryptString's C3 counterpart.
func (c *ClientSession3) EncryptString(s string) (*Encrypted, error) {
	return c.Encrypt([]byte(s))
}

func trimIdentity(identity string) string {
	start, end := 0, len(identity)
	for start < end && isSpace(identity[start]) {
		start++
	}
	for end > start && isSpace(identity[end-1]) {
		end--
	}
	return identity[start:end]
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// zeroBigInt overwrites x's internal representation with zero bytes.
// The client zeroes x once Step2 has computed S, and a once Step3
// succeeds, as a matter of hygiene, even though Go's garbage collector
// -- not this call -- is what ultimately reclaims the memory. The
// password P is a Go string and is not overwritten, and the server's b
// is not zeroed: one ServerSession1 reuses it for every A it verifies.
func zeroBigInt(x *big.Int) {
	if x == nil {
		return
	}
	bits := x.Bits()
	for i := range bits {
		bits[i] = 0
	}
	x.SetInt64(0)
}
