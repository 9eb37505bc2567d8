// server.go - SRP-6a server state machine: S0 -> S1 -> S2 (per A)
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"fmt"
	"math/big"
	"sync"
)

// maxConcurrentVerifications bounds how many distinct client public
// values (A) a single ServerSession1 will track S2 state for at once. A
// legitimate client only ever has one A in flight; this exists to bound
// memory against a client that retries with many ephemerals, per
// spec.md's note that implementations "may also cap concurrent
// A-verifications to bound memory".
const maxConcurrentVerifications = 64

// ServerSession is the bare server stage (S0), holding only the
// routines. It is reusable across logins the way ClientSession is.
type ServerSession struct {
	r *SRPRoutines
}

// NewServerSession creates an S0 server stage bound to r.
func NewServerSession(r *SRPRoutines) *ServerSession {
	return &ServerSession{r: r}
}

// ServerSession1 is the server stage after Step1 (S1), indexed by the
// client identity it was opened for. It holds the stored salt/verifier
// and the server's ephemeral (b, B). Unlike the client side, a single S1
// may serve Step2 for multiple candidate A values concurrently -- a
// legitimate client retrying with a fresh ephemeral after its own
// transient failure -- so verified attempts are tracked in a per-A map
// rather than consuming S1 on first use.
type ServerSession1 struct {
	r        *SRPRoutines
	identity string
	salt     []byte
	v        *big.Int
	b        *big.Int
	xB       *big.Int

	mu       sync.Mutex
	sessions map[string]*ServerSession2
	order    []string
}

// B returns the server's public ephemeral value to send to the client
// alongside the stored salt.
func (s *ServerSession1) B() *big.Int { return s.xB }

// Step1 begins a server-side attempt for identity, given its stored
// (salt, verifier) pair. It draws the server's ephemeral b and computes
// B = (k*v + g^b) mod N, redrawing b if B happens to land on 0 mod N.
func (s *ServerSession) Step1(identity string, salt []byte, v *big.Int) (*ServerSession1, error) {
	if trimIdentity(identity) == "" {
		return nil, fmt.Errorf("srp: server step1: empty identity: %w", ErrBadArgument)
	}
	if salt == nil || v == nil {
		return nil, fmt.Errorf("srp: server step1: nil salt or verifier: %w", ErrBadArgument)
	}

	r := s.r
	k := r.computeK()

	var b, B *big.Int
	const maxRedraws = 8
	for i := 0; i < maxRedraws; i++ {
		var err error
		b, err = r.generatePrivateValue()
		if err != nil {
			return nil, fmt.Errorf("srp: server step1: %w", err)
		}
		B, err = r.computeServerPublicValue(k, v, b)
		if err != nil {
			return nil, fmt.Errorf("srp: server step1: %w", err)
		}
		if r.isValidPublicValue(B) {
			return &ServerSession1{
				r:        r,
				identity: trimIdentity(identity),
				salt:     salt,
				v:        v,
				b:        b,
				xB:       B,
				sessions: make(map[string]*ServerSession2),
			}, nil
		}
	}
	return nil, fmt.Errorf("srp: server step1: B degenerate after %d redraws: %w", maxRedraws, ErrBadArgument)
}

// ServerSession2 is the terminal per-A server stage: the client's
// evidence M1 checked out, S is agreed, and M2 is ready to send back.
type ServerSession2 struct {
	*cipherSession
	m2 *big.Int
	s  *big.Int
}

// M2 returns the server evidence to send back to the client.
func (s *ServerSession2) M2() *big.Int { return s.m2 }

// S returns the shared premaster secret.
func (s *ServerSession2) S() *big.Int { return s.s }

// Step2 runs the server side of the handshake's third message for a
// specific client public value A: it validates A, computes u and the
// premaster S, checks the client's evidence M1, and on success computes
// M2 and caches the resulting ServerSession2 keyed by A so EncryptFor /
// DecryptFor can find it later.
//
// A mod N == 0 fails with ErrBadClientPublicValue. u == 0 fails with
// ErrBadScrambler. A mismatched M1 fails with ErrBadClientEvidence,
// which is an authentication failure, not a protocol bug -- the caller
// should treat it as a failed login, not retry the same A.
func (s *ServerSession1) Step2(A, clientM1 *big.Int) (*ServerSession2, error) {
	if A == nil || clientM1 == nil {
		return nil, fmt.Errorf("srp: server step2: nil A or M1: %w", ErrBadArgument)
	}

	r := s.r
	if !r.isInDomain(A) {
		return nil, fmt.Errorf("srp: server step2: A out of domain: %w", ErrBadArgument)
	}
	if !r.isValidPublicValue(A) {
		return nil, fmt.Errorf("srp: server step2: A mod N == 0: %w", ErrBadClientPublicValue)
	}

	u := r.computeU(A, s.xB)
	if u.Sign() == 0 {
		return nil, fmt.Errorf("srp: server step2: u == 0: %w", ErrBadScrambler)
	}

	S, err := r.computeServerPremaster(s.v, u, A, s.b)
	if err != nil {
		return nil, fmt.Errorf("srp: server step2: %w", err)
	}

	expectedM1 := r.computeM1(A, s.xB, S)
	if !constantTimeEqual(expectedM1.Bytes(), clientM1.Bytes()) {
		return nil, fmt.Errorf("srp: server step2: %w", ErrBadClientEvidence)
	}

	M2 := r.computeM2(A, clientM1, S)

	session := &ServerSession2{
		cipherSession: newCipherSession(r.Parameters(), S, ModeLegacyStream),
		m2:            M2,
		s:             S,
	}
	s.cache(A, session)

	return session, nil
}

// cache stores session keyed by A, evicting the oldest entry once more
// than maxConcurrentVerifications distinct A values would be tracked.
// The evicted entry is the A that was cached first, whether or not its
// session is still in use. Only a successful Step2 reaches cache, so a
// failed verification never disturbs any cached session.
func (s *ServerSession1) cache(A *big.Int, session *ServerSession2) {
	key := A.Text(16)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[key]; !exists {
		if len(s.order) >= maxConcurrentVerifications {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.sessions, oldest)
		}
		s.order = append(s.order, key)
	}
	s.sessions[key] = session
}

// sessionFor returns the cached ServerSession2 for A, or
// ErrUnknownIdentity if Step2 was never called (or its result was
// evicted) for that A.
func (s *ServerSession1) sessionFor(A *big.Int) (*ServerSession2, error) {
	key := A.Text(16)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if !ok {
		return nil, fmt.Errorf("srp: no verified session for A: %w", ErrUnknownIdentity)
	}
	return session, nil
}

// EncryptFor encrypts data under the session previously verified for A.
func (s *ServerSession1) EncryptFor(A *big.Int, data []byte) (*Encrypted, error) {
	session, err := s.sessionFor(A)
	if err != nil {
		return nil, err
	}
	return session.Encrypt(data)
}

// DecryptFor decrypts iv/ciphertext under the session previously
// verified for A.
func (s *ServerSession1) DecryptFor(A *big.Int, iv, ciphertext []byte) ([]byte, error) {
	session, err := s.sessionFor(A)
	if err != nil {
		return nil, err
	}
	return session.Decrypt(iv, ciphertext)
}

// DecryptToStringFor is DecryptFor with a UTF-8 decode of the result.
func (s *ServerSession1) DecryptToStringFor(A *big.Int, iv, ciphertext []byte) (string, error) {
	b, err := s.DecryptFor(A, iv, ciphertext)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetEncryptionModeFor switches the cached session for A to mode. Must
// be called identically on both sides before the first Encrypt/Decrypt.
func (s *ServerSession1) SetEncryptionModeFor(A *big.Int, mode EncryptionMode) error {
	session, err := s.sessionFor(A)
	if err != nil {
		return err
	}
	session.cipherSession = newCipherSession(session.cipherSession.p, session.s, mode)
	return nil
}

// EncryptString is ServerSession2.Encrypt with a UTF-8 encode of s.
func (s *ServerSession2) EncryptString(str string) (*Encrypted, error) {
	return s.Encrypt([]byte(str))
}
