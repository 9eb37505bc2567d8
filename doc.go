// doc.go - package documentation
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

// Package srp implements SRP-6a, the Secure Remote Password protocol
// revision 6a, per RFC 5054 and RFC 2945.
//
// SRP-6a is a password-authenticated key exchange: a client proves
// knowledge of a password to a server that stores only a verifier derived
// from it, and both sides walk away with an identical shared secret
// without the password (or a reversible function of it) ever crossing the
// wire.
//
// Conventions, matching http://srp.stanford.edu/design.html:
//
//	N    A large safe prime (N = 2q+1, where q is prime)
//	g    A generator modulo N
//	k    Multiplier parameter (k = H(N, PAD(g)))
//	s    User's salt
//	I    Username ("identity")
//	P    Cleartext password
//	H()  One-way hash function, pluggable (SHA-1/256/384/512, BLAKE2b-256)
//	^    (Modular) exponentiation
//	u    Random scrambling parameter
//	a,b  Secret ephemeral values
//	A,B  Public ephemeral values
//	x    Private key, derived from P and s
//	v    Password verifier
//
// Registration produces a verifier:
//
//	s = randomsalt()
//	x = H(s | H(I | ":" | P))
//	v = g^x % N
//
// The server stores {I, s, v}. Authentication runs:
//
//	Client                                Server
//	--------------                        ----------------
//	I, P = <user input>
//	                        I -->
//	                                       s, v = lookup(I)
//	                                       b = random()
//	                                       B = (k*v + g^b) % N
//	                    <-- s, B
//	a = random()
//	A = g^a % N
//	u = H(PAD(A), PAD(B))
//	x = H(s, H(I, ":", P))
//	S = ((B - k*g^x) ^ (a + u*x)) % N
//	M1 = H(PAD(A), PAD(B), PAD(S))
//	                   A, M1 -->
//	                                       u = H(PAD(A), PAD(B))
//	                                       S = ((A * v^u) ^ b) % N
//	                                       verify M1, abort if mismatch
//	                                       M2 = H(PAD(A), M1, PAD(S))
//	                    <-- M2
//	verify M2, abort if mismatch
//
// Both sides hold an identical S, from which the package's post-handshake
// encryption layer derives its keys (see Encrypt/Decrypt on the client and
// server session types). The default mode derives them from the raw,
// unpadded bytes of S; the opt-in HKDF and ChaCha20-Poly1305 modes derive
// them from K = H(PAD(S)).
//
// Safeguards, enforced throughout:
//
//  1. The client aborts if it receives B == 0 (mod N) or computes u == 0.
//  2. The server aborts if it detects A == 0 (mod N) or computes u == 0.
//  3. The client must present its proof (M1) first; if the server's check
//     fails, it never reveals its own proof (M2).
//
// Sessions are modeled as one-shot state machines (C0->C1->C2->C3 on the
// client, S0->S1->S2 on the server); each transition either returns the
// next stage or an error, and a consumed stage is not reusable.
package srp
