// errors.go - SRP-6a error taxonomy
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import "errors"

// Sentinel error kinds. Session methods wrap these with fmt.Errorf("srp:
// ...: %w", kind) so callers can still errors.Is against the kind while
// getting a message with call-specific detail.
var (
	// ErrBadArgument covers null/empty inputs and out-of-domain bigints
	// (negative, or not strictly less than N).
	ErrBadArgument = errors.New("bad argument")

	// ErrBadClientPublicValue is raised by the server when A mod N == 0.
	ErrBadClientPublicValue = errors.New("bad client public value")

	// ErrBadServerPublicValue is raised by the client when B mod N == 0.
	ErrBadServerPublicValue = errors.New("bad server public value")

	// ErrBadScrambler is raised by either side when u == 0.
	ErrBadScrambler = errors.New("bad scrambler")

	// ErrBadClientEvidence is raised by the server when the client's M1
	// does not match the server's recomputed M1. This is an
	// authentication failure, not a protocol bug.
	ErrBadClientEvidence = errors.New("bad client evidence")

	// ErrBadServerEvidence is raised by the client when the server's M2
	// does not match the client's recomputed M2 -- possible server
	// impersonation.
	ErrBadServerEvidence = errors.New("bad server evidence")

	// ErrShortCiphertext is raised by Decrypt when the ciphertext+tag is
	// shorter than the tag itself.
	ErrShortCiphertext = errors.New("short ciphertext")

	// ErrAuthTagMismatch is raised by Decrypt when the recomputed MAC
	// does not match the received tag. Callers should treat this as a
	// possible tampering signal.
	ErrAuthTagMismatch = errors.New("auth tag mismatch")

	// ErrSessionConsumed is raised when a one-shot session stage is used
	// more than once (e.g. calling step2 twice on the same C1).
	ErrSessionConsumed = errors.New("session stage already consumed")

	// ErrUnknownIdentity is raised by ServerSession1's EncryptFor,
	// DecryptFor, DecryptToStringFor and SetEncryptionModeFor when no
	// verified session is cached for the given A: Step2 never succeeded
	// for that A, or its cached session was evicted.
	ErrUnknownIdentity = errors.New("unknown identity or session")
)
