// crypt.go - post-handshake authenticated encryption over the premaster
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ivLen is the IV length for the legacy stream construction.
const ivLen = 16

// tagLen is the truncated-MAC tag length for the legacy stream
// construction.
const tagLen = 16

// EncryptionMode selects how a session derives its encryption key and
// which cipher it uses. The zero value, ModeLegacyStream, is this
// package's wire-compatible default (spec-mandated); the others are
// opt-in and must be selected identically on both ends of a session.
type EncryptionMode int

const (
	// ModeLegacyStream derives encKey/macKey from the raw, unpadded
	// premaster S and authenticates with a truncated keyed hash. This is
	// the default and the only mode that is wire-compatible across
	// implementations that don't negotiate a mode out of band.
	ModeLegacyStream EncryptionMode = iota

	// ModeHKDFStream is ModeLegacyStream's cipher construction, but keys
	// are derived via HKDF over K = H(PAD(S)) instead of raw S. Use this
	// for new deployments per the design note recommending a proper KDF.
	ModeHKDFStream

	// ModeChaCha20Poly1305 replaces the legacy stream+tag construction
	// with a real AEAD (golang.org/x/crypto/chacha20poly1305), keyed via
	// HKDF over K. The wire format differs: a 12-byte nonce instead of a
	// 16-byte IV, and a combined ciphertext+tag produced by the AEAD
	// itself rather than the hand-rolled truncated hash.
	ModeChaCha20Poly1305
)

// Encrypted is the wire pair a caller sends: IV (or nonce, for AEAD
// modes) and the ciphertext with its authentication tag appended.
type Encrypted struct {
	IV         []byte
	Ciphertext []byte
}

// cipherSession is the shared encryption state both the client's C2/C3
// and the server's S2 embed once they hold S. It derives keys lazily on
// first use and caches them for the life of the session.
type cipherSession struct {
	p    *SRPParameters
	mode EncryptionMode
	s    *big.Int // premaster secret

	encKey []byte
	macKey []byte
}

func newCipherSession(p *SRPParameters, s *big.Int, mode EncryptionMode) *cipherSession {
	return &cipherSession{p: p, mode: mode, s: s}
}

// keys derives (and caches) encKey/macKey for this session's mode.
func (c *cipherSession) keys() ([]byte, []byte, error) {
	if c.encKey != nil {
		return c.encKey, c.macKey, nil
	}

	var encKey, macKey []byte
	switch c.mode {
	case ModeLegacyStream:
		sBytes := c.s.Bytes()
		encKey = c.p.hashBytes(sBytes, []byte("encryption"))
		macKey = c.p.hashBytes(sBytes, []byte("authentication"))

	case ModeHKDFStream:
		K := c.p.hashPadded(c.p.Nbytes, c.s.Bytes())
		hashLen := c.p.hashLen()
		kdf := hkdf.New(c.p.H.New, K, nil, []byte("srp6a session keys"))
		encKey = make([]byte, hashLen)
		macKey = make([]byte, hashLen)
		if _, err := io.ReadFull(kdf, encKey); err != nil {
			return nil, nil, fmt.Errorf("srp: hkdf encKey: %w", err)
		}
		if _, err := io.ReadFull(kdf, macKey); err != nil {
			return nil, nil, fmt.Errorf("srp: hkdf macKey: %w", err)
		}

	case ModeChaCha20Poly1305:
		K := c.p.hashPadded(c.p.Nbytes, c.s.Bytes())
		kdf := hkdf.New(c.p.H.New, K, nil, []byte("srp6a chacha20poly1305 key"))
		encKey = make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(kdf, encKey); err != nil {
			return nil, nil, fmt.Errorf("srp: hkdf encKey: %w", err)
		}
		macKey = nil

	default:
		return nil, nil, fmt.Errorf("srp: unknown encryption mode %d: %w", c.mode, ErrBadArgument)
	}

	c.encKey, c.macKey = encKey, macKey
	return encKey, macKey, nil
}

// Encrypt encrypts plaintext under this session's derived key, drawing a
// fresh IV/nonce from the CSPRNG.
func (c *cipherSession) Encrypt(plaintext []byte) (*Encrypted, error) {
	switch c.mode {
	case ModeChaCha20Poly1305:
		return c.encryptAEAD(plaintext)
	default:
		return c.encryptLegacyStream(plaintext)
	}
}

// Decrypt recovers plaintext from iv and ciphertext+tag under this
// session's derived key.
func (c *cipherSession) Decrypt(iv, ciphertext []byte) ([]byte, error) {
	switch c.mode {
	case ModeChaCha20Poly1305:
		return c.decryptAEAD(iv, ciphertext)
	default:
		return c.decryptLegacyStream(iv, ciphertext)
	}
}

// DecryptToString is Decrypt with a UTF-8 decode of the recovered bytes.
func (c *cipherSession) DecryptToString(iv, ciphertext []byte) (string, error) {
	b, err := c.Decrypt(iv, ciphertext)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// encryptLegacyStream implements the spec-mandated fallback cipher:
// keystream byte i = encKey[i % len(encKey)] XOR IV[i % 16]; tag is the
// first 16 bytes of H(macKey || IV || ciphertext).
func (c *cipherSession) encryptLegacyStream(plaintext []byte) (*Encrypted, error) {
	encKey, macKey, err := c.keys()
	if err != nil {
		return nil, err
	}

	iv, err := generateRandomBytes(ivLen)
	if err != nil {
		return nil, err
	}

	ciphertext := xorKeystream(plaintext, encKey, iv)
	tag := c.p.hashBytes(macKey, iv, ciphertext)[:tagLen]

	return &Encrypted{IV: iv, Ciphertext: append(ciphertext, tag...)}, nil
}

func (c *cipherSession) decryptLegacyStream(iv, ciphertextWithTag []byte) ([]byte, error) {
	if len(ciphertextWithTag) < tagLen {
		return nil, fmt.Errorf("srp: decrypt: ciphertext shorter than tag: %w", ErrShortCiphertext)
	}
	encKey, macKey, err := c.keys()
	if err != nil {
		return nil, err
	}

	split := len(ciphertextWithTag) - tagLen
	ciphertext := ciphertextWithTag[:split]
	receivedTag := ciphertextWithTag[split:]

	expectedTag := c.p.hashBytes(macKey, iv, ciphertext)[:tagLen]
	if !constantTimeEqual(expectedTag, receivedTag) {
		return nil, fmt.Errorf("srp: decrypt: tag mismatch: %w", ErrAuthTagMismatch)
	}

	return xorKeystream(ciphertext, encKey, iv), nil
}

// xorKeystream XORs data against the periodic keystream
// encKey[i%len(encKey)] XOR iv[i%len(iv)].
func xorKeystream(data, encKey, iv []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ encKey[i%len(encKey)] ^ iv[i%len(iv)]
	}
	return out
}

// encryptAEAD implements the opt-in ChaCha20-Poly1305 mode. The "IV" here
// is the AEAD's 12-byte nonce; the returned ciphertext already carries
// Poly1305's tag appended (as the AEAD construction itself does), so no
// extra tag step is needed.
func (c *cipherSession) encryptAEAD(plaintext []byte) (*Encrypted, error) {
	encKey, _, err := c.keys()
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(encKey[:chacha20poly1305.KeySize])
	if err != nil {
		return nil, fmt.Errorf("srp: chacha20poly1305: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("srp: random nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	return &Encrypted{IV: nonce, Ciphertext: ciphertext}, nil
}

func (c *cipherSession) decryptAEAD(nonce, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20poly1305.Overhead {
		return nil, fmt.Errorf("srp: decrypt: ciphertext shorter than AEAD overhead: %w", ErrShortCiphertext)
	}
	encKey, _, err := c.keys()
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(encKey[:chacha20poly1305.KeySize])
	if err != nil {
		return nil, fmt.Errorf("srp: chacha20poly1305: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("srp: decrypt: %w: %v", ErrAuthTagMismatch, err)
	}
	return plaintext, nil
}
