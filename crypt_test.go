// crypt_test.go - post-handshake encryption layer
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"bytes"
	"errors"
	"testing"
)

func handshakeSessions(t *testing.T) (*ClientSession3, *ServerSession2) {
	t.Helper()
	p := DefaultParameters()
	r, v := newServerVerifier(t, p, "bob", "correct-horse-battery-staple")
	c3, s2, err := runHandshake(r, "bob", "correct-horse-battery-staple", v)
	if err != nil {
		t.Fatalf("handshake: %v", err)
	}
	return c3, s2
}

func TestBinaryRoundTrip(t *testing.T) {
	c3, s2 := handshakeSessions(t)

	plaintext := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0xFF, 0x80, 0x00}

	enc, err := c3.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	got, err := s2.Decrypt(enc.IV, enc.Ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %x want %x", got, plaintext)
	}
}

func TestTamperDetection(t *testing.T) {
	c3, s2 := handshakeSessions(t)

	enc, err := c3.EncryptString("Secret message")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	tampered := append([]byte(nil), enc.Ciphertext...)
	tampered[0] ^= 0x01 << 7 // flip bit 7 of ciphertext[0]

	_, err = s2.Decrypt(enc.IV, tampered)
	if !errors.Is(err, ErrAuthTagMismatch) {
		t.Fatalf("expected ErrAuthTagMismatch, got %v", err)
	}
}

func TestTamperDetectionInIV(t *testing.T) {
	c3, s2 := handshakeSessions(t)

	enc, err := c3.EncryptString("Secret message")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	tamperedIV := append([]byte(nil), enc.IV...)
	tamperedIV[0] ^= 0x01

	_, err = s2.Decrypt(tamperedIV, enc.Ciphertext)
	if !errors.Is(err, ErrAuthTagMismatch) {
		t.Fatalf("expected ErrAuthTagMismatch, got %v", err)
	}
}

func TestShortCiphertext(t *testing.T) {
	c3, _ := handshakeSessions(t)

	_, err := c3.Decrypt(make([]byte, ivLen), make([]byte, tagLen-1))
	if !errors.Is(err, ErrShortCiphertext) {
		t.Fatalf("expected ErrShortCiphertext, got %v", err)
	}
}

func TestFuzzPlaintextLengths(t *testing.T) {
	c3, s2 := handshakeSessions(t)

	lengths := []int{0, 1, 15, 16, 17, 63, 64, 65, 65535, 65536, 65537}
	for _, n := range lengths {
		plaintext := make([]byte, n)
		for i := range plaintext {
			plaintext[i] = byte(i)
		}

		enc, err := c3.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("length %d: encrypt: %v", n, err)
		}
		if len(enc.Ciphertext) != n+tagLen {
			t.Fatalf("length %d: ciphertext field is %d bytes, want %d", n, len(enc.Ciphertext), n+tagLen)
		}

		got, err := s2.Decrypt(enc.IV, enc.Ciphertext)
		if err != nil {
			t.Fatalf("length %d: decrypt: %v", n, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("length %d: round trip mismatch", n)
		}
	}
}

func TestSuccessiveIVsAreDistinct(t *testing.T) {
	c3, _ := handshakeSessions(t)

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		enc, err := c3.Encrypt([]byte("hello"))
		if err != nil {
			t.Fatalf("encrypt %d: %v", i, err)
		}
		key := string(enc.IV)
		if seen[key] {
			t.Fatalf("IV repeated after %d encryptions", i)
		}
		seen[key] = true
	}
}

func TestHKDFStreamMode(t *testing.T) {
	c3, s2 := handshakeSessions(t)
	c3.SetEncryptionMode(ModeHKDFStream)
	s2.cipherSession = newCipherSession(s2.cipherSession.p, s2.s, ModeHKDFStream)

	enc, err := c3.EncryptString("modern derivation, legacy cipher")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := s2.DecryptToString(enc.IV, enc.Ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got != "modern derivation, legacy cipher" {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestChaCha20Poly1305Mode(t *testing.T) {
	c3, s2 := handshakeSessions(t)
	c3.SetEncryptionMode(ModeChaCha20Poly1305)
	s2.cipherSession = newCipherSession(s2.cipherSession.p, s2.s, ModeChaCha20Poly1305)

	plaintext := []byte("authenticated end to end")
	enc, err := c3.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(enc.IV) != 12 {
		t.Fatalf("expected 12-byte nonce, got %d", len(enc.IV))
	}

	got, err := s2.Decrypt(enc.IV, enc.Ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch")
	}

	tampered := append([]byte(nil), enc.Ciphertext...)
	tampered[0] ^= 0x01
	if _, err := s2.Decrypt(enc.IV, tampered); !errors.Is(err, ErrAuthTagMismatch) {
		t.Fatalf("expected ErrAuthTagMismatch, got %v", err)
	}
}

func TestEncryptionErrorsDoNotInvalidateSession(t *testing.T) {
	c3, s2 := handshakeSessions(t)

	enc, err := c3.EncryptString("first message")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	tampered := append([]byte(nil), enc.Ciphertext...)
	tampered[0] ^= 0xFF
	if _, err := s2.Decrypt(enc.IV, tampered); !errors.Is(err, ErrAuthTagMismatch) {
		t.Fatalf("expected tamper to be detected: %v", err)
	}

	// The same session secret S must still work for a fresh message.
	enc2, err := c3.EncryptString("second message")
	if err != nil {
		t.Fatalf("encrypt after prior decrypt failure: %v", err)
	}
	got, err := s2.DecryptToString(enc2.IV, enc2.Ciphertext)
	if err != nil {
		t.Fatalf("decrypt after prior failure: %v", err)
	}
	if got != "second message" {
		t.Fatalf("unexpected plaintext: %q", got)
	}
}

func TestXorKeystreamIsInvolution(t *testing.T) {
	encKey := bytes.Repeat([]byte{0xAB}, 5)
	iv := make([]byte, 16)
	for i := range iv {
		iv[i] = byte(i)
	}

	plaintext := []byte("round-trip through xorKeystream directly")
	ciphertext := xorKeystream(plaintext, encKey, iv)
	recovered := xorKeystream(ciphertext, encKey, iv)
	if !bytes.Equal(recovered, plaintext) {
		t.Fatalf("xorKeystream is not its own inverse")
	}
}
