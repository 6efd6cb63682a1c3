// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package sec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// # Template Envelope

// EnvelopeNonceSize is the byte length of the random nonce prepended to
// every sealed envelope.
const EnvelopeNonceSize = 12

// ErrDecrypt is returned for every decryption failure mode: authentication
// tag mismatch, wrong key, or a truncated/malformed envelope.
//
// # Contract
//
// A failed decryption is a HARD failure. Callers must never downgrade it to
// "treat the template as unverifiable": a template that does not
// authenticate is either corrupt or tampered with.
var ErrDecrypt = errors.New("sec: envelope decryption failed")

// TemplateCipher seals and opens biometric template envelopes with
// AES-256-GCM under a single process-wide key.
//
// Wire format: nonce(12) ‖ ciphertext ‖ tag(16). No associated data is used.
type TemplateCipher struct {
	aead cipher.AEAD
}

// NewTemplateCipher builds a [TemplateCipher] from a 256-bit key.
func NewTemplateCipher(key []byte) (*TemplateCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("sec: template key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize GCM: %w", err)
	}

	return &TemplateCipher{aead: aead}, nil
}

// Encrypt seals plaintext into a fresh envelope.
//
// A new random 96-bit nonce is generated for every call, so encrypting the
// same plaintext twice yields different envelopes.
func (cipher *TemplateCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, EnvelopeNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("sec: failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext‖tag directly after the nonce prefix.
	return cipher.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens an envelope and returns the original plaintext.
//
// Returns [ErrDecrypt] if the envelope is shorter than nonce+tag, the
// authentication tag does not verify, or the key is wrong.
func (cipher *TemplateCipher) Decrypt(envelope []byte) ([]byte, error) {
	if len(envelope) < EnvelopeNonceSize+cipher.aead.Overhead() {
		return nil, ErrDecrypt
	}

	nonce := envelope[:EnvelopeNonceSize]
	ciphertext := envelope[EnvelopeNonceSize:]

	plaintext, err := cipher.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}
