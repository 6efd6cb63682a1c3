// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package sec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T) *TemplateCipher {
	t.Helper()
	key := bytes.Repeat([]byte{0xA5}, 32)
	cipher, err := NewTemplateCipher(key)
	require.NoError(t, err)
	return cipher
}

func TestNewTemplateCipher(t *testing.T) {
	t.Run("rejects short keys", func(t *testing.T) {
		_, err := NewTemplateCipher([]byte("short"))
		assert.Error(t, err)
	})

	t.Run("rejects long keys", func(t *testing.T) {
		_, err := NewTemplateCipher(bytes.Repeat([]byte{1}, 64))
		assert.Error(t, err)
	})
}

func TestTemplateCipher_RoundTrip(t *testing.T) {
	cipher := newTestCipher(t)
	plaintext := []byte("512 floats worth of embedding data")

	envelope, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)

	// nonce(12) + ciphertext + tag(16)
	assert.Len(t, envelope, EnvelopeNonceSize+len(plaintext)+16)

	decrypted, err := cipher.Decrypt(envelope)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestTemplateCipher_NonceFreshness(t *testing.T) {
	cipher := newTestCipher(t)
	plaintext := []byte("same plaintext")

	first, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)
	second, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTemplateCipher_Decrypt_Failures(t *testing.T) {
	cipher := newTestCipher(t)

	t.Run("any flipped bit fails authentication", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("tamper target"))
		require.NoError(t, err)

		for i := range envelope {
			corrupted := make([]byte, len(envelope))
			copy(corrupted, envelope)
			corrupted[i] ^= 0x01

			_, err := cipher.Decrypt(corrupted)
			assert.ErrorIs(t, err, ErrDecrypt, "flipping byte %d must fail", i)
		}
	})

	t.Run("wrong key fails authentication", func(t *testing.T) {
		envelope, err := cipher.Encrypt([]byte("secret"))
		require.NoError(t, err)

		otherCipher, err := NewTemplateCipher(bytes.Repeat([]byte{0x5A}, 32))
		require.NoError(t, err)

		_, err = otherCipher.Decrypt(envelope)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("truncated envelope fails", func(t *testing.T) {
		_, err := cipher.Decrypt([]byte("too short"))
		assert.ErrorIs(t, err, ErrDecrypt)

		_, err = cipher.Decrypt(nil)
		assert.ErrorIs(t, err, ErrDecrypt)
	})
}
