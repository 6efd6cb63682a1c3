// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	t.Run("produces PHC format with password profile parameters", func(t *testing.T) {
		encoded, err := HashSecret("correct horse battery staple", ProfilePassword)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=3,p=2$"))
		assert.Len(t, strings.Split(encoded, "$"), 6)
	})

	t.Run("produces PHC format with PIN profile parameters", func(t *testing.T) {
		encoded, err := HashSecret("4812", ProfilePIN)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=32768,t=2,p=1$"))
	})

	t.Run("same secret hashes differently due to random salt", func(t *testing.T) {
		first, err := HashSecret("secret", ProfilePIN)
		require.NoError(t, err)
		second, err := HashSecret("secret", ProfilePIN)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestVerifySecret(t *testing.T) {
	passwordHash, err := HashSecret("hunter2-but-longer", ProfilePassword)
	require.NoError(t, err)
	pinHash, err := HashSecret("4812", ProfilePIN)
	require.NoError(t, err)

	t.Run("accepts the correct secret", func(t *testing.T) {
		assert.True(t, VerifySecret("hunter2-but-longer", passwordHash))
		assert.True(t, VerifySecret("4812", pinHash))
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		assert.False(t, VerifySecret("hunter3-but-longer", passwordHash))
		assert.False(t, VerifySecret("4813", pinHash))
	})

	t.Run("verifies regardless of profile using embedded parameters", func(t *testing.T) {
		// The PHC string is self-describing, so the verifier does not need
		// to know which profile produced it.
		assert.True(t, VerifySecret("4812", pinHash))
		assert.False(t, VerifySecret("4812", passwordHash))
	})

	t.Run("returns false for malformed hashes", func(t *testing.T) {
		testCases := []struct {
			name    string
			encoded string
		}{
			{name: "empty string", encoded: ""},
			{name: "not PHC at all", encoded: "plainly-not-a-hash"},
			{name: "wrong algorithm", encoded: "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
			{name: "wrong version", encoded: "$argon2id$v=16$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
			{name: "garbage parameters", encoded: "$argon2id$v=19$m=abc,t=3,p=2$c2FsdA$aGFzaA"},
			{name: "invalid salt base64", encoded: "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA"},
			{name: "invalid hash base64", encoded: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$!!!"},
			{name: "missing segments", encoded: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				assert.False(t, VerifySecret("anything", tc.encoded))
			})
		}
	})
}
