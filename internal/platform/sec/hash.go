// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, the
// biometric template envelope) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// # Credential Hashing

// HashProfile bundles the argon2id cost parameters for one credential class.
//
// Two fixed profiles exist: [ProfilePassword] carries the full memory-hard
// cost, while [ProfilePIN] is deliberately cheaper. For PINs the lockout
// guard is the brute-force defense, not the hash cost.
type HashProfile struct {
	Time        uint32
	Memory      uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var (
	// ProfilePassword is the high-cost profile for account passwords.
	ProfilePassword = HashProfile{
		Time:        3,
		Memory:      64 * 1024,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}

	// ProfilePIN is the reduced-cost, shorter-output profile for numeric PINs.
	ProfilePIN = HashProfile{
		Time:        2,
		Memory:      32 * 1024,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
)

// HashSecret hashes a plain-text secret with argon2id under the given profile.
//
// The result is a self-describing PHC-format string
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash), so verification does not need
// to know which profile produced it.
func HashSecret(secret string, profile HashProfile) (string, error) {
	salt := make([]byte, profile.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(secret),
		salt,
		profile.Time,
		profile.Memory,
		profile.Parallelism,
		profile.KeyLength,
	)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		profile.Memory,
		profile.Time,
		profile.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// VerifySecret compares a plain-text secret against a PHC-encoded hash.
//
// # Contract
//
// It returns false for ANY failure mode (mismatch, malformed hash,
// unsupported algorithm or version) and never panics or returns an error.
// Callers can therefore treat the result as a pure yes/no authentication
// signal.
func VerifySecret(secret, encodedHash string) bool {
	params, salt, hash, err := decodePHC(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(secret),
		salt,
		params.Time,
		params.Memory,
		params.Parallelism,
		uint32(len(hash)),
	)

	return subtle.ConstantTimeCompare(computed, hash) == 1
}

// decodePHC parses a $argon2id$... string into its parameters, salt and hash.
func decodePHC(encodedHash string) (HashProfile, []byte, []byte, error) {
	var profile HashProfile

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return profile, nil, nil, errors.New("sec: invalid PHC format")
	}

	if parts[1] != "argon2id" {
		return profile, nil, nil, errors.New("sec: unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return profile, nil, nil, errors.New("sec: invalid argon2 version")
	}
	if version != argon2.Version {
		return profile, nil, nil, errors.New("sec: unsupported argon2 version")
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&profile.Memory, &profile.Time, &profile.Parallelism); err != nil {
		return profile, nil, nil, errors.New("sec: invalid argon2 parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return profile, nil, nil, errors.New("sec: invalid salt encoding")
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return profile, nil, nil, errors.New("sec: invalid hash encoding")
	}

	return profile, salt, hash, nil
}
