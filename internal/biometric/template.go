// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// # Template Entity

// Template is one user's enrolled face reference.
//
// # Security
//
// The embedding is stored ONLY inside the AES-GCM envelope. The plaintext
// vector exists in memory during enrollment and verification and is never
// logged, serialized, or returned to clients.
type Template struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Envelope is the encrypted embedding: nonce ‖ ciphertext ‖ tag.
	Envelope []byte `json:"-"`

	// Dim records the embedding dimensionality at enrollment time.
	Dim int `json:"dim"`

	// ModelName records which embedding model produced the template.
	ModelName string `json:"model_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Embedding Codec

// EncodeEmbedding serializes an embedding as little-endian float32 bytes.
// This is the plaintext layout inside the template envelope.
func EncodeEmbedding(embedding []float32) []byte {
	encoded := make([]byte, 4*len(embedding))
	for i, value := range embedding {
		binary.LittleEndian.PutUint32(encoded[i*4:], math.Float32bits(value))
	}
	return encoded
}

// DecodeEmbedding deserializes little-endian float32 bytes back into an
// embedding vector.
func DecodeEmbedding(encoded []byte) ([]float32, error) {
	if len(encoded)%4 != 0 {
		return nil, fmt.Errorf("biometric_embedding_decode_failed: %d bytes is not a float32 sequence", len(encoded))
	}

	embedding := make([]float32, len(encoded)/4)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(encoded[i*4:]))
	}
	return embedding, nil
}
