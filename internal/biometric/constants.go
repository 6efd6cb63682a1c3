// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

// # Embedding Model

const (
	// EmbeddingDim is the dimensionality of face embeddings produced by the
	// inference service.
	EmbeddingDim = 512

	// ModelName identifies the embedding model a template was produced with.
	// Templates from a different model must never be compared.
	ModelName = "buffalo_l"
)

// # Liveness Thresholds
//
// Calibrated against the embedding model above. Changing the model requires
// re-running the calibration set before touching these values.
const (
	// MinFrames is the minimum number of frames with a detectable face
	// required for a liveness decision.
	MinFrames = 2

	// SimilarityThreshold is the minimum cosine similarity for two
	// embeddings to be considered the same person.
	SimilarityThreshold = 0.6

	// FrontalYawMaxDegrees is the maximum absolute head yaw for the frame
	// selected as the frontal pose.
	FrontalYawMaxDegrees = 8.0

	// RotatedYawMinDegrees is the minimum absolute head yaw for the frame
	// selected as the rotated pose.
	RotatedYawMinDegrees = 10.0

	// MinYawDeltaDegrees is the minimum absolute yaw difference between the
	// frontal and rotated frames.
	MinYawDeltaDegrees = 10.0
)

// # Field Identifiers

const (
	FieldFrame  = "frame"
	FieldFrames = "frames"
)

// # Audit Actions

const (
	ActionFaceEnroll = "face_enroll"
	ActionFaceVerify = "face_verify"
)
