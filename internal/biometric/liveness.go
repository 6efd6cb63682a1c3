// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import "math"

// # Liveness Decision Engine
//
// The decision is a pure function over per-frame observations and the
// decrypted reference embedding, so the full rule set can be tested without
// images or an inference service. The caller gathers observations (one per
// frame with a detected face) and passes them here; frames without a
// detectable face are simply absent.

// Decision reasons surfaced to clients and metrics.
const (
	// ReasonLive marks a passed verification.
	ReasonLive = "live"

	// ReasonInsufficientFrames marks too few frames with a detectable face.
	ReasonInsufficientFrames = "insufficient_frames"

	// ReasonNoFrontalPose marks a best frame still too rotated to serve as
	// the frontal reference.
	ReasonNoFrontalPose = "no_frontal_pose"

	// ReasonNoRotation marks an insufficient head rotation across frames.
	ReasonNoRotation = "no_rotation"

	// ReasonIdentityMismatch marks a frontal face that does not match the
	// enrolled reference.
	ReasonIdentityMismatch = "identity_mismatch"
)

// FrameObservation is the dominant face extracted from one frame.
type FrameObservation struct {
	// Index is the position of the frame in the submitted sequence.
	Index int

	// Yaw is the head pose yaw of the dominant face, in degrees.
	Yaw float64

	// Embedding is the dominant face's feature vector.
	Embedding []float32
}

// Decision is the full outcome document of a verification evaluation.
//
// Identity and rotation are judged independently and both reported: a
// static photo fails on rotation even with a perfect similarity score, and
// a live imposter fails on identity even with a convincing head turn.
type Decision struct {
	// Verified is IdentityOK AND RotationDetected.
	Verified bool

	// Similarity is the cosine similarity between the frontal face and the
	// enrolled reference. Computed whenever frames suffice, regardless of
	// the rotation outcome.
	Similarity float64

	// IdentityOK reports Similarity against [SimilarityThreshold].
	IdentityOK bool

	// FrontOK, RotatedOK and DeltaOK are the three rotation sub-checks.
	FrontOK   bool
	RotatedOK bool
	DeltaOK   bool

	// RotationDetected is the conjunction of the three sub-checks.
	RotationDetected bool

	// Reason is one of the Reason* constants explaining the outcome.
	Reason string

	// FramesDetected is the number of frames with a detectable face.
	FramesDetected int

	// FrontIndex and RotatedIndex identify the selected frames. They are -1
	// when too few frames were usable.
	FrontIndex   int
	RotatedIndex int

	// YawFront and YawRotated are the selected frames' yaw angles; YawDelta
	// is their absolute difference.
	YawFront   float64
	YawRotated float64
	YawDelta   float64
}

// EvaluateLiveness applies the head-rotation and identity rules to a set of
// frame observations and the enrolled reference embedding.
//
// # Rules
//
//  1. At least [MinFrames] frames must contain a detectable face.
//  2. The frontal frame is the observation with the smallest |yaw|; its
//     |yaw| must not exceed [FrontalYawMaxDegrees].
//  3. The rotated frame is the observation with the largest |yaw|; its
//     |yaw| must reach [RotatedYawMinDegrees].
//  4. The absolute yaw difference must reach [MinYawDeltaDegrees].
//  5. The frontal face must match the enrolled reference: cosine similarity
//     must reach [SimilarityThreshold].
//
// Rules 2-4 form the rotation check, rule 5 the identity check; both are
// always computed so a caller can see which one failed. Ties on |yaw|
// resolve to the earliest frame in submission order, so the decision is
// deterministic for any input.
func EvaluateLiveness(observations []FrameObservation, reference []float32) Decision {
	decision := Decision{
		FramesDetected: len(observations),
		FrontIndex:     -1,
		RotatedIndex:   -1,
	}

	if len(observations) < MinFrames {
		decision.Reason = ReasonInsufficientFrames
		return decision
	}

	front := observations[0]
	rotated := observations[0]
	for _, observation := range observations[1:] {
		// Strict comparisons keep the earliest frame on ties.
		if math.Abs(observation.Yaw) < math.Abs(front.Yaw) {
			front = observation
		}
		if math.Abs(observation.Yaw) > math.Abs(rotated.Yaw) {
			rotated = observation
		}
	}

	decision.FrontIndex = front.Index
	decision.RotatedIndex = rotated.Index
	decision.YawFront = front.Yaw
	decision.YawRotated = rotated.Yaw
	decision.YawDelta = math.Abs(rotated.Yaw - front.Yaw)

	// Identity: the frontal face against the enrolled reference. Only the
	// frontal frame is matched; the rotated frame's embedding plays no part.
	decision.Similarity = CosineSimilarity(front.Embedding, reference)
	decision.IdentityOK = decision.Similarity >= SimilarityThreshold

	// Rotation: the three pose sub-checks.
	decision.FrontOK = math.Abs(front.Yaw) <= FrontalYawMaxDegrees
	decision.RotatedOK = math.Abs(rotated.Yaw) >= RotatedYawMinDegrees
	decision.DeltaOK = decision.YawDelta >= MinYawDeltaDegrees
	decision.RotationDetected = decision.FrontOK && decision.RotatedOK && decision.DeltaOK

	decision.Verified = decision.IdentityOK && decision.RotationDetected
	decision.Reason = decisionReason(decision)
	return decision
}

// decisionReason picks the single reason reported to clients and metrics.
// Rotation failures take precedence so a spoof attempt is labelled by its
// missing head turn, not by whatever its similarity happened to be.
func decisionReason(decision Decision) string {
	switch {
	case decision.Verified:
		return ReasonLive
	case !decision.FrontOK:
		return ReasonNoFrontalPose
	case !decision.RotatedOK || !decision.DeltaOK:
		return ReasonNoRotation
	default:
		return ReasonIdentityMismatch
	}
}

// CosineSimilarity computes the cosine of the angle between two vectors.
//
// Returns 0 for mismatched lengths or zero-magnitude vectors, which can
// never pass [SimilarityThreshold].
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
