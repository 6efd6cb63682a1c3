// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitVector builds a 512-dim basis vector along the given axis.
func unitVector(axis int) []float32 {
	vector := make([]float32, EmbeddingDim)
	vector[axis] = 1
	return vector
}

// blendedVector builds a 512-dim unit vector whose cosine similarity with
// unitVector(0) equals the given value.
func blendedVector(similarity float64) []float32 {
	vector := make([]float32, EmbeddingDim)
	vector[0] = float32(similarity)
	vector[1] = float32(math.Sqrt(1 - similarity*similarity))
	return vector
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarity(unitVector(0), unitVector(0)), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity(unitVector(0), unitVector(1)), 1e-9)
	})

	t.Run("controlled similarity", func(t *testing.T) {
		assert.InDelta(t, 0.91, CosineSimilarity(unitVector(0), blendedVector(0.91)), 1e-6)
	})

	t.Run("mismatched lengths return zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(unitVector(0), []float32{1, 2}))
	})

	t.Run("zero vector returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(unitVector(0), make([]float32, EmbeddingDim)))
	})
}

func TestEvaluateLiveness(t *testing.T) {
	reference := unitVector(0)

	observation := func(index int, yaw float64, embedding []float32) FrameObservation {
		return FrameObservation{Index: index, Yaw: yaw, Embedding: embedding}
	}

	t.Run("passing head turn scenario", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 2, blendedVector(0.91)),
			observation(1, 15, unitVector(0)),
		}, reference)

		assert.True(t, decision.Verified)
		assert.True(t, decision.IdentityOK)
		assert.True(t, decision.RotationDetected)
		assert.Equal(t, ReasonLive, decision.Reason)
		assert.Equal(t, 2, decision.FramesDetected)
		assert.Equal(t, 0, decision.FrontIndex)
		assert.Equal(t, 1, decision.RotatedIndex)
		assert.InDelta(t, 2.0, decision.YawFront, 1e-9)
		assert.InDelta(t, 15.0, decision.YawRotated, 1e-9)
		assert.InDelta(t, 13.0, decision.YawDelta, 1e-9)
		assert.InDelta(t, 0.91, decision.Similarity, 1e-6)
	})

	t.Run("only the frontal frame is matched against the reference", func(t *testing.T) {
		// The rotated pose of a genuine user can drift arbitrarily far from
		// the frontal embedding without affecting the outcome.
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 2, unitVector(0)),
			observation(1, 15, unitVector(1)),
		}, reference)

		assert.True(t, decision.Verified)
		assert.Equal(t, ReasonLive, decision.Reason)
		assert.InDelta(t, 1.0, decision.Similarity, 1e-6)
	})

	t.Run("no observations", func(t *testing.T) {
		decision := EvaluateLiveness(nil, reference)
		assert.False(t, decision.Verified)
		assert.Equal(t, ReasonInsufficientFrames, decision.Reason)
		assert.Equal(t, 0, decision.FramesDetected)
		assert.Equal(t, -1, decision.FrontIndex)
		assert.Equal(t, -1, decision.RotatedIndex)
	})

	t.Run("single observation is insufficient", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 2, unitVector(0)),
		}, reference)
		assert.False(t, decision.Verified)
		assert.Equal(t, ReasonInsufficientFrames, decision.Reason)
		assert.Equal(t, 1, decision.FramesDetected)
	})

	t.Run("frontal yaw boundary", func(t *testing.T) {
		// Exactly at the limit passes.
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, FrontalYawMaxDegrees, unitVector(0)),
			observation(1, 25, unitVector(0)),
		}, reference)
		assert.True(t, decision.Verified)

		// Just past the limit fails, but the similarity is still reported.
		decision = EvaluateLiveness([]FrameObservation{
			observation(0, FrontalYawMaxDegrees+0.001, unitVector(0)),
			observation(1, 25, unitVector(0)),
		}, reference)
		assert.False(t, decision.Verified)
		assert.False(t, decision.FrontOK)
		assert.False(t, decision.RotationDetected)
		assert.Equal(t, ReasonNoFrontalPose, decision.Reason)
		assert.InDelta(t, 1.0, decision.Similarity, 1e-6)
	})

	t.Run("rotated yaw boundary", func(t *testing.T) {
		// Exactly at the minimum passes (delta is also exactly 10).
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 0, unitVector(0)),
			observation(1, RotatedYawMinDegrees, unitVector(0)),
		}, reference)
		assert.True(t, decision.Verified)

		// Just below the minimum fails.
		decision = EvaluateLiveness([]FrameObservation{
			observation(0, 0, unitVector(0)),
			observation(1, RotatedYawMinDegrees-0.001, unitVector(0)),
		}, reference)
		assert.False(t, decision.Verified)
		assert.False(t, decision.RotatedOK)
		assert.Equal(t, ReasonNoRotation, decision.Reason)
	})

	t.Run("yaw delta below minimum fails", func(t *testing.T) {
		// Rotated frame is rotated enough on its own, but too close to the
		// frontal frame's yaw.
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 4, unitVector(0)),
			observation(1, 12, unitVector(0)),
		}, reference)
		assert.False(t, decision.Verified)
		assert.True(t, decision.RotatedOK)
		assert.False(t, decision.DeltaOK)
		assert.Equal(t, ReasonNoRotation, decision.Reason)
	})

	t.Run("negative yaws use absolute values", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, -3, unitVector(0)),
			observation(1, -20, unitVector(0)),
		}, reference)
		assert.True(t, decision.Verified)
		assert.InDelta(t, 17.0, decision.YawDelta, 1e-9)
	})

	t.Run("ties resolve to the earliest frame", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 5, unitVector(0)),
			observation(1, -5, unitVector(0)),
			observation(2, 18, unitVector(0)),
			observation(3, -18, unitVector(0)),
		}, reference)
		assert.True(t, decision.Verified)
		assert.Equal(t, 0, decision.FrontIndex)
		assert.Equal(t, 2, decision.RotatedIndex)
	})

	t.Run("imposter fails on identity despite a real head turn", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 2, unitVector(1)),
			observation(1, 15, unitVector(1)),
		}, reference)

		assert.False(t, decision.Verified)
		assert.True(t, decision.RotationDetected)
		assert.False(t, decision.IdentityOK)
		assert.Equal(t, ReasonIdentityMismatch, decision.Reason)
		assert.InDelta(t, 0.0, decision.Similarity, 1e-6)
	})

	t.Run("static photo fails on rotation despite a perfect match", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 1, unitVector(0)),
			observation(1, 1, unitVector(0)),
			observation(2, 1, unitVector(0)),
		}, reference)

		assert.False(t, decision.Verified)
		assert.False(t, decision.RotationDetected)
		assert.True(t, decision.IdentityOK)
		assert.Equal(t, ReasonNoRotation, decision.Reason)
		assert.InDelta(t, 1.0, decision.Similarity, 1e-6)
	})

	t.Run("similarity exactly at threshold passes", func(t *testing.T) {
		decision := EvaluateLiveness([]FrameObservation{
			observation(0, 2, blendedVector(SimilarityThreshold)),
			observation(1, 15, unitVector(0)),
		}, reference)
		assert.True(t, decision.Verified)
	})
}

func TestLargestFace(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		_, found := LargestFace(nil)
		assert.False(t, found)
	})

	t.Run("selects the biggest bounding box", func(t *testing.T) {
		small := Detection{BBox: [4]float64{0, 0, 10, 10}, Yaw: 1}
		large := Detection{BBox: [4]float64{0, 0, 100, 80}, Yaw: 2}

		face, found := LargestFace([]Detection{small, large})
		require.True(t, found)
		assert.Equal(t, large.Yaw, face.Yaw)
	})

	t.Run("degenerate boxes have zero area", func(t *testing.T) {
		inverted := Detection{BBox: [4]float64{10, 10, 0, 0}}
		assert.Equal(t, 0.0, inverted.Area())
	})
}
