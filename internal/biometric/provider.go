// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

/*
Package biometric implements face enrollment and multi-frame verification.

It owns the encrypted template vault, the liveness decision engine and the
integration with the external face embedding service.

# Architecture

  - Provider: Black-box collaborator producing face detections per frame.
  - Liveness: Pure decision functions over per-frame observations.
  - Template: AES-GCM encrypted embedding storage keyed by user.
*/
package biometric

import (
	"context"
)

// # Face Detection Contract

// Detection describes one face found within a single image frame.
type Detection struct {
	// BBox is the face bounding box as [x1, y1, x2, y2] pixel coordinates.
	BBox [4]float64 `json:"bbox"`

	// Yaw is the estimated head pose yaw in degrees. Zero is a frontal
	// pose; positive values rotate toward the subject's left.
	Yaw float64 `json:"yaw"`

	// Embedding is the face feature vector of [EmbeddingDim] floats.
	Embedding []float32 `json:"embedding"`
}

// Area returns the bounding box area in square pixels.
func (detection Detection) Area() float64 {
	width := detection.BBox[2] - detection.BBox[0]
	height := detection.BBox[3] - detection.BBox[1]
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height
}

// Provider defines the contract for the external face analysis service.
//
// # Why an interface?
//
// The embedding model runs as a separate inference deployment. Treating it
// as a black box behind this interface lets tests substitute deterministic
// detections and keeps model upgrades out of this codebase.
type Provider interface {
	// DetectFaces analyzes one image frame and returns every face found.
	// An empty slice (with nil error) means no face was detected.
	DetectFaces(context context.Context, frame []byte) ([]Detection, error)
}

// LargestFace selects the dominant face from a detection set by bounding
// box area. The boolean is false when the set is empty.
//
// When several people appear in a frame, the subject closest to the camera
// is assumed to be the one authenticating.
func LargestFace(detections []Detection) (Detection, bool) {
	if len(detections) == 0 {
		return Detection{}, false
	}

	best := detections[0]
	for _, candidate := range detections[1:] {
		if candidate.Area() > best.Area() {
			best = candidate
		}
	}
	return best, true
}
