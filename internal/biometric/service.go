// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veriface/veriface/internal/platform/apperr"
	"github.com/veriface/veriface/internal/platform/ctxutil"
	"github.com/veriface/veriface/internal/platform/metrics"
	"github.com/veriface/veriface/internal/platform/sec"
	"github.com/veriface/veriface/pkg/uuid"
)

// # Contracts & Types

// AuditRecorder defines the contract for recording biometric events.
type AuditRecorder interface {
	// RecordAuth logs one authentication-related event.
	RecordAuth(context context.Context, userID, action string, success bool, ipAddress string)
}

// Service implements face enrollment and verification use cases.
//
// # Review Process
//
// This service handles raw biometric material. Any change to the
// encryption, liveness or similarity logic must be reviewed by the
// security team.
type Service struct {
	provider           Provider
	templateRepository TemplateRepository
	templateCipher     *sec.TemplateCipher
	auditRecorder      AuditRecorder
	apiMetrics         *metrics.Metrics
	inferenceTimeout   time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	provider Provider,
	templateRepo TemplateRepository,
	templateCipher *sec.TemplateCipher,
	auditRec AuditRecorder,
	apiMetrics *metrics.Metrics,
	inferenceTimeout time.Duration,
) *Service {
	return &Service{
		provider:           provider,
		templateRepository: templateRepo,
		templateCipher:     templateCipher,
		auditRecorder:      auditRec,
		apiMetrics:         apiMetrics,
		inferenceTimeout:   inferenceTimeout,
	}
}

// # Enrollment Flow

// EnrollInput holds the data for a face enrollment.
type EnrollInput struct {
	UserID    string
	Frame     []byte
	IPAddress string
}

/*
Enroll extracts the dominant face from one frame and stores its encrypted
embedding as the user's reference template.

Description: The frame is analyzed by the inference provider, the largest
detected face is selected, and its embedding is sealed with AES-GCM before
touching the database. Re-enrollment replaces the previous template.

Parameters:
  - context: context.Context
  - input: EnrollInput

Returns:
  - *Template: Stored template metadata (never the embedding itself)
  - error: ValidationError when no face is found, or storage failures
*/
func (service *Service) Enroll(context context.Context, input EnrollInput) (*Template, error) {
	detections, err := service.detectWithTimeout(context, input.Frame)
	if err != nil {
		service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceEnroll, false, input.IPAddress)
		return nil, apperr.ValidationError("Could not analyze the submitted frame")
	}

	face, found := LargestFace(detections)
	if !found {
		service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceEnroll, false, input.IPAddress)
		return nil, apperr.ValidationError("No face detected in the submitted frame")
	}

	envelope, err := service.templateCipher.Encrypt(EncodeEmbedding(face.Embedding))
	if err != nil {
		return nil, fmt.Errorf("biometric_service_encrypt_failed: %w", err)
	}

	template := &Template{
		ID:        uuid.New(),
		UserID:    input.UserID,
		Envelope:  envelope,
		Dim:       len(face.Embedding),
		ModelName: ModelName,
	}

	if err := service.templateRepository.Upsert(context, template); err != nil {
		return nil, fmt.Errorf("biometric_service_enroll_failed: %w", err)
	}

	service.apiMetrics.TemplateOperations.WithLabelValues("enroll").Inc()
	service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceEnroll, true, input.IPAddress)
	return template, nil
}

// # Verification Flow

// VerifyInput holds the data for a multi-frame face verification.
type VerifyInput struct {
	UserID    string
	Frames    [][]byte
	IPAddress string
}

// VerifyResult is the client-facing decision document of a verification
// attempt. Every input to the decision is reported alongside the final
// flag so a caller can audit why a decision was made, not just whether.
type VerifyResult struct {
	// Verified is true when the head rotation was detected AND the frontal
	// face matched the enrolled template.
	Verified bool `json:"verified"`

	// Similarity is the cosine similarity between the frontal face and the
	// enrolled template, reported even when the rotation check failed.
	Similarity float64 `json:"similarity"`

	// RotationDetected reports the head-turn check on its own.
	RotationDetected bool `json:"rotation_detected"`

	// Reason explains a negative outcome ("live" on success).
	Reason string `json:"reason"`

	// Selected frames and their yaw angles.
	FrontFrameIndex   int     `json:"front_frame_idx"`
	RotatedFrameIndex int     `json:"rotated_frame_idx"`
	YawFront          float64 `json:"yaw_front"`
	YawRotated        float64 `json:"yaw_rotated"`

	// The three rotation sub-checks.
	FrontOK   bool `json:"is_front_ok"`
	RotatedOK bool `json:"is_rotated_ok"`
	DeltaOK   bool `json:"delta_ok"`

	// Thresholds the decision was made against.
	ThresholdSimilarity float64 `json:"threshold_similarity"`
	FrontMaxAngle       float64 `json:"front_max_angle"`
	RotationAbsMin      float64 `json:"rotation_abs_min"`
	RotationDeltaMin    float64 `json:"rotation_delta_min"`

	// FramesDetected is the number of submitted frames containing a
	// detectable face.
	FramesDetected int `json:"frames_detected"`
}

/*
Verify runs the multi-frame liveness check and matches the frontal face
against the user's enrolled template.

Description: The reference template is decrypted and decoded up front, so a
corrupt or tampered envelope fails the call no matter what the frames show.
Frames are then analyzed concurrently, each under its own timeout. A frame
that fails or times out is treated as containing no face rather than
failing the batch; fewer than two usable frames is a validation error.

Parameters:
  - context: context.Context
  - input: VerifyInput

Returns:
  - *VerifyResult: Decision document for the client
  - error: NotFound when no template is enrolled, ValidationError when too
    few frames contain a face, or internal failures
*/
func (service *Service) Verify(context context.Context, input VerifyInput) (*VerifyResult, error) {
	template, err := service.templateRepository.FindByUserID(context, input.UserID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("biometric_service_template_lookup_failed: %w", err)
	}

	reference, err := service.openTemplate(context, template, input)
	if err != nil {
		return nil, err
	}

	observations := service.collectObservations(context, input.Frames)
	decision := EvaluateLiveness(observations, reference)
	service.apiMetrics.LivenessDecisions.WithLabelValues(decision.Reason).Inc()

	if decision.Reason == ReasonInsufficientFrames {
		service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceVerify, false, input.IPAddress)
		return nil, apperr.ValidationError("Face not detected on enough frames")
	}

	result := &VerifyResult{
		Verified:            decision.Verified,
		Similarity:          decision.Similarity,
		RotationDetected:    decision.RotationDetected,
		Reason:              decision.Reason,
		FrontFrameIndex:     decision.FrontIndex,
		RotatedFrameIndex:   decision.RotatedIndex,
		YawFront:            decision.YawFront,
		YawRotated:          decision.YawRotated,
		FrontOK:             decision.FrontOK,
		RotatedOK:           decision.RotatedOK,
		DeltaOK:             decision.DeltaOK,
		ThresholdSimilarity: SimilarityThreshold,
		FrontMaxAngle:       FrontalYawMaxDegrees,
		RotationAbsMin:      RotatedYawMinDegrees,
		RotationDeltaMin:    MinYawDeltaDegrees,
		FramesDetected:      decision.FramesDetected,
	}

	service.apiMetrics.TemplateOperations.WithLabelValues("verify").Inc()
	service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceVerify, result.Verified, input.IPAddress)
	return result, nil
}

// openTemplate decrypts and decodes the reference embedding.
//
// A failure here means the stored template is corrupt or was tampered with.
// It is audit-logged and surfaced as a hard error, never degraded into a
// "not verified" result.
func (service *Service) openTemplate(context context.Context, template *Template, input VerifyInput) ([]float32, error) {
	plaintext, err := service.templateCipher.Decrypt(template.Envelope)
	if err != nil {
		service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceVerify, false, input.IPAddress)
		return nil, fmt.Errorf("biometric_service_decrypt_failed: %w", err)
	}

	reference, err := DecodeEmbedding(plaintext)
	if err != nil {
		service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceVerify, false, input.IPAddress)
		return nil, fmt.Errorf("biometric_service_decode_failed: %w", err)
	}

	if len(reference) != EmbeddingDim {
		service.auditRecorder.RecordAuth(context, input.UserID, ActionFaceVerify, false, input.IPAddress)
		return nil, fmt.Errorf("biometric_service_template_corrupt: reference dim %d, want %d", len(reference), EmbeddingDim)
	}

	return reference, nil
}

// collectObservations fans detection out across frames and keeps the
// dominant face of every frame that produced one.
//
// # Failure Isolation
//
// Each frame gets its own timeout-bounded context. A timeout, transport
// error or faceless frame yields an absent observation; it never cancels
// the sibling detections or fails the batch.
func (service *Service) collectObservations(parent context.Context, frames [][]byte) []FrameObservation {
	slots := make([]*FrameObservation, len(frames))

	group, groupContext := errgroup.WithContext(parent)
	for index, frame := range frames {
		group.Go(func() error {
			frameContext, cancel := context.WithTimeout(groupContext, service.inferenceTimeout)
			defer cancel()

			startTime := time.Now()
			detections, err := service.provider.DetectFaces(frameContext, frame)
			service.apiMetrics.InferenceDuration.Observe(time.Since(startTime).Seconds())

			if err != nil {
				ctxutil.Logger(parent).WarnContext(parent, "frame_detection_failed",
					slog.Int("frame_index", index),
					slog.String("error", err.Error()),
				)
				return nil
			}

			if face, found := LargestFace(detections); found {
				slots[index] = &FrameObservation{
					Index:     index,
					Yaw:       face.Yaw,
					Embedding: face.Embedding,
				}
			}
			return nil
		})
	}
	_ = group.Wait()

	observations := make([]FrameObservation, 0, len(frames))
	for _, slot := range slots {
		if slot != nil {
			observations = append(observations, *slot)
		}
	}
	return observations
}

// detectWithTimeout runs a single detection under the per-frame timeout.
func (service *Service) detectWithTimeout(parent context.Context, frame []byte) ([]Detection, error) {
	frameContext, cancel := context.WithTimeout(parent, service.inferenceTimeout)
	defer cancel()

	startTime := time.Now()
	detections, err := service.provider.DetectFaces(frameContext, frame)
	service.apiMetrics.InferenceDuration.Observe(time.Since(startTime).Seconds())
	return detections, err
}
