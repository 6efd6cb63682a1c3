// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriface/veriface/internal/platform/apperr"
	"github.com/veriface/veriface/internal/platform/metrics"
	"github.com/veriface/veriface/internal/platform/sec"
)

// # Test Doubles

// fakeProvider maps frame content to canned detection results.
type fakeProvider struct {
	detections map[string][]Detection
	failures   map[string]error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		detections: make(map[string][]Detection),
		failures:   make(map[string]error),
	}
}

func (provider *fakeProvider) DetectFaces(_ context.Context, frame []byte) ([]Detection, error) {
	if err, failed := provider.failures[string(frame)]; failed {
		return nil, err
	}
	return provider.detections[string(frame)], nil
}

// fakeTemplateRepository is an in-memory TemplateRepository keyed by user ID.
type fakeTemplateRepository struct {
	templates map[string]*Template
}

func newFakeTemplateRepository() *fakeTemplateRepository {
	return &fakeTemplateRepository{templates: make(map[string]*Template)}
}

func (repo *fakeTemplateRepository) Upsert(_ context.Context, template *Template) error {
	stored := *template
	repo.templates[template.UserID] = &stored
	return nil
}

func (repo *fakeTemplateRepository) FindByUserID(_ context.Context, userID string) (*Template, error) {
	template, exists := repo.templates[userID]
	if !exists {
		return nil, apperr.NotFound("Biometric template")
	}
	return template, nil
}

// recordingAudit captures audit events for assertions.
type recordingAudit struct {
	events []string
}

func (audit *recordingAudit) RecordAuth(_ context.Context, _, action string, success bool, _ string) {
	suffix := ":fail"
	if success {
		suffix = ":ok"
	}
	audit.events = append(audit.events, action+suffix)
}

// # Fixtures

func newTestBiometricService(t *testing.T) (*Service, *fakeProvider, *fakeTemplateRepository, *sec.TemplateCipher, *recordingAudit) {
	t.Helper()

	provider := newFakeProvider()
	repo := newFakeTemplateRepository()
	audit := &recordingAudit{}

	cipher, err := sec.NewTemplateCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	service := NewService(provider, repo, cipher, audit, metrics.New(), 500*time.Millisecond)
	return service, provider, repo, cipher, audit
}

// faceDetection builds a detection with a default-size bounding box.
func faceDetection(yaw float64, embedding []float32) Detection {
	return Detection{BBox: [4]float64{0, 0, 100, 100}, Yaw: yaw, Embedding: embedding}
}

// enrollUser seeds the repository with an encrypted template for the user.
func enrollUser(t *testing.T, service *Service, provider *fakeProvider, userID string, embedding []float32) {
	t.Helper()

	provider.detections["enroll-frame"] = []Detection{faceDetection(1, embedding)}
	_, err := service.Enroll(context.Background(), EnrollInput{
		UserID:    userID,
		Frame:     []byte("enroll-frame"),
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
}

// # Enrollment Tests

func TestServiceEnroll(t *testing.T) {
	t.Run("stores an encrypted template", func(t *testing.T) {
		service, provider, repo, cipher, audit := newTestBiometricService(t)
		embedding := unitVector(0)
		provider.detections["frame"] = []Detection{faceDetection(2, embedding)}

		template, err := service.Enroll(context.Background(), EnrollInput{
			UserID:    "user-1",
			Frame:     []byte("frame"),
			IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, template.ID)
		assert.Equal(t, "user-1", template.UserID)
		assert.Equal(t, EmbeddingDim, template.Dim)
		assert.Equal(t, ModelName, template.ModelName)

		// The stored envelope must decrypt back to the original embedding.
		stored, err := repo.FindByUserID(context.Background(), "user-1")
		require.NoError(t, err)
		assert.NotEqual(t, EncodeEmbedding(embedding), stored.Envelope)

		plaintext, err := cipher.Decrypt(stored.Envelope)
		require.NoError(t, err)
		decoded, err := DecodeEmbedding(plaintext)
		require.NoError(t, err)
		assert.Equal(t, embedding, decoded)

		assert.Contains(t, audit.events, ActionFaceEnroll+":ok")
	})

	t.Run("keeps the largest face when several are detected", func(t *testing.T) {
		service, provider, repo, cipher, _ := newTestBiometricService(t)
		background := faceDetection(3, unitVector(1))
		background.BBox = [4]float64{0, 0, 20, 20}
		dominant := faceDetection(2, unitVector(0))
		provider.detections["crowd"] = []Detection{background, dominant}

		_, err := service.Enroll(context.Background(), EnrollInput{
			UserID: "user-1",
			Frame:  []byte("crowd"),
		})
		require.NoError(t, err)

		stored, err := repo.FindByUserID(context.Background(), "user-1")
		require.NoError(t, err)
		plaintext, err := cipher.Decrypt(stored.Envelope)
		require.NoError(t, err)
		decoded, err := DecodeEmbedding(plaintext)
		require.NoError(t, err)
		assert.Equal(t, unitVector(0), decoded)
	})

	t.Run("re-enrollment replaces the template", func(t *testing.T) {
		service, provider, repo, cipher, _ := newTestBiometricService(t)
		enrollUser(t, service, provider, "user-1", unitVector(0))

		provider.detections["second"] = []Detection{faceDetection(1, unitVector(1))}
		_, err := service.Enroll(context.Background(), EnrollInput{
			UserID: "user-1",
			Frame:  []byte("second"),
		})
		require.NoError(t, err)

		stored, err := repo.FindByUserID(context.Background(), "user-1")
		require.NoError(t, err)
		plaintext, err := cipher.Decrypt(stored.Envelope)
		require.NoError(t, err)
		decoded, err := DecodeEmbedding(plaintext)
		require.NoError(t, err)
		assert.Equal(t, unitVector(1), decoded)
	})

	t.Run("rejects a frame with no face", func(t *testing.T) {
		service, _, _, _, audit := newTestBiometricService(t)

		_, err := service.Enroll(context.Background(), EnrollInput{
			UserID: "user-1",
			Frame:  []byte("empty-room"),
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Contains(t, audit.events, ActionFaceEnroll+":fail")
	})

	t.Run("provider failure maps to a validation error", func(t *testing.T) {
		service, provider, _, _, _ := newTestBiometricService(t)
		provider.failures["bad"] = errors.New("inference unavailable")

		_, err := service.Enroll(context.Background(), EnrollInput{
			UserID: "user-1",
			Frame:  []byte("bad"),
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})
}

// # Verification Tests

func TestServiceVerify(t *testing.T) {
	t.Run("matching live user verifies with a full decision document", func(t *testing.T) {
		service, provider, _, _, audit := newTestBiometricService(t)
		embedding := unitVector(0)
		enrollUser(t, service, provider, "user-1", embedding)

		provider.detections["front"] = []Detection{faceDetection(2, embedding)}
		provider.detections["turned"] = []Detection{faceDetection(15, embedding)}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("front"), []byte("turned")},
		})
		require.NoError(t, err)

		assert.True(t, result.Verified)
		assert.True(t, result.RotationDetected)
		assert.Equal(t, ReasonLive, result.Reason)
		assert.Equal(t, 2, result.FramesDetected)
		assert.InDelta(t, 1.0, result.Similarity, 1e-6)

		assert.Equal(t, 0, result.FrontFrameIndex)
		assert.Equal(t, 1, result.RotatedFrameIndex)
		assert.InDelta(t, 2.0, result.YawFront, 1e-9)
		assert.InDelta(t, 15.0, result.YawRotated, 1e-9)
		assert.True(t, result.FrontOK)
		assert.True(t, result.RotatedOK)
		assert.True(t, result.DeltaOK)
		assert.Equal(t, float64(SimilarityThreshold), result.ThresholdSimilarity)
		assert.Equal(t, float64(FrontalYawMaxDegrees), result.FrontMaxAngle)
		assert.Equal(t, float64(RotatedYawMinDegrees), result.RotationAbsMin)
		assert.Equal(t, float64(MinYawDeltaDegrees), result.RotationDeltaMin)

		assert.Contains(t, audit.events, ActionFaceVerify+":ok")
	})

	t.Run("rotated pose drift does not reject a genuine user", func(t *testing.T) {
		service, provider, _, _, _ := newTestBiometricService(t)
		embedding := unitVector(0)
		enrollUser(t, service, provider, "user-1", embedding)

		// Only the frontal frame is matched against the reference; the
		// rotated frame's embedding can diverge sharply under a head turn.
		provider.detections["front"] = []Detection{faceDetection(2, embedding)}
		provider.detections["turned"] = []Detection{faceDetection(15, unitVector(1))}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("front"), []byte("turned")},
		})
		require.NoError(t, err)

		assert.True(t, result.Verified)
		assert.InDelta(t, 1.0, result.Similarity, 1e-6)
	})

	t.Run("no enrolled template", func(t *testing.T) {
		service, _, _, _, _ := newTestBiometricService(t)

		_, err := service.Verify(context.Background(), VerifyInput{
			UserID: "ghost",
			Frames: [][]byte{[]byte("a"), []byte("b")},
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})

	t.Run("too few usable frames is a validation error", func(t *testing.T) {
		service, provider, _, _, audit := newTestBiometricService(t)
		enrollUser(t, service, provider, "user-1", unitVector(0))

		// Only one frame contains a face.
		provider.detections["front"] = []Detection{faceDetection(2, unitVector(0))}

		_, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("front"), []byte("blank")},
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Contains(t, audit.events, ActionFaceVerify+":fail")
	})

	t.Run("live imposter fails on identity", func(t *testing.T) {
		service, provider, _, _, audit := newTestBiometricService(t)
		enrollUser(t, service, provider, "user-1", unitVector(0))

		imposter := unitVector(1)
		provider.detections["front"] = []Detection{faceDetection(2, imposter)}
		provider.detections["turned"] = []Detection{faceDetection(15, imposter)}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("front"), []byte("turned")},
		})
		require.NoError(t, err)

		assert.False(t, result.Verified)
		assert.True(t, result.RotationDetected)
		assert.Equal(t, ReasonIdentityMismatch, result.Reason)
		assert.Less(t, result.Similarity, float64(SimilarityThreshold))
		assert.Contains(t, audit.events, ActionFaceVerify+":fail")
	})

	t.Run("failing frame is treated as absent", func(t *testing.T) {
		service, provider, _, _, _ := newTestBiometricService(t)
		embedding := unitVector(0)
		enrollUser(t, service, provider, "user-1", embedding)

		provider.detections["front"] = []Detection{faceDetection(2, embedding)}
		provider.failures["broken"] = errors.New("inference timeout")
		provider.detections["turned"] = []Detection{faceDetection(15, embedding)}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("front"), []byte("broken"), []byte("turned")},
		})
		require.NoError(t, err)

		assert.True(t, result.Verified)
		assert.Equal(t, 2, result.FramesDetected)
	})

	t.Run("spoofed static frames fail liveness with the true similarity", func(t *testing.T) {
		service, provider, _, _, _ := newTestBiometricService(t)
		embedding := unitVector(0)
		enrollUser(t, service, provider, "user-1", embedding)

		// A photo held in front of the camera produces no yaw variation. The
		// perfect match against the reference is still reported so the two
		// failure causes stay independently observable.
		provider.detections["still"] = []Detection{faceDetection(1, embedding)}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("still"), []byte("still"), []byte("still")},
		})
		require.NoError(t, err)

		assert.False(t, result.Verified)
		assert.False(t, result.RotationDetected)
		assert.Equal(t, ReasonNoRotation, result.Reason)
		assert.InDelta(t, 1.0, result.Similarity, 1e-6)
	})

	t.Run("tampered envelope is a hard failure before any frame decision", func(t *testing.T) {
		service, provider, repo, _, audit := newTestBiometricService(t)
		embedding := unitVector(0)
		enrollUser(t, service, provider, "user-1", embedding)

		// Flip one bit of the stored envelope. Even frames that would fail
		// liveness anyway must not mask the corruption with a 200.
		repo.templates["user-1"].Envelope[0] ^= 0x01
		provider.detections["still"] = []Detection{faceDetection(1, embedding)}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("still"), []byte("still")},
		})

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Nil(t, apperr.As(err))
		assert.Contains(t, audit.events, ActionFaceVerify+":fail")
	})

	t.Run("wrong-dimension reference is a hard failure", func(t *testing.T) {
		service, provider, repo, cipher, _ := newTestBiometricService(t)

		// A template sealed from a different embedding model.
		envelope, err := cipher.Encrypt(EncodeEmbedding(make([]float32, 10)))
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(context.Background(), &Template{
			ID:       "tpl-1",
			UserID:   "user-1",
			Envelope: envelope,
			Dim:      10,
		}))

		embedding := unitVector(0)
		provider.detections["front"] = []Detection{faceDetection(2, embedding)}
		provider.detections["turned"] = []Detection{faceDetection(15, embedding)}

		result, err := service.Verify(context.Background(), VerifyInput{
			UserID: "user-1",
			Frames: [][]byte{[]byte("front"), []byte("turned")},
		})

		require.Error(t, err)
		assert.Nil(t, result)
	})
}
