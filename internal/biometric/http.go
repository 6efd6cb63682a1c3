// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

/*
HTTP delivery layer for face enrollment and verification.

Frames travel as multipart uploads: a single "frame" file for enrollment
and a repeated "frames" field for verification. This layer is strictly
responsible for transport concerns (status codes, multipart parsing, JSON).
*/
package biometric

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veriface/veriface/internal/platform/constants"
	"github.com/veriface/veriface/internal/platform/middleware"
	requestutil "github.com/veriface/veriface/internal/platform/request"
	"github.com/veriface/veriface/internal/platform/respond"
	"github.com/veriface/veriface/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements biometric HTTP endpoints.
type Handler struct {
	biometricService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{biometricService: service}
}

// Routes returns a [chi.Router] configured with biometric routes.
//
// # Endpoints
//   - POST /face/enroll : Stores the caller's encrypted face template.
//   - POST /face/verify : Multi-frame liveness check and template match.
//
// Both endpoints require an authenticated access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/face/enroll", handler.enroll)
		r.Post("/face/verify", handler.verify)
	})

	return router
}

/*
Enroll stores the authenticated user's face template.

POST /api/v1/biometrics/face/enroll

Description: Accepts one image frame, extracts the dominant face and stores
its encrypted embedding. Re-enrollment replaces the previous template.

Request:
  - Multipart: frame (single image file)

Response:
  - 201: Template: Enrollment metadata
  - 400: ErrValidation: Missing frame or no detectable face
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) enroll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFrame, "Multipart body with a frame file is required"))
		return
	}

	frame, err := readFrameField(request, FieldFrame)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	template, err := handler.biometricService.Enroll(request.Context(), EnrollInput{
		UserID:    userID,
		Frame:     frame,
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, template)
}

/*
Verify runs the multi-frame face verification for the authenticated user.

POST /api/v1/biometrics/face/verify

Description: Accepts a sequence of frames, applies the head-rotation
liveness rules and matches the frontal face against the enrolled template.
A negative decision is a 200 with verified=false, not an error: the request
itself succeeded. Frames in which no face could be found are only a 400
when fewer than two usable frames remain.

Request:
  - Multipart: frames (repeated image files, submission order preserved)

Response:
  - 200: VerifyResult: Full decision document (verified, similarity,
    rotation sub-checks, selected frames, thresholds, frames_detected)
  - 400: ErrValidation: Fewer than the minimum number of submitted or
    usable frames
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: No template enrolled for this user
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFrames, "Multipart body with frame files is required"))
		return
	}

	var fileHeaders []*multipart.FileHeader
	if request.MultipartForm != nil {
		fileHeaders = request.MultipartForm.File[FieldFrames]
	}

	validator := &validate.Validator{}
	validator.Custom(FieldFrames, len(fileHeaders) < MinFrames,
		fmt.Sprintf("At least %d frames are required", MinFrames))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	frames := make([][]byte, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		frame, err := readFrameFile(fileHeader)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		frames = append(frames, frame)
	}

	result, err := handler.biometricService.Verify(request.Context(), VerifyInput{
		UserID:    userID,
		Frames:    frames,
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// # Multipart Helpers

// readFrameField extracts a single uploaded image from the named form field.
func readFrameField(request *http.Request, field string) ([]byte, error) {
	file, fileHeader, err := request.FormFile(field)
	if err != nil {
		return nil, validate.RequiredError(field, "An image file is required")
	}
	defer func() { _ = file.Close() }()

	if fileHeader.Size > constants.MaxFrameBytes {
		return nil, validate.RequiredError(field, "Image exceeds the maximum allowed size")
	}

	frame, err := io.ReadAll(io.LimitReader(file, constants.MaxFrameBytes+1))
	if err != nil {
		return nil, validate.RequiredError(field, "Image could not be read")
	}
	if int64(len(frame)) > constants.MaxFrameBytes {
		return nil, validate.RequiredError(field, "Image exceeds the maximum allowed size")
	}

	return frame, nil
}

// readFrameFile reads one frame from a multipart file header with size checks.
func readFrameFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > constants.MaxFrameBytes {
		return nil, validate.RequiredError(FieldFrames, "A frame exceeds the maximum allowed size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, validate.RequiredError(FieldFrames, "A frame could not be read")
	}
	defer func() { _ = file.Close() }()

	frame, err := io.ReadAll(io.LimitReader(file, constants.MaxFrameBytes+1))
	if err != nil {
		return nil, validate.RequiredError(FieldFrames, "A frame could not be read")
	}
	if int64(len(frame)) > constants.MaxFrameBytes {
		return nil, validate.RequiredError(FieldFrames, "A frame exceeds the maximum allowed size")
	}

	return frame, nil
}
