// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// # HTTP Inference Client

// HTTPProvider implements [Provider] against the face inference service's
// REST API.
//
// # Endpoint Contract
//
// POST {baseURL}/v1/detect with a multipart body carrying the image under
// the "image" field. The response is:
//
//	{"faces": [{"bbox": [x1,y1,x2,y2], "yaw": 1.5, "embedding": [...]}]}
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates an [HTTPProvider].
//
// # Parameters
//   - baseURL: Base URL of the inference deployment.
//   - timeout: Hard cap for one detection call, applied on top of any
//     context deadline the caller supplies.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// detectResponse mirrors the inference service's JSON response.
type detectResponse struct {
	Faces []Detection `json:"faces"`
}

// DetectFaces implements [Provider].
func (provider *HTTPProvider) DetectFaces(context context.Context, frame []byte) ([]Detection, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("biometric_provider_form_failed: %w", err)
	}
	if _, err := part.Write(frame); err != nil {
		return nil, fmt.Errorf("biometric_provider_form_write_failed: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("biometric_provider_form_close_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, provider.baseURL+"/v1/detect", body)
	if err != nil {
		return nil, fmt.Errorf("biometric_provider_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", form.FormDataContentType())

	response, err := provider.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("biometric_provider_call_failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("biometric_provider_status_%d", response.StatusCode)
	}

	var decoded detectResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("biometric_provider_decode_failed: %w", err)
	}

	// Reject embeddings with an unexpected dimensionality instead of letting
	// them poison similarity scores downstream.
	for _, face := range decoded.Faces {
		if len(face.Embedding) != EmbeddingDim {
			return nil, fmt.Errorf("biometric_provider_bad_embedding_dim: got %d, want %d", len(face.Embedding), EmbeddingDim)
		}
	}

	return decoded.Faces, nil
}
