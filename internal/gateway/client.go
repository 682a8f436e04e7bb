// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the gateway API.
const (
	// DefaultBaseURL is the hosted gateway endpoint.
	DefaultBaseURL = "https://api.ai.it.ufl.edu/v1"

	// DefaultTimeout bounds single-shot requests. Streaming requests
	// have no client timeout; they are bounded by their context.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps single-shot response bodies.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// Shared HTTP clients with connection pooling. The streaming client
	// carries no timeout; stream lifetime is controlled by the request
	// context.
	sharedHTTPClient = &http.Client{
		Transport: newPooledTransport(),
		Timeout:   DefaultTimeout,
	}

	sharedStreamingClient = &http.Client{
		Transport: newPooledTransport(),
	}
)

func newPooledTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// Error variables for common gateway failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("gateway API key not configured")

	// ErrAuthFailed indicates the credential was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")
)

// GatewayError represents an error response from the gateway API.
type GatewayError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway error (HTTP %d): %s", e.Status, e.Message)
}

// apiErrorResponse is the gateway's error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with the gateway.
type Client struct {
	apiKey      string
	baseURL     string
	enableCache bool
}

// NewClient creates a gateway client with the given API key. An empty
// key still yields a usable client; requests will fail with
// ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL sets a custom base URL (self-hosted gateways, tests).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithCache toggles the gateway's response cache header on completion
// requests.
func (c *Client) WithCache(enabled bool) *Client {
	c.enableCache = enabled
	return c
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// setHeaders applies the bearer credential and content type.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
}

// handleErrorResponse maps a non-2xx response to a typed error.
func (c *Client) handleErrorResponse(status int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		gwErr := &GatewayError{
			Code:    apiErr.Error.Code,
			Message: apiErr.Error.Message,
			Status:  status,
		}
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Error.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrModelNotFound, apiErr.Error.Message)
		}
		return gwErr
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return &GatewayError{Status: status, Message: strings.TrimSpace(string(body))}
}

// postJSON performs a single-shot JSON request and decodes the response
// into out.
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// =============================================================================
// TRANSCRIPTION
// =============================================================================

// transcriptionResponse is the /audio/transcriptions response body.
type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio and returns the transcribed text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename, modelID string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.WriteField("model", modelID); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return tr.Text, nil
}

// =============================================================================
// IMAGE GENERATION
// =============================================================================

// imageRequest is the /images/generations request body.
type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
}

// imageResponse is the /images/generations response body.
type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage generates one image from a prompt and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt, modelID string) (string, error) {
	var ir imageResponse
	err := c.postJSON(ctx, "/images/generations", imageRequest{
		Model:  modelID,
		Prompt: prompt,
		N:      1,
	}, &ir)
	if err != nil {
		return "", err
	}
	if len(ir.Data) == 0 {
		return "", &GatewayError{Status: http.StatusOK, Message: "image response contained no data"}
	}
	return ir.Data[0].URL, nil
}

// =============================================================================
// EMBEDDINGS
// =============================================================================

// embeddingRequest is the /embeddings request body.
type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embeddingResponse is the /embeddings response body.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// CreateEmbedding embeds input text into a numeric vector.
func (c *Client) CreateEmbedding(ctx context.Context, input, modelID string) ([]float64, error) {
	var er embeddingResponse
	err := c.postJSON(ctx, "/embeddings", embeddingRequest{
		Model: modelID,
		Input: input,
	}, &er)
	if err != nil {
		return nil, err
	}
	if len(er.Data) == 0 {
		return nil, &GatewayError{Status: http.StatusOK, Message: "embedding response contained no data"}
	}
	return er.Data[0].Embedding, nil
}
