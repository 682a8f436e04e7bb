// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jeranaias/litechat-tui/internal/model"
)

// =============================================================================
// REQUEST / CHUNK TYPES
// =============================================================================

// CompletionRequest describes a chat completion.
type CompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Stream      bool                `json:"stream"`

	// StreamOptions requests a terminal usage chunk from the gateway.
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`
}

// StreamOptions controls streaming behavior server-side.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// Usage reports token counts for a completed request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk is one delta from a streaming completion. Exactly one of
// Content, Usage, Done, or Err is meaningful per chunk.
type StreamChunk struct {
	// Content is the text delta, empty for usage/terminal chunks.
	Content string

	// Usage is non-nil on the final accounting chunk.
	Usage *Usage

	// FinishReason is set when the model stops ("stop", "length", ...).
	FinishReason string

	// Done is true on the terminal chunk.
	Done bool

	// Err carries a stream failure. The channel closes after an error.
	Err error
}

// sseChunk is the wire format of one "data:" event.
type sseChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// =============================================================================
// STREAMING COMPLETION
// =============================================================================

// StreamCompletion starts a streaming chat completion. Chunks arrive on
// the returned channel; the channel closes when the stream ends, fails,
// or the context is canceled. Errors after the stream starts are
// delivered as a chunk with Err set.
func (c *Client) StreamCompletion(ctx context.Context, req *CompletionRequest) (<-chan StreamChunk, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	req.Stream = true
	req.StreamOptions = &StreamOptions{IncludeUsage: true}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.enableCache {
		httpReq.Header.Set("litellm-cache", "true")
	}

	resp, err := sharedStreamingClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		resp.Body.Close()
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	chunks := make(chan StreamChunk, 64)
	go c.readStream(ctx, resp.Body, chunks)
	return chunks, nil
}

// readStream parses SSE events off the response body until the stream
// terminates.
func (c *Client) readStream(ctx context.Context, body io.ReadCloser, chunks chan<- StreamChunk) {
	defer close(chunks)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		if data == "[DONE]" {
			select {
			case chunks <- StreamChunk{Done: true}:
			case <-ctx.Done():
			}
			return
		}

		var sc sseChunk
		if err := json.Unmarshal([]byte(data), &sc); err != nil {
			// Malformed chunks are skipped, not fatal.
			continue
		}

		chunk := StreamChunk{Usage: sc.Usage}
		if len(sc.Choices) > 0 {
			chunk.Content = sc.Choices[0].Delta.Content
			if sc.Choices[0].FinishReason != nil {
				chunk.FinishReason = *sc.Choices[0].FinishReason
			}
		}
		if chunk.Content == "" && chunk.Usage == nil && chunk.FinishReason == "" {
			continue
		}

		select {
		case chunks <- chunk:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		select {
		case chunks <- StreamChunk{Err: fmt.Errorf("stream read: %w", err)}:
		case <-ctx.Done():
		}
	}
}
