// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %q, want /images/generations", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"url":"https://img.example/abc.png"}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	url, err := client.GenerateImage(context.Background(), "a fox", "flux.1-schnell")
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if url != "https://img.example/abc.png" {
		t.Errorf("url = %q", url)
	}
}

func TestGenerateImageEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	_, err := client.GenerateImage(context.Background(), "a fox", "flux.1-schnell")
	if err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestCreateEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %q, want /embeddings", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2,0.3]}]}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	vec, err := client.CreateEmbedding(context.Background(), "hello", "nomic-embed-text-v1.5")
	if err != nil {
		t.Fatalf("CreateEmbedding failed: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Errorf("embedding = %v", vec)
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q, want /audio/transcriptions", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("model field = %q", got)
		}
		if _, hdr, err := r.FormFile("file"); err != nil || hdr.Filename != "clip.wav" {
			t.Errorf("file part = %v, %v", hdr, err)
		}
		fmt.Fprint(w, `{"text":"hello world"}`)
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	text, err := client.Transcribe(context.Background(), strings.NewReader("fake-audio"), "clip.wav", "whisper-large-v3")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"invalid_api_key","message":"bad"}}`, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, `{}`, ErrAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, ErrRateLimited},
		{"model not found", http.StatusNotFound, `{"error":{"message":"no such model"}}`, ErrModelNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := NewClient("test-key").WithBaseURL(srv.URL)
			_, err := client.GenerateImage(context.Background(), "x", "flux.1-schnell")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGatewayErrorMessage(t *testing.T) {
	e := &GatewayError{Code: "overloaded", Message: "try later", Status: 503}
	got := e.Error()
	if !strings.Contains(got, "overloaded") || !strings.Contains(got, "503") {
		t.Errorf("Error() = %q", got)
	}
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("   ")
	if client.IsConfigured() {
		t.Error("whitespace-only key should not count as configured")
	}
	if _, err := client.GenerateImage(context.Background(), "x", "m"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
