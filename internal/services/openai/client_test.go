package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tubecast/internal/config"
	"tubecast/internal/services"
	"tubecast/internal/services/openai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return openai.NewClient(config.OpenAI{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	})
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestGenerateReturnsCompletionContent(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("  a generated script  ")))
	})

	out, err := client.Generate(context.Background(), "write something", 0.7, 3000)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "a generated script" {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if gotBody["temperature"] != 0.7 {
		t.Fatalf("temperature not forwarded: %v", gotBody["temperature"])
	}
	messages := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
}

func TestGenerateClassifiesRateLimitAsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), "prompt", 0.5, 100)
	if !services.IsTransient(err) {
		t.Fatalf("429 should be transient, got %v", err)
	}
}

func TestGenerateClassifiesServerErrorAsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Generate(context.Background(), "prompt", 0.5, 100)
	if !services.IsTransient(err) {
		t.Fatalf("502 should be transient, got %v", err)
	}
}

func TestGenerateClassifiesBadRequestAsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.Generate(context.Background(), "prompt", 0.5, 100)
	if err == nil || services.IsTransient(err) {
		t.Fatalf("400 should be permanent, got %v", err)
	}
}

func TestGenerateEmptyChoicesIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Generate(context.Background(), "prompt", 0.5, 100)
	if !services.IsTransient(err) {
		t.Fatalf("empty choices should be transient, got %v", err)
	}
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	client := openai.NewClient(config.OpenAI{})
	_, err := client.Generate(context.Background(), "prompt", 0.5, 100)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
