package tts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tubecast/internal/config"
	"tubecast/internal/services"
	"tubecast/internal/services/tts"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *tts.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return tts.NewClient(config.TTS{BaseURL: server.URL, Voice: "alloy"})
}

func TestSynthesizeReturnsArtifact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		var req struct {
			Text  string `json:"text"`
			Voice string `json:"voice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "Hello from the pipeline." {
			t.Errorf("unexpected text %q", req.Text)
		}
		if req.Voice != "nova" {
			t.Errorf("unexpected voice %q", req.Voice)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "aud-7", "audio_url": "https://audio.example/aud-7.mp3", "duration_seconds": 42.5}`))
	})

	artifact, err := client.Synthesize(context.Background(), "Hello from the pipeline.", "nova")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if artifact.ID != "aud-7" || artifact.URL != "https://audio.example/aud-7.mp3" {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if artifact.DurationSeconds != 42.5 {
		t.Fatalf("unexpected duration: %v", artifact.DurationSeconds)
	}
}

func TestSynthesizeFallsBackToConfiguredVoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Voice string `json:"voice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Voice != "alloy" {
			t.Errorf("expected configured voice, got %q", req.Voice)
		}
		_, _ = w.Write([]byte(`{"id": "aud-8", "audio_url": "https://audio.example/aud-8.mp3", "duration_seconds": 10}`))
	})

	if _, err := client.Synthesize(context.Background(), "Narration.", ""); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
}

func TestSynthesizeAPIErrorIsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "voice not available"}`))
	})

	_, err := client.Synthesize(context.Background(), "Narration.", "alloy")
	if err == nil || services.IsTransient(err) {
		t.Fatalf("api error should be permanent, got %v", err)
	}
}

func TestSynthesizeEmptyAudioURLIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "aud-9", "duration_seconds": 10}`))
	})

	_, err := client.Synthesize(context.Background(), "Narration.", "alloy")
	if !services.IsTransient(err) {
		t.Fatalf("missing audio url should be transient, got %v", err)
	}
}

func TestSynthesizeServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Synthesize(context.Background(), "Narration.", "alloy")
	if !services.IsTransient(err) {
		t.Fatalf("502 should be transient, got %v", err)
	}
}

func TestSynthesizeRequiresBaseURL(t *testing.T) {
	client := tts.NewClient(config.TTS{Voice: "alloy"})
	_, err := client.Synthesize(context.Background(), "Narration.", "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSynthesizeRejectsEmptyScript(t *testing.T) {
	client := tts.NewClient(config.TTS{BaseURL: "http://127.0.0.1:0", Voice: "alloy"})
	_, err := client.Synthesize(context.Background(), "   ", "alloy")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
