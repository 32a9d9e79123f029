package services

import (
	"context"
	"time"
)

// TextGenerator is the provider contract for prompt-driven text generation.
type TextGenerator interface {
	// Generate produces text for the prompt. Temperature controls randomness
	// (0.0 deterministic, 1.0 creative); maxTokens caps the response length.
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
	// AnalyzeImage describes an image fetched from a URL. An empty prompt
	// asks for a general description.
	AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, error)
	// Name identifies the provider in logs.
	Name() string
}

// NewsItem is a single story returned by a news source.
type NewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
}

// NewsSource retrieves stories for a topic or niche.
type NewsSource interface {
	Fetch(ctx context.Context, topic string, count int) ([]NewsItem, error)
}

// AudioArtifact is the opaque handle a speech synthesizer returns. The
// pipeline never inspects it beyond passing it to assembly.
type AudioArtifact struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// SpeechSynthesizer turns a narration script into an audio artifact.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, script, voice string) (*AudioArtifact, error)
}
