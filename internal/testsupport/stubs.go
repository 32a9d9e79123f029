package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tubecast/internal/pipeline"
	"tubecast/internal/services"
)

// StubTextGenerator answers every prompt deterministically. Responses can
// be keyed on a prompt substring; unmatched prompts get a generic reply.
type StubTextGenerator struct {
	mu        sync.Mutex
	Responses map[string]string
	Err       error
	Calls     []string
}

func (s *StubTextGenerator) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	for key, response := range s.Responses {
		if strings.Contains(prompt, key) {
			return response, nil
		}
	}
	return fmt.Sprintf("generated response %d", len(s.Calls)), nil
}

func (s *StubTextGenerator) AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, error) {
	return "image analysis", nil
}

func (s *StubTextGenerator) Name() string { return "stub" }

// CallCount returns the number of Generate calls so far.
func (s *StubTextGenerator) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// Prompts returns a copy of every prompt passed to Generate.
func (s *StubTextGenerator) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompts := make([]string, len(s.Calls))
	copy(prompts, s.Calls)
	return prompts
}

// StubNewsSource returns a fixed set of items.
type StubNewsSource struct {
	Items []services.NewsItem
	Err   error
}

func (s *StubNewsSource) Fetch(ctx context.Context, topic string, count int) ([]services.NewsItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Items) > count {
		return s.Items[:count], nil
	}
	return s.Items, nil
}

// DefaultNewsItems builds count items with titles and summaries filled in.
func DefaultNewsItems(count int) []services.NewsItem {
	items := make([]services.NewsItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, services.NewsItem{
			Title:       fmt.Sprintf("Headline %d", i+1),
			Summary:     fmt.Sprintf("Summary for headline %d.", i+1),
			URL:         fmt.Sprintf("https://news.example/%d", i+1),
			Source:      "Example Wire",
			PublishedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Category:    "Technology",
		})
	}
	return items
}

// StubSynthesizer returns a fixed audio artifact.
type StubSynthesizer struct {
	Artifact *services.AudioArtifact
	Err      error
	mu       sync.Mutex
	calls    int
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, script, voice string) (*services.AudioArtifact, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Artifact != nil {
		return s.Artifact, nil
	}
	return &services.AudioArtifact{
		ID:              "audio-1",
		URL:             "https://audio.example/audio-1.mp3",
		DurationSeconds: 42,
	}, nil
}

// Calls returns how many times Synthesize ran.
func (s *StubSynthesizer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// CapturingAssembler records its input and returns a fixed URL.
type CapturingAssembler struct {
	URL string
	Err error

	mu    sync.Mutex
	Input *pipeline.AssemblyInput
	calls int
}

func (a *CapturingAssembler) Assemble(ctx context.Context, input pipeline.AssemblyInput) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	captured := input
	a.Input = &captured
	if a.Err != nil {
		return "", a.Err
	}
	if a.URL != "" {
		return a.URL, nil
	}
	return "https://youtube.com/watch?v=abcdefghijk", nil
}

// Calls returns how many times Assemble ran.
func (a *CapturingAssembler) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// Captured returns the most recent assembly input, nil before the first call.
func (a *CapturingAssembler) Captured() *pipeline.AssemblyInput {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Input
}
