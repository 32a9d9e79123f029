package pipeline

import (
	"strings"
	"testing"

	"tubecast/internal/services"
	"tubecast/internal/store"
)

func templateChannel(text string) *store.Channel {
	return &store.Channel{
		Name:  "Tech Daily",
		Niche: &store.Niche{Name: "Technology"},
		Templates: []store.PromptTemplate{
			{Type: "Script", TemplateText: text},
		},
	}
}

func TestBuildScriptPromptSubstitutesAllPlaceholders(t *testing.T) {
	channel := templateChannel(
		"Write for {{CHANNEL_NAME}} about {{TOPIC}} in a {{TONE}} tone:\n{{NEWS_DATA}}")
	items := []services.NewsItem{
		{Title: "Big Launch", Summary: "Something shipped."},
	}

	prompt := buildScriptPrompt(channel, items)
	if !strings.Contains(prompt, "Write for Tech Daily about Technology") {
		t.Fatalf("channel name or topic not substituted: %q", prompt)
	}
	if !strings.Contains(prompt, "professional and engaging") {
		t.Fatalf("tone not substituted: %q", prompt)
	}
	if !strings.Contains(prompt, "1. Big Launch") {
		t.Fatalf("news digest not substituted: %q", prompt)
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("unsubstituted placeholder left in prompt: %q", prompt)
	}
}

func TestBuildScriptPromptFallsBackWithoutTemplate(t *testing.T) {
	channel := &store.Channel{Name: "Tech Daily"}
	items := []services.NewsItem{{Title: "Big Launch", Summary: "Something shipped."}}

	prompt := buildScriptPrompt(channel, items)
	if !strings.Contains(prompt, "Write a video script about General") {
		t.Fatalf("fallback template not applied: %q", prompt)
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("unsubstituted placeholder left in prompt: %q", prompt)
	}
}

func TestBuildNewsDigestNumbersItems(t *testing.T) {
	items := []services.NewsItem{
		{Title: "First", Summary: "one"},
		{Title: "Second"},
	}
	digest := buildNewsDigest(items)
	if !strings.Contains(digest, "1. First") || !strings.Contains(digest, "2. Second") {
		t.Fatalf("items not numbered: %q", digest)
	}
	if !strings.Contains(digest, "   one") {
		t.Fatalf("summary not indented under its title: %q", digest)
	}
}
