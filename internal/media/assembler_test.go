package media_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubecast/internal/logging"
	"tubecast/internal/media"
	"tubecast/internal/pipeline"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

func testInput(platform string) pipeline.AssemblyInput {
	return pipeline.AssemblyInput{
		Script: "A short narration about something interesting.",
		Seo: &pipeline.SeoMetadata{
			Title:               "An Interesting Video",
			Description:         "All about it.",
			Tags:                []string{"interesting", "video"},
			ThumbnailSuggestion: "Bold text on a blue background",
		},
		Visuals: []pipeline.VisualPrompt{
			{Segment: "A short narration", Prompt: "wide establishing shot", SequenceNumber: 1, DurationSeconds: 4},
		},
		Audio: &services.AudioArtifact{ID: "aud-1", URL: "https://audio.example/aud-1.mp3", DurationSeconds: 12},
		Channel: &store.Channel{
			Name:     "Tech Daily",
			Platform: platform,
		},
	}
}

func TestAssembleStagesManifest(t *testing.T) {
	dir := t.TempDir()
	studio := media.NewStudio(dir, logging.NewNop())

	url, err := studio.Assemble(context.Background(), testInput("YouTube"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.HasPrefix(url, "https://youtube.com/watch?v=") {
		t.Fatalf("unexpected url %q", url)
	}
	videoID := strings.TrimPrefix(url, "https://youtube.com/watch?v=")
	if len(videoID) != 11 {
		t.Fatalf("video id should be 11 characters, got %q", videoID)
	}

	data, err := os.ReadFile(filepath.Join(dir, videoID+".json"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	var manifest struct {
		VideoID   string `json:"video_id"`
		Title     string `json:"title"`
		AudioURL  string `json:"audio_url"`
		Scenes    []struct {
			Sequence int    `json:"sequence"`
			Prompt   string `json:"prompt"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("decoding manifest: %v", err)
	}
	if manifest.VideoID != videoID || manifest.Title != "An Interesting Video" {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}
	if manifest.AudioURL != "https://audio.example/aud-1.mp3" {
		t.Fatalf("audio url not recorded: %+v", manifest)
	}
	if len(manifest.Scenes) != 1 || manifest.Scenes[0].Sequence != 1 {
		t.Fatalf("scenes not recorded: %+v", manifest.Scenes)
	}
}

func TestAssembleURLShapes(t *testing.T) {
	studio := media.NewStudio(t.TempDir(), logging.NewNop())

	url, err := studio.Assemble(context.Background(), testInput("TikTok"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.HasPrefix(url, "https://tiktok.com/@techdaily/video/") {
		t.Fatalf("unexpected tiktok url %q", url)
	}

	url, err = studio.Assemble(context.Background(), testInput("Vimeo"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !strings.HasPrefix(url, "https://vimeo.com/videos/") {
		t.Fatalf("unexpected fallback url %q", url)
	}
}

func TestAssembleRequiresChannel(t *testing.T) {
	studio := media.NewStudio(t.TempDir(), logging.NewNop())
	input := testInput("YouTube")
	input.Channel = nil

	if _, err := studio.Assemble(context.Background(), input); err == nil {
		t.Fatal("expected error for missing channel")
	}
}
