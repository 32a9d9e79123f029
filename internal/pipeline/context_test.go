package pipeline

import (
	"errors"
	"sync"
	"testing"

	"tubecast/internal/services"
)

func TestContextReadsAbsentValuesWithoutError(t *testing.T) {
	jc := NewContext()
	if _, ok := jc.Script(); ok {
		t.Fatal("absent script should report ok=false")
	}
	if _, ok := jc.Seo(); ok {
		t.Fatal("absent seo should report ok=false")
	}
	if _, ok := jc.Audio(); ok {
		t.Fatal("absent audio should report ok=false")
	}
}

func TestContextRequireNamesMissingKey(t *testing.T) {
	jc := NewContext()

	_, err := jc.RequireScript()
	var missing *MissingPrerequisiteError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPrerequisiteError, got %v", err)
	}
	if missing.Key != "Script" {
		t.Fatalf("expected key Script, got %q", missing.Key)
	}

	if _, err := jc.RequireSeo(); !errors.As(err, &missing) || missing.Key != "SeoMetadata" {
		t.Fatalf("expected SeoMetadata key, got %v", err)
	}
	if _, err := jc.RequireAudio(); !errors.As(err, &missing) || missing.Key != "AudioArtifact" {
		t.Fatalf("expected AudioArtifact key, got %v", err)
	}
	if _, err := jc.RequireVisuals(); !errors.As(err, &missing) || missing.Key != "VisualPrompts" {
		t.Fatalf("expected VisualPrompts key, got %v", err)
	}
	if _, err := jc.RequireNewsItems(); !errors.As(err, &missing) || missing.Key != "NewsItems" {
		t.Fatalf("expected NewsItems key, got %v", err)
	}
}

func TestContextRoundTripsValues(t *testing.T) {
	jc := NewContext()
	jc.SetScript("a script")
	jc.SetSeo(&SeoMetadata{Title: "t"})
	jc.SetVisuals([]VisualPrompt{{SequenceNumber: 1}})
	jc.SetAudio(&services.AudioArtifact{ID: "a"})

	if script, err := jc.RequireScript(); err != nil || script != "a script" {
		t.Fatalf("script round trip failed: %q %v", script, err)
	}
	if seo, err := jc.RequireSeo(); err != nil || seo.Title != "t" {
		t.Fatalf("seo round trip failed: %v", err)
	}
	if visuals, err := jc.RequireVisuals(); err != nil || len(visuals) != 1 {
		t.Fatalf("visuals round trip failed: %v", err)
	}
	if audio, err := jc.RequireAudio(); err != nil || audio.ID != "a" {
		t.Fatalf("audio round trip failed: %v", err)
	}
}

func TestContextConcurrentBranchWrites(t *testing.T) {
	jc := NewContext()
	jc.SetScript("shared")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		jc.SetSeo(&SeoMetadata{Title: "t"})
	}()
	go func() {
		defer wg.Done()
		jc.SetVisuals([]VisualPrompt{{SequenceNumber: 1}})
	}()
	go func() {
		defer wg.Done()
		jc.SetAudio(&services.AudioArtifact{ID: "a"})
	}()
	wg.Wait()

	if _, ok := jc.Seo(); !ok {
		t.Fatal("seo write lost")
	}
	if _, ok := jc.Visuals(); !ok {
		t.Fatal("visuals write lost")
	}
	if _, ok := jc.Audio(); !ok {
		t.Fatal("audio write lost")
	}
}
