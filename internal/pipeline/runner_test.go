package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tubecast/internal/pipeline"
	"tubecast/internal/retry"
	"tubecast/internal/services"
	"tubecast/internal/store"
	"tubecast/internal/testsupport"
)

const stubScript = "The first paragraph of the generated script is long enough to keep as a segment.\n\n" +
	"The second paragraph also clears the minimum length filter without any trouble.\n\n" +
	"The third paragraph rounds out the script so segmentation has enough material."

func newTestRunner(t *testing.T, st *store.Store, text services.TextGenerator, news services.NewsSource,
	speech services.SpeechSynthesizer, assembler pipeline.Assembler) *pipeline.Runner {
	t.Helper()
	exec := retry.New(nil, retry.WithSleeper(func(context.Context, time.Duration) error { return nil }))
	return pipeline.NewRunner(st, text, news, speech, assembler, exec, nil, "alloy")
}

func defaultStubs() (*testsupport.StubTextGenerator, *testsupport.StubNewsSource, *testsupport.StubSynthesizer, *testsupport.CapturingAssembler) {
	text := &testsupport.StubTextGenerator{
		Responses: map[string]string{
			"Write a video script": stubScript,
			"YouTube title":        "A Compelling Title",
			"video description":    "A description with keywords.",
			"comma-separated":      "ai, tech news, automation",
			"thumbnail concept":    "Bold text over a split-screen render.",
		},
	}
	news := &testsupport.StubNewsSource{Items: testsupport.DefaultNewsItems(5)}
	speech := &testsupport.StubSynthesizer{}
	assembler := &testsupport.CapturingAssembler{}
	return text, news, speech, assembler
}

func TestRunCompletesWhenChannelNeedsNoApproval(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Daily Tech", "youtube", false)
	job := testsupport.NewJob(t, st, channel.ID)

	text, news, speech, assembler := defaultStubs()
	runner := newTestRunner(t, st, text, news, speech, assembler)

	outcome, err := runner.Run(context.Background(), job, channel)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.Suspended {
		t.Fatal("run should not suspend without approval requirement")
	}
	if !strings.HasPrefix(outcome.VideoURL, "https://youtube.com/watch?v=") {
		t.Fatalf("unexpected video URL: %q", outcome.VideoURL)
	}
	if assembler.Calls() != 1 {
		t.Fatalf("expected 1 assembly, got %d", assembler.Calls())
	}
	if assembler.Captured().Script != stubScript {
		t.Fatal("assembler should receive the generated script")
	}
	if assembler.Captured().Seo == nil || assembler.Captured().Seo.Title != "A Compelling Title" {
		t.Fatalf("assembler received wrong seo: %+v", assembler.Captured().Seo)
	}
	if len(assembler.Captured().Visuals) != 3 {
		t.Fatalf("expected 3 visual prompts, got %d", len(assembler.Captured().Visuals))
	}
	if speech.Calls() != 1 {
		t.Fatalf("expected 1 synthesis call, got %d", speech.Calls())
	}

	reloaded, err := st.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if reloaded.Progress != 80 {
		t.Fatalf("expected progress 80 at the render checkpoint, got %d", reloaded.Progress)
	}
	if reloaded.Script != stubScript {
		t.Fatal("script should be persisted on the job record")
	}
}

func TestRunSuspendsForApproval(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Reviewed Channel", "youtube", true)
	job := testsupport.NewJob(t, st, channel.ID)

	text, news, speech, assembler := defaultStubs()
	runner := newTestRunner(t, st, text, news, speech, assembler)

	outcome, err := runner.Run(context.Background(), job, channel)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !outcome.Suspended {
		t.Fatal("run should suspend when the channel requires approval")
	}
	if assembler.Calls() != 0 || speech.Calls() != 0 {
		t.Fatal("fan-out must not start before approval")
	}

	reloaded, err := st.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if reloaded.Status != store.StatusWaitingApproval {
		t.Fatalf("expected waiting_approval, got %s", reloaded.Status)
	}
	if reloaded.Progress != 40 {
		t.Fatalf("expected progress 40, got %d", reloaded.Progress)
	}
	if strings.TrimSpace(reloaded.Script) == "" {
		t.Fatal("suspended job must carry its script for review")
	}
}

func TestResumeUsesPersistedScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Reviewed Channel", "youtube", true)
	job := testsupport.NewJob(t, st, channel.ID)

	text, news, speech, assembler := defaultStubs()
	runner := newTestRunner(t, st, text, news, speech, assembler)

	if _, err := runner.Run(context.Background(), job, channel); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	edited := "An edited opening paragraph that an operator rewrote before approving the job.\n\n" +
		"A second edited paragraph that should flow through to the assembler unchanged.\n\n" +
		"A third edited paragraph to keep the segmenter supplied with enough material."
	job.Script = edited
	if err := st.UpdateJob(context.Background(), job); err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}

	outcome, err := runner.Resume(context.Background(), job, channel)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if outcome.Suspended || outcome.VideoURL == "" {
		t.Fatalf("resume should complete the run: %+v", outcome)
	}
	if assembler.Captured().Script != edited {
		t.Fatal("assembler should receive the edited script")
	}
}

func TestResumeFailsWithoutPersistedScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Reviewed Channel", "youtube", true)
	job := testsupport.NewJob(t, st, channel.ID)

	text, news, speech, assembler := defaultStubs()
	runner := newTestRunner(t, st, text, news, speech, assembler)

	_, err := runner.Resume(context.Background(), job, channel)
	var missing *pipeline.MissingPrerequisiteError
	if !errors.As(err, &missing) || missing.Key != "Script" {
		t.Fatalf("expected missing Script prerequisite, got %v", err)
	}
}

func TestFanOutPromptsCarryEditorialRequirements(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Daily Tech", "youtube", false)
	job := testsupport.NewJob(t, st, channel.ID)

	text, news, speech, assembler := defaultStubs()
	runner := newTestRunner(t, st, text, news, speech, assembler)

	if _, err := runner.Run(context.Background(), job, channel); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	findPrompt := func(marker string) string {
		t.Helper()
		for _, prompt := range text.Prompts() {
			if strings.Contains(prompt, marker) {
				return prompt
			}
		}
		t.Fatalf("no prompt containing %q was issued", marker)
		return ""
	}

	title := findPrompt("YouTube title")
	if !strings.Contains(title, "60 characters or less") || !strings.Contains(title, "emojis strategically") {
		t.Fatalf("title prompt missing length or emoji requirements: %q", title)
	}
	description := findPrompt("video description")
	if !strings.Contains(description, "call-to-action") || !strings.Contains(description, "hashtags") {
		t.Fatalf("description prompt missing call-to-action or hashtags: %q", description)
	}
	tags := findPrompt("comma-separated list")
	if !strings.Contains(tags, "8-12") || !strings.Contains(tags, "Technology") {
		t.Fatalf("tags prompt missing count or niche: %q", tags)
	}
	visual := findPrompt("Flux/Midjourney/DALL-E")
	if !strings.Contains(visual, "lighting and composition") {
		t.Fatalf("visual prompt missing style guidance: %q", visual)
	}
}

func TestFanOutAudioFailureSkipsAssembly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Daily Tech", "youtube", false)
	job := testsupport.NewJob(t, st, channel.ID)

	text, news, _, assembler := defaultStubs()
	speech := &testsupport.StubSynthesizer{
		Err: services.Wrap(services.ErrPermanent, "tts", "synthesize", "voice unavailable", nil),
	}
	runner := newTestRunner(t, st, text, news, speech, assembler)

	_, err := runner.Run(context.Background(), job, channel)
	var fanOutErr *pipeline.FanOutError
	if !errors.As(err, &fanOutErr) {
		t.Fatalf("expected FanOutError, got %v", err)
	}
	if len(fanOutErr.Errs) != 1 {
		t.Fatalf("expected one branch failure, got %d", len(fanOutErr.Errs))
	}
	if assembler.Calls() != 0 {
		t.Fatal("assembly must not run when a branch fails")
	}
}

func TestResearchZeroItemsFailsTheJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	channel := testsupport.NewChannel(t, st, "Daily Tech", "youtube", false)
	job := testsupport.NewJob(t, st, channel.ID)

	text, _, speech, assembler := defaultStubs()
	news := &testsupport.StubNewsSource{}
	runner := newTestRunner(t, st, text, news, speech, assembler)

	_, err := runner.Run(context.Background(), job, channel)
	var missing *pipeline.MissingPrerequisiteError
	if !errors.As(err, &missing) || missing.Key != "NewsItems" {
		t.Fatalf("expected missing NewsItems prerequisite, got %v", err)
	}
	if text.CallCount() != 0 {
		t.Fatalf("no generation should run without research material, got %d calls", text.CallCount())
	}
}
