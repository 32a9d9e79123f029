package pipeline

import (
	"context"
	"fmt"
	"strings"

	"tubecast/internal/services"
	"tubecast/internal/store"
)

// SeoMetadata holds the publish-facing metadata produced by the SEO branch.
type SeoMetadata struct {
	Title               string
	Description         string
	Tags                []string
	ThumbnailSuggestion string
}

// VisualPrompt describes the imagery for one script segment.
type VisualPrompt struct {
	Segment         string
	Prompt          string
	SequenceNumber  int
	DurationSeconds float64
}

// AssemblyInput collects everything the renderer needs to produce a video.
type AssemblyInput struct {
	Script  string
	Seo     *SeoMetadata
	Visuals []VisualPrompt
	Audio   *services.AudioArtifact
	Channel *store.Channel
}

// Assembler renders the final video and returns its public URL. The URL
// must be non-empty on success.
type Assembler interface {
	Assemble(ctx context.Context, input AssemblyInput) (string, error)
}

// Outcome reports how a pipeline run ended. A suspended run is not an
// error: the job is parked in WaitingApproval until a human resumes it.
type Outcome struct {
	Suspended bool
	VideoURL  string
}

// MissingPrerequisiteError reports a stage reading an artifact that no
// earlier stage produced.
type MissingPrerequisiteError struct {
	Key    string
	Detail string
}

func (e *MissingPrerequisiteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("missing prerequisite %s", e.Key)
	}
	return fmt.Sprintf("missing prerequisite %s: %s", e.Key, e.Detail)
}

// FanOutError aggregates the failures of the parallel branches. All
// branches run to completion before it is built, so it carries every
// cause, not just the first.
type FanOutError struct {
	Errs []error
}

func (e *FanOutError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("parallel stage failed: %s", strings.Join(msgs, "; "))
}

func (e *FanOutError) Unwrap() []error {
	return e.Errs
}
