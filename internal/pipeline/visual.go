package pipeline

import (
	"context"
	"fmt"

	"tubecast/internal/logging"
)

const (
	visualTemperature = 0.7
	visualMaxTokens   = 150

	visualPromptFormat = "Based on this video script segment, create a detailed image generation prompt for Flux/Midjourney/DALL-E.\n\n" +
		"Script segment: %s\n\n" +
		"Generate a concise but descriptive prompt (1-2 sentences) that:\n" +
		"- Captures the key visual elements\n" +
		"- Specifies style (photorealistic, artistic, etc.)\n" +
		"- Includes lighting and composition details\n" +
		"- Is optimized for AI image generation\n\n" +
		"Generate only the image prompt, nothing else."
)

// runVisuals segments the script and generates one image prompt per
// segment. Sequence numbers are 1-based and durations estimate narration
// time for the segment text.
func (r *Runner) runVisuals(ctx context.Context, jc *Context) error {
	script, err := jc.RequireScript()
	if err != nil {
		return err
	}

	segments := segmentScript(script)
	if len(segments) == 0 {
		return &MissingPrerequisiteError{Key: "VisualPrompts", Detail: "script yielded no segments"}
	}

	visuals := make([]VisualPrompt, 0, len(segments))
	for i, segment := range segments {
		prompt := fmt.Sprintf(visualPromptFormat, segment)
		generated, err := r.generate(ctx, "Visual Prompts", prompt, visualTemperature, visualMaxTokens)
		if err != nil {
			return err
		}
		visuals = append(visuals, VisualPrompt{
			Segment:         segment,
			Prompt:          generated,
			SequenceNumber:  i + 1,
			DurationSeconds: segmentDuration(segment),
		})
	}

	jc.SetVisuals(visuals)
	r.logger.Info("visual prompts generated",
		logging.String(logging.FieldStage, StageParallel),
		logging.Int("segments", len(visuals)))
	return nil
}
