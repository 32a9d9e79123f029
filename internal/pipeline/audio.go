package pipeline

import (
	"context"

	"tubecast/internal/logging"
	"tubecast/internal/services"
)

// runAudio synthesizes narration for the full script.
func (r *Runner) runAudio(ctx context.Context, jc *Context) error {
	script, err := jc.RequireScript()
	if err != nil {
		return err
	}

	var artifact *services.AudioArtifact
	err = r.exec.Do(ctx, "Audio Synthesis", func(ctx context.Context) error {
		var err error
		artifact, err = r.speech.Synthesize(ctx, script, r.voice)
		return err
	})
	if err != nil {
		return err
	}

	jc.SetAudio(artifact)
	r.logger.Info("audio synthesized",
		logging.String(logging.FieldStage, StageParallel),
		logging.String("audio_id", artifact.ID),
		logging.Float64("duration_seconds", artifact.DurationSeconds))
	return nil
}
