package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"tubecast/internal/logging"
	"tubecast/internal/retry"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

// Stage display names, persisted on the job record as it advances.
const (
	StageResearch = "Research Agent"
	StageScript   = "Script Writer"
	StageApproval = "Awaiting Human Approval"
	StageParallel = "Parallel Processing"
	StageRender   = "Rendering Video"
	StageDone     = "Completed"
)

// Progress checkpoints for each stage boundary.
const (
	progressResearch = 10
	progressScript   = 30
	progressApproval = 40
	progressParallel = 50
	progressRender   = 80
	progressDone     = 100
)

// Runner executes the stage sequence for one job at a time.
type Runner struct {
	store     *store.Store
	text      services.TextGenerator
	news      services.NewsSource
	speech    services.SpeechSynthesizer
	assembler Assembler
	exec      *retry.Executor
	logger    *slog.Logger
	voice     string
}

func NewRunner(
	st *store.Store,
	text services.TextGenerator,
	news services.NewsSource,
	speech services.SpeechSynthesizer,
	assembler Assembler,
	exec *retry.Executor,
	logger *slog.Logger,
	voice string,
) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		store:     st,
		text:      text,
		news:      news,
		speech:    speech,
		assembler: assembler,
		exec:      exec,
		logger:    logger,
		voice:     voice,
	}
}

// Run drives a fresh job from research through assembly. When the channel
// requires approval the run suspends after the script stage: the job is
// persisted as WaitingApproval and the outcome reports Suspended without
// error.
func (r *Runner) Run(ctx context.Context, job *store.Job, channel *store.Channel) (Outcome, error) {
	jc := NewContext()

	if err := r.checkpoint(ctx, job, store.StatusProcessing, StageResearch, progressResearch); err != nil {
		return Outcome{}, err
	}
	if err := r.runResearch(ctx, jc, channel); err != nil {
		return Outcome{}, err
	}

	if err := r.checkpoint(ctx, job, store.StatusProcessing, StageScript, progressScript); err != nil {
		return Outcome{}, err
	}
	if err := r.runScript(ctx, jc, job, channel); err != nil {
		return Outcome{}, err
	}

	if channel.RequireApproval {
		if err := r.checkpoint(ctx, job, store.StatusWaitingApproval, StageApproval, progressApproval); err != nil {
			return Outcome{}, err
		}
		r.logger.Info("job suspended for approval",
			logging.Int64(logging.FieldJobID, job.ID),
			logging.String(logging.FieldStage, StageApproval))
		return Outcome{Suspended: true}, nil
	}

	return r.finish(ctx, jc, job, channel)
}

// Resume re-enters the pipeline at the fan-out stage using the persisted
// script, which an operator may have edited while the job was suspended.
func (r *Runner) Resume(ctx context.Context, job *store.Job, channel *store.Channel) (Outcome, error) {
	if job.Script == "" {
		return Outcome{}, &MissingPrerequisiteError{Key: "Script", Detail: "job has no persisted script to resume from"}
	}
	jc := NewContext()
	jc.SetScript(job.Script)
	return r.finish(ctx, jc, job, channel)
}

// finish runs the fan-out and assembly stages shared by fresh and resumed
// runs.
func (r *Runner) finish(ctx context.Context, jc *Context, job *store.Job, channel *store.Channel) (Outcome, error) {
	if err := r.checkpoint(ctx, job, store.StatusProcessingParallel, StageParallel, progressParallel); err != nil {
		return Outcome{}, err
	}
	if err := r.fanOut(ctx, jc, channel); err != nil {
		return Outcome{}, err
	}

	if err := r.checkpoint(ctx, job, store.StatusProcessingParallel, StageRender, progressRender); err != nil {
		return Outcome{}, err
	}
	url, err := r.runAssembly(ctx, jc, channel)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{VideoURL: url}, nil
}

// checkpoint persists a stage transition before the stage runs, so a
// crash leaves the record pointing at the stage that was in flight.
func (r *Runner) checkpoint(ctx context.Context, job *store.Job, status store.Status, stage string, progress int) error {
	job.Status = status
	job.SetProgress(stage, progress)
	if err := r.store.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("persisting %s checkpoint: %w", stage, err)
	}
	r.logger.Debug("stage checkpoint",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldStage, stage),
		logging.Int("progress", progress))
	return nil
}

// generate wraps a text-generation call in the retry policy.
func (r *Runner) generate(ctx context.Context, stage, prompt string, temperature float64, maxTokens int) (string, error) {
	var out string
	err := r.exec.Do(ctx, stage, func(ctx context.Context) error {
		var err error
		out, err = r.text.Generate(ctx, prompt, temperature, maxTokens)
		return err
	})
	return out, err
}
