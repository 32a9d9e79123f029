package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tubecast/internal/dispatch"
	"tubecast/internal/logging"
	"tubecast/internal/notifications"
	"tubecast/internal/pipeline"
	"tubecast/internal/store"
)

// Worker consumes dispatch tickets and runs the pipeline for each job.
type Worker struct {
	store      *store.Store
	queue      *dispatch.Queue
	runner     *pipeline.Runner
	notifier   notifications.Service
	logger     *slog.Logger
	errorRetry time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func New(
	st *store.Store,
	queue *dispatch.Queue,
	runner *pipeline.Runner,
	notifier notifications.Service,
	logger *slog.Logger,
	errorRetry time.Duration,
) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	if errorRetry <= 0 {
		errorRetry = time.Second
	}
	return &Worker{
		store:      st,
		queue:      queue,
		runner:     runner,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "worker"),
		errorRetry: errorRetry,
		done:       make(chan struct{}),
	}
}

// Start launches the consumer loop. It returns immediately; the loop runs
// until Stop is called or the parent context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)
}

// Stop cancels the queue wait and waits for the in-flight job to finish.
// A run that already started keeps its provider calls alive; cancellation
// only takes effect between jobs.
func (w *Worker) Stop() {
	w.once.Do(func() {
		if w.cancel == nil {
			return
		}
		w.cancel()
		<-w.done
	})
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	for {
		ticket, err := w.queue.Take(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, dispatch.ErrClosed) {
				w.logger.Info("worker loop stopped")
				return
			}
			w.logger.Error("take ticket", logging.Error(err))
			if !w.pause(ctx) {
				return
			}
			continue
		}
		// The run is detached from loop cancellation so a shutdown mid-job
		// lets the pipeline finish instead of failing it with a cancelled
		// context.
		w.process(context.WithoutCancel(ctx), ticket)
	}
}

// process is the per-job error boundary. Pipeline failures mark the job
// failed; store failures while recording the result are logged and the
// loop continues.
func (w *Worker) process(ctx context.Context, ticket dispatch.Ticket) {
	runID := uuid.NewString()
	ctx = logging.WithJobID(ctx, ticket.JobID)
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, w.logger)

	job, err := w.store.GetJob(ctx, ticket.JobID)
	if err != nil {
		logger.Error("load job", logging.Error(err))
		w.pause(ctx)
		return
	}
	if job == nil {
		logger.Warn("ticket references missing job")
		return
	}

	channel, err := w.store.GetChannel(ctx, job.ChannelID)
	if err != nil {
		logger.Error("load channel", logging.Error(err))
		w.pause(ctx)
		return
	}
	if channel == nil {
		w.fail(ctx, logger, job, "", fmt.Sprintf("channel %d no longer exists", job.ChannelID))
		return
	}

	if !ticket.Resume {
		now := time.Now().UTC()
		job.Status = store.StatusProcessing
		job.StartedAt = &now
		if err := w.store.UpdateJob(ctx, job); err != nil {
			logger.Error("mark job started", logging.Error(err))
			w.pause(ctx)
			return
		}
		if err := w.notifier.NotifyJobStarted(ctx, job.ID, channel.Name); err != nil {
			logger.Warn("notify job started", logging.Error(err))
		}
	}

	var outcome pipeline.Outcome
	if ticket.Resume {
		outcome, err = w.runner.Resume(ctx, job, channel)
	} else {
		outcome, err = w.runner.Run(ctx, job, channel)
	}
	if err != nil {
		w.fail(ctx, logger, job, channel.Name, err.Error())
		return
	}

	if outcome.Suspended {
		if err := w.notifier.NotifyAwaitingApproval(ctx, job.ID, channel.Name); err != nil {
			logger.Warn("notify awaiting approval", logging.Error(err))
		}
		return
	}

	job.SetCompleted(outcome.VideoURL)
	if err := w.store.UpdateJob(ctx, job); err != nil {
		logger.Error("mark job completed", logging.Error(err))
		w.pause(ctx)
		return
	}
	logger.Info("job completed", logging.String("video_url", outcome.VideoURL))
	if err := w.notifier.NotifyJobCompleted(ctx, job.ID, channel.Name, outcome.VideoURL); err != nil {
		logger.Warn("notify job completed", logging.Error(err))
	}
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, job *store.Job, channelName, reason string) {
	logger.Error("job failed", logging.String("reason", reason))
	job.SetFailed(reason)
	if err := w.store.UpdateJob(ctx, job); err != nil {
		logger.Error("mark job failed", logging.Error(err))
	}
	if err := w.notifier.NotifyJobFailed(ctx, job.ID, channelName, reason); err != nil {
		logger.Warn("notify job failed", logging.Error(err))
	}
}

// pause sleeps for the error retry interval. It returns false when the
// context was cancelled while waiting.
func (w *Worker) pause(ctx context.Context) bool {
	timer := time.NewTimer(w.errorRetry)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
