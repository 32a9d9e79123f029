package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tubecast/internal/dispatch"
	"tubecast/internal/logging"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

// Service coordinates job submission and approval on top of the store and
// the dispatch queue.
type Service struct {
	store  *store.Store
	queue  *dispatch.Queue
	logger *slog.Logger
}

func NewService(st *store.Store, queue *dispatch.Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: st, queue: queue, logger: logger}
}

// Submit creates a pending job for the channel and enqueues it. The job
// record exists before the ticket is queued, so a full queue blocks the
// caller while the record is already visible to inspection.
func (s *Service) Submit(ctx context.Context, channelID int64) (int64, error) {
	channel, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if channel == nil {
		return 0, &services.ChannelNotFoundError{ChannelID: channelID}
	}
	if !channel.Active {
		return 0, services.Wrap(services.ErrValidation, "api", "submit",
			fmt.Sprintf("channel %d is inactive", channelID), nil)
	}

	job, err := s.store.CreateJob(ctx, channelID)
	if err != nil {
		return 0, err
	}
	if err := s.queue.Submit(dispatch.Ticket{JobID: job.ID}); err != nil {
		return 0, fmt.Errorf("enqueue job %d: %w", job.ID, err)
	}

	s.logger.Info("job submitted",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.Int64(logging.FieldChannelID, channelID))
	return job.ID, nil
}

// Resume approves a suspended job and re-enqueues it for the fan-out
// stage. A non-empty editedScript replaces the persisted script before the
// job is queued. Jobs in any state other than WaitingApproval are rejected
// and their records left untouched.
func (s *Service) Resume(ctx context.Context, jobID int64, editedScript string) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return services.Wrap(services.ErrNotFound, "api", "resume",
			fmt.Sprintf("job %d not found", jobID), nil)
	}
	if job.Status != store.StatusWaitingApproval {
		return services.Wrap(services.ErrValidation, "api", "resume",
			fmt.Sprintf("job %d is %s, not awaiting approval", jobID, job.Status), nil)
	}

	if edited := strings.TrimSpace(editedScript); edited != "" {
		job.Script = edited
	}
	job.Status = store.StatusProcessing
	if err := s.store.UpdateJob(ctx, job); err != nil {
		return err
	}
	if err := s.queue.Submit(dispatch.Ticket{JobID: job.ID, Resume: true}); err != nil {
		return fmt.Errorf("enqueue resumed job %d: %w", job.ID, err)
	}

	s.logger.Info("job approved",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.Bool("script_edited", strings.TrimSpace(editedScript) != ""))
	return nil
}

// Job returns a single job record, nil when absent.
func (s *Service) Job(ctx context.Context, jobID int64) (*store.Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// RecentJobs returns the newest jobs first, capped at limit.
func (s *Service) RecentJobs(ctx context.Context, limit int) ([]*store.Job, error) {
	return s.store.ListRecentJobs(ctx, limit)
}

// ChannelJobs returns every job for one channel, newest first.
func (s *Service) ChannelJobs(ctx context.Context, channelID int64) ([]*store.Job, error) {
	return s.store.ListJobsByChannel(ctx, channelID)
}

// Channels returns every active channel.
func (s *Service) Channels(ctx context.Context) ([]*store.Channel, error) {
	return s.store.ListActiveChannels(ctx)
}

// QueueHealth summarizes queue depth and job counts by status.
func (s *Service) QueueHealth(ctx context.Context) (*Health, error) {
	counts, err := s.store.CountJobsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &Health{
		QueueDepth:    s.queue.Len(),
		QueueCapacity: s.queue.Cap(),
		JobCounts:     counts,
	}, nil
}

// Health is the payload behind the health endpoint.
type Health struct {
	QueueDepth    int                  `json:"queue_depth"`
	QueueCapacity int                  `json:"queue_capacity"`
	JobCounts     map[store.Status]int `json:"job_counts"`
}
