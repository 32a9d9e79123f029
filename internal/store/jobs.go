package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const jobColumns = `id, channel_id, status, current_stage, progress, script, video_url, log_output, created_at, started_at, completed_at`

// CreateJob inserts a new pending job for a channel.
func (s *Store) CreateJob(ctx context.Context, channelID int64) (*Job, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (channel_id, status, created_at) VALUES (?, ?, ?)`,
		channelID,
		StatusPending,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetJob(ctx, id)
}

// GetJob fetches a job by identifier. Returns nil when the job does not exist.
func (s *Store) GetJob(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// UpdateJob persists the mutable job fields.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is required")
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET
            channel_id = ?, status = ?, current_stage = ?, progress = ?,
            script = ?, video_url = ?, log_output = ?, started_at = ?, completed_at = ?
        WHERE id = ?`,
		job.ChannelID,
		job.Status,
		job.CurrentStage,
		job.Progress,
		nullableString(job.Script),
		nullableString(job.VideoURL),
		job.LogOutput,
		nullableTime(job.StartedAt),
		nullableTime(job.CompletedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %d not found", job.ID)
	}
	return nil
}

// ListRecentJobs returns the newest jobs first, up to limit.
func (s *Store) ListRecentJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListJobsByChannel returns every job for a channel, newest first.
func (s *Store) ListJobsByChannel(ctx context.Context, channelID int64) ([]*Job, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs WHERE channel_id = ? ORDER BY created_at DESC, id DESC`,
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs by channel: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

// CountJobsByStatus aggregates job counts per lifecycle state.
func (s *Store) CountJobsByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var raw string
		var count int
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		if status, ok := ParseStatus(raw); ok {
			counts[status] = count
		}
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job         Job
		status      string
		script      sql.NullString
		videoURL    sql.NullString
		createdAt   sql.NullString
		startedAt   sql.NullString
		completedAt sql.NullString
	)
	if err := row.Scan(
		&job.ID,
		&job.ChannelID,
		&status,
		&job.CurrentStage,
		&job.Progress,
		&script,
		&videoURL,
		&job.LogOutput,
		&createdAt,
		&startedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}

	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown job status %q", status)
	}
	job.Status = parsed
	job.Script = script.String
	job.VideoURL = videoURL.String

	var err error
	if job.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if job.StartedAt, err = parseTimePtr(startedAt); err != nil {
		return nil, err
	}
	if job.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}
	return &job, nil
}

func collectJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
