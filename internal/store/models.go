package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusPending            Status = "pending"
	StatusProcessing         Status = "processing"
	StatusProcessingParallel Status = "processing_parallel"
	StatusWaitingApproval    Status = "waiting_approval"
	StatusCompleted          Status = "completed"
	StatusFailed             Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusProcessingParallel,
	StatusWaitingApproval,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status ends the job lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job represents a generation job persisted in SQLite.
type Job struct {
	ID           int64
	ChannelID    int64
	Status       Status
	CurrentStage string
	Progress     int
	Script       string
	VideoURL     string
	LogOutput    string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// SetProgress updates the display stage and progress checkpoint together.
// Progress never moves backward within a run.
func (j *Job) SetProgress(stage string, progress int) {
	j.CurrentStage = stage
	if progress > j.Progress {
		j.Progress = progress
	}
}

// SetFailed marks the job as failed with the given diagnostic message.
func (j *Job) SetFailed(message string) {
	now := time.Now().UTC()
	j.Status = StatusFailed
	j.CurrentStage = "Failed"
	j.LogOutput = message
	j.CompletedAt = &now
}

// SetCompleted marks the job as successfully finished with its video URL.
func (j *Job) SetCompleted(videoURL string) {
	now := time.Now().UTC()
	j.Status = StatusCompleted
	j.CurrentStage = "Completed"
	j.Progress = 100
	j.VideoURL = videoURL
	j.CompletedAt = &now
}

// Niche groups channels around a content topic and owns its prompt templates.
type Niche struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// PromptTemplate is a niche-scoped template for one stage type (e.g. "Script").
// Template text carries {{PLACEHOLDER}} tokens substituted verbatim before use.
type PromptTemplate struct {
	ID           int64
	NicheID      int64
	Type         string
	TemplateText string
}

// Channel is a configured publishing target. It is read once at dequeue and
// treated as immutable for the duration of a job run.
type Channel struct {
	ID              int64
	Name            string
	Platform        string
	NicheID         *int64
	RequireApproval bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Niche     *Niche
	Templates []PromptTemplate
}

// NicheName returns the channel's niche name, defaulting to "General".
func (c *Channel) NicheName() string {
	if c.Niche != nil && strings.TrimSpace(c.Niche.Name) != "" {
		return c.Niche.Name
	}
	return "General"
}

// Template returns the channel's template for a stage type, if configured.
func (c *Channel) Template(templateType string) (PromptTemplate, bool) {
	for _, tpl := range c.Templates {
		if strings.EqualFold(tpl.Type, templateType) {
			return tpl, true
		}
	}
	return PromptTemplate{}, false
}
