package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tubecast/internal/config"
)

const userAgent = "Tubecast/0.1.0"

// Service defines the notification surface exposed to the worker and API.
type Service interface {
	NotifyJobStarted(ctx context.Context, jobID int64, channelName string) error
	NotifyAwaitingApproval(ctx context.Context, jobID int64, channelName string) error
	NotifyJobCompleted(ctx context.Context, jobID int64, channelName, videoURL string) error
	NotifyJobFailed(ctx context.Context, jobID int64, channelName, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		jobs:      cfg.Notifications.Jobs,
		approvals: cfg.Notifications.Approvals,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	jobs      bool
	approvals bool
	errors    bool
}

func (n *ntfyService) NotifyJobStarted(ctx context.Context, jobID int64, channelName string) error {
	if !n.jobs {
		return nil
	}
	data := payload{
		title:   "Tubecast - Job Started",
		message: fmt.Sprintf("Started job %d for %s", jobID, strings.TrimSpace(channelName)),
		tags:    []string{"tubecast", "job", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAwaitingApproval(ctx context.Context, jobID int64, channelName string) error {
	if !n.approvals {
		return nil
	}
	data := payload{
		title:    "Tubecast - Approval Needed",
		message:  fmt.Sprintf("Job %d for %s has a script awaiting review", jobID, strings.TrimSpace(channelName)),
		tags:     []string{"tubecast", "approval", "waiting"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, jobID int64, channelName, videoURL string) error {
	if !n.jobs {
		return nil
	}
	message := fmt.Sprintf("Job %d for %s completed", jobID, strings.TrimSpace(channelName))
	if videoURL = strings.TrimSpace(videoURL); videoURL != "" {
		message = fmt.Sprintf("%s\n%s", message, videoURL)
	}
	data := payload{
		title:   "Tubecast - Job Complete",
		message: message,
		tags:    []string{"tubecast", "job", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, jobID int64, channelName, reason string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Job %d for %s failed", jobID, strings.TrimSpace(channelName))
	if reason = strings.TrimSpace(reason); reason != "" {
		builder.WriteString(": ")
		builder.WriteString(reason)
	}
	data := payload{
		title:    "Tubecast - Job Failed",
		message:  builder.String(),
		tags:     []string{"tubecast", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Tubecast - Test",
		message:  "Notification system test",
		tags:     []string{"tubecast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobStarted(context.Context, int64, string) error           { return nil }
func (noopService) NotifyAwaitingApproval(context.Context, int64, string) error     { return nil }
func (noopService) NotifyJobCompleted(context.Context, int64, string, string) error { return nil }
func (noopService) NotifyJobFailed(context.Context, int64, string, string) error    { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
