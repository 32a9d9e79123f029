package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type jobView struct {
	ID           int64  `json:"id"`
	ChannelID    int64  `json:"channel_id"`
	Status       string `json:"status"`
	CurrentStage string `json:"current_stage"`
	Progress     int    `json:"progress"`
	Script       string `json:"script"`
	VideoURL     string `json:"video_url"`
	LogOutput    string `json:"log_output"`
	CreatedAt    string `json:"created_at"`
	StartedAt    string `json:"started_at"`
	CompletedAt  string `json:"completed_at"`
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <channel-id>",
		Short: "Trigger video generation for a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid channel id %q", args[0])
			}
			var result struct {
				JobID int64 `json:"job_id"`
			}
			if err := ctx.postJSON(fmt.Sprintf("/api/jobs/trigger/%d", channelID), nil, &result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted job %d\n", result.JobID)
			return nil
		},
	}
}

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var scriptFile string

	cmd := &cobra.Command{
		Use:   "approve <job-id>",
		Short: "Approve a job awaiting script review",
		Long: "Approve a job that is waiting for approval, optionally replacing the\n" +
			"generated script with an edited version before the job resumes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}

			var script string
			if scriptFile != "" {
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return fmt.Errorf("read script file: %w", err)
				}
				script = string(data)
			}

			body := map[string]string{"script": script}
			if err := ctx.postJSON(fmt.Sprintf("/api/jobs/%d/approve", jobID), body, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %d approved and resumed\n", jobID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptFile, "script-file", "", "Replace the script with the contents of this file")
	return cmd
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var (
		limit     int
		channelID int64
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/jobs?limit=%d", limit)
			if channelID > 0 {
				path = fmt.Sprintf("/api/jobs?channel=%d", channelID)
			}
			var jobs []jobView
			if err := ctx.getJSON(path, &jobs); err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs yet")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					strconv.FormatInt(job.ID, 10),
					strconv.FormatInt(job.ChannelID, 10),
					job.Status,
					job.CurrentStage,
					fmt.Sprintf("%d%%", job.Progress),
					job.CreatedAt,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Channel", "Status", "Stage", "Progress", "Created"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of jobs to list")
	cmd.Flags().Int64Var(&channelID, "channel", 0, "List only jobs for this channel")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var withScript bool

	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			var job jobView
			if err := ctx.getJSON(fmt.Sprintf("/api/jobs/%d", jobID), &job); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %d (channel %d)\n", job.ID, job.ChannelID)
			fmt.Fprintf(out, "  Status:   %s\n", job.Status)
			fmt.Fprintf(out, "  Stage:    %s\n", job.CurrentStage)
			fmt.Fprintf(out, "  Progress: %d%%\n", job.Progress)
			if job.VideoURL != "" {
				fmt.Fprintf(out, "  Video:    %s\n", job.VideoURL)
			}
			if job.LogOutput != "" {
				fmt.Fprintf(out, "  Log:      %s\n", job.LogOutput)
			}
			fmt.Fprintf(out, "  Created:  %s\n", job.CreatedAt)
			if job.StartedAt != "" {
				fmt.Fprintf(out, "  Started:  %s\n", job.StartedAt)
			}
			if job.CompletedAt != "" {
				fmt.Fprintf(out, "  Finished: %s\n", job.CompletedAt)
			}
			if withScript && job.Script != "" {
				fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(job.Script))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withScript, "script", false, "Print the generated script")
	return cmd
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show daemon queue health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var health struct {
				QueueDepth    int            `json:"queue_depth"`
				QueueCapacity int            `json:"queue_capacity"`
				JobCounts     map[string]int `json:"job_counts"`
			}
			if err := ctx.getJSON("/api/health", &health); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queue: %d/%d tickets\n", health.QueueDepth, health.QueueCapacity)
			for status, count := range health.JobCounts {
				fmt.Fprintf(out, "  %-20s %d\n", status, count)
			}
			return nil
		},
	}
}
