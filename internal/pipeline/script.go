package pipeline

import (
	"context"
	"fmt"
	"strings"

	"tubecast/internal/logging"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

const (
	scriptTemperature = 0.7
	scriptMaxTokens   = 3000
	scriptTone        = "professional and engaging"

	// Used when the channel carries no script template.
	fallbackScriptTemplate = "Write a video script about {{TOPIC}} based on these news items:\n\n" +
		"{{NEWS_DATA}}\n\n" +
		"The tone should be {{TONE}}. Structure the script in short paragraphs suitable for narration, " +
		"with a hook at the start and a clear closing line."
)

// runScript turns the research digest into a narration script using the
// channel's script template, persists it on the job record, and stores it
// in the run context. The persisted copy is what an operator reviews and
// may edit while the job waits for approval.
func (r *Runner) runScript(ctx context.Context, jc *Context, job *store.Job, channel *store.Channel) error {
	items, err := jc.RequireNewsItems()
	if err != nil {
		return err
	}

	prompt := buildScriptPrompt(channel, items)
	script, err := r.generate(ctx, StageScript, prompt, scriptTemperature, scriptMaxTokens)
	if err != nil {
		return err
	}

	jc.SetScript(script)
	job.Script = script
	if err := r.store.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("persisting script: %w", err)
	}

	r.logger.Info("script generated",
		logging.Int64(logging.FieldJobID, job.ID),
		logging.String(logging.FieldStage, StageScript),
		logging.Int("length", len(script)))
	return nil
}

func buildScriptPrompt(channel *store.Channel, items []services.NewsItem) string {
	template := fallbackScriptTemplate
	if tpl, ok := channel.Template("script"); ok && tpl.TemplateText != "" {
		template = tpl.TemplateText
	}

	prompt := strings.ReplaceAll(template, "{{NEWS_DATA}}", buildNewsDigest(items))
	prompt = strings.ReplaceAll(prompt, "{{TOPIC}}", channel.NicheName())
	prompt = strings.ReplaceAll(prompt, "{{CHANNEL_NAME}}", channel.Name)
	prompt = strings.ReplaceAll(prompt, "{{TONE}}", scriptTone)
	return prompt
}

// buildNewsDigest renders the fetched items as a numbered list of title
// and summary pairs.
func buildNewsDigest(items []services.NewsItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		if item.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", item.Summary)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
