package pipeline

import (
	"context"
	"fmt"

	"tubecast/internal/logging"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

const (
	researchItemCount      = 5
	enrichmentTemperature  = 0.5
	enrichmentMaxTokens    = 150
	enrichmentPromptFormat = "Create a brief, engaging summary (2-3 sentences) for this news headline: %s"
)

// runResearch fetches recent news for the channel's niche and fills in
// summaries for items that arrived without one. A fetch that returns zero
// items fails the stage: nothing downstream can work from an empty corpus.
func (r *Runner) runResearch(ctx context.Context, jc *Context, channel *store.Channel) error {
	niche := channel.NicheName()

	var items []services.NewsItem
	err := r.exec.Do(ctx, StageResearch, func(ctx context.Context) error {
		var err error
		items, err = r.news.Fetch(ctx, niche, researchItemCount)
		return err
	})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return &MissingPrerequisiteError{
			Key:    "NewsItems",
			Detail: fmt.Sprintf("no news items found for niche %q", niche),
		}
	}

	for i := range items {
		if items[i].Summary != "" {
			continue
		}
		prompt := fmt.Sprintf(enrichmentPromptFormat, items[i].Title)
		summary, err := r.generate(ctx, StageResearch, prompt, enrichmentTemperature, enrichmentMaxTokens)
		if err != nil {
			return err
		}
		items[i].Summary = summary
	}

	r.logger.Info("research completed",
		logging.String(logging.FieldStage, StageResearch),
		logging.String("niche", niche),
		logging.Int("items", len(items)))
	jc.SetNewsItems(items)
	return nil
}
