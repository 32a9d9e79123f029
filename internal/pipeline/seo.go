package pipeline

import (
	"context"
	"fmt"
	"strings"

	"tubecast/internal/logging"
	"tubecast/internal/store"
	"tubecast/internal/textutil"
)

const (
	titleTemperature     = 0.8
	titleMaxTokens       = 100
	descTemperature      = 0.7
	descMaxTokens        = 300
	tagsTemperature      = 0.6
	tagsMaxTokens        = 150
	thumbnailTemperature = 0.7
	thumbnailMaxTokens   = 200

	seoExcerptLong  = 500
	seoExcerptShort = 300
)

const (
	titlePromptFormat = "Based on this video script, create a compelling YouTube title that is:\n" +
		"- Attention-grabbing but honest (no misleading clickbait)\n" +
		"- 60 characters or less\n" +
		"- Includes relevant keywords\n" +
		"- Uses emojis strategically\n\n" +
		"Script excerpt: %s\n\n" +
		"Generate only the title, nothing else."

	descriptionPromptFormat = "Based on this video script, create a YouTube video description that:\n" +
		"- Summarizes the video content (3-4 sentences)\n" +
		"- Includes a call-to-action\n" +
		"- Uses relevant keywords naturally\n" +
		"- Includes relevant hashtags at the end\n\n" +
		"Script excerpt: %s\n\n" +
		"Generate only the description."

	tagsPromptFormat = "Based on this video about %s, generate 8-12 relevant YouTube tags.\n" +
		"Tags should be comma-separated, include both broad and specific terms.\n\n" +
		"Script excerpt: %s\n\n" +
		"Generate only the tags as a comma-separated list."

	thumbnailPromptFormat = "Based on this video script, suggest a compelling thumbnail concept.\n" +
		"Describe the visual elements, text overlay, and overall composition in 2-3 sentences.\n\n" +
		"Script excerpt: %s\n\n" +
		"Generate only the thumbnail description."
)

// runSeo derives publish metadata from the script with four sequential
// generation calls. The calls stay sequential inside the branch so each
// prompt can reference a stable excerpt without racing the others for
// rate-limit headroom.
func (r *Runner) runSeo(ctx context.Context, jc *Context, channel *store.Channel) error {
	script, err := jc.RequireScript()
	if err != nil {
		return err
	}

	long := textutil.Excerpt(script, seoExcerptLong)
	short := textutil.Excerpt(script, seoExcerptShort)

	title, err := r.generate(ctx, "SEO Title",
		fmt.Sprintf(titlePromptFormat, long),
		titleTemperature, titleMaxTokens)
	if err != nil {
		return err
	}

	description, err := r.generate(ctx, "SEO Description",
		fmt.Sprintf(descriptionPromptFormat, long),
		descTemperature, descMaxTokens)
	if err != nil {
		return err
	}

	tagLine, err := r.generate(ctx, "SEO Tags",
		fmt.Sprintf(tagsPromptFormat, channel.NicheName(), short),
		tagsTemperature, tagsMaxTokens)
	if err != nil {
		return err
	}

	thumbnail, err := r.generate(ctx, "SEO Thumbnail",
		fmt.Sprintf(thumbnailPromptFormat, short),
		thumbnailTemperature, thumbnailMaxTokens)
	if err != nil {
		return err
	}

	seo := &SeoMetadata{
		Title:               textutil.StripQuotes(title),
		Description:         strings.TrimSpace(description),
		Tags:                textutil.ParseList(tagLine),
		ThumbnailSuggestion: strings.TrimSpace(thumbnail),
	}
	jc.SetSeo(seo)

	r.logger.Info("seo metadata generated",
		logging.String(logging.FieldStage, StageParallel),
		logging.String("title", seo.Title),
		logging.Int("tags", len(seo.Tags)))
	return nil
}
