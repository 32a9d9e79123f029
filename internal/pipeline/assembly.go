package pipeline

import (
	"context"

	"tubecast/internal/logging"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

// runAssembly hands every fan-out artifact to the renderer and returns
// the published video URL. An assembler that reports success with an
// empty URL is treated as a failure.
func (r *Runner) runAssembly(ctx context.Context, jc *Context, channel *store.Channel) (string, error) {
	script, err := jc.RequireScript()
	if err != nil {
		return "", err
	}
	seo, err := jc.RequireSeo()
	if err != nil {
		return "", err
	}
	visuals, err := jc.RequireVisuals()
	if err != nil {
		return "", err
	}
	audio, err := jc.RequireAudio()
	if err != nil {
		return "", err
	}

	input := AssemblyInput{
		Script:  script,
		Seo:     seo,
		Visuals: visuals,
		Audio:   audio,
		Channel: channel,
	}

	var url string
	err = r.exec.Do(ctx, StageRender, func(ctx context.Context) error {
		var err error
		url, err = r.assembler.Assemble(ctx, input)
		if err != nil {
			return err
		}
		if url == "" {
			return services.Wrap(services.ErrPermanent, "assembler", "assemble",
				"assembler returned an empty video URL", nil)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("video assembled",
		logging.Int64(logging.FieldChannelID, channel.ID),
		logging.String("video_url", url))
	return url, nil
}
