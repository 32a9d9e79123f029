package pipeline

import (
	"context"
	"sync"

	"tubecast/internal/logging"
	"tubecast/internal/store"
)

// fanOut runs the SEO, visual and audio branches concurrently and waits
// for all three. Branches that fail do not cancel the others; every
// branch runs to completion so the aggregated error names all causes.
func (r *Runner) fanOut(ctx context.Context, jc *Context, channel *store.Channel) error {
	var wg sync.WaitGroup
	var seoErr, visualErr, audioErr error

	wg.Add(3)
	go func() {
		defer wg.Done()
		seoErr = r.runSeo(ctx, jc, channel)
	}()
	go func() {
		defer wg.Done()
		visualErr = r.runVisuals(ctx, jc)
	}()
	go func() {
		defer wg.Done()
		audioErr = r.runAudio(ctx, jc)
	}()
	wg.Wait()

	var errs []error
	for _, err := range []error{seoErr, visualErr, audioErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		r.logger.Error("parallel stage failed",
			logging.String(logging.FieldStage, StageParallel),
			logging.Int64(logging.FieldChannelID, channel.ID),
			logging.Int("failures", len(errs)))
		return &FanOutError{Errs: errs}
	}
	return nil
}
