// Package media renders pipeline artifacts into a published video. The
// default implementation stages a render manifest on disk and reports a
// platform-shaped URL; a real renderer slots in behind the same
// pipeline.Assembler contract.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tubecast/internal/logging"
	"tubecast/internal/pipeline"
	"tubecast/internal/services"
	"tubecast/internal/textutil"
)

// Studio writes a render manifest for each assembled video under the
// staging directory and returns the URL the video would publish at.
type Studio struct {
	stagingDir string
	logger     *slog.Logger
}

func NewStudio(stagingDir string, logger *slog.Logger) *Studio {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Studio{stagingDir: stagingDir, logger: logger}
}

// renderManifest is the on-disk description of one assembled video.
type renderManifest struct {
	VideoID     string          `json:"video_id"`
	ChannelName string          `json:"channel_name"`
	Platform    string          `json:"platform"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Thumbnail   string          `json:"thumbnail_suggestion"`
	Script      string          `json:"script"`
	AudioURL    string          `json:"audio_url"`
	AudioSecs   float64         `json:"audio_duration_seconds"`
	Scenes      []manifestScene `json:"scenes"`
}

type manifestScene struct {
	Sequence        int     `json:"sequence"`
	Segment         string  `json:"segment"`
	Prompt          string  `json:"prompt"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (s *Studio) Assemble(ctx context.Context, input pipeline.AssemblyInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if input.Channel == nil {
		return "", services.Wrap(services.ErrValidation, "media", "assemble",
			"assembly input has no channel", nil)
	}

	videoID := newVideoID()
	manifest := renderManifest{
		VideoID:     videoID,
		ChannelName: input.Channel.Name,
		Platform:    input.Channel.Platform,
		Script:      input.Script,
	}
	if input.Seo != nil {
		manifest.Title = input.Seo.Title
		manifest.Description = input.Seo.Description
		manifest.Tags = input.Seo.Tags
		manifest.Thumbnail = input.Seo.ThumbnailSuggestion
	}
	if input.Audio != nil {
		manifest.AudioURL = input.Audio.URL
		manifest.AudioSecs = input.Audio.DurationSeconds
	}
	for _, v := range input.Visuals {
		manifest.Scenes = append(manifest.Scenes, manifestScene{
			Sequence:        v.SequenceNumber,
			Segment:         v.Segment,
			Prompt:          v.Prompt,
			DurationSeconds: v.DurationSeconds,
		})
	}

	if err := s.writeManifest(videoID, &manifest); err != nil {
		return "", err
	}

	url := videoURL(input.Channel.Platform, input.Channel.Name, videoID)
	s.logger.Info("render manifest staged",
		logging.String("video_id", videoID),
		logging.String("platform", input.Channel.Platform),
		logging.String("video_url", url))
	return url, nil
}

func (s *Studio) writeManifest(videoID string, manifest *renderManifest) error {
	if err := os.MkdirAll(s.stagingDir, 0o755); err != nil {
		return services.Wrap(services.ErrPermanent, "media", "assemble",
			"creating staging directory", err)
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrPermanent, "media", "assemble",
			"encoding render manifest", err)
	}
	path := filepath.Join(s.stagingDir, videoID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "media", "assemble",
			"writing render manifest", err)
	}
	return nil
}

// newVideoID derives an 11-character identifier from a UUID, matching the
// shape of platform video IDs.
func newVideoID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:11]
}

// videoURL builds the public URL shape for the channel's platform.
func videoURL(platform, channelName, videoID string) string {
	switch strings.ToLower(platform) {
	case "youtube":
		return fmt.Sprintf("https://youtube.com/watch?v=%s", videoID)
	case "tiktok":
		return fmt.Sprintf("https://tiktok.com/@%s/video/%s", textutil.Handle(channelName), videoID)
	default:
		return fmt.Sprintf("https://%s.com/videos/%s", strings.ToLower(platform), videoID)
	}
}
