// Package tts implements the speech synthesis contract against a simple
// HTTP synthesis service.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tubecast/internal/config"
	"tubecast/internal/services"
)

const defaultHTTPTimeout = 120 * time.Second

// Client produces audio artifacts from narration scripts.
type Client struct {
	cfg        config.TTS
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a client from configuration.
func NewClient(cfg config.TTS, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type synthesizeResponse struct {
	ID              string  `json:"id"`
	AudioURL        string  `json:"audio_url"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error"`
}

// Synthesize converts the script to speech and returns the artifact handle.
func (c *Client) Synthesize(ctx context.Context, script, voice string) (*services.AudioArtifact, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, services.Wrap(services.ErrValidation, "tts", "synthesize", "script required", nil)
	}
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "synthesize", "base url required", nil)
	}
	if strings.TrimSpace(voice) == "" {
		voice = c.cfg.Voice
	}

	encoded, err := json.Marshal(synthesizeRequest{Text: script, Voice: voice})
	if err != nil {
		return nil, services.Wrap(services.ErrPermanent, "tts", "synthesize", "encode request", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/synthesize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrPermanent, "tts", "synthesize", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTransient, "tts", "synthesize", "http request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tts", "synthesize", "read response", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		marker := services.ErrPermanent
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			marker = services.ErrTransient
		}
		return nil, services.Wrap(marker, "tts", "synthesize", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var parsed synthesizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrTransient, "tts", "synthesize", "decode response", err)
	}
	if parsed.Error != "" {
		return nil, services.Wrap(services.ErrPermanent, "tts", "synthesize", "api error: "+parsed.Error, nil)
	}
	if strings.TrimSpace(parsed.AudioURL) == "" {
		return nil, services.Wrap(services.ErrTransient, "tts", "synthesize", "empty audio url", nil)
	}

	return &services.AudioArtifact{
		ID:              parsed.ID,
		URL:             parsed.AudioURL,
		DurationSeconds: parsed.DurationSeconds,
	}, nil
}
