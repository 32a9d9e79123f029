// Package news implements the news source contract against a
// newsapi.org-compatible JSON API.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tubecast/internal/config"
	"tubecast/internal/services"
)

const defaultHTTPTimeout = 15 * time.Second

// Client fetches stories over HTTP.
type Client struct {
	cfg        config.News
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
func NewClient(cfg config.News, opts ...Option) *Client {
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
	if strings.TrimSpace(client.cfg.BaseURL) == "" {
		client.cfg.BaseURL = "https://newsapi.org/v2"
	}
	return client
}

type articlesResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch returns up to count stories for the topic, newest first.
func (c *Client) Fetch(ctx context.Context, topic string, count int) ([]services.NewsItem, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, services.Wrap(services.ErrValidation, "news", "fetch", "topic required", nil)
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "news", "fetch", "api key required", nil)
	}
	if count <= 0 {
		count = 5
	}

	query := url.Values{}
	query.Set("q", topic)
	query.Set("pageSize", strconv.Itoa(count))
	query.Set("sortBy", "publishedAt")
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/everything?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrPermanent, "news", "fetch", "build request", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTransient, "news", "fetch", "http request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "news", "fetch", "read response", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		marker := services.ErrPermanent
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			marker = services.ErrTransient
		}
		return nil, services.Wrap(marker, "news", "fetch", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var parsed articlesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, services.Wrap(services.ErrTransient, "news", "fetch", "decode response", err)
	}
	if parsed.Status != "" && parsed.Status != "ok" {
		return nil, services.Wrap(services.ErrPermanent, "news", "fetch", "api error: "+parsed.Message, nil)
	}

	items := make([]services.NewsItem, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if strings.TrimSpace(article.Title) == "" {
			continue
		}
		item := services.NewsItem{
			Title:    strings.TrimSpace(article.Title),
			Summary:  strings.TrimSpace(article.Description),
			Source:   strings.TrimSpace(article.Source.Name),
			URL:      strings.TrimSpace(article.URL),
			Category: topic,
		}
		if published, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
			item.PublishedAt = published
		}
		items = append(items, item)
		if len(items) == count {
			break
		}
	}
	return items, nil
}
