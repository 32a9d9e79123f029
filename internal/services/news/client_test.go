package news_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tubecast/internal/config"
	"tubecast/internal/services"
	"tubecast/internal/services/news"
)

const articlesBody = `{
  "status": "ok",
  "articles": [
    {"title": "First Story", "description": "What happened first.", "url": "https://news.example/1",
     "publishedAt": "2026-08-29T10:00:00Z", "source": {"name": "Example Wire"}},
    {"title": "", "description": "dropped, no title", "url": "https://news.example/2",
     "publishedAt": "2026-08-29T09:00:00Z", "source": {"name": "Example Wire"}},
    {"title": "Second Story", "description": "What happened next.", "url": "https://news.example/3",
     "publishedAt": "bad-timestamp", "source": {"name": "Example Wire"}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *news.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return news.NewClient(config.News{APIKey: "nk-test", BaseURL: server.URL})
}

func TestFetchMapsArticlesToNewsItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Technology" {
			t.Errorf("unexpected topic %q", got)
		}
		if got := r.URL.Query().Get("sortBy"); got != "publishedAt" {
			t.Errorf("unexpected sortBy %q", got)
		}
		if got := r.Header.Get("X-Api-Key"); got != "nk-test" {
			t.Errorf("unexpected api key header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(articlesBody))
	})

	items, err := client.Fetch(context.Background(), "Technology", 5)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (untitled dropped), got %d", len(items))
	}
	first := items[0]
	if first.Title != "First Story" || first.Summary != "What happened first." {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.Source != "Example Wire" || first.Category != "Technology" {
		t.Fatalf("source/category not mapped: %+v", first)
	}
	if first.PublishedAt.IsZero() {
		t.Fatal("publishedAt should parse for well-formed timestamps")
	}
	if !items[1].PublishedAt.IsZero() {
		t.Fatal("malformed publishedAt should map to the zero time")
	}
}

func TestFetchCapsAtRequestedCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlesBody))
	})

	items, err := client.Fetch(context.Background(), "Technology", 1)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestFetchClassifiesRateLimitAsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Fetch(context.Background(), "Technology", 5)
	if !services.IsTransient(err) {
		t.Fatalf("429 should be transient, got %v", err)
	}
}

func TestFetchClassifiesUnauthorizedAsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Fetch(context.Background(), "Technology", 5)
	if err == nil || services.IsTransient(err) {
		t.Fatalf("401 should be permanent, got %v", err)
	}
}

func TestFetchRequiresAPIKey(t *testing.T) {
	client := news.NewClient(config.News{})
	_, err := client.Fetch(context.Background(), "Technology", 5)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
