package newsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"newswire/config"
	"newswire/models"
	"newswire/providers/providertest"
)

func newTestFetcher(baseURL, key string, store *providertest.FakeStore) *Fetcher {
	cfg := &config.Config{NewsAPIBaseURL: baseURL, NewsAPIKey: key}
	return NewFetcher(cfg, store, zap.NewNop())
}

func serveEverything(t *testing.T, payload EverythingResponse, gotQuery *map[string]string, gotHeader *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if gotHeader != nil {
			*gotHeader = r.Header.Get("X-Api-Key")
		}
		if gotQuery != nil {
			q := map[string]string{}
			for k := range r.URL.Query() {
				q[k] = r.URL.Query().Get(k)
			}
			*gotQuery = q
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
}

func TestFetchArticlesMapsAndStores(t *testing.T) {
	payload := EverythingResponse{Status: "ok", TotalResults: 4}
	payload.Articles = []RawArticle{
		{
			Author:      "Jane Doe",
			Title:       "Markets rally",
			Description: "A summary",
			URL:         "https://example.com/markets",
			URLToImage:  "https://example.com/markets.jpg",
			PublishedAt: "2026-08-30T12:00:00Z",
			Content:     "Full text",
		},
		{
			// Ohne Autor und Quellenname greifen die Fallbacks.
			Title:       strings.Repeat("x", 300),
			URL:         "https://example.com/long-title",
			PublishedAt: "not-a-date",
		},
		{Title: "missing url"},
		{URL: "https://example.com/missing-title"},
	}
	payload.Articles[0].Source.ID = "example-news"
	payload.Articles[0].Source.Name = "Example News"

	var query map[string]string
	var apiKey string
	server := serveEverything(t, payload, &query, &apiKey)
	defer server.Close()

	store := providertest.NewFakeStore()
	fetcher := newTestFetcher(server.URL, "secret", store)

	articles, err := fetcher.FetchArticles(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 stored articles, got %d", len(articles))
	}

	if apiKey != "secret" {
		t.Errorf("expected X-Api-Key header, got %q", apiKey)
	}
	if query["q"] != "news" || query["language"] != "en" || query["pageSize"] != "100" {
		t.Errorf("unexpected default query params: %v", query)
	}

	first := articles[0]
	if first.Author != "Jane Doe" || first.Title != "Markets rally" {
		t.Errorf("unexpected mapping: %+v", first)
	}
	if first.APIArticleID == nil || *first.APIArticleID != first.URL {
		t.Errorf("expected URL as api article id, got %v", first.APIArticleID)
	}
	if first.PublishedAt == nil {
		t.Error("expected published_at to be parsed")
	}
	if store.Sources["Example News"] == nil {
		t.Error("expected source to be created by name")
	}
	if first.CategoryID == nil || store.Categories["General"] == nil {
		t.Error("expected articles to land in the General category")
	}

	second := articles[1]
	if second.Author != "Unknown" {
		t.Errorf("expected author fallback Unknown, got %q", second.Author)
	}
	if len([]rune(second.Title)) != models.MaxTitleLen {
		t.Errorf("expected title truncated to %d, got %d", models.MaxTitleLen, len([]rune(second.Title)))
	}
	if second.PublishedAt != nil {
		t.Error("expected unparseable timestamp to map to nil")
	}
	if store.Sources["Unknown Source"] == nil {
		t.Error("expected source name fallback Unknown Source")
	}
}

func TestFetchArticlesWithoutKeyIsNoop(t *testing.T) {
	store := providertest.NewFakeStore()
	fetcher := newTestFetcher("http://127.0.0.1:1", "", store)

	articles, err := fetcher.FetchArticles(context.Background(), nil)
	if err != nil {
		t.Fatalf("missing key must not be an error, got %v", err)
	}
	if articles != nil {
		t.Errorf("expected no articles, got %d", len(articles))
	}
	if len(store.Articles) != 0 {
		t.Error("store must stay untouched without a key")
	}
}

func TestFetchArticlesNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, "secret", providertest.NewFakeStore())
	if _, err := fetcher.FetchArticles(context.Background(), nil); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchArticlesStoreError(t *testing.T) {
	payload := EverythingResponse{Status: "ok"}
	payload.Articles = []RawArticle{{Title: "t", URL: "https://example.com/a"}}
	server := serveEverything(t, payload, nil, nil)
	defer server.Close()

	store := providertest.NewFakeStore()
	store.Err = context.DeadlineExceeded
	fetcher := newTestFetcher(server.URL, "secret", store)
	if _, err := fetcher.FetchArticles(context.Background(), nil); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
