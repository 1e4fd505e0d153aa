package nytimes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"newswire/config"
	"newswire/providers/providertest"
)

func newTestFetcher(baseURL, key string, store *providertest.FakeStore) *Fetcher {
	cfg := &config.Config{NYTimesBaseURL: baseURL, NYTimesKey: key}
	return NewFetcher(cfg, store, zap.NewNop())
}

func TestFetchArticlesMapsDocs(t *testing.T) {
	var payload SearchResponse
	payload.Status = "OK"
	doc := RawDoc{
		ID:            "nyt://article/abc-123",
		WebURL:        "https://www.nytimes.com/2026/08/30/world/example.html",
		Snippet:       "Short snippet",
		PubDate:       "2026-08-30T08:15:00+0000",
		NewsDesk:      "Foreign",
		LeadParagraph: "Lead paragraph text",
	}
	doc.Headline.Main = "Times headline"
	doc.Byline.Original = "By A. Reporter"
	doc.Multimedia = []struct {
		URL string `json:"url"`
	}{{URL: ""}, {URL: "images/2026/08/30/example.jpg"}}

	noDesk := RawDoc{ID: "nyt://article/def-456", WebURL: "https://www.nytimes.com/2026/08/30/us/other.html"}
	noDesk.Headline.Main = "Other headline"

	payload.Response.Docs = []RawDoc{doc, noDesk, {WebURL: "https://www.nytimes.com/empty"}}

	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/articlesearch.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	store := providertest.NewFakeStore()
	fetcher := newTestFetcher(server.URL, "nyt-key", store)

	articles, err := fetcher.FetchArticles(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 stored articles, got %d", len(articles))
	}

	if gotQuery["api-key"] != "nyt-key" || gotQuery["sort"] != "newest" || gotQuery["page"] != "0" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}

	article := articles[0]
	if article.Title != "Times headline" || article.Author != "By A. Reporter" {
		t.Errorf("unexpected mapping: %+v", article)
	}
	if article.URLToImage != "https://www.nytimes.com/images/2026/08/30/example.jpg" {
		t.Errorf("expected prefixed multimedia url, got %q", article.URLToImage)
	}
	if article.Content != "Lead paragraph text" || article.Description != "Short snippet" {
		t.Errorf("lead paragraph or snippet not mapped: %+v", article)
	}
	if article.PublishedAt == nil {
		t.Error("expected +0000 timestamp to be parsed")
	}

	source := store.Sources["New York Times"]
	if source == nil || source.APIID != "new-york-times" {
		t.Errorf("expected fixed NYT source, got %+v", source)
	}
	if store.Categories["Foreign"] == nil || store.Categories["General"] == nil {
		t.Error("expected news_desk category and General fallback")
	}
	if articles[1].URLToImage != "" {
		t.Errorf("expected empty image without multimedia, got %q", articles[1].URLToImage)
	}
}

func TestFetchArticlesWithoutKeyIsNoop(t *testing.T) {
	store := providertest.NewFakeStore()
	fetcher := newTestFetcher("http://127.0.0.1:1", "", store)

	articles, err := fetcher.FetchArticles(context.Background(), nil)
	if err != nil || articles != nil {
		t.Fatalf("missing key must be a silent no-op, got %v / %v", articles, err)
	}
}

func TestFetchArticlesNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, "nyt-key", providertest.NewFakeStore())
	if _, err := fetcher.FetchArticles(context.Background(), nil); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
