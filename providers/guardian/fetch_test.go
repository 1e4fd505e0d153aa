package guardian

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
	cfg := &config.Config{GuardianBaseURL: baseURL, GuardianKey: key}
	return NewFetcher(cfg, store, zap.NewNop())
}

func TestFetchArticlesMapsFields(t *testing.T) {
	var payload SearchResponse
	payload.Response.Status = "ok"
	first := RawResult{
		ID:                 "world/2026/aug/30/example",
		SectionName:        "World news",
		WebPublicationDate: "2026-08-30T09:30:00Z",
		WebTitle:           "Example headline",
		WebURL:             "https://www.theguardian.com/world/2026/aug/30/example",
	}
	first.Fields.Byline = "John Writer"
	first.Fields.Thumbnail = "https://media.guim.co.uk/thumb.jpg"
	first.Fields.BodyText = "Body text of the piece"
	second := RawResult{
		// Ohne sectionName fällt die Rubrik auf General zurück.
		ID:       "misc/no-section",
		WebTitle: "No section",
		WebURL:   "https://www.theguardian.com/misc/no-section",
	}
	payload.Response.Results = []RawResult{first, second, {WebTitle: "missing url"}}

	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
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
	fetcher := newTestFetcher(server.URL, "guardian-key", store)

	articles, err := fetcher.FetchArticles(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 stored articles, got %d", len(articles))
	}

	if gotQuery["api-key"] != "guardian-key" {
		t.Errorf("expected api-key query param, got %q", gotQuery["api-key"])
	}
	if gotQuery["show-fields"] != "bodyText,byline,thumbnail" {
		t.Errorf("unexpected show-fields: %q", gotQuery["show-fields"])
	}

	article := articles[0]
	if article.Author != "John Writer" || article.Content != "Body text of the piece" {
		t.Errorf("fields object not mapped: %+v", article)
	}
	if article.Description != "" {
		t.Errorf("description must stay empty, got %q", article.Description)
	}
	if article.URLToImage != "https://media.guim.co.uk/thumb.jpg" {
		t.Errorf("unexpected thumbnail: %q", article.URLToImage)
	}
	if article.APIArticleID == nil || *article.APIArticleID != "world/2026/aug/30/example" {
		t.Errorf("expected content id as api article id, got %v", article.APIArticleID)
	}

	source := store.Sources["The Guardian"]
	if source == nil || source.APIID != "the-guardian" {
		t.Errorf("expected fixed Guardian source, got %+v", source)
	}
	if store.Categories["World news"] == nil {
		t.Error("expected category derived from sectionName")
	}
	if store.Categories["General"] == nil {
		t.Error("expected General fallback for missing sectionName")
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
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, "guardian-key", providertest.NewFakeStore())
	if _, err := fetcher.FetchArticles(context.Background(), nil); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
