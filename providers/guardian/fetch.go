package guardian

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"newswire/config"
	"newswire/models"
	"newswire/providers"
)

const (
	sourceName  = "The Guardian"
	sourceAPIID = "the-guardian"
)

// Fetcher implementiert das Provider-Interface für die Guardian Content API.
type Fetcher struct {
	Config *config.Config
	Store  providers.ArticleStore
	Logger *zap.Logger
	client *resty.Client
}

// NewFetcher erstellt einen neuen Guardian-Fetcher.
func NewFetcher(cfg *config.Config, store providers.ArticleStore, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Store:  store,
		Logger: logger,
		client: resty.New().SetTimeout(60 * time.Second),
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "guardian"
}

// FetchArticles holt Artikel vom /search-Endpunkt und speichert sie.
// Der API-Key wird als Query-Parameter mitgegeben.
func (f *Fetcher) FetchArticles(ctx context.Context, params map[string]string) ([]*models.Article, error) {
	if f.Config.GuardianKey == "" {
		f.Logger.Error("The Guardian API key is not set.")
		return nil, nil
	}

	query := map[string]string{
		"api-key":     f.Config.GuardianKey,
		"q":           "news",
		"show-fields": "bodyText,byline,thumbnail",
		"page-size":   "50",
	}
	for k, v := range params {
		query[k] = v
	}

	var payload SearchResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&payload).
		Get(f.Config.GuardianBaseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("guardian request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("guardian returned status %d", resp.StatusCode())
	}

	var processed []*models.Article
	for _, raw := range payload.Response.Results {
		if raw.WebURL == "" || raw.WebTitle == "" {
			continue
		}

		source, err := f.Store.FirstOrCreateSource(ctx, sourceName, sourceAPIID)
		if err != nil {
			return nil, fmt.Errorf("resolve source: %w", err)
		}

		categoryName := raw.SectionName
		if categoryName == "" {
			categoryName = "General"
		}
		category, err := f.Store.FirstOrCreateCategory(ctx, categoryName)
		if err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", categoryName, err)
		}

		apiID := raw.ID
		article := &models.Article{
			SourceID:     source.ID,
			CategoryID:   &category.ID,
			APIArticleID: &apiID,
			Author:       providers.Truncate(raw.Fields.Byline, models.MaxAuthorLen),
			Title:        providers.Truncate(raw.WebTitle, models.MaxTitleLen),
			// Die Search-Antwort des Guardian trägt keine separate Zusammenfassung.
			Description: "",
			URL:         providers.Truncate(raw.WebURL, models.MaxURLLen),
			URLToImage:  raw.Fields.Thumbnail,
			PublishedAt: providers.ParseTime(raw.WebPublicationDate),
			Content:     raw.Fields.BodyText,
		}

		stored, err := f.Store.UpsertArticleByURL(ctx, article)
		if err != nil {
			return nil, fmt.Errorf("store article %q: %w", article.URL, err)
		}
		processed = append(processed, stored)
	}

	return processed, nil
}
