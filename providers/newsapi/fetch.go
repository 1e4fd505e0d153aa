package newsapi

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

const generalCategory = "General"

// Fetcher implementiert das Provider-Interface für NewsAPI.org.
type Fetcher struct {
	Config *config.Config
	Store  providers.ArticleStore
	Logger *zap.Logger
	client *resty.Client
}

// NewFetcher erstellt einen neuen NewsAPI.org-Fetcher.
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
	return "newsapi"
}

// FetchArticles holt Artikel vom /everything-Endpunkt und speichert sie.
// Der API-Key wird als X-Api-Key-Header mitgegeben.
func (f *Fetcher) FetchArticles(ctx context.Context, params map[string]string) ([]*models.Article, error) {
	if f.Config.NewsAPIKey == "" {
		f.Logger.Error("NewsAPI.org API key is not set.")
		return nil, nil
	}

	query := map[string]string{
		"q":        "news",
		"language": "en",
		"pageSize": "100",
	}
	for k, v := range params {
		query[k] = v
	}

	var payload EverythingResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", f.Config.NewsAPIKey).
		SetQueryParams(query).
		SetResult(&payload).
		Get(f.Config.NewsAPIBaseURL + "/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode())
	}

	var processed []*models.Article
	for _, raw := range payload.Articles {
		// Ohne URL oder Titel ist der Datensatz nicht verwertbar.
		if raw.URL == "" || raw.Title == "" {
			continue
		}

		sourceName := raw.Source.Name
		if sourceName == "" {
			sourceName = "Unknown Source"
		}
		source, err := f.Store.FirstOrCreateSource(ctx, sourceName, raw.Source.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve source %q: %w", sourceName, err)
		}

		category, err := f.Store.FirstOrCreateCategory(ctx, generalCategory)
		if err != nil {
			return nil, fmt.Errorf("resolve category: %w", err)
		}

		author := raw.Author
		if author == "" {
			author = "Unknown"
		}

		// NewsAPI.org liefert keine eigene Artikel-ID, die URL dient als solche.
		url := providers.Truncate(raw.URL, models.MaxURLLen)
		article := &models.Article{
			SourceID:     source.ID,
			CategoryID:   &category.ID,
			APIArticleID: &url,
			Author:       providers.Truncate(author, models.MaxAuthorLen),
			Title:        providers.Truncate(raw.Title, models.MaxTitleLen),
			Description:  raw.Description,
			URL:          url,
			URLToImage:   raw.URLToImage,
			PublishedAt:  providers.ParseTime(raw.PublishedAt),
			Content:      raw.Content,
		}

		stored, err := f.Store.UpsertArticleByURL(ctx, article)
		if err != nil {
			return nil, fmt.Errorf("store article %q: %w", article.URL, err)
		}
		processed = append(processed, stored)
	}

	return processed, nil
}
