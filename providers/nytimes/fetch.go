package nytimes

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
	sourceName  = "New York Times"
	sourceAPIID = "new-york-times"

	// Multimedia-Einträge tragen nur relative Pfade.
	imageBaseURL = "https://www.nytimes.com/"
)

// Fetcher implementiert das Provider-Interface für die NYT Article Search API.
type Fetcher struct {
	Config *config.Config
	Store  providers.ArticleStore
	Logger *zap.Logger
	client *resty.Client
}

// NewFetcher erstellt einen neuen New-York-Times-Fetcher.
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
	return "nytimes"
}

// FetchArticles holt Dokumente von articlesearch.json und speichert sie.
// Der API-Key wird als Query-Parameter mitgegeben.
func (f *Fetcher) FetchArticles(ctx context.Context, params map[string]string) ([]*models.Article, error) {
	if f.Config.NYTimesKey == "" {
		f.Logger.Error("New York Times API key is not set.")
		return nil, nil
	}

	query := map[string]string{
		"api-key": f.Config.NYTimesKey,
		"q":       "news",
		"fl":      "web_url,headline,pub_date,byline,snippet,multimedia,_id,news_desk,lead_paragraph",
		"page":    "0",
		"sort":    "newest",
	}
	for k, v := range params {
		query[k] = v
	}

	var payload SearchResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&payload).
		Get(f.Config.NYTimesBaseURL + "/articlesearch.json")
	if err != nil {
		return nil, fmt.Errorf("nytimes request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("nytimes returned status %d", resp.StatusCode())
	}

	var processed []*models.Article
	for _, raw := range payload.Response.Docs {
		if raw.WebURL == "" || raw.Headline.Main == "" {
			continue
		}

		source, err := f.Store.FirstOrCreateSource(ctx, sourceName, sourceAPIID)
		if err != nil {
			return nil, fmt.Errorf("resolve source: %w", err)
		}

		categoryName := raw.NewsDesk
		if categoryName == "" {
			categoryName = "General"
		}
		category, err := f.Store.FirstOrCreateCategory(ctx, categoryName)
		if err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", categoryName, err)
		}

		// Erster Multimedia-Eintrag mit URL gewinnt.
		var imageURL string
		for _, media := range raw.Multimedia {
			if media.URL != "" {
				imageURL = imageBaseURL + media.URL
				break
			}
		}

		apiID := raw.ID
		article := &models.Article{
			SourceID:     source.ID,
			CategoryID:   &category.ID,
			APIArticleID: &apiID,
			Author:       providers.Truncate(raw.Byline.Original, models.MaxAuthorLen),
			Title:        providers.Truncate(raw.Headline.Main, models.MaxTitleLen),
			Description:  raw.Snippet,
			URL:          providers.Truncate(raw.WebURL, models.MaxURLLen),
			URLToImage:   imageURL,
			PublishedAt:  providers.ParseTime(raw.PubDate),
			// lead_paragraph statt Volltext, mehr liefert die Search-API nicht.
			Content: raw.LeadParagraph,
		}

		stored, err := f.Store.UpsertArticleByURL(ctx, article)
		if err != nil {
			return nil, fmt.Errorf("store article %q: %w", article.URL, err)
		}
		processed = append(processed, stored)
	}

	return processed, nil
}
