package providers

import (
	"context"

	"newswire/models"
)

// Provider ist das Interface, das jeder News-Provider (z.B. NewsAPI.org,
// The Guardian, New York Times) implementieren muss.
type Provider interface {
	// FetchArticles ruft die Provider-API ab, normalisiert die Antwort und
	// persistiert jeden Artikel per Upsert-by-URL. Zurück kommen die
	// gespeicherten Artikel inklusive aufgelöster IDs.
	//
	// params überschreibt die Default-Query-Parameter des Providers.
	// Ein fehlender API-Key liefert (nil, nil) nach einem Error-Log;
	// Transport-, Parse- und Store-Fehler liefern (nil, err).
	FetchArticles(ctx context.Context, params map[string]string) ([]*models.Article, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "newsapi").
	Name() string
}

// ArticleStore ist die Persistenz-Schnittstelle der Provider. Die
// Implementierung muss Find-or-Create atomar machen (Unique-Constraint plus
// Conflict-Handling), damit parallele Läufe keine Duplikate anlegen.
type ArticleStore interface {
	// FirstOrCreateSource löst eine Quelle per Name auf und legt sie bei
	// Bedarf mit der Provider-Kennung an.
	FirstOrCreateSource(ctx context.Context, name, apiID string) (*models.Source, error)

	// FirstOrCreateCategory löst eine Rubrik per Name auf.
	FirstOrCreateCategory(ctx context.Context, name string) (*models.Category, error)

	// UpsertArticleByURL legt den Artikel an oder überschreibt die Felder
	// der bestehenden Zeile mit derselben URL.
	UpsertArticleByURL(ctx context.Context, article *models.Article) (*models.Article, error)
}
