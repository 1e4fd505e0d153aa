package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newswire/models"
)

// Store implementiert providers.ArticleStore auf einer GORM-Datenbank.
// Find-or-Create läuft als bedingtes Insert gegen den Unique-Index plus
// Read-Back, nicht als Check-then-Insert. Damit sind parallele Scrape-Läufe
// auf denselben Namen duplikatfrei.
type Store struct {
	DB *gorm.DB
}

// NewStore erstellt einen neuen Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// FirstOrCreateSource löst eine Quelle per Name auf und legt sie bei Bedarf an.
func (s *Store) FirstOrCreateSource(ctx context.Context, name, apiID string) (*models.Source, error) {
	source := models.Source{Name: name, APIID: apiID}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&source).Error
	if err != nil {
		return nil, err
	}
	if source.ID == 0 {
		// Konfliktfall: Zeile existierte schon, ID zurücklesen.
		if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&source).Error; err != nil {
			return nil, err
		}
	}
	return &source, nil
}

// FirstOrCreateCategory löst eine Rubrik per Name auf und legt sie bei Bedarf an.
func (s *Store) FirstOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return nil, err
	}
	if category.ID == 0 {
		if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
			return nil, err
		}
	}
	return &category, nil
}

// articleUpdateColumns sind die Felder, die bei einem URL-Konflikt
// überschrieben werden.
var articleUpdateColumns = []string{
	"source_id", "category_id", "api_article_id", "author", "title",
	"description", "url_to_image", "published_at", "content", "updated_at",
}

// UpsertArticleByURL legt den Artikel an oder aktualisiert die bestehende
// Zeile mit derselben URL. Zurück kommt die persistierte Zeile inklusive ID.
func (s *Store) UpsertArticleByURL(ctx context.Context, article *models.Article) (*models.Article, error) {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns(articleUpdateColumns),
	}).Create(article).Error
	if err != nil {
		return nil, err
	}

	var stored models.Article
	if err := s.DB.WithContext(ctx).Where("url = ?", article.URL).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
