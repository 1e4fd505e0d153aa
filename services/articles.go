package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"newswire/cache"
	"newswire/models"
)

const defaultPerPage = 15

// SearchFilter ist der vollständige Parametersatz einer Artikelsuche.
// Die Feldreihenfolge ist Teil des Cache-Keys, neue Felder gehören ans Ende.
type SearchFilter struct {
	Keyword   string `json:"keyword" form:"keyword"`
	StartDate string `json:"start_date" form:"start_date"`
	EndDate   string `json:"end_date" form:"end_date"`
	Category  string `json:"category" form:"category"`
	Source    string `json:"source" form:"source"`
	Page      int    `json:"page" form:"page"`
	PerPage   int    `json:"per_page" form:"per_page"`
}

// Page ist eine paginierte Ergebnisseite.
type Page struct {
	Data        []models.Article `json:"data"`
	CurrentPage int              `json:"current_page"`
	PerPage     int              `json:"per_page"`
	Total       int64            `json:"total"`
	LastPage    int              `json:"last_page"`
}

// SourceOption und CategoryOption sind die schlanken Einträge der
// Metadaten-Listen für die Präferenzauswahl.
type SourceOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ArticleService beantwortet die Lese-Seite: Suche, Feed, Metadaten.
// Alle Ergebnisse laufen read-through durch den Cache.
type ArticleService struct {
	DB     *gorm.DB
	Cache  cache.Cache
	Logger *zap.Logger
}

// NewArticleService erstellt einen neuen ArticleService.
func NewArticleService(db *gorm.DB, c cache.Cache, logger *zap.Logger) *ArticleService {
	return &ArticleService{DB: db, Cache: c, Logger: logger}
}

// Search sucht und filtert Artikel, Ergebnis eine Stunde gecacht.
func (s *ArticleService) Search(ctx context.Context, filter SearchFilter) (*Page, error) {
	var page Page
	err := s.Cache.Remember(ctx, cache.SearchKey(filter), cache.ResultTTL, &page, func() (interface{}, error) {
		return s.search(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *ArticleService) search(ctx context.Context, filter SearchFilter) (*Page, error) {
	query := s.DB.WithContext(ctx).Model(&models.Article{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where(
			"title ILIKE ? OR description ILIKE ? OR content ILIKE ? OR author ILIKE ? OR source_id IN (SELECT id FROM sources WHERE name ILIKE ?)",
			like, like, like, like, like,
		)
	}
	if filter.StartDate != "" {
		query = query.Where("date(published_at) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("date(published_at) <= ?", filter.EndDate)
	}
	if filter.Category != "" {
		query = query.Where("category_id IN (SELECT id FROM categories WHERE name = ?)", filter.Category)
	}
	if filter.Source != "" {
		query = query.Where("source_id IN (SELECT id FROM sources WHERE name = ?)", filter.Source)
	}

	return s.paginate(query, filter.Page, filter.PerPage)
}

// Feed liefert den personalisierten Feed des Benutzers. Ohne gespeicherte
// Präferenzen fällt er auf die allgemeine Neueste-zuerst-Liste zurück; die
// beiden Varianten cachen unter getrennten Keys.
func (s *ArticleService) Feed(ctx context.Context, userID uint, filter SearchFilter) (*Page, bool, error) {
	var pref models.UserPreference
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	hasPrefs := err == nil && !pref.IsEmpty()
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	var page Page
	if !hasPrefs {
		err := s.Cache.Remember(ctx, cache.DefaultFeedKey(userID, filter), cache.ResultTTL, &page, func() (interface{}, error) {
			return s.paginate(s.DB.WithContext(ctx).Model(&models.Article{}), filter.Page, filter.PerPage)
		})
		return &page, false, err
	}

	err = s.Cache.Remember(ctx, cache.FeedKey(userID, filter), cache.ResultTTL, &page, func() (interface{}, error) {
		query := s.DB.WithContext(ctx).Model(&models.Article{})

		// Inklusives ODER über alle gesetzten Präferenzmengen.
		var conditions []string
		var args []interface{}
		if len(pref.PreferredSources) > 0 {
			conditions = append(conditions, "source_id IN ?")
			args = append(args, []uint(pref.PreferredSources))
		}
		if len(pref.PreferredCategories) > 0 {
			conditions = append(conditions, "category_id IN ?")
			args = append(args, []uint(pref.PreferredCategories))
		}
		if len(pref.PreferredAuthors) > 0 {
			conditions = append(conditions, "author IN ?")
			args = append(args, []string(pref.PreferredAuthors))
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)

		return s.paginate(query, filter.Page, filter.PerPage)
	})
	return &page, true, err
}

// paginate zählt, sortiert neueste zuerst und lädt die angefragte Seite
// inklusive Source und Category.
func (s *ArticleService) paginate(query *gorm.DB, pageNum, perPage int) (*Page, error) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if pageNum <= 0 {
		pageNum = 1
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var articles []models.Article
	err := query.
		Preload("Source").
		Preload("Category").
		Order("published_at DESC NULLS LAST").
		Offset((pageNum - 1) * perPage).
		Limit(perPage).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return &Page{
		Data:        articles,
		CurrentPage: pageNum,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}, nil
}

// Sources liefert alle Quellen, 24h gecacht bis zum nächsten Scrape-Gate.
func (s *ArticleService) Sources(ctx context.Context) ([]SourceOption, error) {
	var sources []SourceOption
	err := s.Cache.Remember(ctx, cache.KeyAllSources, cache.MetadataTTL, &sources, func() (interface{}, error) {
		var result []SourceOption
		err := s.DB.WithContext(ctx).Model(&models.Source{}).Select("id", "name").Order("name").Find(&result).Error
		return result, err
	})
	return sources, err
}

// Categories liefert alle Rubriken, 24h gecacht bis zum nächsten Scrape-Gate.
func (s *ArticleService) Categories(ctx context.Context) ([]CategoryOption, error) {
	var categories []CategoryOption
	err := s.Cache.Remember(ctx, cache.KeyAllCategories, cache.MetadataTTL, &categories, func() (interface{}, error) {
		var result []CategoryOption
		err := s.DB.WithContext(ctx).Model(&models.Category{}).Select("id", "name").Order("name").Find(&result).Error
		return result, err
	})
	return categories, err
}

// Authors liefert alle distinkten Autoren eingesammelter Artikel.
func (s *ArticleService) Authors(ctx context.Context) ([]string, error) {
	var authors []string
	err := s.Cache.Remember(ctx, cache.KeyAllAuthors, cache.MetadataTTL, &authors, func() (interface{}, error) {
		var result []string
		err := s.DB.WithContext(ctx).Model(&models.Article{}).
			Distinct("author").
			Where("author <> ''").
			Order("author").
			Pluck("author", &result).Error
		return result, err
	})
	return authors, err
}
