package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newswire/cache"
	"newswire/models"
)

// PreferenceInput ist der Request-Body für das Speichern von Präferenzen.
type PreferenceInput struct {
	PreferredSources    []uint   `json:"preferred_sources"`
	PreferredCategories []uint   `json:"preferred_categories"`
	PreferredAuthors    []string `json:"preferred_authors"`
}

// PreferenceService verwaltet die Feed-Präferenzen der Benutzer.
type PreferenceService struct {
	DB     *gorm.DB
	Cache  cache.Cache
	Logger *zap.Logger
}

// NewPreferenceService erstellt einen neuen PreferenceService.
func NewPreferenceService(db *gorm.DB, c cache.Cache, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{DB: db, Cache: c, Logger: logger}
}

// Get liefert die Präferenzen eines Benutzers oder gorm.ErrRecordNotFound.
func (s *PreferenceService) Get(ctx context.Context, userID uint) (*models.UserPreference, error) {
	var pref models.UserPreference
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// Save validiert die referenzierten IDs, upsertet die Präferenzzeile und
// leert danach die Feed-Caches genau dieses Benutzers.
func (s *PreferenceService) Save(ctx context.Context, userID uint, input PreferenceInput) (*models.UserPreference, error) {
	if err := s.validateIDs(ctx, &models.Source{}, input.PreferredSources, "source"); err != nil {
		return nil, err
	}
	if err := s.validateIDs(ctx, &models.Category{}, input.PreferredCategories, "category"); err != nil {
		return nil, err
	}
	for _, author := range input.PreferredAuthors {
		if len(author) > models.MaxAuthorLen {
			return nil, fmt.Errorf("author name exceeds %d characters", models.MaxAuthorLen)
		}
	}

	pref := models.UserPreference{
		UserID:              userID,
		PreferredSources:    datatypes.JSONSlice[uint](input.PreferredSources),
		PreferredCategories: datatypes.JSONSlice[uint](input.PreferredCategories),
		PreferredAuthors:    datatypes.JSONSlice[string](input.PreferredAuthors),
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preferred_sources", "preferred_categories", "preferred_authors", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return nil, err
	}

	var stored models.UserPreference
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}

	// Nur die Feed-Keys dieses Benutzers, die Such-Caches bleiben gültig.
	if err := s.Cache.ForgetPattern(ctx, cache.FeedPattern(userID)); err != nil {
		s.Logger.Warn("Failed to clear user feed cache", zap.Uint("user_id", userID), zap.Error(err))
	}

	return &stored, nil
}

// validateIDs prüft, dass jede referenzierte ID existiert.
func (s *PreferenceService) validateIDs(ctx context.Context, model interface{}, ids []uint, kind string) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return fmt.Errorf("unknown %s id in preferences", kind)
	}
	return nil
}
