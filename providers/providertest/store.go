// Package providertest stellt einen In-Memory-ArticleStore für Provider-Tests
// bereit.
package providertest

import (
	"context"
	"sync"

	"newswire/models"
)

// FakeStore implementiert providers.ArticleStore im Speicher. Artikel werden
// wie im echten Store per URL dedupliziert, Quellen und Rubriken per Name.
type FakeStore struct {
	mu sync.Mutex

	Sources    map[string]*models.Source
	Categories map[string]*models.Category
	Articles   map[string]*models.Article

	// Err lässt jeden Aufruf fehlschlagen, um Store-Fehlerpfade zu testen.
	Err error

	nextID uint
}

// NewFakeStore erstellt einen leeren FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		Sources:    make(map[string]*models.Source),
		Categories: make(map[string]*models.Category),
		Articles:   make(map[string]*models.Article),
	}
}

func (s *FakeStore) nextIDLocked() uint {
	s.nextID++
	return s.nextID
}

// FirstOrCreateSource löst eine Quelle per Name auf.
func (s *FakeStore) FirstOrCreateSource(_ context.Context, name, apiID string) (*models.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if existing, ok := s.Sources[name]; ok {
		return existing, nil
	}
	source := &models.Source{ID: s.nextIDLocked(), Name: name, APIID: apiID}
	s.Sources[name] = source
	return source, nil
}

// FirstOrCreateCategory löst eine Rubrik per Name auf.
func (s *FakeStore) FirstOrCreateCategory(_ context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if existing, ok := s.Categories[name]; ok {
		return existing, nil
	}
	category := &models.Category{ID: s.nextIDLocked(), Name: name}
	s.Categories[name] = category
	return category, nil
}

// UpsertArticleByURL legt den Artikel an oder überschreibt die Felder der
// Zeile mit derselben URL.
func (s *FakeStore) UpsertArticleByURL(_ context.Context, article *models.Article) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored := *article
	if existing, ok := s.Articles[article.URL]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.ID = s.nextIDLocked()
	}
	s.Articles[article.URL] = &stored
	return &stored, nil
}
