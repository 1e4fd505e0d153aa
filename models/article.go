package models

import "time"

// Maximal erlaubte Feldlängen, werden von den Providern vor dem Upsert erzwungen.
const (
	MaxAuthorLen = 255
	MaxTitleLen  = 255
	MaxURLLen    = 767
)

// Article repräsentiert eine einzelne eingesammelte Meldung. Die URL ist der
// Idempotenz-Schlüssel: derselbe Link wird aktualisiert statt dupliziert.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SourceID   uint      `json:"source_id" gorm:"not null;index"`
	Source     *Source   `json:"source,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID *uint     `json:"category_id" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`

	// Provider-eigene Artikel-ID; NULL wenn der Provider keine liefert.
	APIArticleID *string `json:"api_article_id,omitempty" gorm:"column:api_article_id;uniqueIndex;size:767"`

	Author      string     `json:"author,omitempty" gorm:"index;size:255"`
	Title       string     `json:"title" gorm:"not null;index;size:255"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	URL         string     `json:"url" gorm:"uniqueIndex;not null;size:767"`
	URLToImage  string     `json:"url_to_image,omitempty" gorm:"size:767"`
	PublishedAt *time.Time `json:"published_at,omitempty" gorm:"index"`
	Content     string     `json:"content,omitempty" gorm:"type:text"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Article) TableName() string {
	return "articles"
}
