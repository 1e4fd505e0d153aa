package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserPreference speichert die Feed-Vorlieben eines Benutzers: bevorzugte
// Quellen, Rubriken und Autoren. Leere Listen bedeuten "keine Präferenz".
type UserPreference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint  `json:"user_id" gorm:"uniqueIndex;not null"`
	User   *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	PreferredSources    datatypes.JSONSlice[uint]   `json:"preferred_sources" gorm:"type:jsonb"`
	PreferredCategories datatypes.JSONSlice[uint]   `json:"preferred_categories" gorm:"type:jsonb"`
	PreferredAuthors    datatypes.JSONSlice[string] `json:"preferred_authors" gorm:"type:jsonb"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (UserPreference) TableName() string {
	return "user_preferences"
}

// IsEmpty meldet, ob der Benutzer effektiv keine Präferenzen gesetzt hat.
func (p *UserPreference) IsEmpty() bool {
	return len(p.PreferredSources) == 0 && len(p.PreferredCategories) == 0 && len(p.PreferredAuthors) == 0
}
