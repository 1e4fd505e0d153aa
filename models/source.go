package models

import "time"

// Source repräsentiert einen Publisher, von dem Artikel eingesammelt werden.
// Der Name ist der fachliche Schlüssel: pro Name existiert genau eine Zeile.
type Source struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `json:"name" gorm:"uniqueIndex;not null;size:255"`
	APIID string `json:"api_id,omitempty" gorm:"column:api_id;size:255"` // Provider-eigene Kennung, z.B. "the-guardian"
	URL   string `json:"url,omitempty" gorm:"size:767"`

	Articles []Article `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Source) TableName() string {
	return "sources"
}
