package models

import "time"

// Category repräsentiert eine thematische Rubrik. Provider-Taxonomien werden
// per Name auf diese Menge abgebildet; fehlende Rubriken landen in "General".
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `json:"name" gorm:"uniqueIndex;not null;size:255"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Category) TableName() string {
	return "categories"
}
