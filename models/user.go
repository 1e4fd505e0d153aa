package models

import "time"

// User repräsentiert einen registrierten API-Benutzer.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `json:"name" gorm:"not null;size:255"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (User) TableName() string {
	return "users"
}

// UserToken ist ein ausgegebenes Bearer-Token für einen Benutzer.
type UserToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint   `json:"user_id" gorm:"not null;index"`
	User   *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Token  string `json:"token" gorm:"uniqueIndex;not null;size:64"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (UserToken) TableName() string {
	return "user_tokens"
}
