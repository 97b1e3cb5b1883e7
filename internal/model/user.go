package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered user. Username is the identity used for ownership.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile is a user together with the recipes they added and the ratings they gave.
// Both collections are derived from the recipes and reviews tables.
type Profile struct {
	Username         string         `json:"username"`
	AddedRecipeNames []string       `json:"added_recipe_names"`
	RatedRecipes     map[string]int `json:"rated_recipes"`
	CreatedAt        time.Time      `json:"created_at"`
}
