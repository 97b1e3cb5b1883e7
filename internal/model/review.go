package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of a recipe with optional feedback.
// A user reviews a recipe at most once; the composite unique index enforces it.
// ID is auto-incremented and gives insertion order.
type Review struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	RecipeID  uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_review_recipe_user,priority:1"`
	Username  string    `json:"username" gorm:"size:64;not null;uniqueIndex:idx_review_recipe_user,priority:2;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Feedback  string    `json:"feedback" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
