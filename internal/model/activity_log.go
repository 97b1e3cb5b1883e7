package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityAction identifies what happened to a recipe.
type ActivityAction string

const (
	ActivityRecipeCreated ActivityAction = "recipe_created"
	ActivityRecipeUpdated ActivityAction = "recipe_updated"
	ActivityRecipeDeleted ActivityAction = "recipe_deleted"
	ActivityRecipeRated   ActivityAction = "recipe_rated"
)

// ActivityLog records a recipe mutation. Entries are written asynchronously
// and keep the recipe name as it was at the time of the event.
type ActivityLog struct {
	ID         uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Action     ActivityAction `json:"action" gorm:"type:varchar(32);not null;index"`
	Username   string         `json:"username" gorm:"size:64;not null;index"`
	RecipeID   uuid.UUID      `json:"recipe_id" gorm:"type:char(36);index"`
	RecipeName string         `json:"recipe_name" gorm:"size:255"`
	Detail     string         `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
