package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a named dish owned by the user who added it.
// The name is unique and editable; ID is the stable key reviews point at.
type Recipe struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name            string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Ingredients     []string  `json:"ingredients" gorm:"serializer:json;type:text"`
	Cuisine         string    `json:"cuisine" gorm:"size:100;index"`
	CookTimeMinutes int       `json:"cook_time_minutes" gorm:"not null"`
	Instructions    string    `json:"instructions" gorm:"type:text"`
	AddedBy         string    `json:"added_by" gorm:"size:64;not null;index"`
	RatingSum       int       `json:"-" gorm:"not null;default:0"`
	RatingCount     int       `json:"rating_count" gorm:"not null;default:0"`
	AverageRating   float64   `json:"average_rating" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ratings returns the username to rating map of the loaded reviews.
func (r *Recipe) Ratings() map[string]int {
	ratings := make(map[string]int, len(r.Reviews))
	for _, rev := range r.Reviews {
		ratings[rev.Username] = rev.Rating
	}
	return ratings
}

// RecipePatch holds the editable fields of a recipe. Nil fields are left unchanged.
type RecipePatch struct {
	Name            *string
	Ingredients     []string
	Cuisine         *string
	CookTimeMinutes *int
	Instructions    *string
}

// Empty reports whether the patch changes nothing.
func (p RecipePatch) Empty() bool {
	return p.Name == nil && p.Ingredients == nil && p.Cuisine == nil &&
		p.CookTimeMinutes == nil && p.Instructions == nil
}
