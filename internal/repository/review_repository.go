package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipebox/internal/model"
)

// ReviewRepository defines rating and review persistence operations.
type ReviewRepository interface {
	Rate(ctx context.Context, recipeName string, review *model.Review) (*model.Recipe, error)
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]model.Review, error)
	RatedByUser(ctx context.Context, username string) (map[string]int, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Rate records review against the recipe named recipeName and folds the rating
// into the recipe aggregate in one transaction. It returns gorm.ErrRecordNotFound
// when the recipe does not exist and a duplicate key error when the user has
// already rated it. Aggregates are updated relative to the stored values, so
// concurrent raters never overwrite each other.
func (r *reviewRepository) Rate(ctx context.Context, recipeName string, review *model.Review) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).
			Where("name = ?", recipeName).First(&recipe).Error; err != nil {
			return err
		}

		review.RecipeID = recipe.ID
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"rating_sum":   gorm.Expr("rating_sum + ?", review.Rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
		if res.Error != nil {
			return res.Error
		}

		// Separate statement: column references in a multi-column SET see
		// old values on some engines and new values on MySQL.
		if err := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).
			Update("average_rating", gorm.Expr("rating_sum * 1.0 / rating_count")).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", recipe.ID).First(&recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListByRecipe returns the reviews of a recipe in insertion order.
func (r *reviewRepository) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]model.Review, error) {
	reviews := []model.Review{}
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).
		Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatedByUser maps recipe name to the rating username gave it.
func (r *reviewRepository) RatedByUser(ctx context.Context, username string) (map[string]int, error) {
	var rows []struct {
		Name   string
		Rating int
	}
	err := r.db.WithContext(ctx).Table("reviews").
		Select("recipes.name AS name, reviews.rating AS rating").
		Joins("JOIN recipes ON recipes.id = reviews.recipe_id").
		Where("reviews.username = ?", username).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	rated := make(map[string]int, len(rows))
	for _, row := range rows {
		rated[row.Name] = row.Rating
	}
	return rated, nil
}
