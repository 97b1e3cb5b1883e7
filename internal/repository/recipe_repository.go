package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/model"
)

// RecipeRepository defines recipe persistence operations.
// Mutations scoped by owner return gorm.ErrRecordNotFound when the recipe
// is missing or belongs to someone else.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	FindByName(ctx context.Context, name string) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	ListByOwner(ctx context.Context, username string) ([]model.Recipe, error)
	ListNamesByOwner(ctx context.Context, username string) ([]string, error)
	UpdateOwned(ctx context.Context, username, name string, patch model.RecipePatch) (*model.Recipe, error)
	DeleteOwned(ctx context.Context, username, name string) (*model.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts a recipe. A taken name fails on the unique index.
func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

// FindByName finds a recipe by its name.
func (r *recipeRepository) FindByName(ctx context.Context, name string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns every recipe in the order they were added.
func (r *recipeRepository) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.db.WithContext(ctx).Order("created_at, name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListByOwner returns the recipes added by username.
func (r *recipeRepository) ListByOwner(ctx context.Context, username string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.db.WithContext(ctx).Where("added_by = ?", username).
		Order("created_at, name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListNamesByOwner returns the names of the recipes added by username.
func (r *recipeRepository) ListNamesByOwner(ctx context.Context, username string) ([]string, error) {
	names := []string{}
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("added_by = ?", username).
		Order("created_at, name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// UpdateOwned applies patch to the recipe named name if username owns it.
// The row is locked and the owner re-checked inside the same transaction.
func (r *recipeRepository) UpdateOwned(ctx context.Context, username, name string, patch model.RecipePatch) (*model.Recipe, error) {
	var updated model.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedForUpdate(tx, username, name)
		if err != nil {
			return err
		}

		values, columns := applyPatch(*current, patch)
		if len(columns) > 0 {
			res := tx.Model(current).
				Where("added_by = ?", username).
				Select(columns).
				Updates(&values)
			if res.Error != nil {
				return res.Error
			}
		}

		return tx.Where("id = ?", current.ID).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOwned removes the recipe named name and its reviews if username owns it.
// It returns the recipe as it was before deletion.
func (r *recipeRepository) DeleteOwned(ctx context.Context, username, name string) (*model.Recipe, error) {
	var deleted *model.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwnedForUpdate(tx, username, name)
		if err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", current.ID).Delete(&model.Review{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND added_by = ?", current.ID, username).Delete(&model.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func findOwnedForUpdate(tx *gorm.DB, username, name string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := forUpdate(tx).
		Where("name = ? AND added_by = ?", name, username).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// applyPatch returns recipe with the patch applied and the columns it touched.
func applyPatch(recipe model.Recipe, patch model.RecipePatch) (model.Recipe, []string) {
	var columns []string
	if patch.Name != nil {
		recipe.Name = *patch.Name
		columns = append(columns, "name")
	}
	if patch.Ingredients != nil {
		recipe.Ingredients = patch.Ingredients
		columns = append(columns, "ingredients")
	}
	if patch.Cuisine != nil {
		recipe.Cuisine = *patch.Cuisine
		columns = append(columns, "cuisine")
	}
	if patch.CookTimeMinutes != nil {
		recipe.CookTimeMinutes = *patch.CookTimeMinutes
		columns = append(columns, "cook_time_minutes")
	}
	if patch.Instructions != nil {
		recipe.Instructions = *patch.Instructions
		columns = append(columns, "instructions")
	}
	return recipe, columns
}
