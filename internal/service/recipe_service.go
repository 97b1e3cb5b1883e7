package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipebox/internal/cache"
	"recipebox/internal/errors"
	"recipebox/internal/metrics"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// DefaultTopReviews is how many reviews TopReviews returns when no limit is given.
const DefaultTopReviews = 3

// RecipeService handles recipe operations. Update and Delete only succeed
// for the recipe's owner; for anyone else they fail with ErrRecipeNotFound.
type RecipeService interface {
	Create(ctx context.Context, username string, input RecipeInput) (*model.Recipe, error)
	Get(ctx context.Context, name string) (*model.Recipe, error)
	Update(ctx context.Context, username, name string, patch model.RecipePatch) (*model.Recipe, error)
	Delete(ctx context.Context, username, name string) error
	ListAll(ctx context.Context) ([]model.Recipe, error)
	ListByOwner(ctx context.Context, username string) ([]model.Recipe, error)
	FindReviews(ctx context.Context, name string) ([]model.Review, error)
	TopReviews(ctx context.Context, name string, limit int) ([]model.Review, error)
	Search(ctx context.Context, by, query string) ([]model.Recipe, error)
	Import(ctx context.Context, username string, inputs []RecipeInput) (*ImportResult, error)
	Profile(ctx context.Context, username string) (*model.Profile, error)
}

// ImportSkip describes a recipe that Import did not create.
type ImportSkip struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportResult summarises an Import call.
type ImportResult struct {
	Created []string     `json:"created"`
	Skipped []ImportSkip `json:"skipped"`
}

type recipeService struct {
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
	reviewRepo repository.ReviewRepository
	cache      *cache.Client
	cacheTTL   time.Duration
	activity   ActivityRecorder
	metrics    metrics.Recorder
	validator  *RecipeValidator
	log        *zap.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
	reviewRepo repository.ReviewRepository,
	cache *cache.Client,
	cacheTTL time.Duration,
	activity ActivityRecorder,
	recorder metrics.Recorder,
	log *zap.Logger,
) RecipeService {
	return &recipeService{
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		reviewRepo: reviewRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		activity:   activity,
		metrics:    recorder,
		validator:  NewRecipeValidator(),
		log:        log,
	}
}

func recipeCacheKey(name string) string {
	return fmt.Sprintf("recipe:%s", name)
}

// Create adds a recipe owned by username. Name uniqueness is enforced by the
// recipes table.
func (s *recipeService) Create(ctx context.Context, username string, input RecipeInput) (*model.Recipe, error) {
	username, err := s.validator.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	input, err = s.validator.ValidateRecipe(input)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Name:            input.Name,
		Ingredients:     input.Ingredients,
		Cuisine:         input.Cuisine,
		CookTimeMinutes: input.CookTimeMinutes,
		Instructions:    input.Instructions,
		AddedBy:         username,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, errors.ErrRecipeExists
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	_ = s.cache.Delete(ctx, recipeCacheKey(recipe.Name))
	s.metrics.RecipeCreated()
	s.activity.Record(ctx, model.ActivityLog{
		Action:     model.ActivityRecipeCreated,
		Username:   username,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
	})
	s.log.Info("recipe created", zap.String("recipe", recipe.Name), zap.String("username", username))
	return recipe, nil
}

// Get retrieves a recipe by name with caching.
func (s *recipeService) Get(ctx context.Context, name string) (*model.Recipe, error) {
	var cached model.Recipe
	if s.cache.GetJSON(ctx, recipeCacheKey(name), &cached) {
		return &cached, nil
	}

	recipe, err := s.recipeRepo.FindByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}

	_ = s.cache.SetJSON(ctx, recipeCacheKey(name), recipe, s.cacheTTL)
	return recipe, nil
}

// Update applies patch when username owns the recipe. Ratings, reviews and
// the average are never touched here.
func (s *recipeService) Update(ctx context.Context, username, name string, patch model.RecipePatch) (*model.Recipe, error) {
	username, err := s.validator.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	name, err = s.validator.ValidateRecipeName(name)
	if err != nil {
		return nil, err
	}
	patch, err = s.validator.ValidatePatch(patch)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipeRepo.UpdateOwned(ctx, username, name, patch)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, errors.ErrRecipeNotFound
		case repository.IsDuplicateKey(err):
			return nil, errors.ErrRecipeExists
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	_ = s.cache.Delete(ctx, recipeCacheKey(name), recipeCacheKey(recipe.Name))
	if !patch.Empty() {
		s.activity.Record(ctx, model.ActivityLog{
			Action:     model.ActivityRecipeUpdated,
			Username:   username,
			RecipeID:   recipe.ID,
			RecipeName: recipe.Name,
			Detail:     renameDetail(name, recipe.Name),
		})
	}
	return recipe, nil
}

func renameDetail(from, to string) string {
	if from == to {
		return ""
	}
	return fmt.Sprintf("renamed from %q", from)
}

// Delete removes the recipe and its reviews when username owns it.
func (s *recipeService) Delete(ctx context.Context, username, name string) error {
	username, err := s.validator.ValidateUsername(username)
	if err != nil {
		return err
	}
	name, err = s.validator.ValidateRecipeName(name)
	if err != nil {
		return err
	}

	recipe, err := s.recipeRepo.DeleteOwned(ctx, username, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrRecipeNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	_ = s.cache.Delete(ctx, recipeCacheKey(name))
	s.metrics.RecipeDeleted()
	s.activity.Record(ctx, model.ActivityLog{
		Action:     model.ActivityRecipeDeleted,
		Username:   username,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
	})
	s.log.Info("recipe deleted", zap.String("recipe", name), zap.String("username", username))
	return nil
}

// ListAll returns every recipe in the order they were added.
func (s *recipeService) ListAll(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// ListByOwner returns the recipes added by username.
func (s *recipeService) ListByOwner(ctx context.Context, username string) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.ListByOwner(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list recipes by owner: %w", err)
	}
	return recipes, nil
}

// FindReviews returns a recipe's reviews in the order they were written, or
// an empty slice when the recipe does not exist.
func (s *recipeService) FindReviews(ctx context.Context, name string) ([]model.Review, error) {
	recipe, err := s.recipeRepo.FindByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return []model.Review{}, nil
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}

	reviews, err := s.reviewRepo.ListByRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// TopReviews returns the best rated reviews of a recipe.
func (s *recipeService) TopReviews(ctx context.Context, name string, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = DefaultTopReviews
	}
	reviews, err := s.FindReviews(ctx, name)
	if err != nil {
		return nil, err
	}
	return TopReviews(reviews, limit), nil
}

// Search filters all recipes by one criterion and orders the result by
// average rating, best first.
func (s *recipeService) Search(ctx context.Context, by, query string) ([]model.Recipe, error) {
	var apply func([]model.Recipe) []model.Recipe
	switch strings.ToLower(strings.TrimSpace(by)) {
	case SearchByIngredients:
		apply = func(r []model.Recipe) []model.Recipe { return FilterByIngredients(r, query) }
	case SearchByCuisine:
		apply = func(r []model.Recipe) []model.Recipe { return FilterByCuisine(r, query) }
	case SearchByCookTime:
		maxMinutes, err := strconv.Atoi(strings.TrimSpace(query))
		if err != nil || maxMinutes < 0 {
			return nil, invalid("cook time must be a non-negative number of minutes")
		}
		apply = func(r []model.Recipe) []model.Recipe { return FilterByMaxCookTime(r, maxMinutes) }
	default:
		return nil, invalid("unknown search criterion %q", by)
	}

	recipes, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	results := apply(recipes)
	SortByAverageRating(results)
	return results, nil
}

// Import creates each recipe for username. Duplicates and invalid entries
// are skipped and reported; any other failure stops the import.
func (s *recipeService) Import(ctx context.Context, username string, inputs []RecipeInput) (*ImportResult, error) {
	result := &ImportResult{Created: []string{}, Skipped: []ImportSkip{}}
	for _, input := range inputs {
		recipe, err := s.Create(ctx, username, input)
		if err != nil {
			if errors.Is(err, errors.ErrRecipeExists) || errors.Is(err, errors.ErrInvalidInput) {
				result.Skipped = append(result.Skipped, ImportSkip{Name: input.Name, Reason: err.Error()})
				continue
			}
			return result, fmt.Errorf("import %q: %w", input.Name, err)
		}
		result.Created = append(result.Created, recipe.Name)
	}
	return result, nil
}

// Profile returns username with the names of the recipes they added and the
// ratings they gave.
func (s *recipeService) Profile(ctx context.Context, username string) (*model.Profile, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	names, err := s.recipeRepo.ListNamesByOwner(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list added recipes: %w", err)
	}
	rated, err := s.reviewRepo.RatedByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list rated recipes: %w", err)
	}

	return &model.Profile{
		Username:         user.Username,
		AddedRecipeNames: names,
		RatedRecipes:     rated,
		CreatedAt:        user.CreatedAt,
	}, nil
}
