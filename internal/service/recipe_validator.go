package service

import (
	"fmt"
	"strings"

	"recipebox/internal/errors"
	"recipebox/internal/model"
)

const (
	// MinRating and MaxRating bound a single rating, inclusive.
	MinRating = 1
	MaxRating = 10

	maxNameLength     = 255
	maxUsernameLength = 64
)

// RecipeInput is the user supplied content of a new recipe.
type RecipeInput struct {
	Name            string   `json:"name"`
	Ingredients     []string `json:"ingredients"`
	Cuisine         string   `json:"cuisine"`
	CookTimeMinutes int      `json:"cook_time_minutes"`
	Instructions    string   `json:"instructions"`
}

// RecipeValidator normalises and validates recipe and rating input.
type RecipeValidator struct{}

// NewRecipeValidator creates a new recipe validator.
func NewRecipeValidator() *RecipeValidator {
	return &RecipeValidator{}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateUsername trims username and rejects empty or oversized values.
func (v *RecipeValidator) ValidateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", invalid("username is required")
	}
	if len(username) > maxUsernameLength {
		return "", invalid("username must be at most %d characters", maxUsernameLength)
	}
	return username, nil
}

// ValidateRecipeName trims name and rejects empty or oversized values.
func (v *RecipeValidator) ValidateRecipeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("recipe name is required")
	}
	if len(name) > maxNameLength {
		return "", invalid("recipe name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

// ValidateCookTime requires a positive number of minutes.
func (v *RecipeValidator) ValidateCookTime(minutes int) error {
	if minutes <= 0 {
		return invalid("cook time must be a positive number of minutes")
	}
	return nil
}

// ValidateRating requires MinRating <= rating <= MaxRating.
func (v *RecipeValidator) ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errors.ErrInvalidRating
	}
	return nil
}

// NormalizeIngredients trims every ingredient and drops empty ones.
func (v *RecipeValidator) NormalizeIngredients(ingredients []string) []string {
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			out = append(out, ing)
		}
	}
	return out
}

// ValidateRecipe returns a normalised copy of input.
func (v *RecipeValidator) ValidateRecipe(input RecipeInput) (RecipeInput, error) {
	name, err := v.ValidateRecipeName(input.Name)
	if err != nil {
		return input, err
	}
	if err := v.ValidateCookTime(input.CookTimeMinutes); err != nil {
		return input, err
	}

	return RecipeInput{
		Name:            name,
		Ingredients:     v.NormalizeIngredients(input.Ingredients),
		Cuisine:         strings.TrimSpace(input.Cuisine),
		CookTimeMinutes: input.CookTimeMinutes,
		Instructions:    strings.TrimSpace(input.Instructions),
	}, nil
}

// ValidatePatch returns a normalised copy of patch.
func (v *RecipeValidator) ValidatePatch(patch model.RecipePatch) (model.RecipePatch, error) {
	out := model.RecipePatch{CookTimeMinutes: patch.CookTimeMinutes}
	if patch.Name != nil {
		name, err := v.ValidateRecipeName(*patch.Name)
		if err != nil {
			return patch, err
		}
		out.Name = &name
	}
	if patch.Ingredients != nil {
		out.Ingredients = v.NormalizeIngredients(patch.Ingredients)
	}
	if patch.Cuisine != nil {
		cuisine := strings.TrimSpace(*patch.Cuisine)
		out.Cuisine = &cuisine
	}
	if patch.CookTimeMinutes != nil {
		if err := v.ValidateCookTime(*patch.CookTimeMinutes); err != nil {
			return patch, err
		}
	}
	if patch.Instructions != nil {
		instructions := strings.TrimSpace(*patch.Instructions)
		out.Instructions = &instructions
	}
	return out, nil
}

// SplitIngredients splits a comma separated list into trimmed, non-empty items.
func SplitIngredients(list string) []string {
	return NewRecipeValidator().NormalizeIngredients(strings.Split(list, ","))
}
