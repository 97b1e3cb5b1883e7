package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/errors"
	"recipebox/internal/model"
)

func TestRecipeValidator_ValidateRating(t *testing.T) {
	v := NewRecipeValidator()
	for rating := MinRating; rating <= MaxRating; rating++ {
		assert.NoError(t, v.ValidateRating(rating))
	}
	for _, rating := range []int{-1, 0, 11, 100} {
		assert.ErrorIs(t, v.ValidateRating(rating), errors.ErrInvalidRating)
	}
}

func TestRecipeValidator_ValidateUsername(t *testing.T) {
	v := NewRecipeValidator()

	got, err := v.ValidateUsername("  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	_, err = v.ValidateUsername("")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = v.ValidateUsername(strings.Repeat("a", maxUsernameLength+1))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestRecipeValidator_ValidatePatch(t *testing.T) {
	v := NewRecipeValidator()

	out, err := v.ValidatePatch(model.RecipePatch{
		Name:         strPtr(" New Soup "),
		Ingredients:  []string{" a ", " ", "b"},
		Cuisine:      strPtr(" Thai "),
		Instructions: strPtr(" stir "),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Soup", *out.Name)
	assert.Equal(t, []string{"a", "b"}, out.Ingredients)
	assert.Equal(t, "Thai", *out.Cuisine)
	assert.Equal(t, "stir", *out.Instructions)
	assert.Nil(t, out.CookTimeMinutes)

	out, err = v.ValidatePatch(model.RecipePatch{})
	require.NoError(t, err)
	assert.True(t, out.Empty())

	_, err = v.ValidatePatch(model.RecipePatch{CookTimeMinutes: intPtr(-5)})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestSplitIngredients(t *testing.T) {
	assert.Equal(t, []string{"eggs", "flour", "milk"}, SplitIngredients("eggs, flour,milk ,"))
	assert.Empty(t, SplitIngredients(" , "))
}

func TestTopReviews(t *testing.T) {
	reviews := []model.Review{
		{Username: "a", Rating: 4},
		{Username: "b", Rating: 10},
		{Username: "c", Rating: 4},
		{Username: "d", Rating: 10},
	}

	top := TopReviews(reviews, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Username)
	assert.Equal(t, "d", top[1].Username)
	assert.Equal(t, "a", top[2].Username)

	assert.Len(t, TopReviews(reviews, 0), 4)
	assert.Equal(t, "a", reviews[0].Username, "input must not be reordered")
}
