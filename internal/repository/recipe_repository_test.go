package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/model"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestRecipeRepository_CreateAndFind(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	created := seedRecipe(t, repo, "alice", "Soup")

	found, err := repo.FindByName(ctx, "Soup")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, []string{"water", "salt"}, found.Ingredients)
	assert.Equal(t, "alice", found.AddedBy)
	assert.Equal(t, 0.0, found.AverageRating)
	assert.Equal(t, 0, found.RatingCount)

	_, err = repo.FindByName(ctx, "Stew")
	assert.True(t, IsNotFound(err))
}

func TestRecipeRepository_DuplicateName(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	seedRecipe(t, repo, "alice", "Pasta")
	err := repo.Create(ctx, &model.Recipe{Name: "Pasta", CookTimeMinutes: 5, AddedBy: "bob"})

	assert.True(t, IsDuplicateKey(err))
}

func TestRecipeRepository_ListByOwner(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	seedRecipe(t, repo, "alice", "A Soup")
	seedRecipe(t, repo, "bob", "B Pasta")
	seedRecipe(t, repo, "alice", "C Salad")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "A Soup", mine[0].Name)
	assert.Equal(t, "C Salad", mine[1].Name)

	names, err := repo.ListNamesByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"A Soup", "C Salad"}, names)

	names, err = repo.ListNamesByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRecipeRepository_UpdateOwned(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()
	seedRecipe(t, repo, "alice", "Soup")

	t.Run("non owner is not found", func(t *testing.T) {
		_, err := repo.UpdateOwned(ctx, "bob", "Soup", model.RecipePatch{Cuisine: strPtr("French")})
		assert.True(t, IsNotFound(err))

		unchanged, err := repo.FindByName(ctx, "Soup")
		require.NoError(t, err)
		assert.Equal(t, "Italian", unchanged.Cuisine)
	})

	t.Run("missing recipe is not found", func(t *testing.T) {
		_, err := repo.UpdateOwned(ctx, "alice", "Stew", model.RecipePatch{Cuisine: strPtr("French")})
		assert.True(t, IsNotFound(err))
	})

	t.Run("owner patches fields", func(t *testing.T) {
		updated, err := repo.UpdateOwned(ctx, "alice", "Soup", model.RecipePatch{
			Ingredients:     []string{"tomato", "basil"},
			Cuisine:         strPtr("French"),
			CookTimeMinutes: intPtr(35),
			Instructions:    strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"tomato", "basil"}, updated.Ingredients)
		assert.Equal(t, "French", updated.Cuisine)
		assert.Equal(t, 35, updated.CookTimeMinutes)
		assert.Equal(t, "", updated.Instructions)
		assert.Equal(t, "alice", updated.AddedBy)
	})

	t.Run("rename keeps id", func(t *testing.T) {
		before, err := repo.FindByName(ctx, "Soup")
		require.NoError(t, err)

		updated, err := repo.UpdateOwned(ctx, "alice", "Soup", model.RecipePatch{Name: strPtr("Tomato Soup")})
		require.NoError(t, err)
		assert.Equal(t, before.ID, updated.ID)
		assert.Equal(t, "Tomato Soup", updated.Name)

		_, err = repo.FindByName(ctx, "Soup")
		assert.True(t, IsNotFound(err))
	})

	t.Run("rename onto taken name fails", func(t *testing.T) {
		seedRecipe(t, repo, "bob", "Pasta")
		_, err := repo.UpdateOwned(ctx, "alice", "Tomato Soup", model.RecipePatch{Name: strPtr("Pasta")})
		assert.True(t, IsDuplicateKey(err))
	})
}

func TestRecipeRepository_DeleteOwned(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewRecipeRepository(gormDB)
	reviews := NewReviewRepository(gormDB)
	ctx := context.Background()
	seedRecipe(t, repo, "alice", "Soup")

	_, err := reviews.Rate(ctx, "Soup", &model.Review{Username: "bob", Rating: 6})
	require.NoError(t, err)

	_, err = repo.DeleteOwned(ctx, "bob", "Soup")
	assert.True(t, IsNotFound(err))

	deleted, err := repo.DeleteOwned(ctx, "alice", "Soup")
	require.NoError(t, err)
	assert.Equal(t, "Soup", deleted.Name)

	_, err = repo.FindByName(ctx, "Soup")
	assert.True(t, IsNotFound(err))

	left, err := reviews.ListByRecipe(ctx, deleted.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	rated, err := reviews.RatedByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, rated)

	// name is free again
	seedRecipe(t, repo, "carol", "Soup")
}
