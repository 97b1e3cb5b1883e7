package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebox/internal/db"
	"recipebox/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

func seedRecipe(t *testing.T, repo RecipeRepository, owner, name string) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		Name:            name,
		Ingredients:     []string{"water", "salt"},
		Cuisine:         "Italian",
		CookTimeMinutes: 20,
		Instructions:    "boil",
		AddedBy:         owner,
	}
	require.NoError(t, repo.Create(context.Background(), recipe))
	return recipe
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(errors.New("Error 1062: Duplicate entry 'Soup' for key 'idx_recipes_name'")))
	assert.True(t, IsDuplicateKey(errors.New("UNIQUE constraint failed: recipes.name")))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, IsNotFound(errors.New("boom")))
}
