package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recipebox/internal/errors"
	"recipebox/internal/model"
)

func TestUserHandler_Me(t *testing.T) {
	recipes := new(MockRecipeService)
	recipes.On("Profile", mock.Anything, "alice").Return(&model.Profile{
		Username:         "alice",
		AddedRecipeNames: []string{"Soup"},
		RatedRecipes:     map[string]int{"Stew": 7},
	}, nil)
	recipes.On("Profile", mock.Anything, "ghost").Return(nil, errors.ErrUserNotFound)
	h := NewUserHandler(recipes, new(MockActivityReader))

	c, rec := newContext(http.MethodGet, "/api/me", "", "alice")
	require.NoError(t, h.Me(c))
	assert.Contains(t, rec.Body.String(), `"added_recipe_names":["Soup"]`)
	assert.Contains(t, rec.Body.String(), `"rated_recipes":{"Stew":7}`)

	c, _ = newContext(http.MethodGet, "/api/me", "", "ghost")
	assertHTTPError(t, h.Me(c), http.StatusNotFound, "USER_NOT_FOUND")
}

func TestUserHandler_MyRecipes(t *testing.T) {
	recipes := new(MockRecipeService)
	recipes.On("ListByOwner", mock.Anything, "alice").Return([]model.Recipe{{Name: "Soup", AddedBy: "alice"}}, nil)
	h := NewUserHandler(recipes, new(MockActivityReader))

	c, rec := newContext(http.MethodGet, "/api/me/recipes", "", "alice")
	require.NoError(t, h.MyRecipes(c))
	assert.Contains(t, rec.Body.String(), `"name":"Soup"`)

	c, _ = newContext(http.MethodGet, "/api/me/recipes", "", "")
	assertHTTPError(t, h.MyRecipes(c), http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestUserHandler_MyActivity(t *testing.T) {
	activity := new(MockActivityReader)
	activity.On("Recent", mock.Anything, "alice", 5).Return([]model.ActivityLog{
		{Action: model.ActivityRecipeRated, Username: "alice", RecipeName: "Soup"},
	}, nil)
	activity.On("Recent", mock.Anything, "alice", 0).Return([]model.ActivityLog{}, nil)
	h := NewUserHandler(new(MockRecipeService), activity)

	c, rec := newContext(http.MethodGet, "/api/me/activity?limit=5", "", "alice")
	require.NoError(t, h.MyActivity(c))
	assert.Contains(t, rec.Body.String(), `"action":"recipe_rated"`)

	c, _ = newContext(http.MethodGet, "/api/me/activity", "", "alice")
	require.NoError(t, h.MyActivity(c))
	activity.AssertExpectations(t)
}
