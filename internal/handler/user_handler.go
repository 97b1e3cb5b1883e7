package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"recipebox/internal/model"
	"recipebox/internal/service"
)

// ActivityReader serves a user's recent activity.
type ActivityReader interface {
	Recent(ctx context.Context, username string, limit int) ([]model.ActivityLog, error)
}

// UserHandler serves the caller's own profile.
type UserHandler struct {
	recipeService service.RecipeService
	activity      ActivityReader
}

// NewUserHandler creates a user handler.
func NewUserHandler(recipeService service.RecipeService, activity ActivityReader) *UserHandler {
	return &UserHandler{recipeService: recipeService, activity: activity}
}

// Me godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	profile, err := h.recipeService.Profile(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// MyRecipes godoc
// @Summary Recipes added by the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RecipeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/recipes [get]
func (h *UserHandler) MyRecipes(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	recipes, err := h.recipeService.ListByOwner(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toRecipeResponses(recipes))
}

// MyActivity godoc
// @Summary Recent activity of the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries" default(20)
// @Success 200 {array} model.ActivityLog
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/activity [get]
func (h *UserHandler) MyActivity(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.activity.Recent(c.Request().Context(), username, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, logs)
}
