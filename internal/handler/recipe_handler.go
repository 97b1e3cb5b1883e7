package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"recipebox/internal/auth"
	"recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/service"
)

// RecipeHandler handles recipe, review and rating endpoints.
type RecipeHandler struct {
	recipeService service.RecipeService
	ratingService service.RatingService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService service.RecipeService, ratingService service.RatingService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		ratingService: ratingService,
	}
}

// CreateRecipeRequest represents a new recipe.
type CreateRecipeRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Ingredients     []string `json:"ingredients"`
	Cuisine         string   `json:"cuisine" validate:"max=100"`
	CookTimeMinutes int      `json:"cook_time_minutes" validate:"required,gt=0"`
	Instructions    string   `json:"instructions"`
}

// UpdateRecipeRequest holds the fields to change. Omitted fields are kept.
type UpdateRecipeRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Ingredients     []string `json:"ingredients,omitempty"`
	Cuisine         *string  `json:"cuisine,omitempty" validate:"omitempty,max=100"`
	CookTimeMinutes *int     `json:"cook_time_minutes,omitempty" validate:"omitempty,gt=0"`
	Instructions    *string  `json:"instructions,omitempty"`
}

// RateRequest represents a rating with optional feedback. The range is
// checked by the rating service so it reports INVALID_RATING.
type RateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// ImportRequest represents a bulk import of recipes owned by the caller.
type ImportRequest struct {
	Recipes []CreateRecipeRequest `json:"recipes" validate:"required,min=1"`
}

// ReviewResponse is a single review.
type ReviewResponse struct {
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeResponse is a recipe as returned by the API.
type RecipeResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Ingredients     []string         `json:"ingredients"`
	Cuisine         string           `json:"cuisine"`
	CookTimeMinutes int              `json:"cook_time_minutes"`
	Instructions    string           `json:"instructions"`
	AddedBy         string           `json:"added_by"`
	AverageRating   float64          `json:"average_rating"`
	RatingDisplay   string           `json:"rating_display"`
	RatingCount     int              `json:"rating_count"`
	Ratings         map[string]int   `json:"ratings,omitempty"`
	Reviews         []ReviewResponse `json:"reviews,omitempty"`
}

func toReviewResponses(reviews []model.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewResponse{
			Username:  r.Username,
			Rating:    r.Rating,
			Feedback:  r.Feedback,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// toRecipeResponse rounds the average to one decimal, e.g. "7.3/10".
func toRecipeResponse(r *model.Recipe) RecipeResponse {
	avg := decimal.NewFromFloat(r.AverageRating).Round(1)
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return RecipeResponse{
		ID:              r.ID,
		Name:            r.Name,
		Ingredients:     ingredients,
		Cuisine:         r.Cuisine,
		CookTimeMinutes: r.CookTimeMinutes,
		Instructions:    r.Instructions,
		AddedBy:         r.AddedBy,
		AverageRating:   avg.InexactFloat64(),
		RatingDisplay:   avg.StringFixed(1) + "/10",
		RatingCount:     r.RatingCount,
	}
}

func toRecipeResponses(recipes []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, toRecipeResponse(&recipes[i]))
	}
	return out
}

func (r CreateRecipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Name:            r.Name,
		Ingredients:     r.Ingredients,
		Cuisine:         r.Cuisine,
		CookTimeMinutes: r.CookTimeMinutes,
		Instructions:    r.Instructions,
	}
}

// reservedRecipeNames collide with static routes under /api/recipes.
var reservedRecipeNames = map[string]bool{"search": true, "import": true}

// recipeName returns the :name path parameter decoded. Echo routes on the raw
// path when the request has one, leaving escapes such as %2F in the param.
func recipeName(c echo.Context) (string, error) {
	name := c.Param("name")
	if c.Request().URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid recipe name in path",
			Code:  "INVALID_INPUT",
		})
	}
	return decoded, nil
}

func reservedNameError(name string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "recipe name " + strconv.Quote(name) + " is reserved",
		Code:  "INVALID_INPUT",
	})
}

func isReservedName(name string) bool {
	return reservedRecipeNames[strings.ToLower(strings.TrimSpace(name))]
}

// currentUsername returns the username carried by the access token.
func currentUsername(c echo.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid token",
			Code:  "UNAUTHORIZED",
		})
	}
	return claims.Username, nil
}

// ListRecipes godoc
// @Summary List all recipes
// @Tags recipes
// @Produce json
// @Success 200 {array} RecipeResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.recipeService.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toRecipeResponses(recipes))
}

// SearchRecipes godoc
// @Summary Search recipes
// @Description Filters by ingredients (comma separated, any match), cuisine or maximum cook time. Results are ordered by average rating.
// @Tags recipes
// @Produce json
// @Param by query string true "ingredients, cuisine or cook_time"
// @Param q query string true "Search value"
// @Success 200 {array} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/search [get]
func (h *RecipeHandler) SearchRecipes(c echo.Context) error {
	recipes, err := h.recipeService.Search(c.Request().Context(), c.QueryParam("by"), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toRecipeResponses(recipes))
}

// GetRecipe godoc
// @Summary Get a recipe with its reviews
// @Tags recipes
// @Produce json
// @Param name path string true "Recipe name"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{name} [get]
func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	ctx := c.Request().Context()
	name, err := recipeName(c)
	if err != nil {
		return err
	}

	recipe, err := h.recipeService.Get(ctx, name)
	if err != nil {
		return httpError(err)
	}
	reviews, err := h.recipeService.FindReviews(ctx, name)
	if err != nil {
		return httpError(err)
	}

	recipe.Reviews = reviews
	resp := toRecipeResponse(recipe)
	resp.Reviews = toReviewResponses(reviews)
	resp.Ratings = recipe.Ratings()
	return c.JSON(http.StatusOK, resp)
}

// ListReviews godoc
// @Summary List reviews of a recipe
// @Description Reviews in the order they were written. Unknown recipes have no reviews.
// @Tags reviews
// @Produce json
// @Param name path string true "Recipe name"
// @Success 200 {array} ReviewResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{name}/reviews [get]
func (h *RecipeHandler) ListReviews(c echo.Context) error {
	name, err := recipeName(c)
	if err != nil {
		return err
	}
	reviews, err := h.recipeService.FindReviews(c.Request().Context(), name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}

// TopReviews godoc
// @Summary Best rated reviews of a recipe
// @Tags reviews
// @Produce json
// @Param name path string true "Recipe name"
// @Param limit query int false "Number of reviews" default(3)
// @Success 200 {array} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{name}/reviews/top [get]
func (h *RecipeHandler) TopReviews(c echo.Context) error {
	name, err := recipeName(c)
	if err != nil {
		return err
	}
	limit := service.DefaultTopReviews
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  "INVALID_INPUT",
			})
		}
		limit = parsed
	}

	reviews, err := h.recipeService.TopReviews(c.Request().Context(), name, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}

// CreateRecipe godoc
// @Summary Add a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRecipeRequest true "Recipe"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	var req CreateRecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if isReservedName(req.Name) {
		return reservedNameError(req.Name)
	}

	recipe, err := h.recipeService.Create(c.Request().Context(), username, req.toInput())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toRecipeResponse(recipe))
}

// UpdateRecipe godoc
// @Summary Edit one of your recipes
// @Description Renaming keeps the reviews. Recipes owned by someone else are reported as not found.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Recipe name"
// @Param request body UpdateRecipeRequest true "Fields to change"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{name} [put]
func (h *RecipeHandler) UpdateRecipe(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	name, err := recipeName(c)
	if err != nil {
		return err
	}
	var req UpdateRecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Name != nil && isReservedName(*req.Name) {
		return reservedNameError(*req.Name)
	}

	recipe, err := h.recipeService.Update(c.Request().Context(), username, name, model.RecipePatch{
		Name:            req.Name,
		Ingredients:     req.Ingredients,
		Cuisine:         req.Cuisine,
		CookTimeMinutes: req.CookTimeMinutes,
		Instructions:    req.Instructions,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

// DeleteRecipe godoc
// @Summary Delete one of your recipes
// @Tags recipes
// @Security BearerAuth
// @Param name path string true "Recipe name"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{name} [delete]
func (h *RecipeHandler) DeleteRecipe(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	name, err := recipeName(c)
	if err != nil {
		return err
	}
	if err := h.recipeService.Delete(c.Request().Context(), username, name); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RateRecipe godoc
// @Summary Rate a recipe
// @Description Each user rates a recipe once, from 1 to 10.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Recipe name"
// @Param request body RateRequest true "Rating"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/{name}/ratings [post]
func (h *RecipeHandler) RateRecipe(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	name, err := recipeName(c)
	if err != nil {
		return err
	}
	var req RateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	recipe, err := h.ratingService.Rate(c.Request().Context(), username, name, req.Rating, req.Feedback)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toRecipeResponse(recipe))
}

// ImportRecipes godoc
// @Summary Import many recipes
// @Description Creates every recipe for the caller. Duplicates and invalid entries are skipped.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImportRequest true "Recipes"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipes/import [post]
func (h *RecipeHandler) ImportRecipes(c echo.Context) error {
	username, err := currentUsername(c)
	if err != nil {
		return err
	}
	var req ImportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inputs := make([]service.RecipeInput, 0, len(req.Recipes))
	var reserved []service.ImportSkip
	for _, r := range req.Recipes {
		if isReservedName(r.Name) {
			reserved = append(reserved, service.ImportSkip{Name: r.Name, Reason: "recipe name is reserved"})
			continue
		}
		inputs = append(inputs, r.toInput())
	}
	result, err := h.recipeService.Import(c.Request().Context(), username, inputs)
	if err != nil {
		return httpError(err)
	}
	result.Skipped = append(result.Skipped, reserved...)
	return c.JSON(http.StatusOK, result)
}
