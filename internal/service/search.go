package service

import (
	"sort"
	"strings"

	"recipebox/internal/model"
)

// Search criteria accepted by RecipeService.Search.
const (
	SearchByIngredients = "ingredients"
	SearchByCuisine     = "cuisine"
	SearchByCookTime    = "cook_time"
)

// FilterByIngredients keeps recipes that contain any of the comma separated
// query ingredients. Matching is case-insensitive on whole ingredient names.
func FilterByIngredients(recipes []model.Recipe, query string) []model.Recipe {
	wanted := make(map[string]struct{})
	for _, ing := range SplitIngredients(query) {
		wanted[strings.ToLower(ing)] = struct{}{}
	}
	if len(wanted) == 0 {
		return []model.Recipe{}
	}

	return filter(recipes, func(r model.Recipe) bool {
		for _, ing := range r.Ingredients {
			if _, ok := wanted[strings.ToLower(strings.TrimSpace(ing))]; ok {
				return true
			}
		}
		return false
	})
}

// FilterByCuisine keeps recipes whose cuisine equals cuisine, ignoring case.
func FilterByCuisine(recipes []model.Recipe, cuisine string) []model.Recipe {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return []model.Recipe{}
	}
	return filter(recipes, func(r model.Recipe) bool {
		return strings.EqualFold(strings.TrimSpace(r.Cuisine), cuisine)
	})
}

// FilterByMaxCookTime keeps recipes that cook in at most maxMinutes.
func FilterByMaxCookTime(recipes []model.Recipe, maxMinutes int) []model.Recipe {
	return filter(recipes, func(r model.Recipe) bool {
		return r.CookTimeMinutes <= maxMinutes
	})
}

// SortByAverageRating orders recipes best rated first. Ties keep their order.
func SortByAverageRating(recipes []model.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].AverageRating > recipes[j].AverageRating
	})
}

// TopReviews returns up to limit reviews, highest rating first. Ties keep
// insertion order. A non-positive limit returns all of them.
func TopReviews(reviews []model.Review, limit int) []model.Review {
	sorted := make([]model.Review, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func filter(recipes []model.Recipe, keep func(model.Recipe) bool) []model.Recipe {
	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
