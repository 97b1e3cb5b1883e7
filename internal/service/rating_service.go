package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipebox/internal/cache"
	"recipebox/internal/errors"
	"recipebox/internal/metrics"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

// RatingService records ratings and keeps recipe averages current.
type RatingService interface {
	Rate(ctx context.Context, username, recipeName string, rating int, feedback string) (*model.Recipe, error)
}

type ratingService struct {
	reviewRepo repository.ReviewRepository
	cache      *cache.Client
	activity   ActivityRecorder
	metrics    metrics.Recorder
	validator  *RecipeValidator
	log        *zap.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	reviewRepo repository.ReviewRepository,
	cache *cache.Client,
	activity ActivityRecorder,
	recorder metrics.Recorder,
	log *zap.Logger,
) RatingService {
	return &ratingService{
		reviewRepo: reviewRepo,
		cache:      cache,
		activity:   activity,
		metrics:    recorder,
		validator:  NewRecipeValidator(),
		log:        log,
	}
}

// Rate records username's rating of recipeName once. The creator may rate
// their own recipe. The returned recipe carries the new average.
func (s *ratingService) Rate(ctx context.Context, username, recipeName string, rating int, feedback string) (*model.Recipe, error) {
	username, err := s.validator.ValidateUsername(username)
	if err != nil {
		s.metrics.RatingRecorded(metrics.OutcomeInvalid)
		return nil, err
	}
	recipeName, err = s.validator.ValidateRecipeName(recipeName)
	if err != nil {
		s.metrics.RatingRecorded(metrics.OutcomeInvalid)
		return nil, err
	}
	if err := s.validator.ValidateRating(rating); err != nil {
		s.metrics.RatingRecorded(metrics.OutcomeInvalid)
		return nil, err
	}

	review := &model.Review{
		Username: username,
		Rating:   rating,
		Feedback: feedback,
	}
	recipe, err := s.reviewRepo.Rate(ctx, recipeName, review)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			s.metrics.RatingRecorded(metrics.OutcomeNotFound)
			return nil, errors.ErrRecipeNotFound
		case repository.IsDuplicateKey(err):
			s.metrics.RatingRecorded(metrics.OutcomeAlreadyRated)
			return nil, errors.ErrAlreadyRated
		}
		s.metrics.RatingRecorded(metrics.OutcomeError)
		s.log.Error("rate recipe", zap.String("recipe", recipeName), zap.Error(err))
		return nil, fmt.Errorf("rate recipe: %w", err)
	}

	_ = s.cache.Delete(ctx, recipeCacheKey(recipe.Name))
	s.metrics.RatingRecorded(metrics.OutcomeAccepted)
	s.activity.Record(ctx, model.ActivityLog{
		Action:     model.ActivityRecipeRated,
		Username:   username,
		RecipeID:   recipe.ID,
		RecipeName: recipe.Name,
		Detail:     fmt.Sprintf("rating %d", rating),
	})
	return recipe, nil
}
