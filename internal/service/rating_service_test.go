package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipebox/internal/errors"
	"recipebox/internal/metrics"
	"recipebox/internal/model"
)

func TestRatingService_Rate(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		recipe        string
		rating        int
		setupMock     func(*MockReviewRepository)
		expectedError error
		outcome       string
	}{
		{
			name:     "accepted",
			username: "alice",
			rating:   7,
			setupMock: func(m *MockReviewRepository) {
				m.On("Rate", mock.Anything, "Soup", mock.MatchedBy(func(r *model.Review) bool {
					return r.Username == "alice" && r.Rating == 7 && r.Feedback == "nice"
				})).Return(&model.Recipe{Name: "Soup", AverageRating: 7, RatingCount: 1}, nil)
			},
			outcome: metrics.OutcomeAccepted,
		},
		{
			name:     "already rated",
			username: "alice",
			rating:   9,
			setupMock: func(m *MockReviewRepository) {
				m.On("Rate", mock.Anything, "Soup", mock.Anything).Return(nil, gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrAlreadyRated,
			outcome:       metrics.OutcomeAlreadyRated,
		},
		{
			name:     "missing recipe",
			username: "alice",
			rating:   5,
			setupMock: func(m *MockReviewRepository) {
				m.On("Rate", mock.Anything, "Soup", mock.Anything).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrRecipeNotFound,
			outcome:       metrics.OutcomeNotFound,
		},
		{
			name:          "rating too low",
			username:      "alice",
			rating:        0,
			setupMock:     func(m *MockReviewRepository) {},
			expectedError: errors.ErrInvalidRating,
			outcome:       metrics.OutcomeInvalid,
		},
		{
			name:          "rating too high",
			username:      "alice",
			rating:        11,
			setupMock:     func(m *MockReviewRepository) {},
			expectedError: errors.ErrInvalidInput,
			outcome:       metrics.OutcomeInvalid,
		},
		{
			name:          "empty recipe name",
			username:      "alice",
			recipe:        "  ",
			rating:        5,
			setupMock:     func(m *MockReviewRepository) {},
			expectedError: errors.ErrInvalidInput,
			outcome:       metrics.OutcomeInvalid,
		},
		{
			name:          "empty username",
			username:      " ",
			rating:        5,
			setupMock:     func(m *MockReviewRepository) {},
			expectedError: errors.ErrInvalidInput,
			outcome:       metrics.OutcomeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockReviewRepository)
			tt.setupMock(repo)
			activity := &recordedActivity{}
			recorder := &countingRecorder{}

			svc := NewRatingService(repo, nil, activity, recorder, zap.NewNop())
			recipeName := tt.recipe
			if recipeName == "" {
				recipeName = "Soup"
			}
			recipe, err := svc.Rate(context.Background(), tt.username, recipeName, tt.rating, "nice")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, recipe)
				assert.Empty(t, activity.actions())
			} else {
				require.NoError(t, err)
				assert.Equal(t, 7.0, recipe.AverageRating)
				assert.Equal(t, []model.ActivityAction{model.ActivityRecipeRated}, activity.actions())
			}

			assert.Equal(t, []string{tt.outcome}, recorder.ratings)
			repo.AssertExpectations(t)
		})
	}
}
