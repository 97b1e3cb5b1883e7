package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"recipebox/internal/auth"
	"recipebox/internal/model"
	"recipebox/internal/service"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// newContext builds an echo context for a JSON request. A non-empty username
// is installed as the authenticated caller.
func newContext(method, target, body, username string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if username != "" {
		c.Set(auth.ContextKey, &auth.Claims{Username: username, Type: auth.TokenTypeAccess})
	}
	return c, rec
}

func withName(c echo.Context, name string) echo.Context {
	c.SetParamNames("name")
	c.SetParamValues(name)
	return c
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, username, password)
	var user *model.User
	if args.Get(2) != nil {
		user = args.Get(2).(*model.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	args := m.Called(ctx, refreshToken, accessToken)
	return args.Error(0)
}

// MockRecipeService is a mock implementation of service.RecipeService.
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) recipe(args mock.Arguments) (*model.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) recipes(args mock.Arguments) ([]model.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeService) reviews(args mock.Arguments) ([]model.Review, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, username string, input service.RecipeInput) (*model.Recipe, error) {
	return m.recipe(m.Called(ctx, username, input))
}

func (m *MockRecipeService) Get(ctx context.Context, name string) (*model.Recipe, error) {
	return m.recipe(m.Called(ctx, name))
}

func (m *MockRecipeService) Update(ctx context.Context, username, name string, patch model.RecipePatch) (*model.Recipe, error) {
	return m.recipe(m.Called(ctx, username, name, patch))
}

func (m *MockRecipeService) Delete(ctx context.Context, username, name string) error {
	return m.Called(ctx, username, name).Error(0)
}

func (m *MockRecipeService) ListAll(ctx context.Context) ([]model.Recipe, error) {
	return m.recipes(m.Called(ctx))
}

func (m *MockRecipeService) ListByOwner(ctx context.Context, username string) ([]model.Recipe, error) {
	return m.recipes(m.Called(ctx, username))
}

func (m *MockRecipeService) FindReviews(ctx context.Context, name string) ([]model.Review, error) {
	return m.reviews(m.Called(ctx, name))
}

func (m *MockRecipeService) TopReviews(ctx context.Context, name string, limit int) ([]model.Review, error) {
	return m.reviews(m.Called(ctx, name, limit))
}

func (m *MockRecipeService) Search(ctx context.Context, by, query string) ([]model.Recipe, error) {
	return m.recipes(m.Called(ctx, by, query))
}

func (m *MockRecipeService) Import(ctx context.Context, username string, inputs []service.RecipeInput) (*service.ImportResult, error) {
	args := m.Called(ctx, username, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockRecipeService) Profile(ctx context.Context, username string) (*model.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// MockRatingService is a mock implementation of service.RatingService.
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Rate(ctx context.Context, username, recipeName string, rating int, feedback string) (*model.Recipe, error) {
	args := m.Called(ctx, username, recipeName, rating, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// MockActivityReader is a mock implementation of ActivityReader.
type MockActivityReader struct {
	mock.Mock
}

func (m *MockActivityReader) Recent(ctx context.Context, username string, limit int) ([]model.ActivityLog, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityLog), args.Error(1)
}
