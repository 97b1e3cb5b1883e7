package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"recipebox/internal/auth"
	"recipebox/internal/errors"
	"recipebox/internal/handler"
	"recipebox/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log *zap.Logger,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	recipeHandler *handler.RecipeHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(RequestLogger(log))
	if collector != nil {
		e.Use(collector.Middleware())
	}

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/recipes", recipeHandler.ListRecipes)
	api.GET("/recipes/search", recipeHandler.SearchRecipes)
	api.GET("/recipes/:name", recipeHandler.GetRecipe)
	api.GET("/recipes/:name/reviews", recipeHandler.ListReviews)
	api.GET("/recipes/:name/reviews/top", recipeHandler.TopReviews)

	// Secured routes (require a valid, unrevoked access token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:     auth.ContextKey,
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: auth.ParseTokenFunc(jwtService, tokenStore),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing, invalid or revoked access token",
				Code:  "UNAUTHORIZED",
			}).SetInternal(err)
		},
	}))

	secured.GET("/me", userHandler.Me)
	secured.GET("/me/recipes", userHandler.MyRecipes)
	secured.GET("/me/activity", userHandler.MyActivity)

	secured.POST("/recipes", recipeHandler.CreateRecipe)
	secured.POST("/recipes/import", recipeHandler.ImportRecipes)
	secured.PUT("/recipes/:name", recipeHandler.UpdateRecipe)
	secured.DELETE("/recipes/:name", recipeHandler.DeleteRecipe)
	secured.POST("/recipes/:name/ratings", recipeHandler.RateRecipe)
}

// RequestLogger logs one structured line per request.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			if v.Status >= http.StatusInternalServerError {
				log.Error("request", fields...)
			} else {
				log.Info("request", fields...)
			}
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
