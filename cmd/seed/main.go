package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/errors"
	"recipebox/internal/logger"
	"recipebox/internal/metrics"
	"recipebox/internal/repository"
	"recipebox/internal/service"
)

// SeedUser is a user to register.
type SeedUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SeedRecipe is a recipe owned by AddedBy.
type SeedRecipe struct {
	service.RecipeInput
	AddedBy string `json:"added_by"`
}

// SeedData is the layout of a seed file.
type SeedData struct {
	Users   []SeedUser   `json:"users"`
	Recipes []SeedRecipe `json:"recipes"`
}

func main() {
	source := flag.String("source", "seed.json", "path or http(s) URL of the seed file")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	data, err := load(*source)
	if err != nil {
		log.Fatal("load seed data", zap.String("source", *source), zap.Error(err))
	}
	log.Info("seed data loaded", zap.Int("users", len(data.Users)), zap.Int("recipes", len(data.Recipes)))

	userRepo := repository.NewUserRepository(gormDB)
	activity := service.NewActivityService(repository.NewActivityLogRepository(gormDB), log)
	defer activity.Close()

	authService := service.NewAuthService(userRepo, nil, nil, log)
	recipeService := service.NewRecipeService(
		userRepo,
		repository.NewRecipeRepository(gormDB),
		repository.NewReviewRepository(gormDB),
		nil, 0, activity, metrics.Nop{}, log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, err := seedUsers(ctx, authService, data.Users)
	if err != nil {
		log.Fatal("seed users", zap.Error(err))
	}
	log.Info("users seeded", zap.Int("created", created), zap.Int("existing", len(data.Users)-created))

	result, err := seedRecipes(ctx, recipeService, data.Recipes)
	if err != nil {
		log.Fatal("seed recipes", zap.Error(err))
	}
	for _, skip := range result.Skipped {
		log.Info("recipe skipped", zap.String("recipe", skip.Name), zap.String("reason", skip.Reason))
	}
	log.Info("seed completed", zap.Int("recipes_created", len(result.Created)), zap.Int("recipes_skipped", len(result.Skipped)))
}

// load reads seed data from a local file or an http(s) URL.
func load(source string) (*SeedData, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch: status code %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	var data SeedData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return &data, nil
}

// seedUsers registers users; existing usernames are left alone.
func seedUsers(ctx context.Context, svc service.AuthService, users []SeedUser) (int, error) {
	created := 0
	for _, u := range users {
		if _, err := svc.Register(ctx, u.Username, u.Password); err != nil {
			if errors.Is(err, errors.ErrUserExists) {
				continue
			}
			return created, fmt.Errorf("register %q: %w", u.Username, err)
		}
		created++
	}
	return created, nil
}

// seedRecipes imports recipes grouped by owner, preserving file order within each owner.
func seedRecipes(ctx context.Context, svc service.RecipeService, recipes []SeedRecipe) (*service.ImportResult, error) {
	var owners []string
	byOwner := make(map[string][]service.RecipeInput)
	for _, r := range recipes {
		if _, ok := byOwner[r.AddedBy]; !ok {
			owners = append(owners, r.AddedBy)
		}
		byOwner[r.AddedBy] = append(byOwner[r.AddedBy], r.RecipeInput)
	}

	total := &service.ImportResult{Created: []string{}, Skipped: []service.ImportSkip{}}
	for _, owner := range owners {
		result, err := svc.Import(ctx, owner, byOwner[owner])
		if result != nil {
			total.Created = append(total.Created, result.Created...)
			total.Skipped = append(total.Skipped, result.Skipped...)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
