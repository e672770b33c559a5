package container

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/someplace/go-date-course-api/app/db"
	"github.com/someplace/go-date-course-api/config"
	"github.com/someplace/go-date-course-api/internal/api/food"
	generativeAI "github.com/someplace/go-date-course-api/internal/api/generative_ai"
	googlePlaces "github.com/someplace/go-date-course-api/internal/api/google_places"
	"github.com/someplace/go-date-course-api/internal/api/intent"
	"github.com/someplace/go-date-course-api/internal/api/kakao"
	"github.com/someplace/go-date-course-api/internal/api/recommendation"
	"github.com/someplace/go-date-course-api/internal/api/spot"
)

// Container holds all application dependencies
type Container struct {
	Config                *config.Config
	Logger                *slog.Logger
	Pool                  *pgxpool.Pool
	RecommendationHandler *recommendation.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	// Initialize database
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	// Provider clients
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Providers.Gemini.Model, cfg.Providers.Timeout)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		return nil, err
	}

	kakaoClient := kakao.NewClient(cfg.Providers.Kakao.BaseURL, os.Getenv("KAKAO_REST_API_KEY"), cfg.Providers.Timeout, logger)
	placesClient := googlePlaces.NewClient(cfg.Providers.GooglePlaces.BaseURL, os.Getenv("GOOGLE_PLACES_API_KEY"), cfg.Providers.Timeout, logger)

	// Pipeline services
	enricher := googlePlaces.NewServiceImpl(placesClient, aiClient, logger)
	intentService := intent.NewServiceImpl(aiClient, logger)
	foodService := food.NewServiceImpl(kakaoClient, enricher, aiClient,
		cfg.Recommendation.SearchSize, cfg.Recommendation.TopN, logger)

	spotRepo := spot.NewRepository(pool, logger)
	spotService := spot.NewServiceImpl(kakaoClient, spotRepo,
		cfg.Recommendation.SpotRadius, cfg.Recommendation.SpotPoolLimit, cfg.Recommendation.SpotPickCount, logger)

	recommendationService := recommendation.NewServiceImpl(intentService, spotService, foodService, aiClient, logger)
	recommendationHandler := recommendation.NewHandlerImpl(recommendationService, logger)

	return &Container{
		Config:                cfg,
		Logger:                logger,
		Pool:                  pool,
		RecommendationHandler: recommendationHandler,
	}, nil
}

// Close releases the container's long-lived resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
