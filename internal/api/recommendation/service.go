package recommendation

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/someplace/go-date-course-api/internal/api/food"
	generativeAI "github.com/someplace/go-date-course-api/internal/api/generative_ai"
	"github.com/someplace/go-date-course-api/internal/api/intent"
	"github.com/someplace/go-date-course-api/internal/api/spot"
	"github.com/someplace/go-date-course-api/internal/types"
)

const (
	locationPromptSummary   = "데이트 코스를 짜드릴까요? \n어느 지역(예: 강남역, 홍대)에서 만나시는지 알려주세요!"
	noFoodMatchesSummary    = "해당 지역에서 적절한 맛집을 찾지 못했어요 ㅠㅠ"
	insufficientDataSummary = "죄송해요, 그 지역 정보는 아직 부족하네요 ㅠㅠ"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the one logical operation the core exposes.
type Service interface {
	Recommend(ctx context.Context, query string, history []types.ConversationTurn) (*types.RecommendationResponse, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	intentResolver intent.Service
	spotService    spot.Service
	foodService    food.Service
	aiClient       generativeAI.Generator
}

func NewServiceImpl(intentResolver intent.Service, spotService spot.Service, foodService food.Service, aiClient generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:         logger,
		intentResolver: intentResolver,
		spotService:    spotService,
		foodService:    foodService,
		aiClient:       aiClient,
	}
}

// Recommend runs the state machine over the resolved intent. Terminal
// guidance responses (no location, no matches, insufficient data) are
// valid responses, never errors; only an unexpected store failure
// surfaces as an error to the transport boundary.
func (s *ServiceImpl) Recommend(ctx context.Context, query string, history []types.ConversationTurn) (*types.RecommendationResponse, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "Recommend")
	defer span.End()

	result := s.intentResolver.Resolve(ctx, query, history)
	span.SetAttributes(
		attribute.String("intent", string(result.Intent)),
		attribute.Bool("location.resolved", result.Location != ""),
	)

	s.logger.InfoContext(ctx, "Resolved recommendation request",
		slog.String("query", query),
		slog.String("intent", string(result.Intent)),
		slog.String("location", result.Location),
		slog.Int("history_size", len(history)))

	if result.Location == "" {
		span.SetStatus(codes.Ok, "No location resolved")
		return &types.RecommendationResponse{
			Summary: locationPromptSummary,
			Places:  []types.Place{},
		}, nil
	}

	var spots, foods []types.Place
	var err error

	switch result.Intent {
	case types.IntentFood:
		foods = s.foodService.FindRestaurants(ctx, result.Location, query)
	case types.IntentSpot:
		spots, err = s.spotService.FindSpots(ctx, result.Location)
	case types.IntentCourse:
		// A course is composed from the stored-spot pool only; the live
		// food search is intentionally skipped here.
		spots, err = s.spotService.FindSpots(ctx, result.Location)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Spot lookup failed")
		return nil, err
	}

	if result.Intent == types.IntentFood {
		if len(foods) == 0 {
			span.SetStatus(codes.Ok, "No food matches")
			return &types.RecommendationResponse{
				Summary: noFoodMatchesSummary,
				Places:  []types.Place{},
			}, nil
		}

		report := generativeAI.GenerateOrApology(ctx, s.aiClient, buildFoodReportPrompt(query, foods))
		span.SetStatus(codes.Ok, "Food recommendation built")
		return &types.RecommendationResponse{
			Summary: report,
			Places:  foods,
		}, nil
	}

	if len(spots) == 0 && len(foods) == 0 {
		span.SetStatus(codes.Ok, "Insufficient data")
		return &types.RecommendationResponse{
			Summary: insufficientDataSummary,
			Places:  []types.Place{},
		}, nil
	}

	summary := generativeAI.GenerateOrApology(ctx, s.aiClient, buildCourseSummaryPrompt(spots, foods))

	places := make([]types.Place, 0, len(foods)+len(spots))
	places = append(places, foods...)
	places = append(places, spots...)

	span.SetStatus(codes.Ok, "Course recommendation built")
	return &types.RecommendationResponse{
		Summary: summary,
		Places:  places,
	}, nil
}
