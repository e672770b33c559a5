package food

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/someplace/go-date-course-api/internal/api/generative_ai"
	googlePlaces "github.com/someplace/go-date-course-api/internal/api/google_places"
	"github.com/someplace/go-date-course-api/internal/types"
)

var categoryTriggers = []struct {
	category string
	terms    []string
}{
	{"카페", []string{"카페", "커피", "디저트", "베이커리", "브런치"}},
	{"술집", []string{"술집", "주점", "호프", "바", "이자카야", "포차", "와인"}},
}

const defaultCategory = "맛집"

// maxKeywordRunes rejects AI keywords that are clearly not a short search
// term (the model occasionally answers in full sentences).
const maxKeywordRunes = 30

var _ Service = (*ServiceImpl)(nil)

// PlaceSearcher is the keyword-based place-search provider.
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, keyword string, size int) ([]types.Place, error)
}

// Service runs the live food-search pipeline: keyword synthesis, keyword
// search, rating enrichment and the deep pass over the top candidates.
type Service interface {
	FindRestaurants(ctx context.Context, location, originalQuery string) []types.Place
}

type ServiceImpl struct {
	logger     *slog.Logger
	searcher   PlaceSearcher
	enricher   googlePlaces.Service
	aiClient   generativeAI.Generator
	searchSize int
	topN       int
}

func NewServiceImpl(searcher PlaceSearcher, enricher googlePlaces.Service, aiClient generativeAI.Generator, searchSize, topN int, logger *slog.Logger) *ServiceImpl {
	if searchSize <= 0 {
		searchSize = 15
	}
	if topN <= 0 {
		topN = 5
	}
	return &ServiceImpl{
		logger:     logger,
		searcher:   searcher,
		enricher:   enricher,
		aiClient:   aiClient,
		searchSize: searchSize,
		topN:       topN,
	}
}

// FindRestaurants never fails: any provider error on the way degrades to
// an empty candidate set.
func (s *ServiceImpl) FindRestaurants(ctx context.Context, location, originalQuery string) []types.Place {
	ctx, span := otel.Tracer("FoodService").Start(ctx, "FindRestaurants", trace.WithAttributes(
		attribute.String("location", location),
	))
	defer span.End()

	keyword := s.buildSearchKeyword(ctx, location, originalQuery)
	if keyword == "" {
		s.logger.WarnContext(ctx, "No search keyword possible",
			slog.String("location", location), slog.String("query", originalQuery))
		span.SetStatus(codes.Ok, "No keyword")
		return []types.Place{}
	}

	s.logger.InfoContext(ctx, "Searching restaurants",
		slog.String("keyword", keyword), slog.String("location", location))

	candidates, err := s.searcher.SearchPlaces(ctx, keyword, s.searchSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "Keyword search failed", slog.String("keyword", keyword), slog.Any("error", err))
		span.RecordError(err)
		return []types.Place{}
	}
	if len(candidates) == 0 {
		s.logger.WarnContext(ctx, "Keyword search returned no candidates", slog.String("keyword", keyword))
		return []types.Place{}
	}

	enriched := s.enricher.EnrichAndRank(ctx, candidates, s.topN)

	limit := s.topN
	if limit > len(enriched) {
		limit = len(enriched)
	}
	span.SetAttributes(attribute.Int("result.count", limit))
	span.SetStatus(codes.Ok, "Restaurants found")
	return enriched[:limit]
}

// buildSearchKeyword synthesises the provider search keyword. The
// AI-normalised keyword is preferred; any failure there falls back to
// rule-based category matching, then to the raw query itself.
func (s *ServiceImpl) buildSearchKeyword(ctx context.Context, location, originalQuery string) string {
	query := strings.TrimSpace(originalQuery)
	loc := strings.TrimSpace(location)

	if query == "" && loc == "" {
		return ""
	}

	if keyword := s.aiKeyword(ctx, loc, query); keyword != "" {
		return keyword
	}

	category := defaultCategory
	for _, trigger := range categoryTriggers {
		if containsAny(query, trigger.terms) {
			category = trigger.category
			break
		}
	}

	if loc != "" {
		return loc + " " + category
	}
	return query
}

func (s *ServiceImpl) aiKeyword(ctx context.Context, location, query string) string {
	response, err := s.aiClient.GenerateContent(ctx, buildKeywordPrompt(location, query))
	if err != nil {
		s.logger.WarnContext(ctx, "AI keyword synthesis failed, using rule-based fallback", slog.Any("error", err))
		return ""
	}

	keyword := strings.TrimSpace(response)
	if keyword == "" || strings.ContainsAny(keyword, "\n\r") || len([]rune(keyword)) > maxKeywordRunes {
		s.logger.WarnContext(ctx, "AI keyword unusable, using rule-based fallback", slog.String("keyword", keyword))
		return ""
	}
	return keyword
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
