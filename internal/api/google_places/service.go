package googlePlaces

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	generativeAI "github.com/someplace/go-date-course-api/internal/api/generative_ai"
	"github.com/someplace/go-date-course-api/internal/types"
)

const (
	maxReviewTexts = 4
	maxImageURLs   = 3

	ratingFields = "rating,user_ratings_total"
	deepFields   = "rating,reviews,photos"
)

var _ Service = (*ServiceImpl)(nil)

// Service augments search candidates with ratings, reviews and photos
// from the secondary provider.
type Service interface {
	EnrichAndRank(ctx context.Context, places []types.Place, topN int) []types.Place
}

type ServiceImpl struct {
	logger   *slog.Logger
	api      API
	aiClient generativeAI.Generator
}

func NewServiceImpl(api API, aiClient generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		api:      api,
		aiClient: aiClient,
	}
}

// EnrichAndRank runs the cheap rating pass over every candidate in
// parallel, sorts the set by rating descending (stable, missing rating
// counts as 0), then runs the expensive review/photo/summary pass over
// the top topN entries. Every provider failure degrades to the
// candidate's prior value.
func (s *ServiceImpl) EnrichAndRank(ctx context.Context, places []types.Place, topN int) []types.Place {
	ctx, span := otel.Tracer("GooglePlacesService").Start(ctx, "EnrichAndRank", trace.WithAttributes(
		attribute.Int("candidates", len(places)),
		attribute.Int("top_n", topN),
	))
	defer span.End()

	if len(places) == 0 {
		span.SetStatus(codes.Ok, "Nothing to enrich")
		return places
	}

	rated := make([]types.Place, len(places))
	g, gCtx := errgroup.WithContext(ctx)
	for i, place := range places {
		g.Go(func() error {
			rated[i] = s.enrichOrKeep(gCtx, place, s.enrichRatingOnly)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures already degraded

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating > rated[j].Rating
	})

	if topN > len(rated) {
		topN = len(rated)
	}
	deep, deepCtx := errgroup.WithContext(ctx)
	for i := 0; i < topN; i++ {
		deep.Go(func() error {
			rated[i] = s.enrichOrKeep(deepCtx, rated[i], s.enrichDeep)
			return nil
		})
	}
	_ = deep.Wait()

	span.SetStatus(codes.Ok, "Enrichment completed")
	return rated
}

// enrichOrKeep is the single degrade-to-prior-value combinator: any
// enrichment failure returns the place exactly as it came in.
func (s *ServiceImpl) enrichOrKeep(ctx context.Context, place types.Place, enrich func(context.Context, types.Place) (types.Place, error)) types.Place {
	enriched, err := enrich(ctx, place)
	if err != nil {
		s.logger.WarnContext(ctx, "Enrichment failed, keeping prior value",
			slog.String("place", place.Name), slog.Any("error", err))
		return place
	}
	return enriched
}

// enrichRatingOnly looks the venue up by name and address and replaces
// the rating. The address fallback carried in the review summary is
// cleared here so only a real summary survives to the response.
func (s *ServiceImpl) enrichRatingOnly(ctx context.Context, place types.Place) (types.Place, error) {
	placeID, err := s.api.FindPlaceID(ctx, searchQuery(place))
	if err != nil {
		return place, err
	}
	details, err := s.api.Details(ctx, placeID, ratingFields)
	if err != nil {
		return place, err
	}

	enriched := place
	if details.Rating != nil {
		enriched.Rating = *details.Rating
	}
	enriched.ReviewSummary = ""
	enriched.ImageURLs = capImages(enriched.ImageURLs)
	return enriched, nil
}

// enrichDeep re-resolves the place identifier, fetches reviews and
// photos, and asks the model for a short review summary when at least
// one review text came back.
func (s *ServiceImpl) enrichDeep(ctx context.Context, place types.Place) (types.Place, error) {
	placeID, err := s.api.FindPlaceID(ctx, searchQuery(place))
	if err != nil {
		return place, err
	}
	details, err := s.api.Details(ctx, placeID, deepFields)
	if err != nil {
		return place, err
	}

	enriched := place
	if details.Rating != nil {
		enriched.Rating = *details.Rating
	}

	var reviewTexts []string
	for _, review := range details.Reviews {
		if strings.TrimSpace(review.Text) == "" {
			continue
		}
		reviewTexts = append(reviewTexts, review.Text)
		if len(reviewTexts) >= maxReviewTexts {
			break
		}
	}

	if len(reviewTexts) > 0 {
		summary, err := s.aiClient.GenerateContent(ctx, buildReviewSummaryPrompt(place.Name, reviewTexts))
		if err != nil {
			s.logger.WarnContext(ctx, "Review summarization failed",
				slog.String("place", place.Name), slog.Any("error", err))
		} else {
			enriched.ReviewSummary = strings.TrimSpace(summary)
		}
	}

	var imageURLs []string
	for _, photo := range details.Photos {
		if photo.PhotoReference == "" {
			continue
		}
		imageURLs = append(imageURLs, s.api.PhotoURL(photo.PhotoReference))
		if len(imageURLs) >= maxImageURLs {
			break
		}
	}
	if len(imageURLs) > 0 {
		enriched.ImageURLs = imageURLs
	} else {
		enriched.ImageURLs = capImages(enriched.ImageURLs)
	}
	return enriched, nil
}

func searchQuery(place types.Place) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", place.Name, place.Address))
}

func capImages(urls []string) []string {
	if len(urls) > maxImageURLs {
		return urls[:maxImageURLs]
	}
	return urls
}
