package spot

import (
	"context"
	"log/slog"
	"math/rand"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/someplace/go-date-course-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// CoordinateResolver turns a location name into coordinates.
type CoordinateResolver interface {
	ResolveCoordinate(ctx context.Context, locationName string) (*types.Coordinate, error)
}

// Service samples stored places around a named location. The sample is
// deliberately random: repeated calls with the same location should vary
// instead of always returning the closest five.
type Service interface {
	FindSpots(ctx context.Context, location string) ([]types.Place, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	resolver   CoordinateResolver
	repository Repository
	radius     int
	poolLimit  int
	pickCount  int
}

func NewServiceImpl(resolver CoordinateResolver, repository Repository, radius, poolLimit, pickCount int, logger *slog.Logger) *ServiceImpl {
	if radius <= 0 {
		radius = 2000
	}
	if poolLimit <= 0 {
		poolLimit = 30
	}
	if pickCount <= 0 {
		pickCount = 5
	}
	return &ServiceImpl{
		logger:     logger,
		resolver:   resolver,
		repository: repository,
		radius:     radius,
		poolLimit:  poolLimit,
		pickCount:  pickCount,
	}
}

// FindSpots resolves the location name to coordinates, pulls a wide pool
// of nearby stored places and returns a random subset. A failed
// coordinate lookup yields an empty set, not an error; a store failure is
// surfaced for the orchestrator boundary to handle.
func (s *ServiceImpl) FindSpots(ctx context.Context, location string) ([]types.Place, error) {
	ctx, span := otel.Tracer("SpotService").Start(ctx, "FindSpots", trace.WithAttributes(
		attribute.String("location", location),
	))
	defer span.End()

	coordinate, err := s.resolver.ResolveCoordinate(ctx, location)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not resolve location, returning no spots",
			slog.String("location", location), slog.Any("error", err))
		span.SetStatus(codes.Ok, "Location not resolved")
		return []types.Place{}, nil
	}

	pool, err := s.repository.FindNear(ctx, coordinate.Longitude, coordinate.Latitude, s.radius, s.poolLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Spatial query failed")
		return nil, err
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	count := s.pickCount
	if count > len(pool) {
		count = len(pool)
	}

	span.SetAttributes(attribute.Int("result.count", count))
	span.SetStatus(codes.Ok, "Spots sampled")
	return pool[:count], nil
}
