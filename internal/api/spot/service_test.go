package spot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/someplace/go-date-course-api/internal/types"
)

// MockCoordinateResolver is a mock implementation of CoordinateResolver
type MockCoordinateResolver struct {
	mock.Mock
}

func (m *MockCoordinateResolver) ResolveCoordinate(ctx context.Context, locationName string) (*types.Coordinate, error) {
	args := m.Called(ctx, locationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Coordinate), args.Error(1)
}

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindNear(ctx context.Context, longitude, latitude float64, radiusMeters, limit int) ([]types.Place, error) {
	args := m.Called(ctx, longitude, latitude, radiusMeters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *MockRepository) FindNearWithCategory(ctx context.Context, longitude, latitude float64, radiusMeters, limit int, category string) ([]types.Place, error) {
	args := m.Called(ctx, longitude, latitude, radiusMeters, limit, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

func TestFindSpotsUnresolvedLocationReturnsEmpty(t *testing.T) {
	mockResolver := new(MockCoordinateResolver)
	mockResolver.On("ResolveCoordinate", mock.Anything, "없는동네").Return(nil, errors.New("no match"))

	mockRepo := new(MockRepository)

	service := NewServiceImpl(mockResolver, mockRepo, 2000, 30, 5, slog.Default())
	spots, err := service.FindSpots(context.Background(), "없는동네")

	require.NoError(t, err)
	assert.Empty(t, spots)
	mockRepo.AssertNotCalled(t, "FindNear", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindSpotsRepositoryErrorPropagates(t *testing.T) {
	mockResolver := new(MockCoordinateResolver)
	mockResolver.On("ResolveCoordinate", mock.Anything, "연남동").
		Return(&types.Coordinate{Latitude: 37.5629, Longitude: 126.9255}, nil)

	mockRepo := new(MockRepository)
	mockRepo.On("FindNear", mock.Anything, 126.9255, 37.5629, 2000, 30).
		Return(nil, errors.New("connection refused"))

	service := NewServiceImpl(mockResolver, mockRepo, 2000, 30, 5, slog.Default())
	spots, err := service.FindSpots(context.Background(), "연남동")

	require.Error(t, err)
	assert.Nil(t, spots)
}

func TestFindSpotsSamplesFromPool(t *testing.T) {
	var pool []types.Place
	names := make(map[string]bool)
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("스팟%d", i)
		pool = append(pool, types.Place{Name: name})
		names[name] = true
	}

	mockResolver := new(MockCoordinateResolver)
	mockResolver.On("ResolveCoordinate", mock.Anything, "연남동").
		Return(&types.Coordinate{Latitude: 37.5629, Longitude: 126.9255}, nil)

	mockRepo := new(MockRepository)
	mockRepo.On("FindNear", mock.Anything, 126.9255, 37.5629, 2000, 30).Return(pool, nil)

	service := NewServiceImpl(mockResolver, mockRepo, 2000, 30, 5, slog.Default())
	spots, err := service.FindSpots(context.Background(), "연남동")

	require.NoError(t, err)
	require.Len(t, spots, 5)
	seen := make(map[string]bool)
	for _, spot := range spots {
		assert.True(t, names[spot.Name], "sampled spot must come from the pool")
		assert.False(t, seen[spot.Name], "sampled spots must be distinct")
		seen[spot.Name] = true
	}
}

func TestFindSpotsSmallPoolReturnsEverything(t *testing.T) {
	pool := []types.Place{{Name: "스팟1"}, {Name: "스팟2"}}

	mockResolver := new(MockCoordinateResolver)
	mockResolver.On("ResolveCoordinate", mock.Anything, "한적한동네").
		Return(&types.Coordinate{Latitude: 37.0, Longitude: 127.0}, nil)

	mockRepo := new(MockRepository)
	mockRepo.On("FindNear", mock.Anything, 127.0, 37.0, 2000, 30).Return(pool, nil)

	service := NewServiceImpl(mockResolver, mockRepo, 2000, 30, 5, slog.Default())
	spots, err := service.FindSpots(context.Background(), "한적한동네")

	require.NoError(t, err)
	assert.Len(t, spots, 2)
}
