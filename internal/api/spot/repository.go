package spot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/someplace/go-date-course-api/app/observability/metrics"
	"github.com/someplace/go-date-course-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the spatial-store query contract: stored places within a
// radius around a coordinate, ordered by distance.
type Repository interface {
	FindNear(ctx context.Context, lng, lat float64, radiusMeters, limit int) ([]types.Place, error)
	FindNearWithCategory(ctx context.Context, lng, lat float64, radiusMeters, limit int, category string) ([]types.Place, error)
}

// DB is the subset of pgxpool.Pool the repository needs; it lets tests
// substitute a pgxmock pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

const findNearQuery = `
        SELECT
            id,
            name,
            category,
            address,
            review_summary,
            ST_Y(location::geometry) AS latitude,
            ST_X(location::geometry) AS longitude,
            rating,
            image_urls
        FROM places
        WHERE ST_DWithin(
            location,
            ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
            $3
        )
        ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) ASC
        LIMIT $4
    `

const findNearWithCategoryQuery = `
        SELECT
            id,
            name,
            category,
            address,
            review_summary,
            ST_Y(location::geometry) AS latitude,
            ST_X(location::geometry) AS longitude,
            rating,
            image_urls
        FROM places
        WHERE ST_DWithin(
            location,
            ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
            $3
        )
        AND category = $5
        ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) ASC
        LIMIT $4
    `

func (r *RepositoryImpl) FindNear(ctx context.Context, lng, lat float64, radiusMeters, limit int) ([]types.Place, error) {
	return r.findNear(ctx, findNearQuery, []any{lng, lat, radiusMeters, limit})
}

func (r *RepositoryImpl) FindNearWithCategory(ctx context.Context, lng, lat float64, radiusMeters, limit int, category string) ([]types.Place, error) {
	return r.findNear(ctx, findNearWithCategoryQuery, []any{lng, lat, radiusMeters, limit, category})
}

func (r *RepositoryImpl) findNear(ctx context.Context, query string, args []any) ([]types.Place, error) {
	ctx, span := otel.Tracer("SpotRepository").Start(ctx, "FindNear", trace.WithAttributes(
		attribute.Int("args", len(args)),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query nearby places", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query nearby places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		var (
			id            uuid.UUID
			name          string
			category      sql.NullString
			address       sql.NullString
			reviewSummary sql.NullString
			latitude      float64
			longitude     float64
			rating        sql.NullFloat64
			imageURLs     []string
		)
		if err := rows.Scan(&id, &name, &category, &address, &reviewSummary,
			&latitude, &longitude, &rating, &imageURLs); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}

		place := types.Place{
			ID:            &id,
			Name:          name,
			Address:       address.String,
			Category:      category.String,
			Latitude:      &latitude,
			Longitude:     &longitude,
			ReviewSummary: reviewSummary.String,
			ImageURLs:     imageURLs,
		}
		if rating.Valid {
			place.Rating = rating.Float64
		}
		if place.ImageURLs == nil {
			place.ImageURLs = []string{}
		} else if len(place.ImageURLs) > 3 {
			place.ImageURLs = place.ImageURLs[:3]
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed reading place rows: %w", err)
	}

	span.SetAttributes(attribute.Int("result.count", len(places)))
	span.SetStatus(codes.Ok, "Nearby places found")
	return places, nil
}
