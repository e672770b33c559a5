package recommendation

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/someplace/go-date-course-api/app/observability/metrics"
	"github.com/someplace/go-date-course-api/internal/api"
	"github.com/someplace/go-date-course-api/internal/types"
)

const internalErrorSummary = "서버 내부 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Recommend(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Recommend handles POST /api/v1/recommend.
func (h *HandlerImpl) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "Recommend")
	defer span.End()

	start := time.Now()
	defer func() {
		m := metrics.Get()
		m.RecommendRequestsTotal.Add(ctx, 1)
		m.RecommendDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	var req types.RecommendationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "Invalid recommendation request body", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(ctx, "Recommendation request received", slog.String("query", req.Query))

	response, err := h.service.Recommend(ctx, req.Query, req.History)
	if err != nil {
		h.logger.ErrorContext(ctx, "Recommendation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Recommendation failed")
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.RecommendationResponse{
			Message: "FAIL",
			Summary: internalErrorSummary,
			Places:  []types.Place{},
		})
		return
	}

	response.Message = "SUCCESS"
	span.SetStatus(codes.Ok, "Recommendation succeeded")
	api.WriteJSONResponse(w, r, http.StatusOK, response)
}
