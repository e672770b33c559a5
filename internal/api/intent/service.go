package intent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/someplace/go-date-course-api/internal/api/generative_ai"
	"github.com/someplace/go-date-course-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service classifies a user query (plus conversation history) into an
// intent and an extracted location.
type Service interface {
	Resolve(ctx context.Context, query string, history []types.ConversationTurn) types.IntentResult
}

type ServiceImpl struct {
	logger   *slog.Logger
	aiClient generativeAI.Generator
}

func NewServiceImpl(aiClient generativeAI.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
	}
}

// Resolve never fails: a blank, unparsable or ambiguous classification
// degrades to {COURSE, no location} so downstream consumers always receive
// a well-formed result.
func (s *ServiceImpl) Resolve(ctx context.Context, query string, history []types.ConversationTurn) types.IntentResult {
	ctx, span := otel.Tracer("IntentService").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.Int("query.length", len(query)),
		attribute.Int("history.size", len(history)),
	))
	defer span.End()

	fallback := types.IntentResult{Intent: types.IntentCourse}

	response, err := s.aiClient.GenerateContent(ctx, buildIntentPrompt(query, history))
	if err != nil {
		s.logger.WarnContext(ctx, "Intent classification call failed, using fallback", slog.Any("error", err))
		span.RecordError(err)
		return fallback
	}

	cleaned := cleanJSONResponse(response)
	var raw struct {
		Intent   string  `json:"intent"`
		Location *string `json:"location"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		s.logger.WarnContext(ctx, "Intent response was not valid JSON, using fallback",
			slog.String("response", response), slog.Any("error", err))
		span.RecordError(err)
		return fallback
	}

	result := types.IntentResult{Intent: types.ParseIntent(raw.Intent)}
	if raw.Location != nil {
		result.Location = strings.TrimSpace(*raw.Location)
	}

	span.SetStatus(codes.Ok, "Intent resolved")
	s.logger.DebugContext(ctx, "Resolved intent",
		slog.String("intent", string(result.Intent)), slog.String("location", result.Location))
	return result
}

// cleanJSONResponse strips markdown fences and extraneous text around the
// JSON payload by keeping the substring between the first '{' and the
// last '}'.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}
