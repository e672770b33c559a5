package recommendation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/someplace/go-date-course-api/app/observability/metrics"
	"github.com/someplace/go-date-course-api/internal/types"
)

// The handler records request metrics, so the global instruments must
// exist before any test runs.
func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	os.Exit(m.Run())
}

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Recommend(ctx context.Context, query string, history []types.ConversationTurn) (*types.RecommendationResponse, error) {
	args := m.Called(ctx, query, history)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecommendationResponse), args.Error(1)
}

func performRecommend(t *testing.T, handler *HandlerImpl, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.Recommend(recorder, req)
	return recorder
}

func TestRecommendHandlerSuccess(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Recommend", mock.Anything, "연남동 데이트 코스", mock.Anything).
		Return(&types.RecommendationResponse{
			Summary: "경의선숲길부터 가보세요!",
			Places:  []types.Place{{Name: "경의선숲길"}},
		}, nil)

	handler := NewHandlerImpl(mockService, slog.Default())
	body, _ := json.Marshal(types.RecommendationRequest{Query: "연남동 데이트 코스"})
	recorder := performRecommend(t, handler, body)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response types.RecommendationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "SUCCESS", response.Message)
	assert.Equal(t, "경의선숲길부터 가보세요!", response.Summary)
	require.Len(t, response.Places, 1)
}

func TestRecommendHandlerBadBody(t *testing.T) {
	mockService := new(MockService)

	handler := NewHandlerImpl(mockService, slog.Default())
	recorder := performRecommend(t, handler, []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	mockService.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendHandlerServiceError(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Recommend", mock.Anything, "연남동 데이트 코스", mock.Anything).
		Return(nil, errors.New("connection refused"))

	handler := NewHandlerImpl(mockService, slog.Default())
	body, _ := json.Marshal(types.RecommendationRequest{Query: "연남동 데이트 코스"})
	recorder := performRecommend(t, handler, body)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var response types.RecommendationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "FAIL", response.Message)
	assert.Equal(t, internalErrorSummary, response.Summary)
	assert.Empty(t, response.Places)
}
