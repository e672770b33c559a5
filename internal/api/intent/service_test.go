package intent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/someplace/go-date-course-api/internal/types"
)

// MockGenerator is a mock implementation of generativeAI.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	tests := []struct {
		name     string
		response string
		err      error
		expected types.IntentResult
	}{
		{
			name:     "Plain JSON",
			response: `{"intent": "FOOD", "location": "홍대"}`,
			expected: types.IntentResult{Intent: types.IntentFood, Location: "홍대"},
		},
		{
			name:     "Markdown fenced JSON",
			response: "```json\n{\"intent\": \"SPOT\", \"location\": \"연남동\"}\n```",
			expected: types.IntentResult{Intent: types.IntentSpot, Location: "연남동"},
		},
		{
			name:     "JSON buried in extra text",
			response: "Sure! Here is the analysis: {\"intent\": \"COURSE\", \"location\": \"강남\"} Hope that helps.",
			expected: types.IntentResult{Intent: types.IntentCourse, Location: "강남"},
		},
		{
			name:     "Null location",
			response: `{"intent": "FOOD", "location": null}`,
			expected: types.IntentResult{Intent: types.IntentFood},
		},
		{
			name:     "Blank intent defaults to COURSE",
			response: `{"intent": "", "location": "성수"}`,
			expected: types.IntentResult{Intent: types.IntentCourse, Location: "성수"},
		},
		{
			name:     "Unknown intent defaults to COURSE",
			response: `{"intent": "SHOPPING", "location": "성수"}`,
			expected: types.IntentResult{Intent: types.IntentCourse, Location: "성수"},
		},
		{
			name:     "No JSON at all",
			response: "죄송해요, 잘 모르겠어요",
			expected: types.IntentResult{Intent: types.IntentCourse},
		},
		{
			name:     "Generation failure",
			response: "",
			err:      errors.New("model unavailable"),
			expected: types.IntentResult{Intent: types.IntentCourse},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAI := new(MockGenerator)
			mockAI.On("GenerateContent", mock.Anything, mock.Anything).Return(tt.response, tt.err)

			service := NewServiceImpl(mockAI, logger)
			result := service.Resolve(ctx, "테스트 질문", nil)

			assert.Equal(t, tt.expected, result)
			mockAI.AssertExpectations(t)
		})
	}
}

func TestResolvePromptIncludesHistory(t *testing.T) {
	mockAI := new(MockGenerator)
	var captured string
	mockAI.On("GenerateContent", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		captured = prompt
		return true
	})).Return(`{"intent": "FOOD", "location": "홍대"}`, nil)

	service := NewServiceImpl(mockAI, slog.Default())
	history := []types.ConversationTurn{
		{Role: "user", Content: "홍대에서 만나기로 했어"},
		{Role: "assistant", Content: "홍대 좋죠!"},
	}
	service.Resolve(context.Background(), "이 근처에 갈만한 맛집있어?", history)

	assert.True(t, strings.Contains(captured, "홍대에서 만나기로 했어"),
		"prompt should carry prior user turns so the model can infer the location")
	assert.True(t, strings.Contains(captured, "이전 대화 내용"))
	assert.True(t, strings.Contains(captured, "이 근처에 갈만한 맛집있어?"))
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Bare object", `{"a":1}`, `{"a":1}`},
		{"Fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Surrounded by text", `prefix {"a":1} suffix`, `{"a":1}`},
		{"No braces", "no json here", "no json here"},
		{"Only opening brace", "{broken", "{broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONResponse(tt.input))
		})
	}
}
