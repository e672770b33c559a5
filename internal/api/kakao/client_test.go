package kakao

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", 2*time.Second, slog.Default())
}

func TestSearchPlaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, keywordSearchPath, r.URL.Path)
		assert.Equal(t, "KakaoAK test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "홍대 맛집", r.URL.Query().Get("query"))
		assert.Equal(t, "15", r.URL.Query().Get("size"))
		assert.Equal(t, "accuracy", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documents": [
			{"place_name": "연남파스타", "road_address_name": "서울 마포구 동교로 123", "address_name": "서울 마포구 연남동 1-2",
			 "category_name": "음식점 > 양식 > 이탈리안 > 파스타", "x": "126.921", "y": "37.561"},
			{"place_name": "골목포차", "road_address_name": "", "address_name": "서울 마포구 연남동 3-4",
			 "category_name": "음식점 > 술집", "x": "", "y": ""},
			{"place_name": "", "road_address_name": "유령주소", "address_name": "", "category_name": "", "x": "1", "y": "2"}
		]}`))
	})

	places, err := client.SearchPlaces(context.Background(), "홍대 맛집", 15)
	require.NoError(t, err)
	require.Len(t, places, 2, "the nameless document must be skipped")

	first := places[0]
	assert.Equal(t, "연남파스타", first.Name)
	assert.Equal(t, "서울 마포구 동교로 123", first.Address, "road address wins over the lot address")
	assert.Equal(t, "파스타", first.Category, "category is reduced to its leaf segment")
	require.NotNil(t, first.Longitude)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, 126.921, *first.Longitude, 1e-9)
	assert.InDelta(t, 37.561, *first.Latitude, 1e-9)
	assert.Equal(t, 0.0, first.Rating)
	assert.Equal(t, first.Address, first.ReviewSummary, "address is the cheap-pass summary fallback")
	assert.Empty(t, first.ImageURLs)

	second := places[1]
	assert.Equal(t, "서울 마포구 연남동 3-4", second.Address, "lot address is the fallback")
	assert.Equal(t, "술집", second.Category)
	assert.Nil(t, second.Latitude, "blank coordinates stay nil")
	assert.Nil(t, second.Longitude)
}

func TestSearchPlacesTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SearchPlaces(context.Background(), "홍대 맛집", 15)
	assert.Error(t, err)
}

func TestResolveCoordinate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documents": [{"place_name": "연남동", "x": "126.9255", "y": "37.5602"}]}`))
	})

	coord, err := client.ResolveCoordinate(context.Background(), "연남동")
	require.NoError(t, err)
	assert.InDelta(t, 37.5602, coord.Latitude, 1e-9)
	assert.InDelta(t, 126.9255, coord.Longitude, 1e-9)
}

func TestResolveCoordinateNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"documents": []}`))
	})

	_, err := client.ResolveCoordinate(context.Background(), "없는동네")
	assert.Error(t, err)
}

func TestNormalizeDocumentCategoryWithoutPath(t *testing.T) {
	place, ok := NormalizeDocument(Document{
		PlaceName:    "한강공원",
		AddressName:  "서울 영등포구",
		CategoryName: "공원",
	})
	require.True(t, ok)
	assert.Equal(t, "공원", place.Category)
}
