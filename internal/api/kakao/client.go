package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/someplace/go-date-course-api/internal/types"
)

const keywordSearchPath = "/v2/local/search/keyword.json"

// Document is one raw venue record of the keyword-search response.
type Document struct {
	ID              string `json:"id"`
	PlaceName       string `json:"place_name"`
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	CategoryName    string `json:"category_name"`
	X               string `json:"x"` // longitude
	Y               string `json:"y"` // latitude
}

type keywordSearchResponse struct {
	Documents []Document `json:"documents"`
}

type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// SearchPlaces runs a keyword search sorted by relevance and normalises
// every document into the canonical Place shape. Documents that cannot be
// normalised are skipped individually.
func (c *Client) SearchPlaces(ctx context.Context, keyword string, size int) ([]types.Place, error) {
	ctx, span := otel.Tracer("KakaoClient").Start(ctx, "SearchPlaces", trace.WithAttributes(
		attribute.String("keyword", keyword),
		attribute.Int("size", size),
	))
	defer span.End()

	resp, err := c.search(ctx, keyword, size, "accuracy")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Keyword search failed")
		return nil, err
	}

	places := make([]types.Place, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		place, ok := NormalizeDocument(doc)
		if !ok {
			c.logger.WarnContext(ctx, "Skipping unusable search document", slog.String("place_name", doc.PlaceName))
			continue
		}
		places = append(places, place)
	}

	span.SetAttributes(attribute.Int("result.count", len(places)))
	span.SetStatus(codes.Ok, "Keyword search completed")
	return places, nil
}

// ResolveCoordinate resolves a location name to coordinates using the
// first keyword-search match. A miss is an error the caller degrades on.
func (c *Client) ResolveCoordinate(ctx context.Context, locationName string) (*types.Coordinate, error) {
	ctx, span := otel.Tracer("KakaoClient").Start(ctx, "ResolveCoordinate", trace.WithAttributes(
		attribute.String("location", locationName),
	))
	defer span.End()

	resp, err := c.search(ctx, locationName, 1, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(resp.Documents) == 0 {
		err := fmt.Errorf("no coordinate match for %q", locationName)
		span.RecordError(err)
		return nil, err
	}

	doc := resp.Documents[0]
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", doc.X, err)
	}
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", doc.Y, err)
	}

	c.logger.DebugContext(ctx, "Resolved location to coordinate",
		slog.String("location", locationName), slog.Float64("lat", lat), slog.Float64("lng", lng))
	span.SetStatus(codes.Ok, "Coordinate resolved")
	return &types.Coordinate{Latitude: lat, Longitude: lng}, nil
}

func (c *Client) search(ctx context.Context, query string, size int, sort string) (*keywordSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if size > 0 {
		params.Set("size", strconv.Itoa(size))
	}
	if sort != "" {
		params.Set("sort", sort)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, keywordSearchPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build keyword search request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keyword search returned status %d", resp.StatusCode)
	}

	var parsed keywordSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode keyword search response: %w", err)
	}
	return &parsed, nil
}

// NormalizeDocument converts one raw venue record into the canonical
// Place shape: road address preferred over the lot address, the category
// path reduced to its most specific leaf segment, and the address carried
// as the cheap-pass review summary fallback.
func NormalizeDocument(doc Document) (types.Place, bool) {
	if strings.TrimSpace(doc.PlaceName) == "" {
		return types.Place{}, false
	}

	address := doc.RoadAddressName
	if strings.TrimSpace(address) == "" {
		address = doc.AddressName
	}

	category := doc.CategoryName
	if idx := strings.LastIndex(category, ">"); idx != -1 {
		category = strings.TrimSpace(category[idx+1:])
	}

	place := types.Place{
		Name:          doc.PlaceName,
		Address:       address,
		Category:      category,
		Rating:        0,
		ReviewSummary: address,
		ImageURLs:     []string{},
	}
	if lng, err := strconv.ParseFloat(doc.X, 64); err == nil {
		place.Longitude = &lng
	}
	if lat, err := strconv.ParseFloat(doc.Y, 64); err == nil {
		place.Latitude = &lat
	}
	return place, true
}
