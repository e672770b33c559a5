package googlePlaces

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	textSearchPath = "/maps/api/place/textsearch/json"
	detailsPath    = "/maps/api/place/details/json"
	photoPath      = "/maps/api/place/photo"
)

// Review is one review entry of a place-details response.
type Review struct {
	Text string `json:"text"`
}

// Photo is one photo entry of a place-details response.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
}

// Details is the typed subset of a place-details response the pipeline
// consumes. Rating stays nil when the provider omits it.
type Details struct {
	Rating  *float64 `json:"rating"`
	Reviews []Review `json:"reviews"`
	Photos  []Photo  `json:"photos"`
}

// API is the secondary rating/review provider contract consumed by the
// enrichment stages.
type API interface {
	FindPlaceID(ctx context.Context, query string) (string, error)
	Details(ctx context.Context, placeID, fields string) (*Details, error)
	PhotoURL(reference string) string
}

var _ API = (*Client)(nil)

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

// FindPlaceID resolves a free-text venue query to the provider's best
// matching place identifier.
func (c *Client) FindPlaceID(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	var parsed struct {
		Results []struct {
			PlaceID string `json:"place_id"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, textSearchPath, params, &parsed); err != nil {
		return "", fmt.Errorf("text search failed: %w", err)
	}
	if len(parsed.Results) == 0 || parsed.Results[0].PlaceID == "" {
		return "", fmt.Errorf("no place match for %q", query)
	}
	return parsed.Results[0].PlaceID, nil
}

// Details fetches the requested detail fields for a place identifier.
func (c *Client) Details(ctx context.Context, placeID, fields string) (*Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", fields)
	params.Set("key", c.apiKey)

	var parsed struct {
		Result *Details `json:"result"`
	}
	if err := c.getJSON(ctx, detailsPath, params, &parsed); err != nil {
		return nil, fmt.Errorf("place details failed: %w", err)
	}
	if parsed.Result == nil {
		return nil, fmt.Errorf("place details response has no result for %s", placeID)
	}
	return parsed.Result, nil
}

// PhotoURL derives a fetchable image URL from a photo reference.
func (c *Client) PhotoURL(reference string) string {
	params := url.Values{}
	params.Set("maxwidth", "800")
	params.Set("photo_reference", reference)
	params.Set("key", c.apiKey)
	return fmt.Sprintf("%s%s?%s", c.baseURL, photoPath, params.Encode())
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
