package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const requestTimeout = 10 * time.Second

// NominatimClient geocodes against a Nominatim-compatible search endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient creates a geocoder for the given search endpoint.
// userAgent is required by Nominatim's usage policy.
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	return &NominatimClient{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: requestTimeout},
	}
}

// nominatimResult is the subset of the provider response we use.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a location string to its best candidate point.
// Zero candidates returns (nil, nil).
func (c *NominatimClient) Geocode(ctx context.Context, location string) (*Point, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocoder response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocoder response: %w", err)
	}

	return &Point{Lng: lng, Lat: lat}, nil
}

var _ Geocoder = (*NominatimClient)(nil)
