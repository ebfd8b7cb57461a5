// Package places is a small client for the Google Maps Platform web
// services used to find childcare providers near an address.
package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/carescout/carescout/internal/resilience"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client performs the Maps web service operations the search flow needs.
type Client interface {
	Geocode(ctx context.Context, address string) (LatLng, error)
	Nearby(ctx context.Context, loc LatLng, radiusMeters int, keyword string, limit int) ([]PlaceSummary, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceSummary is a nearby-search result row.
type PlaceSummary struct {
	PlaceID  string
	Name     string
	Vicinity string
	Rating   float64
	Location LatLng
}

// PlaceDetails carries the contact fields only the details endpoint returns.
type PlaceDetails struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Phone            string
	Website          string
	Rating           float64
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry overrides the retry policy for API calls.
func WithRetry(rc resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = rc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a Maps web services client.
func NewClient(apiKey string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, eris.New("places: missing API key")
	}
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: 500 * time.Millisecond,
			Multiplier:     2,
			JitterFraction: 0.2,
			OnRetry:        resilience.RetryLogger("places", "get"),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *httpClient) Geocode(ctx context.Context, address string) (LatLng, error) {
	q := url.Values{}
	q.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode/json", q, &resp); err != nil {
		return LatLng{}, err
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return LatLng{}, eris.Errorf("places: geocode %q returned status %s", address, resp.Status)
	}
	return resp.Results[0].Geometry.Location, nil
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string  `json:"place_id"`
		Name     string  `json:"name"`
		Vicinity string  `json:"vicinity"`
		Rating   float64 `json:"rating"`
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *httpClient) Nearby(ctx context.Context, loc LatLng, radiusMeters int, keyword string, limit int) ([]PlaceSummary, error) {
	q := url.Values{}
	q.Set("location", strconv.FormatFloat(loc.Lat, 'f', -1, 64)+","+strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radiusMeters))
	if keyword != "" {
		q.Set("keyword", keyword)
	}

	var resp nearbyResponse
	if err := c.get(ctx, "/place/nearbysearch/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "ZERO_RESULTS" {
		return nil, nil
	}
	if resp.Status != "OK" {
		return nil, eris.Errorf("places: nearby search returned status %s", resp.Status)
	}

	out := make([]PlaceSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, PlaceSummary{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Rating:   r.Rating,
			Location: r.Geometry.Location,
		})
	}
	return out, nil
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Phone            string  `json:"formatted_phone_number"`
		Website          string  `json:"website"`
		Rating           float64 `json:"rating"`
	} `json:"result"`
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "place_id,name,formatted_address,formatted_phone_number,website,rating")

	var resp detailsResponse
	if err := c.get(ctx, "/place/details/json", q, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "OK" {
		return nil, eris.Errorf("places: details for %s returned status %s", placeID, resp.Status)
	}
	return &PlaceDetails{
		PlaceID:          resp.Result.PlaceID,
		Name:             resp.Result.Name,
		FormattedAddress: resp.Result.FormattedAddress,
		Phone:            resp.Result.Phone,
		Website:          resp.Result.Website,
		Rating:           resp.Result.Rating,
	}, nil
}

// get performs a GET against the API with retries. Rate-limit and
// server-side statuses are retried; client errors fail fast.
func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", c.apiKey)
	target := c.baseURL + path + "?" + q.Encode()

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return eris.Wrap(err, "places: create request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrap(err, "places: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "places: read response")
		}
		if resp.StatusCode != http.StatusOK {
			statusErr := eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(body))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return resilience.NewTransientError(statusErr, resp.StatusCode)
			}
			return statusErr
		}

		if err := json.Unmarshal(body, out); err != nil {
			return eris.Wrap(err, "places: unmarshal response")
		}
		return nil
	})
}
