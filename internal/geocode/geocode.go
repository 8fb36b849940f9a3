package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/lox/luggify/internal/httputil"
	"github.com/lox/luggify/internal/metrics"
	"github.com/lox/luggify/internal/models"
	"github.com/lox/luggify/internal/upstream"
)

const DefaultBaseURL = "https://geocoding-api.open-meteo.com/v1"

// NotFoundError means the geocoder returned no candidates for a place name.
// It is fatal to a packing request: nothing useful exists without coordinates.
type NotFoundError struct {
	Place string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("place %q not found", e.Place)
}

// Candidate is one geocoding match, ordered by relevance upstream.
type Candidate struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1"`
}

type searchResponse struct {
	Results []Candidate `json:"results"`
}

type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient returns a geocoding client for the Open-Meteo geocoding API.
// An empty baseURL selects the public endpoint. Requests are rate limited to
// stay inside the free tier.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httputil.NewClientWithTimeout(timeout),
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Search returns up to limit candidates for the given free-text query,
// ordered by relevance.
func (c *Client) Search(ctx context.Context, query, lang string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 10
	}
	if lang == "" {
		lang = "en"
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/search?name=%s&count=%d&language=%s&format=json",
		c.baseURL, url.QueryEscape(query), limit, url.QueryEscape(lang))

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("search: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(&upstream.Error{
				Op:     "geocode search",
				Status: resp.StatusCode,
				Err:    fmt.Errorf("%s", strings.TrimSpace(string(b))),
			})
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.GeocodeCallsTotal.WithLabelValues("error").Inc()
		var ue *upstream.Error
		if !errors.As(err, &ue) {
			err = &upstream.Error{Op: "geocode search", Err: err}
		}
		return nil, err
	}

	var data searchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.GeocodeCallsTotal.WithLabelValues("error").Inc()
		return nil, &upstream.Error{Op: "geocode search", Err: fmt.Errorf("unmarshal: %w", err)}
	}

	metrics.GeocodeCallsTotal.WithLabelValues("ok").Inc()
	return data.Results, nil
}

// Resolve maps a free-text place name to coordinates and country. Input may
// be "City, Country"; only the part before the first comma is geocoded, the
// full text is kept for display. The first (highest-ranked) candidate wins.
func (c *Client) Resolve(ctx context.Context, place, lang string) (models.Location, error) {
	query := place
	if i := strings.Index(place, ","); i >= 0 {
		query = place[:i]
	}
	query = strings.TrimSpace(query)

	candidates, err := c.Search(ctx, query, lang, 1)
	if err != nil {
		return models.Location{}, err
	}
	if len(candidates) == 0 {
		metrics.GeocodeCallsTotal.WithLabelValues("not_found").Inc()
		return models.Location{}, &NotFoundError{Place: place}
	}

	top := candidates[0]
	return models.Location{
		Name:        place,
		Latitude:    top.Latitude,
		Longitude:   top.Longitude,
		CountryCode: strings.ToUpper(top.CountryCode),
	}, nil
}
