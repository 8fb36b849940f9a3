package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/lox/luggify/internal/httputil"
	"github.com/lox/luggify/internal/metrics"
	"github.com/lox/luggify/internal/upstream"
)

const (
	DefaultForecastBaseURL = "https://api.open-meteo.com/v1"
	DefaultArchiveBaseURL  = "https://archive-api.open-meteo.com/v1"

	forecastDaily = "weather_code,temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,uv_index_max,wind_speed_10m_max"
	archiveDaily  = "weather_code,temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,wind_speed_10m_max"
)

// DailyPoint is one raw day from an Open-Meteo daily response. Optional
// fields stay nil when the upstream reports null (the archive API carries no
// UV index at all).
type DailyPoint struct {
	Date      time.Time
	TempMax   float64
	TempMin   float64
	Code      int
	Humidity  *float64
	UVIndex   *float64
	WindSpeed *float64
}

// Open-Meteo packs daily data as parallel column arrays keyed by date.
type dailyResponse struct {
	Daily struct {
		Time      []string   `json:"time"`
		Code      []*int     `json:"weather_code"`
		TempMax   []*float64 `json:"temperature_2m_max"`
		TempMin   []*float64 `json:"temperature_2m_min"`
		Humidity  []*float64 `json:"relative_humidity_2m_mean"`
		UVIndex   []*float64 `json:"uv_index_max"`
		WindSpeed []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// ForecastClient fetches live daily forecasts (up to ~16 days ahead).
type ForecastClient struct {
	c client
}

// ArchiveClient fetches historical daily data for arbitrary past ranges.
type ArchiveClient struct {
	c client
}

func NewForecastClient(baseURL string, timeout time.Duration) *ForecastClient {
	if baseURL == "" {
		baseURL = DefaultForecastBaseURL
	}
	return &ForecastClient{c: newClient(baseURL, "forecast", timeout)}
}

func NewArchiveClient(baseURL string, timeout time.Duration) *ArchiveClient {
	if baseURL == "" {
		baseURL = DefaultArchiveBaseURL
	}
	return &ArchiveClient{c: newClient(baseURL, "historical", timeout)}
}

// DailyForecast returns per-day forecast data for [start, end].
func (f *ForecastClient) DailyForecast(ctx context.Context, lat, lon float64, start, end time.Time) ([]DailyPoint, error) {
	u := fmt.Sprintf("%s/forecast?latitude=%.4f&longitude=%.4f&daily=%s&timezone=UTC&start_date=%s&end_date=%s",
		f.c.baseURL, lat, lon, forecastDaily, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return f.c.fetchDaily(ctx, u)
}

// DailyHistory returns per-day archived data for [start, end].
func (a *ArchiveClient) DailyHistory(ctx context.Context, lat, lon float64, start, end time.Time) ([]DailyPoint, error) {
	u := fmt.Sprintf("%s/archive?latitude=%.4f&longitude=%.4f&daily=%s&timezone=UTC&start_date=%s&end_date=%s",
		a.c.baseURL, lat, lon, archiveDaily, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return a.c.fetchDaily(ctx, u)
}

type client struct {
	baseURL string
	source  string
	http    *http.Client
	limiter *rate.Limiter
}

func newClient(baseURL, source string, timeout time.Duration) client {
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		source:  source,
		http:    httputil.NewClientWithTimeout(timeout),
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (c client) fetchDaily(ctx context.Context, url string) ([]DailyPoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("fetch daily: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("fetch daily: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(&upstream.Error{
				Op:     c.source + " daily",
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
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))
	metrics.WeatherAPILatency.WithLabelValues(c.source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WeatherAPICallsTotal.WithLabelValues(c.source, "error").Inc()
		var ue *upstream.Error
		if !errors.As(err, &ue) {
			err = &upstream.Error{Op: c.source + " daily", Err: err}
		}
		return nil, err
	}

	var data dailyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.WeatherAPICallsTotal.WithLabelValues(c.source, "error").Inc()
		return nil, &upstream.Error{Op: c.source + " daily", Err: fmt.Errorf("unmarshal: %w", err)}
	}

	points, err := decodeDaily(data)
	if err != nil {
		metrics.WeatherAPICallsTotal.WithLabelValues(c.source, "error").Inc()
		return nil, &upstream.Error{Op: c.source + " daily", Err: err}
	}

	metrics.WeatherAPICallsTotal.WithLabelValues(c.source, "ok").Inc()
	return points, nil
}

// decodeDaily turns the column arrays into per-day points. Days with missing
// temperatures are dropped: there is nothing the aggregator can do with them.
func decodeDaily(data dailyResponse) ([]DailyPoint, error) {
	d := data.Daily
	var points []DailyPoint
	for i, ts := range d.Time {
		date, err := time.ParseInLocation("2006-01-02", ts, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse time[%d]=%q: %w", i, ts, err)
		}
		if i >= len(d.TempMax) || i >= len(d.TempMin) || d.TempMax[i] == nil || d.TempMin[i] == nil {
			continue
		}

		p := DailyPoint{
			Date:    date,
			TempMax: *d.TempMax[i],
			TempMin: *d.TempMin[i],
		}
		if i < len(d.Code) && d.Code[i] != nil {
			p.Code = *d.Code[i]
		}
		if i < len(d.Humidity) {
			p.Humidity = d.Humidity[i]
		}
		if i < len(d.UVIndex) {
			p.UVIndex = d.UVIndex[i]
		}
		if i < len(d.WindSpeed) {
			p.WindSpeed = d.WindSpeed[i]
		}
		points = append(points, p)
	}
	return points, nil
}
