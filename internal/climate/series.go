package climate

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/lox/luggify/internal/models"
	"github.com/lox/luggify/internal/weather"
)

// ForecastHorizonDays is how far ahead the live forecast upstream can see.
// Dates past today+15d are served from prior-year analogue data instead.
const ForecastHorizonDays = 15

// ForecastProvider supplies live daily forecasts within the horizon.
type ForecastProvider interface {
	DailyForecast(ctx context.Context, lat, lon float64, start, end time.Time) ([]weather.DailyPoint, error)
}

// HistoryProvider supplies archived daily data for past date ranges.
type HistoryProvider interface {
	DailyHistory(ctx context.Context, lat, lon float64, start, end time.Time) ([]weather.DailyPoint, error)
}

// Builder assembles the unified daily climate series for a trip: live
// forecast up to the horizon, prior-year analogue beyond it.
type Builder struct {
	forecast ForecastProvider
	history  HistoryProvider
	codes    *CodeTable
	now      func() time.Time
}

func NewBuilder(forecast ForecastProvider, history HistoryProvider, codes *CodeTable) *Builder {
	return &Builder{
		forecast: forecast,
		history:  history,
		codes:    codes,
		now:      time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (b *Builder) SetNow(now func() time.Time) {
	b.now = now
}

// Build returns the date-sorted series for [start, end] with at most one
// record per date. A failed upstream segment degrades to no data for that
// segment and is reported through the returned warning, never as a hard
// error; an empty series is a valid outcome.
func (b *Builder) Build(ctx context.Context, loc models.Location, start, end time.Time, lang string) ([]models.ClimateDay, error) {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return nil, nil
	}

	today := DateOnly(b.now().UTC())
	horizon := today.AddDate(0, 0, ForecastHorizonDays)

	var (
		wg         sync.WaitGroup
		fcPoints   []weather.DailyPoint
		histPoints []weather.DailyPoint
		fcErr      error
		histErr    error
		warnings   error
		histStart  = start
	)
	if histStart.Before(horizon.AddDate(0, 0, 1)) {
		histStart = horizon.AddDate(0, 0, 1)
	}

	// The two segments cover disjoint date ranges, fetch them concurrently.
	if !start.After(horizon) {
		fcEnd := end
		if fcEnd.After(horizon) {
			fcEnd = horizon
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fcPoints, fcErr = b.forecast.DailyForecast(ctx, loc.Latitude, loc.Longitude, start, fcEnd)
		}()
	}
	if !histStart.After(end) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			histPoints, histErr = b.history.DailyHistory(ctx, loc.Latitude, loc.Longitude,
				histStart.AddDate(-1, 0, 0), end.AddDate(-1, 0, 0))
		}()
	}
	wg.Wait()

	if fcErr != nil {
		log.Printf("series: forecast segment failed, continuing without it: %v", fcErr)
		warnings = multierror.Append(warnings, fcErr)
	}
	if histErr != nil {
		log.Printf("series: historical segment failed, continuing without it: %v", histErr)
		warnings = multierror.Append(warnings, histErr)
	}

	byDate := make(map[time.Time]models.ClimateDay)

	for _, p := range fcPoints {
		date := DateOnly(p.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		byDate[date] = b.record(p, date, models.SourceForecast, lang)
	}

	// Remap prior-year days onto the current trip by walking one day at a
	// time from histStart. Per-record year arithmetic would misalign across
	// a leap-year boundary; the running counter cannot. Forecast data wins
	// on any date both segments would cover.
	sort.Slice(histPoints, func(i, j int) bool { return histPoints[i].Date.Before(histPoints[j].Date) })
	cur := histStart
	for _, p := range histPoints {
		if cur.After(end) {
			break
		}
		if _, taken := byDate[cur]; !taken {
			byDate[cur] = b.record(p, cur, models.SourceHistorical, lang)
		}
		cur = cur.AddDate(0, 0, 1)
	}

	series := make([]models.ClimateDay, 0, len(byDate))
	for _, rec := range byDate {
		series = append(series, rec)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, warnings
}

func (b *Builder) record(p weather.DailyPoint, date time.Time, source, lang string) models.ClimateDay {
	info := b.codes.Lookup(p.Code, lang)
	return models.ClimateDay{
		Date:      date,
		TempMin:   p.TempMin,
		TempMax:   p.TempMax,
		Code:      p.Code,
		Condition: info.Label,
		Icon:      info.Icon,
		Source:    source,
		Humidity:  p.Humidity,
		UVIndex:   p.UVIndex,
		WindSpeed: p.WindSpeed,
	}
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
