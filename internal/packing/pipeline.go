package packing

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/lox/luggify/internal/climate"
	"github.com/lox/luggify/internal/metrics"
	"github.com/lox/luggify/internal/models"
)

// GeoResolver turns a free-text place name into coordinates and a country.
type GeoResolver interface {
	Resolve(ctx context.Context, place, lang string) (models.Location, error)
}

// SeriesBuilder produces the daily climate series for a location and range.
type SeriesBuilder interface {
	Build(ctx context.Context, loc models.Location, start, end time.Time, lang string) ([]models.ClimateDay, error)
}

// Pipeline wires geocoding, climate series assembly, aggregation, rule
// evaluation and categorization into the packing-list generation flow.
type Pipeline struct {
	geo         GeoResolver
	series      SeriesBuilder
	engine      *Engine
	categorizer *Categorizer
	catalog     *Catalog
}

func NewPipeline(geo GeoResolver, series SeriesBuilder) *Pipeline {
	catalog := NewCatalog()
	return &Pipeline{
		geo:         geo,
		series:      series,
		engine:      NewEngine(),
		categorizer: NewCategorizer(catalog),
		catalog:     catalog,
	}
}

// Generate runs the single-leg pipeline. Geocoding failure is fatal; weather
// upstream failures degrade to a shorter (possibly empty) series and never
// abort the request.
func (p *Pipeline) Generate(ctx context.Context, city string, start, end time.Time, trip models.TripContext) (*models.PackingResult, error) {
	lang := normalizeLang(trip.Language)
	trip.Language = lang

	leg := models.TripLeg{City: city, StartDate: start, EndDate: end, TripType: trip.TripType, Transport: trip.Transport}
	run, err := p.runLeg(ctx, leg, trip)
	if err != nil {
		return nil, err
	}

	byCategory, flat := p.categorizer.Categorize(run.set, lang)
	metrics.PackingListsGenerated.WithLabelValues(tripTypeLabel(trip.TripType)).Inc()

	return &models.PackingResult{
		City:            city,
		StartDate:       run.start,
		EndDate:         run.end,
		Items:           flat,
		ItemsByCategory: byCategory,
		Categories:      p.catalog.CategoryNames(lang),
		AvgTemp:         run.summary.AvgTemp,
		Conditions:      run.summary.Conditions,
		DailyForecast:   run.series,
	}, nil
}

// GenerateMultiCity runs one independent single-leg evaluation per leg and
// merges: item sets union, daily records concatenate date-sorted, the trip
// average is the mean of the non-nil leg averages, and the overall span is
// the earliest start to the latest end. Legs share the traveler attributes
// but carry their own city, dates, trip type and transport.
func (p *Pipeline) GenerateMultiCity(ctx context.Context, legs []models.TripLeg, shared models.TripContext) (*models.PackingResult, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("no trip legs given")
	}
	lang := normalizeLang(shared.Language)
	shared.Language = lang

	runs := make([]*legRun, len(legs))
	errs := make([]error, len(legs))

	// Legs share no mutable state, evaluate them concurrently.
	var wg sync.WaitGroup
	for i, leg := range legs {
		wg.Add(1)
		go func(i int, leg models.TripLeg) {
			defer wg.Done()
			trip := shared
			trip.TripType = leg.TripType
			trip.Transport = leg.Transport
			runs[i], errs[i] = p.runLeg(ctx, leg, trip)
		}(i, leg)
	}
	wg.Wait()

	var fatal error
	for i, err := range errs {
		if err != nil {
			fatal = multierror.Append(fatal, fmt.Errorf("leg %d (%s): %w", i+1, legs[i].City, err))
		}
	}
	if fatal != nil {
		return nil, fatal
	}

	merged := make(ItemSet)
	conditions := make(map[string]bool)
	var (
		series    []models.ClimateDay
		avgSum    float64
		avgCount  int
		cities    []string
		tripStart time.Time
		tripEnd   time.Time
	)
	for _, run := range runs {
		for k := range run.set {
			merged[k] = struct{}{}
		}
		for _, c := range run.summary.Conditions {
			conditions[c] = true
		}
		if run.summary.AvgTemp != nil {
			avgSum += *run.summary.AvgTemp
			avgCount++
		}
		series = append(series, run.series...)
		cities = append(cities, run.city)
		if tripStart.IsZero() || run.start.Before(tripStart) {
			tripStart = run.start
		}
		if run.end.After(tripEnd) {
			tripEnd = run.end
		}
	}

	sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	var avgTemp *float64
	if avgCount > 0 {
		avg := math.Round(avgSum/float64(avgCount)*10) / 10
		avgTemp = &avg
	}

	conditionList := make([]string, 0, len(conditions))
	for c := range conditions {
		conditionList = append(conditionList, c)
	}
	sort.Strings(conditionList)

	byCategory, flat := p.categorizer.Categorize(merged, lang)
	metrics.PackingListsGenerated.WithLabelValues("multi_city").Inc()

	return &models.PackingResult{
		City:            strings.Join(cities, " + "),
		StartDate:       tripStart,
		EndDate:         tripEnd,
		Items:           flat,
		ItemsByCategory: byCategory,
		Categories:      p.catalog.CategoryNames(lang),
		AvgTemp:         avgTemp,
		Conditions:      conditionList,
		DailyForecast:   series,
	}, nil
}

type legRun struct {
	city    string
	start   time.Time
	end     time.Time
	series  []models.ClimateDay
	summary models.ClimateSummary
	set     ItemSet
}

func (p *Pipeline) runLeg(ctx context.Context, leg models.TripLeg, trip models.TripContext) (*legRun, error) {
	loc, err := p.geo.Resolve(ctx, leg.City, trip.Language)
	if err != nil {
		return nil, err
	}

	series, warn := p.series.Build(ctx, loc, leg.StartDate, leg.EndDate, trip.Language)
	if warn != nil {
		log.Printf("pipeline: partial climate data for %s: %v", leg.City, warn)
	}

	summary := climate.Summarize(series)
	set := p.engine.Evaluate(trip, loc, summary)

	// Long stays warrant washing clothes instead of packing more of them.
	if tripDays(leg.StartDate, leg.EndDate) > 7 {
		set.Add("laundry")
	}

	return &legRun{
		city:    leg.City,
		start:   leg.StartDate,
		end:     leg.EndDate,
		series:  series,
		summary: summary,
		set:     set,
	}, nil
}

func tripDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func normalizeLang(lang string) string {
	switch lang {
	case "ru", "en":
		return lang
	default:
		return "en"
	}
}

func tripTypeLabel(tripType string) string {
	if tripType == "" {
		return models.TripVacation
	}
	return tripType
}
