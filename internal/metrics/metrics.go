package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeocodeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luggify_geocode_calls_total",
			Help: "Total geocoding API calls",
		},
		[]string{"status"},
	)

	WeatherAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luggify_weather_api_calls_total",
			Help: "Total weather API calls by data source",
		},
		[]string{"source", "status"},
	)

	WeatherAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "luggify_weather_api_latency_seconds",
			Help:    "Weather API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	PackingListsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luggify_packing_lists_generated_total",
			Help: "Total packing lists generated",
		},
		[]string{"trip_type"},
	)

	ChecklistsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "luggify_checklists_saved_total",
			Help: "Total checklists persisted",
		},
	)
)
