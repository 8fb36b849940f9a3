package climate

import (
	"math"
	"sort"

	"github.com/lox/luggify/internal/models"
)

// Aggregation thresholds and empty-series fallbacks.
const (
	humidityThreshold = 80.0
	uvThreshold       = 5.0
	windThreshold     = 30.0 // km/h

	// Temperate defaults keep the clothing rules meaningful when no
	// climate data could be retrieved at all.
	defaultMinTemp = 15.0
	defaultMaxTemp = 20.0
)

// Summarize reduces a daily series to the aggregate signals the rule engine
// consumes. It tolerates an empty series: AvgTemp stays nil and the
// temperature extremes fall back to the temperate defaults.
func Summarize(series []models.ClimateDay) models.ClimateSummary {
	summary := models.ClimateSummary{
		MinTemp: defaultMinTemp,
		MaxTemp: defaultMaxTemp,
	}
	if len(series) == 0 {
		return summary
	}

	var midpointSum float64
	conditions := make(map[string]bool)
	summary.MinTemp = series[0].TempMin
	summary.MaxTemp = series[0].TempMax

	for _, day := range series {
		midpointSum += (day.TempMin + day.TempMax) / 2
		if day.TempMin < summary.MinTemp {
			summary.MinTemp = day.TempMin
		}
		if day.TempMax > summary.MaxTemp {
			summary.MaxTemp = day.TempMax
		}
		if day.Condition != "" {
			conditions[day.Condition] = true
		}
		if day.Humidity != nil && *day.Humidity > humidityThreshold {
			summary.HighHumidity = true
		}
		if day.UVIndex != nil && *day.UVIndex > uvThreshold {
			summary.HighUV = true
		}
		if day.WindSpeed != nil && *day.WindSpeed > windThreshold {
			summary.StrongWind = true
		}
	}

	avg := math.Round(midpointSum/float64(len(series))*10) / 10
	summary.AvgTemp = &avg

	summary.Conditions = make([]string, 0, len(conditions))
	for c := range conditions {
		summary.Conditions = append(summary.Conditions, c)
	}
	sort.Strings(summary.Conditions)

	return summary
}
