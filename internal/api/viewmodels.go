package api

import (
	"github.com/lox/luggify/internal/models"
)

// Wire types for the JSON API. Dates travel as YYYY-MM-DD strings.

type legRequest struct {
	City      string `json:"city"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TripType  string `json:"trip_type,omitempty"`
	Transport string `json:"transport,omitempty"`
}

type generateRequest struct {
	City      string `json:"city,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	TripType  string `json:"trip_type,omitempty"`
	Transport string `json:"transport,omitempty"`

	// Multi-city form; when present, the top-level city/date fields are
	// ignored.
	Legs []legRequest `json:"legs,omitempty"`

	Gender             string `json:"gender,omitempty"`
	TravelingWithPet   bool   `json:"traveling_with_pet,omitempty"`
	HasAllergies       bool   `json:"has_allergies,omitempty"`
	HasChronicDiseases bool   `json:"has_chronic_diseases,omitempty"`
	Lang               string `json:"lang,omitempty"`
}

type dailyForecastView struct {
	Date      string   `json:"date"`
	TempMin   float64  `json:"temp_min"`
	TempMax   float64  `json:"temp_max"`
	Condition string   `json:"condition"`
	Icon      string   `json:"icon"`
	Source    string   `json:"source"`
	Humidity  *float64 `json:"humidity,omitempty"`
	UVIndex   *float64 `json:"uv_index,omitempty"`
	WindSpeed *float64 `json:"wind_speed,omitempty"`
}

type checklistResponse struct {
	Slug            string              `json:"slug"`
	City            string              `json:"city"`
	StartDate       string              `json:"start_date"`
	EndDate         string              `json:"end_date"`
	Items           []string            `json:"items"`
	ItemsByCategory map[string][]string `json:"items_by_category"`
	Categories      []string            `json:"categories"`
	AvgTemp         *float64            `json:"avg_temp"`
	Conditions      []string            `json:"conditions"`
	DailyForecast   []dailyForecastView `json:"daily_forecast"`
}

// checklistSummary is the brief listing form; the full checklist stays behind
// its slug.
type checklistSummary struct {
	Slug      string `json:"slug"`
	City      string `json:"city"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Lang      string `json:"lang"`
	CreatedAt string `json:"created_at"`
}

type cityView struct {
	Name        string  `json:"name"`
	Region      string  `json:"region,omitempty"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	FullName    string  `json:"full_name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func dailyViews(days []models.ClimateDay) []dailyForecastView {
	views := make([]dailyForecastView, 0, len(days))
	for _, d := range days {
		views = append(views, dailyForecastView{
			Date:      d.Date.Format(models.DateFormat),
			TempMin:   d.TempMin,
			TempMax:   d.TempMax,
			Condition: d.Condition,
			Icon:      d.Icon,
			Source:    d.Source,
			Humidity:  d.Humidity,
			UVIndex:   d.UVIndex,
			WindSpeed: d.WindSpeed,
		})
	}
	return views
}
