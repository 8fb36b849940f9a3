package models

import (
	"database/sql"
	"time"
)

// DateFormat is the wire format for calendar dates. Dates never carry a
// time of day; they are normalized to UTC midnight internally.
const DateFormat = "2006-01-02"

// Location is a geocoded place. CountryCode is uppercase ISO alpha-2 and may
// be empty when the geocoder does not report one.
type Location struct {
	Name        string
	Latitude    float64
	Longitude   float64
	CountryCode string
}

// Climate data sources.
const (
	SourceForecast   = "forecast"
	SourceHistorical = "historical"
)

// ClimateDay is one day of the unified climate series. Days past the live
// forecast horizon carry prior-year analogue data with Source=historical.
type ClimateDay struct {
	Date      time.Time `json:"date"`
	TempMin   float64   `json:"temp_min"`
	TempMax   float64   `json:"temp_max"`
	Code      int       `json:"code"`
	Condition string    `json:"condition"`
	Icon      string    `json:"icon"`
	Source    string    `json:"source"`
	Humidity  *float64  `json:"humidity,omitempty"`
	UVIndex   *float64  `json:"uv_index,omitempty"`
	WindSpeed *float64  `json:"wind_speed,omitempty"`
}

// ClimateSummary holds the aggregate signals the rule engine consumes.
// AvgTemp is nil when the series was empty; MinTemp/MaxTemp fall back to
// temperate defaults (15/20) so clothing rules stay usable without data.
type ClimateSummary struct {
	AvgTemp      *float64
	MinTemp      float64
	MaxTemp      float64
	Conditions   []string
	HighHumidity bool
	HighUV       bool
	StrongWind   bool
}

// Trip types.
const (
	TripVacation = "vacation"
	TripBusiness = "business"
	TripActive   = "active"
	TripBeach    = "beach"
	TripWinter   = "winter"
)

// Transport modes.
const (
	TransportPlane = "plane"
	TransportTrain = "train"
	TransportCar   = "car"
	TransportBus   = "bus"
)

// Genders.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
)

// TripContext is the traveler-side input to the rule engine. Immutable for
// the duration of a request.
type TripContext struct {
	TripType           string
	Transport          string
	Gender             string
	TravelingWithPet   bool
	HasAllergies       bool
	HasChronicDiseases bool
	Language           string
}

// TripLeg is one city/date-range segment of a multi-city itinerary. TripType
// and Transport vary per leg; the rest of the TripContext is shared.
type TripLeg struct {
	City      string
	StartDate time.Time
	EndDate   time.Time
	TripType  string
	Transport string
}

// PackingResult is what the pipeline hands back to its caller. ItemsByCategory
// preserves per-category grouping; Categories fixes the category order since
// map iteration does not.
type PackingResult struct {
	City            string
	StartDate       time.Time
	EndDate         time.Time
	Items           []string
	ItemsByCategory map[string][]string
	Categories      []string
	AvgTemp         *float64
	Conditions      []string
	DailyForecast   []ClimateDay
}

// Checklist is the persisted form of a generated packing list.
type Checklist struct {
	ID            int64
	Slug          string
	City          string
	StartDate     time.Time
	EndDate       time.Time
	Lang          string
	Items         []string
	AvgTemp       sql.NullFloat64
	Conditions    []string
	DailyForecast []ClimateDay
	CreatedAt     time.Time
}
