package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/luggify/internal/geocode"
	"github.com/lox/luggify/internal/models"
	"github.com/lox/luggify/internal/store"
	"github.com/lox/luggify/internal/upstream"
)

var upstreamErr = upstream.Error{Op: "forecast daily", Status: http.StatusServiceUnavailable, Err: errors.New("unavailable")}

type fakeGenerator struct {
	result    *models.PackingResult
	err       error
	multiErr  error
	lastTrip  models.TripContext
	multiLegs []models.TripLeg
}

func (f *fakeGenerator) Generate(_ context.Context, city string, start, end time.Time, trip models.TripContext) (*models.PackingResult, error) {
	f.lastTrip = trip
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeGenerator) GenerateMultiCity(_ context.Context, legs []models.TripLeg, shared models.TripContext) (*models.PackingResult, error) {
	f.multiLegs = legs
	f.lastTrip = shared
	if f.multiErr != nil {
		return nil, f.multiErr
	}
	return f.result, nil
}

type fakeCities struct {
	candidates []geocode.Candidate
	err        error
}

func (f *fakeCities) Search(_ context.Context, query, lang string, limit int) ([]geocode.Candidate, error) {
	return f.candidates, f.err
}

func avg(v float64) *float64 { return &v }

func sampleResult() *models.PackingResult {
	return &models.PackingResult{
		City:      "Paris",
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Items:     []string{"Passport", "Tickets", "T-shirts", "Raincoat"},
		ItemsByCategory: map[string][]string{
			"Essentials": {"Passport", "Tickets"},
			"Clothes":    {"Raincoat", "T-shirts"},
		},
		Categories: []string{"Essentials", "Documents", "Clothes", "Hygiene", "Electronics", "Pharmacy", "Misc"},
		AvgTemp:    avg(21.3),
		Conditions: []string{"Clear sky", "Moderate rain"},
		DailyForecast: []models.ClimateDay{
			{
				Date:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				TempMin:   18,
				TempMax:   26,
				Condition: "Clear sky",
				Icon:      "01d",
				Source:    models.SourceForecast,
			},
		},
	}
}

func newTestServer(t *testing.T, gen Generator, cities CitySearcher) *Server {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewServer(st, gen, cities, "0", "en")
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerate(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{result: sampleResult()}
	s := newTestServer(t, gen, &fakeCities{})
	handler := s.Handler()

	rec := postJSON(t, handler, "/api/packing-list", `{
		"city": "Paris",
		"start_date": "2025-07-01",
		"end_date": "2025-07-05",
		"trip_type": "vacation",
		"transport": "plane",
		"gender": "female",
		"lang": "en"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp checklistResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Slug == "" {
		t.Error("response has no slug")
	}
	if resp.City != "Paris" || resp.StartDate != "2025-07-01" || resp.EndDate != "2025-07-05" {
		t.Errorf("header fields = %q %q %q", resp.City, resp.StartDate, resp.EndDate)
	}
	if len(resp.Items) != 4 {
		t.Errorf("Items = %v", resp.Items)
	}
	if resp.AvgTemp == nil || *resp.AvgTemp != 21.3 {
		t.Errorf("AvgTemp = %v", resp.AvgTemp)
	}
	if len(resp.DailyForecast) != 1 || resp.DailyForecast[0].Date != "2025-07-01" {
		t.Errorf("DailyForecast = %+v", resp.DailyForecast)
	}
	if gen.lastTrip.Gender != models.GenderFemale {
		t.Errorf("trip context gender = %q", gen.lastTrip.Gender)
	}

	// The generated checklist must be retrievable by slug.
	req := httptest.NewRequest(http.MethodGet, "/api/checklist/"+resp.Slug, nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("checklist fetch status = %d", rec2.Code)
	}
	var stored checklistResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &stored); err != nil {
		t.Fatalf("unmarshal stored: %v", err)
	}
	if stored.Slug != resp.Slug || stored.City != "Paris" {
		t.Errorf("stored = %q/%q", stored.Slug, stored.City)
	}
	if len(stored.Items) != len(resp.Items) {
		t.Errorf("stored items = %v", stored.Items)
	}
	if len(stored.Categories) != 7 {
		t.Errorf("stored categories = %v", stored.Categories)
	}
}

func TestHandleGenerate_MultiCity(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{result: sampleResult()}
	s := newTestServer(t, gen, &fakeCities{})

	rec := postJSON(t, s.Handler(), "/api/packing-list", `{
		"legs": [
			{"city": "Moscow", "start_date": "2025-07-01", "end_date": "2025-07-03"},
			{"city": "Phuket", "start_date": "2025-07-04", "end_date": "2025-07-08", "trip_type": "beach"}
		],
		"lang": "ru"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if len(gen.multiLegs) != 2 {
		t.Fatalf("legs dispatched = %d, want 2", len(gen.multiLegs))
	}
	if gen.multiLegs[1].TripType != models.TripBeach {
		t.Errorf("leg 2 trip type = %q", gen.multiLegs[1].TripType)
	}
	if gen.lastTrip.Language != "ru" {
		t.Errorf("shared language = %q", gen.lastTrip.Language)
	}
}

func TestHandleGenerate_SingleLegArray(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{result: sampleResult()}
	s := newTestServer(t, gen, &fakeCities{})

	// One leg in the array form is the same trip as the flat form; the
	// leg's own trip type and transport must reach the pipeline.
	rec := postJSON(t, s.Handler(), "/api/packing-list", `{
		"legs": [
			{"city": "Phuket", "start_date": "2025-07-01", "end_date": "2025-07-05", "trip_type": "beach", "transport": "plane"}
		],
		"lang": "en"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if len(gen.multiLegs) != 0 {
		t.Errorf("one leg dispatched to the multi-city path")
	}
	if gen.lastTrip.TripType != models.TripBeach {
		t.Errorf("trip type = %q, want %q", gen.lastTrip.TripType, models.TripBeach)
	}
	if gen.lastTrip.Transport != models.TransportPlane {
		t.Errorf("transport = %q, want %q", gen.lastTrip.Transport, models.TransportPlane)
	}
}

func TestHandleGenerate_Validation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeGenerator{result: sampleResult()}, &fakeCities{})
	handler := s.Handler()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing city", `{"start_date":"2025-07-01","end_date":"2025-07-05"}`, "city required"},
		{"bad start date", `{"city":"Paris","start_date":"01.07.2025","end_date":"2025-07-05"}`, "invalid start_date"},
		{"bad end date", `{"city":"Paris","start_date":"2025-07-01","end_date":"tomorrow"}`, "invalid end_date"},
		{"inverted range", `{"city":"Paris","start_date":"2025-07-05","end_date":"2025-07-01"}`, "end_date before start_date"},
		{"too long", `{"city":"Paris","start_date":"2025-07-01","end_date":"2025-07-20"}`, "cannot exceed 16 days"},
		{"unknown field", `{"city":"Paris","start_date":"2025-07-01","end_date":"2025-07-05","frobnicate":true}`, "invalid request body"},
		{"not json", `city=Paris`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/packing-list", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body %q missing %q", rec.Body, tt.want)
			}
		})
	}
}

func TestHandleGenerate_ErrorMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown place", &geocode.NotFoundError{Place: "Atlantis"}, http.StatusNotFound},
		{"upstream down", &upstreamErr, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeGenerator{err: tt.err}, &fakeCities{})
			rec := postJSON(t, s.Handler(), "/api/packing-list",
				`{"city":"X","start_date":"2025-07-01","end_date":"2025-07-05"}`)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleGenerate_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeGenerator{}, &fakeCities{})
	req := httptest.NewRequest(http.MethodGet, "/api/packing-list", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleChecklist_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeGenerator{}, &fakeCities{})
	handler := s.Handler()

	for _, path := range []string{"/api/checklist/nope", "/api/checklist/", "/api/checklist/a/b"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestHandleRecentChecklists(t *testing.T) {
	t.Parallel()
	gen := &fakeGenerator{result: sampleResult()}
	s := newTestServer(t, gen, &fakeCities{})
	handler := s.Handler()

	body := `{"city":"%s","start_date":"2025-07-01","end_date":"2025-07-05"}`
	for _, city := range []string{"Paris", "Rome"} {
		result := sampleResult()
		result.City = city
		gen.result = result
		rec := postJSON(t, handler, "/api/packing-list", fmt.Sprintf(body, city))
		if rec.Code != http.StatusOK {
			t.Fatalf("generate %s: status %d", city, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/checklists?limit=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var summaries []checklistSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len = %d, want limit applied", len(summaries))
	}
	if summaries[0].City != "Rome" || summaries[0].Slug == "" {
		t.Errorf("newest = %+v, want the Rome checklist", summaries[0])
	}
	if summaries[0].StartDate != "2025-07-01" || summaries[0].EndDate != "2025-07-05" {
		t.Errorf("dates = %q..%q", summaries[0].StartDate, summaries[0].EndDate)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/checklists?limit=0", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", rec.Code)
	}
}

func TestHandleCities(t *testing.T) {
	t.Parallel()
	cities := &fakeCities{candidates: []geocode.Candidate{
		{Name: "Paris", Country: "France", CountryCode: "fr", Latitude: 48.85, Longitude: 2.35},
		{Name: "Paris", Country: "United States", CountryCode: "us", Admin1: "Texas", Latitude: 33.66, Longitude: -95.55},
	}}
	s := newTestServer(t, &fakeGenerator{}, cities)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/cities?q=par", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var views []cityView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d", len(views))
	}
	if views[0].CountryCode != "FR" {
		t.Errorf("CountryCode = %q, want upper-cased", views[0].CountryCode)
	}
	if views[0].FullName != "Paris, France" {
		t.Errorf("FullName = %q", views[0].FullName)
	}
	// Homonyms carry their region so the two Parises stay apart.
	if views[1].Region != "Texas" || views[1].FullName != "Paris, Texas, United States" {
		t.Errorf("disambiguated view = %q / %q", views[1].Region, views[1].FullName)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cities", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &fakeGenerator{}, &fakeCities{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}
