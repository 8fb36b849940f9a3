package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/luggify/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func testChecklist(city string) *models.Checklist {
	return &models.Checklist{
		City:       city,
		StartDate:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Lang:       "en",
		Items:      []string{"Passport", "Tickets", "T-shirts"},
		AvgTemp:    sql.NullFloat64{Float64: 21.3, Valid: true},
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

func TestSaveAndGetChecklist(t *testing.T) {
	s := newTestStore(t)

	cl := testChecklist("Paris")
	if err := s.SaveChecklist(cl); err != nil {
		t.Fatalf("save: %v", err)
	}
	if cl.Slug == "" {
		t.Fatal("slug not assigned on save")
	}
	if cl.ID == 0 {
		t.Error("id not assigned on save")
	}

	got, err := s.GetChecklistBySlug(cl.Slug)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("checklist not found after save")
	}

	if got.City != "Paris" || got.Lang != "en" {
		t.Errorf("got %q/%q", got.City, got.Lang)
	}
	if !got.StartDate.Equal(cl.StartDate) || !got.EndDate.Equal(cl.EndDate) {
		t.Errorf("dates = %v..%v, want %v..%v", got.StartDate, got.EndDate, cl.StartDate, cl.EndDate)
	}
	if len(got.Items) != 3 || got.Items[0] != "Passport" {
		t.Errorf("Items = %v", got.Items)
	}
	if !got.AvgTemp.Valid || got.AvgTemp.Float64 != 21.3 {
		t.Errorf("AvgTemp = %+v", got.AvgTemp)
	}
	if len(got.Conditions) != 2 {
		t.Errorf("Conditions = %v", got.Conditions)
	}
	if len(got.DailyForecast) != 1 || got.DailyForecast[0].Source != models.SourceForecast {
		t.Errorf("DailyForecast = %+v", got.DailyForecast)
	}
}

func TestSaveChecklist_KeepsProvidedSlug(t *testing.T) {
	s := newTestStore(t)

	cl := testChecklist("Rome")
	cl.Slug = "fixed123"
	if err := s.SaveChecklist(cl); err != nil {
		t.Fatalf("save: %v", err)
	}
	if cl.Slug != "fixed123" {
		t.Errorf("slug = %q, want preserved", cl.Slug)
	}
}

func TestGetChecklistBySlug_Unknown(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetChecklistBySlug("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for unknown slug", got)
	}
}

func TestSaveChecklist_NullAvgTemp(t *testing.T) {
	s := newTestStore(t)

	cl := testChecklist("Reykjavik")
	cl.AvgTemp = sql.NullFloat64{}
	if err := s.SaveChecklist(cl); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetChecklistBySlug(cl.Slug)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AvgTemp.Valid {
		t.Errorf("AvgTemp = %+v, want invalid", got.AvgTemp)
	}
}

func TestListRecentChecklists(t *testing.T) {
	s := newTestStore(t)

	for _, city := range []string{"Paris", "Rome", "Oslo"} {
		if err := s.SaveChecklist(testChecklist(city)); err != nil {
			t.Fatalf("save %s: %v", city, err)
		}
	}

	got, err := s.ListRecentChecklists(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Same-second timestamps fall back to id order, newest insert first.
	if got[0].City != "Oslo" || got[1].City != "Rome" {
		t.Errorf("order = %s, %s; want Oslo, Rome", got[0].City, got[1].City)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestNewSlug(t *testing.T) {
	a, b := NewSlug(), NewSlug()
	if len(a) != 8 {
		t.Errorf("len = %d, want 8", len(a))
	}
	if a == b {
		t.Error("slugs not unique")
	}
}
