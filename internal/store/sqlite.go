package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lox/luggify/internal/metrics"
	"github.com/lox/luggify/internal/models"
)

// Store persists generated checklists in SQLite. List-valued fields are
// stored as JSON text columns.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// NewSlug returns a short URL-safe checklist identifier.
func NewSlug() string {
	return uuid.NewString()[:8]
}

// SaveChecklist inserts a checklist and fills in its slug and creation time.
func (s *Store) SaveChecklist(cl *models.Checklist) error {
	if cl.Slug == "" {
		cl.Slug = NewSlug()
	}
	cl.CreatedAt = time.Now().UTC()

	items, err := json.Marshal(cl.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	conditions, err := json.Marshal(cl.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	daily, err := json.Marshal(cl.DailyForecast)
	if err != nil {
		return fmt.Errorf("marshal daily forecast: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO checklists (slug, city, start_date, end_date, lang, items, avg_temp, conditions, daily_forecast, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cl.Slug, cl.City, cl.StartDate.Format(models.DateFormat), cl.EndDate.Format(models.DateFormat),
		cl.Lang, string(items), cl.AvgTemp, string(conditions), string(daily), cl.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert checklist: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		cl.ID = id
	}
	metrics.ChecklistsSaved.Inc()
	return nil
}

// GetChecklistBySlug returns the stored checklist, or nil when unknown.
func (s *Store) GetChecklistBySlug(slug string) (*models.Checklist, error) {
	row := s.db.QueryRow(`
		SELECT id, slug, city, start_date, end_date, lang, items, avg_temp, conditions, daily_forecast, created_at
		FROM checklists
		WHERE slug = ?
	`, slug)
	return scanChecklist(row)
}

// ListRecentChecklists returns up to limit checklists, newest first.
func (s *Store) ListRecentChecklists(limit int) ([]models.Checklist, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, slug, city, start_date, end_date, lang, items, avg_temp, conditions, daily_forecast, created_at
		FROM checklists
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checklists []models.Checklist
	for rows.Next() {
		cl, err := scanChecklist(rows)
		if err != nil {
			return nil, err
		}
		checklists = append(checklists, *cl)
	}
	return checklists, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChecklist(row rowScanner) (*models.Checklist, error) {
	var (
		cl         models.Checklist
		startDate  string
		endDate    string
		items      string
		conditions string
		daily      string
	)
	err := row.Scan(&cl.ID, &cl.Slug, &cl.City, &startDate, &endDate, &cl.Lang,
		&items, &cl.AvgTemp, &conditions, &daily, &cl.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if cl.StartDate, err = time.ParseInLocation(models.DateFormat, startDate, time.UTC); err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	if cl.EndDate, err = time.ParseInLocation(models.DateFormat, endDate, time.UTC); err != nil {
		return nil, fmt.Errorf("parse end_date: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &cl.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal([]byte(conditions), &cl.Conditions); err != nil {
		return nil, fmt.Errorf("unmarshal conditions: %w", err)
	}
	if err := json.Unmarshal([]byte(daily), &cl.DailyForecast); err != nil {
		return nil, fmt.Errorf("unmarshal daily forecast: %w", err)
	}
	return &cl, nil
}
