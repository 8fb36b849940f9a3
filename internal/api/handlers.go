package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lox/luggify/internal/geocode"
	"github.com/lox/luggify/internal/models"
	"github.com/lox/luggify/internal/upstream"
)

// maxTripDays caps a single leg; the forecast upstream tops out at 16 daily
// records and the product never promised more.
const maxTripDays = 16

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = s.defaultLang
	}
	trip := models.TripContext{
		TripType:           req.TripType,
		Transport:          req.Transport,
		Gender:             req.Gender,
		TravelingWithPet:   req.TravelingWithPet,
		HasAllergies:       req.HasAllergies,
		HasChronicDiseases: req.HasChronicDiseases,
		Language:           lang,
	}

	legReqs := req.Legs
	if len(legReqs) == 0 {
		legReqs = []legRequest{{
			City:      req.City,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			TripType:  req.TripType,
			Transport: req.Transport,
		}}
	}

	legs := make([]models.TripLeg, 0, len(legReqs))
	for i, lr := range legReqs {
		leg, err := parseLeg(lr)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("leg %d: %v", i+1, err))
			return
		}
		legs = append(legs, leg)
	}

	var (
		result *models.PackingResult
		err    error
	)
	if len(legs) == 1 {
		// A one-element legs array carries its trip type and transport on
		// the leg, not the top level.
		trip.TripType = legs[0].TripType
		trip.Transport = legs[0].Transport
		result, err = s.pipeline.Generate(r.Context(), legs[0].City, legs[0].StartDate, legs[0].EndDate, trip)
	} else {
		result, err = s.pipeline.GenerateMultiCity(r.Context(), legs, trip)
	}
	if err != nil {
		writePipelineError(w, err)
		return
	}

	checklist := &models.Checklist{
		City:          result.City,
		StartDate:     result.StartDate,
		EndDate:       result.EndDate,
		Lang:          lang,
		Items:         result.Items,
		Conditions:    result.Conditions,
		DailyForecast: result.DailyForecast,
	}
	if result.AvgTemp != nil {
		checklist.AvgTemp = sql.NullFloat64{Float64: *result.AvgTemp, Valid: true}
	}
	if err := s.store.SaveChecklist(checklist); err != nil {
		log.Printf("api: save checklist: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save checklist")
		return
	}

	writeJSON(w, http.StatusOK, checklistResponse{
		Slug:            checklist.Slug,
		City:            result.City,
		StartDate:       result.StartDate.Format(models.DateFormat),
		EndDate:         result.EndDate.Format(models.DateFormat),
		Items:           result.Items,
		ItemsByCategory: result.ItemsByCategory,
		Categories:      result.Categories,
		AvgTemp:         result.AvgTemp,
		Conditions:      result.Conditions,
		DailyForecast:   dailyViews(result.DailyForecast),
	})
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/checklist/")
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, http.StatusNotFound, "checklist not found")
		return
	}

	checklist, err := s.store.GetChecklistBySlug(slug)
	if err != nil {
		log.Printf("api: get checklist %s: %v", slug, err)
		writeError(w, http.StatusInternalServerError, "failed to load checklist")
		return
	}
	if checklist == nil {
		writeError(w, http.StatusNotFound, "checklist not found")
		return
	}

	var avgTemp *float64
	if checklist.AvgTemp.Valid {
		avgTemp = &checklist.AvgTemp.Float64
	}

	byCategory, names := s.regroup(checklist.Items, checklist.Lang)
	writeJSON(w, http.StatusOK, checklistResponse{
		Slug:            checklist.Slug,
		City:            checklist.City,
		StartDate:       checklist.StartDate.Format(models.DateFormat),
		EndDate:         checklist.EndDate.Format(models.DateFormat),
		Items:           checklist.Items,
		ItemsByCategory: byCategory,
		Categories:      names,
		AvgTemp:         avgTemp,
		Conditions:      checklist.Conditions,
		DailyForecast:   dailyViews(checklist.DailyForecast),
	})
}

// regroup rebuilds the category breakdown from a stored flat item list,
// preserving the stored order within each category.
func (s *Server) regroup(items []string, lang string) (map[string][]string, []string) {
	names := s.catalog.CategoryNames(lang)
	byCategory := make(map[string][]string, len(names))
	for _, name := range names {
		byCategory[name] = []string{}
	}
	seen := make(map[string]bool)
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		name := s.catalog.CategoryFor(item, lang)
		byCategory[name] = append(byCategory[name], item)
	}
	return byCategory, names
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	checklists, err := s.store.ListRecentChecklists(limit)
	if err != nil {
		log.Printf("api: list checklists: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list checklists")
		return
	}

	summaries := make([]checklistSummary, 0, len(checklists))
	for _, cl := range checklists {
		summaries = append(summaries, checklistSummary{
			Slug:      cl.Slug,
			City:      cl.City,
			StartDate: cl.StartDate.Format(models.DateFormat),
			EndDate:   cl.EndDate.Format(models.DateFormat),
			Lang:      cl.Lang,
			CreatedAt: cl.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter required")
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.defaultLang
	}

	candidates, err := s.cities.Search(r.Context(), query, lang, 10)
	if err != nil {
		log.Printf("api: city search %q: %v", query, err)
		writeError(w, http.StatusBadGateway, "geocoding service unavailable")
		return
	}

	views := make([]cityView, 0, len(candidates))
	for _, c := range candidates {
		// The region disambiguates homonyms (Paris, Texas vs Paris, France).
		full := fmt.Sprintf("%s, %s", c.Name, c.Country)
		if c.Admin1 != "" {
			full = fmt.Sprintf("%s, %s, %s", c.Name, c.Admin1, c.Country)
		}
		views = append(views, cityView{
			Name:        c.Name,
			Region:      c.Admin1,
			Country:     c.Country,
			CountryCode: strings.ToUpper(c.CountryCode),
			Latitude:    c.Latitude,
			Longitude:   c.Longitude,
			FullName:    full,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func parseLeg(lr legRequest) (models.TripLeg, error) {
	if strings.TrimSpace(lr.City) == "" {
		return models.TripLeg{}, fmt.Errorf("city required")
	}
	start, err := time.ParseInLocation(models.DateFormat, lr.StartDate, time.UTC)
	if err != nil {
		return models.TripLeg{}, fmt.Errorf("invalid start_date %q", lr.StartDate)
	}
	end, err := time.ParseInLocation(models.DateFormat, lr.EndDate, time.UTC)
	if err != nil {
		return models.TripLeg{}, fmt.Errorf("invalid end_date %q", lr.EndDate)
	}
	if end.Before(start) {
		return models.TripLeg{}, fmt.Errorf("end_date before start_date")
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxTripDays {
		return models.TripLeg{}, fmt.Errorf("trip length cannot exceed %d days", maxTripDays)
	}
	return models.TripLeg{
		City:      lr.City,
		StartDate: start,
		EndDate:   end,
		TripType:  lr.TripType,
		Transport: lr.Transport,
	}, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writePipelineError(w http.ResponseWriter, err error) {
	var notFound *geocode.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		writeError(w, http.StatusBadGateway, ue.Error())
		return
	}
	log.Printf("api: generate: %v", err)
	writeError(w, http.StatusInternalServerError, "failed to generate packing list")
}
