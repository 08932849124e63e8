package http

import (
	"errors"
	"net/http"
	"time"

	"horario/internal/calendar"
	"horario/internal/core"
	"horario/internal/services"
)

type workerJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type companyHoursJSON struct {
	CompanyID string  `json:"companyId,omitempty"`
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
}

type dayJSON struct {
	DateKey      string             `json:"dateKey"`
	CurrentMonth bool               `json:"currentMonth"`
	Today        bool               `json:"today"`
	Weekend      bool               `json:"weekend"`
	TotalHours   float64            `json:"totalHours"`
	Companies    []companyHoursJSON `json:"companies,omitempty"`
	Notes        []string           `json:"notes,omitempty"`
}

type monthHoursJSON struct {
	WorkerID  string    `json:"workerId"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Days      []dayJSON `json:"days"`
	LoadError string    `json:"loadError,omitempty"`
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.hours.Workers(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load workers")
		return
	}
	out := make([]workerJSON, 0, len(workers))
	for _, worker := range workers {
		out = append(out, workerJSON{ID: worker.ID, Name: worker.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": out})
}

// handleCalendar returns the bare 42-day grid for a month, no worker data.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	grid := calendar.MonthGrid(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil)
	days := make([]dayJSON, 0, len(grid))
	for _, d := range grid {
		days = append(days, descriptorJSON(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "month": month, "days": days})
}

// handleMonthHours returns the month grid with the worker's summaries merged
// in. A backend failure still yields the full grid, with loadError set, so
// the client can render the month and show the failure.
func (s *Server) handleMonthHours(w http.ResponseWriter, r *http.Request) {
	workerID := r.PathValue("id")
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	view, err := s.hours.MonthView(r.Context(), workerID, year, time.Month(month))
	if errors.Is(err, services.ErrStaleLoad) {
		writeError(w, http.StatusConflict, "selection changed while loading")
		return
	}
	if view == nil {
		writeError(w, http.StatusBadRequest, "invalid month selection")
		return
	}

	out := monthHoursJSON{
		WorkerID: workerID,
		Year:     year,
		Month:    month,
		Days:     make([]dayJSON, 0, len(view.Days)),
	}
	if err != nil {
		out.LoadError = "failed to load hours"
	}
	for _, d := range view.Days {
		day := descriptorJSON(d)
		if summary, ok := view.Summaries[d.DateKey]; ok {
			day.TotalHours = summary.TotalHours
			day.Notes = summary.Notes
			for _, c := range summary.Companies {
				day.Companies = append(day.Companies, companyHoursJSON{
					CompanyID: c.CompanyID,
					Name:      c.Name,
					Hours:     c.Hours,
				})
			}
		}
		out.Days = append(out.Days, day)
	}
	writeJSON(w, http.StatusOK, out)
}

func descriptorJSON(d core.DayDescriptor) dayJSON {
	return dayJSON{
		DateKey:      d.DateKey,
		CurrentMonth: d.CurrentMonth,
		Today:        d.Today,
		Weekend:      d.Weekend,
	}
}
