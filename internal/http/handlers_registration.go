package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"horario/internal/core"
	"horario/internal/registration"
)

type entryJSON struct {
	ID          string `json:"id,omitempty"`
	Company     string `json:"company"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Hours       string `json:"hours,omitempty"`
	Description string `json:"description,omitempty"`
}

type dayEntriesJSON struct {
	WorkerID string      `json:"workerId"`
	DateKey  string      `json:"dateKey"`
	Entries  []entryJSON `json:"entries"`
	Total    float64     `json:"total"`
}

type saveDayRequest struct {
	Entries []entryJSON `json:"entries"`
}

func (s *Server) handleGetDayEntries(w http.ResponseWriter, r *http.Request) {
	workerID := r.PathValue("id")
	dateKey := r.PathValue("dateKey")

	entries, err := s.registrations.DayEntries(r.Context(), workerID, dateKey)
	if errors.Is(err, core.ErrInvalidDateKey) {
		writeError(w, http.StatusBadRequest, "invalid date key")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load day entries")
		return
	}
	writeJSON(w, http.StatusOK, dayEntriesJSON{
		WorkerID: workerID,
		DateKey:  dateKey,
		Entries:  entriesJSON(entries),
		Total:    dayTotal(entries),
	})
}

// handleSaveDayEntries replaces the worker's day wholesale. Validation
// failures report every bad entry and commit nothing.
func (s *Server) handleSaveDayEntries(w http.ResponseWriter, r *http.Request) {
	workerID := r.PathValue("id")
	dateKey := r.PathValue("dateKey")

	var req saveDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries := make([]core.RegistrationEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, core.RegistrationEntry{
			ID:          sanitizeInput(e.ID),
			Company:     core.NormalizeCompanyName(sanitizeInput(e.Company)),
			StartTime:   sanitizeInput(e.StartTime),
			EndTime:     sanitizeInput(e.EndTime),
			Hours:       sanitizeInput(e.Hours),
			Description: sanitizeInput(e.Description),
		})
	}

	version, err := s.registrations.SaveDay(r.Context(), workerID, dateKey, entries)
	var verr *registration.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]string, 0, len(verr.Entries))
		for _, e := range verr.Entries {
			details = append(details, e.Error())
		}
		writeError(w, http.StatusUnprocessableEntity, "day validation failed", details...)
		return
	case errors.Is(err, core.ErrInvalidDateKey):
		writeError(w, http.StatusBadRequest, "invalid date key")
		return
	case errors.Is(err, core.ErrEmptyWorkerID):
		writeError(w, http.StatusBadRequest, "worker id is required")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to save day")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workerId": workerID,
		"dateKey":  dateKey,
		"version":  version,
	})
}

func entriesJSON(entries []core.RegistrationEntry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			ID:          e.ID,
			Company:     e.Company,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Hours:       e.Hours,
			Description: e.Description,
		})
	}
	return out
}

func dayTotal(entries []core.RegistrationEntry) float64 {
	var total float64
	for _, e := range entries {
		total += core.EntryHours(e)
	}
	return core.Round2(total)
}
