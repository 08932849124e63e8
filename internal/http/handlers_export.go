package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"horario/internal/core"
	"horario/internal/export"
	"horario/internal/services"
)

type exportRequest struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Publish bool   `json:"publish,omitempty"`
}

// handleExport compiles the control-horario report for a date range. By
// default the xlsx workbook is returned as a download; with publish set the
// report goes to the configured sheet instead.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := core.ParseDateKey(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := core.ParseDateKey(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end date before start date")
		return
	}

	if req.Publish {
		ref, err := s.exports.PublishReport(r.Context(), start, end)
		if err != nil {
			s.writeExportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"published": true, "range": ref})
		return
	}

	filename, data, err := s.exports.WriteReport(r.Context(), start, end)
	if err != nil {
		s.writeExportError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeExportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, export.ErrNothingToExport):
		writeError(w, http.StatusUnprocessableEntity, "nothing to export for this range")
	case errors.Is(err, services.ErrNoPublisher):
		writeError(w, http.StatusNotImplemented, "report publishing is not configured")
	default:
		writeError(w, http.StatusBadGateway, "export failed")
	}
}
