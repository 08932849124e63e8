package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"horario/internal/core"
	"horario/internal/export"
	"horario/internal/platform"
)

// ErrNoPublisher signals that publishing was requested but no report
// publisher is configured.
var ErrNoPublisher = errors.New("no report publisher configured")

// ExportService turns a date range into the control-horario spreadsheet,
// either as xlsx bytes for download or published to a configured sheet.
type ExportService struct {
	assignments platform.AssignmentSource
	writer      export.Writer
	publisher   export.Publisher
}

func NewExportService(assignments platform.AssignmentSource, writer export.Writer, publisher export.Publisher) *ExportService {
	return &ExportService{assignments: assignments, writer: writer, publisher: publisher}
}

// BuildReport fetches assignments and rates for [start, end] and compiles
// the report document. Returns export.ErrNothingToExport when the range has
// no worked hours.
func (s *ExportService) BuildReport(ctx context.Context, start, end time.Time) (*export.Document, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", core.DateKey(end), core.DateKey(start))
	}
	assignments, rates, err := s.assignments.FetchAssignments(ctx, core.DateKey(start), core.DateKey(end))
	if err != nil {
		return nil, fmt.Errorf("fetch assignments: %w", err)
	}

	doc, err := export.Compile(export.Input{
		Assignments: assignments,
		Rates:       rateTable(rates),
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Compiled export report",
		"filename", doc.Filename,
		"rows", len(doc.Rows))
	return doc, nil
}

// WriteReport compiles the range and renders it to xlsx bytes, returning the
// canonical filename alongside.
func (s *ExportService) WriteReport(ctx context.Context, start, end time.Time) (string, []byte, error) {
	doc, err := s.BuildReport(ctx, start, end)
	if err != nil {
		return "", nil, err
	}
	data, err := s.writer.WriteReport(ctx, doc)
	if err != nil {
		return "", nil, fmt.Errorf("write report: %w", err)
	}
	return doc.Filename, data, nil
}

// PublishReport compiles the range and pushes it to the configured sheet,
// returning the written range reference.
func (s *ExportService) PublishReport(ctx context.Context, start, end time.Time) (string, error) {
	if s.publisher == nil {
		return "", ErrNoPublisher
	}
	doc, err := s.BuildReport(ctx, start, end)
	if err != nil {
		return "", err
	}
	ref, err := s.publisher.PublishReport(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("publish report: %w", err)
	}
	slog.InfoContext(ctx, "Published export report", "range", ref)
	return ref, nil
}

// rateTable indexes the platform's rate rows by (worker, company identity).
func rateTable(rates []platform.Rate) map[export.RateKey]float64 {
	table := make(map[export.RateKey]float64, len(rates))
	for _, r := range rates {
		key := export.RateKey{
			WorkerID: r.WorkerID,
			Company:  core.ResolveCompanyKey(r.CompanyID, r.CompanyName),
		}
		table[key] = r.HourlyRate
	}
	return table
}
