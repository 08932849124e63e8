package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"horario/internal/core"
	"horario/internal/export"
	"horario/internal/export/xlsx"
	"horario/internal/platform"
)

func exportFixture() ([]core.Assignment, []platform.Rate) {
	assignments := []core.Assignment{
		{WorkerID: "w1", WorkerName: "Ana", CompanyID: "c1", CompanyName: "Store A",
			Hours: map[string]string{"2025-03-03": "4", "2025-03-04": "3,75"}},
		{WorkerID: "w1", WorkerName: "Ana", CompanyName: "Store B",
			Hours: map[string]string{"2025-03-05": "2"}},
	}
	rates := []platform.Rate{
		{WorkerID: "w1", CompanyID: "c1", HourlyRate: 14},
	}
	return assignments, rates
}

func TestWriteReport(t *testing.T) {
	source := platform.NewMemorySource()
	source.SeedAssignments(exportFixture())
	svc := NewExportService(source, xlsx.NewWriter(), nil)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	filename, data, err := svc.WriteReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if filename != "control-horario-2025-03-01-al-2025-03-31.xlsx" {
		t.Errorf("filename = %q", filename)
	}
	if len(data) == 0 {
		t.Error("empty xlsx payload")
	}
}

func TestBuildReportRateTable(t *testing.T) {
	source := platform.NewMemorySource()
	source.SeedAssignments(exportFixture())
	svc := NewExportService(source, xlsx.NewWriter(), nil)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	doc, err := svc.BuildReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	// Store A (rate known) carries a rate cell; Store B (no rate) stays blank.
	var dataRows []export.Row
	for _, row := range doc.Rows {
		if row.Kind == export.RowData {
			dataRows = append(dataRows, row)
		}
	}
	if len(dataRows) != 2 {
		t.Fatalf("got %d data rows", len(dataRows))
	}
	if dataRows[0].Cells[1].Value != "Store A" || dataRows[0].Cells[3].Value != 14.0 {
		t.Errorf("Store A row: %+v", dataRows[0].Cells)
	}
	if dataRows[1].Cells[1].Value != "Store B" || dataRows[1].Cells[3].Value != nil {
		t.Errorf("Store B rate cell must be blank: %+v", dataRows[1].Cells)
	}
}

func TestBuildReportErrors(t *testing.T) {
	source := platform.NewMemorySource()
	svc := NewExportService(source, xlsx.NewWriter(), nil)
	ctx := context.Background()

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	if _, err := svc.BuildReport(ctx, end, start); err == nil {
		t.Error("inverted range must fail")
	}
	if _, err := svc.BuildReport(ctx, start, end); !errors.Is(err, export.ErrNothingToExport) {
		t.Errorf("empty range: %v", err)
	}

	source.FailWith(errors.New("platform down"))
	if _, err := svc.BuildReport(ctx, start, end); err == nil {
		t.Error("backend failure must propagate")
	}

	if _, err := svc.PublishReport(ctx, start, end); !errors.Is(err, ErrNoPublisher) {
		t.Errorf("publish without publisher: %v", err)
	}
}
