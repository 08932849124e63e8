package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"horario/internal/core"
	"horario/internal/export"
)

func compileFixture(t *testing.T) *export.Document {
	t.Helper()
	doc, err := export.Compile(export.Input{
		Assignments: []core.Assignment{
			{
				WorkerID: "w1", WorkerName: "Ana", CompanyID: "c1", CompanyName: "Store A",
				Hours: map[string]string{"2025-03-09": "4.5"},
			},
			{
				WorkerID: "w1", WorkerName: "Ana", CompanyID: "c2", CompanyName: "Store B",
				Hours: map[string]string{"2025-03-09": "3.25"},
			},
		},
		Rates: map[export.RateKey]float64{
			{WorkerID: "w1", Company: core.ResolveCompanyKey("c1", "")}: 12,
			{WorkerID: "w1", Company: core.ResolveCompanyKey("c2", "")}: 15,
		},
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("compile fixture: %v", err)
	}
	return doc
}

func TestWriteReportRoundTrip(t *testing.T) {
	doc := compileFixture(t)
	data, err := NewWriter().WriteReport(context.Background(), doc)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty workbook bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(0) != "Control horario" {
		t.Fatalf("sheet name %q", f.GetSheetName(0))
	}

	title, err := f.GetCellValue("Control horario", "A1")
	if err != nil || title != "Control horario 2025-03-01 al 2025-03-31" {
		t.Fatalf("title %q err %v", title, err)
	}
	worker, _ := f.GetCellValue("Control horario", "A3")
	if worker != "Ana" {
		t.Fatalf("A3 %q", worker)
	}

	// Formula cells survive as formulas, not precomputed values.
	formula, err := f.GetCellFormula("Control horario", "C5")
	if err != nil {
		t.Fatalf("get formula: %v", err)
	}
	if formula != "SUM(C3:C4)" && formula != "=SUM(C3:C4)" {
		t.Fatalf("C5 formula %q", formula)
	}
}

func TestWriteReportCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWriter().WriteReport(ctx, compileFixture(t)); err == nil {
		t.Fatalf("expected context error")
	}
}
