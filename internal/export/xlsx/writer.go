// Package xlsx renders a compiled report document into an .xlsx workbook.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"horario/internal/export"
)

const currencyFormat = "#,##0.00 €"

// Writer implements export.Writer on top of excelize. Styling is purely
// cosmetic; cell values and formulas come from the document untouched.
type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

var _ export.Writer = (*Writer)(nil)

// WriteReport renders doc and returns the workbook bytes.
func (w *Writer) WriteReport(ctx context.Context, doc *export.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	for i, row := range doc.Rows {
		rowNum := i + 1
		for j, cell := range row.Cells {
			axis, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("cell coordinates: %w", err)
			}
			if cell.Formula != "" {
				// excelize stores formulas without the leading "=".
				if err := f.SetCellFormula(sheet, axis, strings.TrimPrefix(cell.Formula, "=")); err != nil {
					return nil, fmt.Errorf("set formula %s: %w", axis, err)
				}
			} else if cell.Value != nil {
				if err := f.SetCellValue(sheet, axis, cell.Value); err != nil {
					return nil, fmt.Errorf("set value %s: %w", axis, err)
				}
			}
			if style := styles.forCell(row.Kind, cell.Format); style != 0 {
				if err := f.SetCellStyle(sheet, axis, axis, style); err != nil {
					return nil, fmt.Errorf("set style %s: %w", axis, err)
				}
			}
		}
		if row.Kind == export.RowTitle {
			// Merged title band across the five report columns.
			if err := f.MergeCell(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("E%d", rowNum)); err != nil {
				return nil, fmt.Errorf("merge title: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "E", 14); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styleSet struct {
	title    int
	header   int
	hours    int
	currency int
	totalTxt int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}
	hoursFmt := "0.00"
	hours, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		return nil, err
	}
	curFmt := currencyFormat
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &curFmt})
	if err != nil {
		return nil, err
	}
	totalTxt, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	return &styleSet{title: title, header: header, hours: hours, currency: currency, totalTxt: totalTxt}, nil
}

func (s *styleSet) forCell(kind export.RowKind, format export.Format) int {
	switch kind {
	case export.RowTitle:
		return s.title
	case export.RowHeader, export.RowSummaryHeader:
		return s.header
	}
	switch format {
	case export.FormatHours:
		return s.hours
	case export.FormatCurrency:
		return s.currency
	}
	if kind == export.RowWorkerTotal || kind == export.RowGrandTotal {
		return s.totalTxt
	}
	return 0
}
