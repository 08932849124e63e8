package export

import "fmt"

// Formula builders, one per formula shape. Keeping these as narrow string
// functions lets tests pin the exact output against fixed row numbers,
// independent of any spreadsheet library. Formulas (rather than precomputed
// numbers) keep the exported file auditable: it recomputes when a reviewer
// edits a cell by hand.

// dataAmountFormula multiplies one data row's hours by its rate.
func dataAmountFormula(row int) string {
	return fmt.Sprintf("=%s%d*%s%d", ColHours, row, ColRate, row)
}

// workerHoursFormula sums one worker's data-row hours.
func workerHoursFormula(first, last int) string {
	return fmt.Sprintf("=SUM(%s%d:%s%d)", ColHours, first, ColHours, last)
}

// workerAmountFormula sums hours x rate over the worker's data rows; rows
// with a blank rate contribute nothing.
func workerAmountFormula(first, last int) string {
	return fmt.Sprintf("=SUMPRODUCT(%s%d:%s%d,%s%d:%s%d)",
		ColHours, first, ColHours, last, ColRate, first, ColRate, last)
}

// workerRateFormula is the weighted-average rate: amount with a known rate
// divided by the hours for which a rate was known. Falls back to blank when
// no row has a rate, instead of a division error.
func workerRateFormula(first, last int) string {
	return fmt.Sprintf(`=IFERROR(SUMPRODUCT(%s%d:%s%d,%s%d:%s%d)/SUMIF(%s%d:%s%d,"<>",%s%d:%s%d),"")`,
		ColHours, first, ColHours, last, ColRate, first, ColRate, last,
		ColRate, first, ColRate, last, ColHours, first, ColHours, last)
}

// summaryCellFormula conditionally sums one value column of the worker block
// for the company named on the summary row itself. Company cells are blank
// on TOTAL and separator rows, so only data rows match.
func summaryCellFormula(valueCol string, blockFirst, blockLast, summaryRow int) string {
	return fmt.Sprintf("=SUMIF($%s$%d:$%s$%d,%s%d,$%s$%d:$%s$%d)",
		ColCompany, blockFirst, ColCompany, blockLast,
		ColWorker, summaryRow,
		valueCol, blockFirst, valueCol, blockLast)
}

// grandCellFormula applies the same conditional pattern across the whole
// block: every row with a non-blank company cell counts.
func grandCellFormula(valueCol string, blockFirst, blockLast int) string {
	return fmt.Sprintf(`=SUMIF($%s$%d:$%s$%d,"<>",$%s$%d:$%s$%d)`,
		ColCompany, blockFirst, ColCompany, blockLast,
		valueCol, blockFirst, valueCol, blockLast)
}
