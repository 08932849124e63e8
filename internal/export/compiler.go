package export

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"horario/internal/core"
)

// ErrNothingToExport signals that no (worker, company) pair had hours in the
// requested range. An empty report is a user-facing error, never a silently
// empty file.
var ErrNothingToExport = errors.New("nothing to export for this range")

// hoursEpsilon drops pairs whose range total is effectively zero, avoiding
// noise rows for assignments that exist but were never worked.
const hoursEpsilon = 0.001

// RateKey identifies one worker's hourly rate at one company.
type RateKey struct {
	WorkerID string
	Company  core.CompanyKey
}

// Input is everything the compiler needs, already in memory.
type Input struct {
	Assignments []core.Assignment
	Rates       map[RateKey]float64
	Start, End  time.Time
}

// Filename returns the canonical export file name for a date range:
// control-horario-<start>-al-<end>.xlsx. Used verbatim for reproducibility.
func Filename(start, end time.Time) string {
	return fmt.Sprintf("control-horario-%s-al-%s.xlsx", core.DateKey(start), core.DateKey(end))
}

// Compile builds the report document: per-(worker,company) data rows grouped
// by worker, a formula TOTAL row after each worker, a blank separator, and a
// company summary table with a grand total, all formula-driven. Workers and
// companies are ordered with Spanish collation. Fails fast when filtering
// leaves no rows.
func Compile(in Input) (*Document, error) {
	type pair struct {
		workerID, workerName string
		companyName          string
		key                  core.CompanyKey
		hours                float64
	}

	startKey, endKey := core.DateKey(in.Start), core.DateKey(in.End)
	merged := make(map[string]map[core.CompanyKey]*pair)
	workerNames := make(map[string]string)

	for _, a := range in.Assignments {
		total := rangeTotal(a.Hours, startKey, endKey)
		key := core.ResolveCompanyKey(a.CompanyID, a.CompanyName)
		byCompany, ok := merged[a.WorkerID]
		if !ok {
			byCompany = make(map[core.CompanyKey]*pair)
			merged[a.WorkerID] = byCompany
			workerNames[a.WorkerID] = a.WorkerName
		}
		p, ok := byCompany[key]
		if !ok {
			p = &pair{
				workerID:    a.WorkerID,
				workerName:  a.WorkerName,
				companyName: core.NormalizeCompanyName(a.CompanyName),
				key:         key,
			}
			byCompany[key] = p
		}
		p.hours += total
	}

	coll := collate.New(language.Spanish)

	workerIDs := make([]string, 0, len(merged))
	for id := range merged {
		workerIDs = append(workerIDs, id)
	}
	sort.Slice(workerIDs, func(i, j int) bool {
		a, b := workerNames[workerIDs[i]], workerNames[workerIDs[j]]
		if c := coll.CompareString(a, b); c != 0 {
			return c < 0
		}
		return workerIDs[i] < workerIDs[j]
	})

	doc := &Document{
		Title:    fmt.Sprintf("Control horario %s al %s", startKey, endKey),
		Sheet:    "Control horario",
		Filename: Filename(in.Start, in.End),
	}
	doc.Rows = append(doc.Rows, Row{Kind: RowTitle, Cells: []Cell{{Value: doc.Title}}})
	doc.Rows = append(doc.Rows, Row{Kind: RowHeader, Cells: []Cell{
		{Value: "Trabajador"}, {Value: "Empresa"}, {Value: "Horas"},
		{Value: "Tarifa (EUR/h)"}, {Value: "Importe (EUR)"},
	}})

	blockFirst := len(doc.Rows) + 1 // first data row, 1-based
	companyOrder := make([]string, 0)
	seenCompany := make(map[string]bool)
	rowsEmitted := 0

	for _, id := range workerIDs {
		var pairs []*pair
		for _, p := range merged[id] {
			if math.Abs(p.hours) < hoursEpsilon {
				continue
			}
			pairs = append(pairs, p)
		}
		if len(pairs) == 0 {
			continue
		}
		sort.Slice(pairs, func(i, j int) bool {
			if c := coll.CompareString(pairs[i].companyName, pairs[j].companyName); c != 0 {
				return c < 0
			}
			return pairs[i].key < pairs[j].key
		})

		firstDataRow := len(doc.Rows) + 1
		for _, p := range pairs {
			row := len(doc.Rows) + 1
			cells := []Cell{
				{Value: p.workerName},
				{Value: p.companyName},
				{Value: core.Round2(p.hours), Format: FormatHours},
			}
			if rate, ok := in.Rates[RateKey{WorkerID: p.workerID, Company: p.key}]; ok {
				cells = append(cells,
					Cell{Value: rate, Format: FormatCurrency},
					Cell{Formula: dataAmountFormula(row), Format: FormatCurrency},
				)
			} else {
				// Unknown rate: rate and amount cells stay blank.
				cells = append(cells, Cell{}, Cell{})
			}
			doc.Rows = append(doc.Rows, Row{Kind: RowData, Cells: cells})
			rowsEmitted++
			if !seenCompany[p.companyName] {
				seenCompany[p.companyName] = true
				companyOrder = append(companyOrder, p.companyName)
			}
		}
		lastDataRow := len(doc.Rows)
		doc.Rows = append(doc.Rows, Row{Kind: RowWorkerTotal, Cells: []Cell{
			{Value: "TOTAL " + workerNames[id]},
			{},
			{Formula: workerHoursFormula(firstDataRow, lastDataRow), Format: FormatHours},
			{Formula: workerRateFormula(firstDataRow, lastDataRow), Format: FormatCurrency},
			{Formula: workerAmountFormula(firstDataRow, lastDataRow), Format: FormatCurrency},
		}})
		doc.Rows = append(doc.Rows, Row{Kind: RowBlank})
	}

	if rowsEmitted == 0 {
		return nil, ErrNothingToExport
	}

	blockLast := len(doc.Rows) - 1 // exclude the trailing separator
	sort.Slice(companyOrder, func(i, j int) bool {
		return coll.CompareString(companyOrder[i], companyOrder[j]) < 0
	})

	doc.Rows = append(doc.Rows, Row{Kind: RowSummaryHeader, Cells: []Cell{
		{Value: "Empresa"}, {}, {Value: "Horas"}, {}, {Value: "Importe (EUR)"},
	}})
	for _, name := range companyOrder {
		row := len(doc.Rows) + 1
		doc.Rows = append(doc.Rows, Row{Kind: RowSummary, Cells: []Cell{
			{Value: name},
			{},
			{Formula: summaryCellFormula(ColHours, blockFirst, blockLast, row), Format: FormatHours},
			{},
			{Formula: summaryCellFormula(ColAmount, blockFirst, blockLast, row), Format: FormatCurrency},
		}})
	}
	doc.Rows = append(doc.Rows, Row{Kind: RowGrandTotal, Cells: []Cell{
		{Value: "TOTAL"},
		{},
		{Formula: grandCellFormula(ColHours, blockFirst, blockLast), Format: FormatHours},
		{},
		{Formula: grandCellFormula(ColAmount, blockFirst, blockLast), Format: FormatCurrency},
	}})

	return doc, nil
}

// rangeTotal sums an assignment's parseable day figures within [start, end].
// Date keys compare lexicographically because of the canonical layout.
func rangeTotal(hours map[string]string, startKey, endKey string) float64 {
	var total float64
	for key, raw := range hours {
		if key < startKey || key > endKey {
			continue
		}
		if v, ok := core.ParseHours(raw); ok {
			total += v
		}
	}
	return total
}
