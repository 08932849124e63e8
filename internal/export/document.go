// Package export compiles the multi-worker hour/rate dataset into a
// formula-driven spreadsheet report. The compiler is pure; writing the
// resulting document is behind the Writer/Publisher ports.
package export

import "context"

// Column layout of the report sheet. Formulas are generated against these
// fixed letters.
const (
	ColWorker  = "A"
	ColCompany = "B"
	ColHours   = "C"
	ColRate    = "D"
	ColAmount  = "E"
)

// RowKind tags each report row so writers can style without recomputing.
type RowKind int

const (
	RowTitle RowKind = iota
	RowHeader
	RowData
	RowWorkerTotal
	RowBlank
	RowSummaryHeader
	RowSummary
	RowGrandTotal
)

// Format selects the number format a writer applies to a cell. It never
// changes computed values.
type Format int

const (
	FormatNone Format = iota
	FormatHours
	FormatCurrency
)

// Cell is one spreadsheet cell: either a literal value or a formula.
type Cell struct {
	Value   any
	Formula string
	Format  Format
}

// Row is one ordered report row.
type Row struct {
	Kind  RowKind
	Cells []Cell
}

// Document is the write-once report artifact. Built once per export
// invocation and never mutated after being handed to a writer.
type Document struct {
	Title    string
	Sheet    string
	Filename string
	Rows     []Row
}

// Writer produces the downloadable binary for a compiled report.
type Writer interface {
	WriteReport(ctx context.Context, doc *Document) ([]byte, error)
}

// Publisher pushes a compiled report to a remote spreadsheet destination.
type Publisher interface {
	PublishReport(ctx context.Context, doc *Document) (ref string, err error)
}
