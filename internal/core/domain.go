package core

import (
	"errors"
	"strings"
	"time"
)

// NoCompanyLabel is the sentinel bucket for records that carry no usable
// company reference. It doubles as the display name for those rows.
const NoCompanyLabel = "Sin empresa"

// DateKeyLayout is the canonical day identity format. Every map that is keyed
// by day across the application uses this exact string form.
const DateKeyLayout = "2006-01-02"

var (
	ErrInvalidDateKey = errors.New("invalid date key")
	ErrInvalidHours   = errors.New("invalid hours value")
	ErrEmptyWorkerID  = errors.New("empty worker id")
)

type (
	// Worker is a person whose hours are tracked on the remote platform.
	Worker struct {
		ID   string
		Name string
	}

	// DayDescriptor is one cell of the month grid.
	DayDescriptor struct {
		Date         time.Time
		DateKey      string
		CurrentMonth bool
		Today        bool
		Weekend      bool
	}

	// TimeRecord is the canonical shape of a raw platform record after
	// normalization. Downstream code never sees the loose wire shape.
	TimeRecord struct {
		Date        time.Time
		DateKey     string
		CompanyID   string
		CompanyName string
		Hours       float64
		Note        string
	}

	// CompanyHours is one company's share of a day's total.
	CompanyHours struct {
		CompanyID string
		Name      string
		Hours     float64
	}

	// DayHoursSummary aggregates a single day for one worker.
	DayHoursSummary struct {
		TotalHours float64
		Notes      []string
		Companies  []CompanyHours
	}

	// RegistrationEntry is an editable draft time entry for one company on
	// one day. Exactly one of {StartTime,EndTime} or {Hours} is
	// authoritative at a time; all fields are kept as entered text until
	// validation.
	RegistrationEntry struct {
		ID          string
		Company     string
		StartTime   string
		EndTime     string
		Hours       string
		Description string
	}

	// Assignment is one worker's recurring presence at one company over a
	// date range, the unit the export compiler consumes. Hours maps date
	// keys to the hour figure entered for that day.
	Assignment struct {
		WorkerID    string
		WorkerName  string
		CompanyID   string
		CompanyName string
		Hours       map[string]string
	}
)

// CompanyKey is the stable grouping identity for a company reference:
// the explicit id when present, else the normalized name, else the
// no-company sentinel. The id is authoritative; two references with the
// same display name but different ids never collapse.
type CompanyKey string

func ResolveCompanyKey(id, name string) CompanyKey {
	if id = strings.TrimSpace(id); id != "" {
		return CompanyKey("id:" + id)
	}
	if n := NormalizeCompanyName(name); n != NoCompanyLabel {
		return CompanyKey("name:" + strings.ToLower(n))
	}
	return CompanyKey("name:" + strings.ToLower(NoCompanyLabel))
}

// NormalizeCompanyName collapses whitespace-only names to the sentinel label.
func NormalizeCompanyName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoCompanyLabel
	}
	return name
}

// DateKey formats t as the canonical day identity.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a canonical day identity back into a date.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	return t, nil
}

func (w Worker) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return ErrEmptyWorkerID
	}
	return nil
}

// SumCompanyHours returns the sum of the per-company breakdown. It exists so
// callers can assert the summary's internal consistency cheaply.
func (s DayHoursSummary) SumCompanyHours() float64 {
	var total float64
	for _, c := range s.Companies {
		total += c.Hours
	}
	return total
}
