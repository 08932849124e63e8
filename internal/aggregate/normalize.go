// Package aggregate turns raw platform time records into per-day summaries.
package aggregate

import (
	"strings"
	"time"

	"horario/internal/core"
)

// RawRecord is the loosely-typed wire shape of one platform time record.
// Historical clients wrote several field spellings; normalization happens
// here, once, so every downstream function operates on core.TimeRecord.
type RawRecord map[string]any

// Field name candidates in priority order.
var (
	dateFields  = []string{"date", "day", "fecha"}
	hourFields  = []string{"hours", "horas", "value"}
	idFields    = []string{"companyId", "company_id", "empresaId"}
	nameFields  = []string{"companyName", "company_name", "company", "empresa"}
	noteFields  = []string{"notes", "note", "observaciones"}
	dateLayouts = []string{core.DateKeyLayout, time.RFC3339, "2006-01-02T15:04:05", "02/01/2006"}
)

// Normalize converts raw records into the canonical shape. Records whose date
// is missing or unparseable are dropped silently: a data-quality failure in
// one record never aborts the batch.
func Normalize(raw []RawRecord) []core.TimeRecord {
	out := make([]core.TimeRecord, 0, len(raw))
	for _, r := range raw {
		date, ok := pickDate(r)
		if !ok {
			continue
		}
		rec := core.TimeRecord{
			Date:        date,
			DateKey:     core.DateKey(date),
			CompanyID:   pickString(r, idFields),
			CompanyName: pickString(r, nameFields),
			Hours:       pickHours(r),
			Note:        strings.TrimSpace(pickString(r, noteFields)),
		}
		out = append(out, rec)
	}
	return out
}

func pickDate(r RawRecord) (time.Time, bool) {
	for _, f := range dateFields {
		v, ok := r[f]
		if !ok {
			continue
		}
		switch d := v.(type) {
		case time.Time:
			return d, true
		case string:
			s := strings.TrimSpace(d)
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

func pickString(r RawRecord, fields []string) string {
	for _, f := range fields {
		if v, ok := r[f]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func pickHours(r RawRecord) float64 {
	for _, f := range hourFields {
		v, ok := r[f]
		if !ok {
			continue
		}
		switch h := v.(type) {
		case float64:
			return h
		case int:
			return float64(h)
		case string:
			if parsed, ok := core.ParseHours(h); ok {
				return parsed
			}
		}
	}
	return 0
}
