package aggregate

import (
	"horario/internal/core"
)

// Summarize folds canonical time records into per-day summaries keyed by
// date key. Within a day, hours group by company identity (id authoritative,
// else normalized name, else the no-company sentinel); totalHours and the
// per-company breakdown are derived in the same pass so they cannot diverge.
// Notes are collected trimmed and order-preserving; duplicates are allowed.
//
// Records with zero or negative hours never contribute to totals: they are
// retained as note carriers when they hold a note, and skipped otherwise.
// A day appears in the output only when some record contributed hours or a
// note to it.
// Pure: errors from fetching records belong to the caller.
func Summarize(records []core.TimeRecord) map[string]core.DayHoursSummary {
	type companyBucket struct {
		order []core.CompanyKey
		hours map[core.CompanyKey]*core.CompanyHours
	}
	days := make(map[string]*companyBucket)
	notes := make(map[string][]string)
	order := make([]string, 0)

	for _, rec := range records {
		if rec.Hours <= 0 && rec.Note == "" {
			continue
		}
		day, ok := days[rec.DateKey]
		if !ok {
			day = &companyBucket{hours: make(map[core.CompanyKey]*core.CompanyHours)}
			days[rec.DateKey] = day
			order = append(order, rec.DateKey)
		}
		if rec.Note != "" {
			notes[rec.DateKey] = append(notes[rec.DateKey], rec.Note)
		}
		if rec.Hours <= 0 {
			continue
		}
		key := core.ResolveCompanyKey(rec.CompanyID, rec.CompanyName)
		bucket, ok := day.hours[key]
		if !ok {
			bucket = &core.CompanyHours{
				CompanyID: rec.CompanyID,
				Name:      core.NormalizeCompanyName(rec.CompanyName),
			}
			day.hours[key] = bucket
			day.order = append(day.order, key)
		}
		bucket.Hours += rec.Hours
	}

	out := make(map[string]core.DayHoursSummary, len(order))
	for _, dateKey := range order {
		day := days[dateKey]
		summary := core.DayHoursSummary{Notes: notes[dateKey]}
		for _, key := range day.order {
			c := *day.hours[key]
			summary.Companies = append(summary.Companies, c)
			summary.TotalHours += c.Hours
		}
		out[dateKey] = summary
	}
	return out
}

// SummarizeRaw is the convenience path used by the hours service: normalize
// then summarize in one call.
func SummarizeRaw(raw []RawRecord) map[string]core.DayHoursSummary {
	return Summarize(Normalize(raw))
}
