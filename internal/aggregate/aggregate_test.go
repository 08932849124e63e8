package aggregate

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"horario/internal/core"
)

func rec(day, companyID, companyName string, hours float64, note string) core.TimeRecord {
	d, _ := core.ParseDateKey(day)
	return core.TimeRecord{
		Date:        d,
		DateKey:     day,
		CompanyID:   companyID,
		CompanyName: companyName,
		Hours:       hours,
		Note:        note,
	}
}

func TestSummarizeGroupsByDayAndCompany(t *testing.T) {
	records := []core.TimeRecord{
		rec("2025-03-09", "c1", "Store A", 4.5, ""),
		rec("2025-03-09", "", "Store B", 3.25, "turno tarde"),
		rec("2025-03-09", "c1", "Store A", 2, ""),
		rec("2025-03-10", "", "", 8, ""),
	}
	got := Summarize(records)

	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}
	day := got["2025-03-09"]
	if day.TotalHours != 9.75 {
		t.Fatalf("total %v, want 9.75", day.TotalHours)
	}
	if len(day.Companies) != 2 {
		t.Fatalf("got %d companies, want 2", len(day.Companies))
	}
	if day.Companies[0].Name != "Store A" || day.Companies[0].Hours != 6.5 {
		t.Fatalf("first company %+v", day.Companies[0])
	}
	if day.Companies[1].Name != "Store B" || day.Companies[1].Hours != 3.25 {
		t.Fatalf("second company %+v", day.Companies[1])
	}
	if len(day.Notes) != 1 || day.Notes[0] != "turno tarde" {
		t.Fatalf("notes %v", day.Notes)
	}

	other := got["2025-03-10"]
	if len(other.Companies) != 1 || other.Companies[0].Name != core.NoCompanyLabel {
		t.Fatalf("no-company bucket missing: %+v", other.Companies)
	}
}

func TestSummarizeSameNameDifferentID(t *testing.T) {
	records := []core.TimeRecord{
		rec("2025-03-09", "c1", "Store", 2, ""),
		rec("2025-03-09", "c2", "Store", 3, ""),
	}
	day := Summarize(records)["2025-03-09"]
	if len(day.Companies) != 2 {
		t.Fatalf("ids are authoritative, want 2 buckets, got %d", len(day.Companies))
	}
}

func TestSummarizeNoteCarriers(t *testing.T) {
	records := []core.TimeRecord{
		rec("2025-03-09", "c1", "Store A", 0, "vacaciones"),
		rec("2025-03-09", "c1", "Store A", -2, ""),
		rec("2025-03-09", "c1", "Store A", 5, ""),
	}
	day := Summarize(records)["2025-03-09"]
	if day.TotalHours != 5 {
		t.Fatalf("non-positive hours leaked into total: %v", day.TotalHours)
	}
	if len(day.Notes) != 1 || day.Notes[0] != "vacaciones" {
		t.Fatalf("note carrier lost: %v", day.Notes)
	}
}

func TestSummarizeSkipsDaysWithoutData(t *testing.T) {
	records := []core.TimeRecord{
		rec("2025-03-09", "c1", "Store A", 0, ""),
		rec("2025-03-09", "c1", "Store A", -3, ""),
		rec("2025-03-10", "c1", "Store A", 0, "vacaciones"),
		rec("2025-03-11", "c1", "Store A", 4, ""),
	}
	got := Summarize(records)
	if _, ok := got["2025-03-09"]; ok {
		t.Fatalf("day with only dataless records must not appear: %+v", got["2025-03-09"])
	}
	if day, ok := got["2025-03-10"]; !ok || len(day.Notes) != 1 {
		t.Fatalf("note-only day must survive: %+v", day)
	}
	if day, ok := got["2025-03-11"]; !ok || day.TotalHours != 4 {
		t.Fatalf("worked day must survive: %+v", day)
	}
}

func TestSummarizeTotalMatchesBreakdown(t *testing.T) {
	// Property check over randomized fixtures.
	rng := rand.New(rand.NewSource(42))
	companies := []struct{ id, name string }{
		{"c1", "Store A"}, {"", "Store B"}, {"", ""}, {"c2", "Store A"},
	}
	for iter := 0; iter < 50; iter++ {
		var records []core.TimeRecord
		for i := 0; i < rng.Intn(40); i++ {
			c := companies[rng.Intn(len(companies))]
			day := time.Date(2025, 3, 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
			records = append(records, rec(core.DateKey(day), c.id, c.name, float64(rng.Intn(20))-4, ""))
		}
		for key, summary := range Summarize(records) {
			if diff := math.Abs(summary.TotalHours - summary.SumCompanyHours()); diff > 1e-9 {
				t.Fatalf("iter %d day %s: total %v != breakdown sum %v",
					iter, key, summary.TotalHours, summary.SumCompanyHours())
			}
		}
	}
}

func TestNormalizeFieldSpellings(t *testing.T) {
	raw := []RawRecord{
		{"date": "2025-03-09", "hours": 4.5, "companyId": "c1", "companyName": "Store A"},
		{"fecha": "2025-03-10", "horas": "3,5", "empresa": "Store B", "observaciones": " nota "},
		{"day": "2025-03-11T08:00:00Z", "value": 2, "company": "Store C"},
	}
	got := Normalize(raw)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].DateKey != "2025-03-09" || got[0].CompanyID != "c1" || got[0].Hours != 4.5 {
		t.Fatalf("first record %+v", got[0])
	}
	if got[1].Hours != 3.5 || got[1].CompanyName != "Store B" || got[1].Note != "nota" {
		t.Fatalf("second record %+v", got[1])
	}
	if got[2].DateKey != "2025-03-11" || got[2].Hours != 2 {
		t.Fatalf("third record %+v", got[2])
	}
}

func TestNormalizeDropsUndatedRecords(t *testing.T) {
	raw := []RawRecord{
		{"hours": 4.0, "company": "Store A"},
		{"date": "not-a-date", "hours": 2.0},
		{"date": "2025-03-09", "hours": 1.0},
	}
	got := Normalize(raw)
	if len(got) != 1 || got[0].DateKey != "2025-03-09" {
		t.Fatalf("undated records must be dropped silently, got %+v", got)
	}
}
