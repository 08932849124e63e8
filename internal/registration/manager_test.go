package registration

import (
	"errors"
	"testing"

	"horario/internal/core"
)

func strptr(s string) *string { return &s }

func TestAddEntryDefaults(t *testing.T) {
	m := NewManager()
	e := m.AddEntry("2025-03-09", "")
	if e.Company != core.NoCompanyLabel {
		t.Fatalf("no known companies: got %q, want sentinel", e.Company)
	}

	m.SetCompanies([]string{"Store A", "Store B"})
	e = m.AddEntry("2025-03-09", "")
	if e.Company != "Store A" {
		t.Fatalf("got %q, want first known company", e.Company)
	}
	e = m.AddEntry("2025-03-09", "Store B")
	if e.Company != "Store B" {
		t.Fatalf("got %q", e.Company)
	}
	if e.ID == "" {
		t.Fatalf("entry must get an id")
	}
}

func TestAddEntryAllowsDuplicateShifts(t *testing.T) {
	m := NewManager()
	m.AddEntry("2025-03-09", "Store A")
	m.AddEntry("2025-03-09", "Store A")
	if got := len(m.DayEntries("2025-03-09")["Store A"]); got != 2 {
		t.Fatalf("got %d entries, want 2 separate shifts", got)
	}
}

func TestUpdateEntryHoursClearsRange(t *testing.T) {
	m := NewManager()
	e := m.AddEntry("2025-03-09", "Store A")
	if _, err := m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{
		StartTime: strptr("09:00"), EndTime: strptr("17:00"),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{Hours: strptr("6,5")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Hours != "6,5" || got.StartTime != "" || got.EndTime != "" {
		t.Fatalf("manual hours must clear the range: %+v", got)
	}
}

func TestUpdateEntryRangeRecomputesHours(t *testing.T) {
	m := NewManager()
	e := m.AddEntry("2025-03-09", "Store A")

	got, _ := m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{StartTime: strptr("09:00")})
	if got.Hours != "" {
		t.Fatalf("incomplete range must not set hours: %+v", got)
	}

	got, _ = m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{EndTime: strptr("13:15")})
	if got.Hours != "4.25" {
		t.Fatalf("got hours %q, want 4.25", got.Hours)
	}

	// End before start clears hours rather than going negative.
	got, _ = m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{EndTime: strptr("08:00")})
	if got.Hours != "" {
		t.Fatalf("inverted range must clear hours, got %q", got.Hours)
	}
}

func TestUpdateEntryCompanyMove(t *testing.T) {
	m := NewManager()
	e := m.AddEntry("2025-03-09", "Store A")

	got, err := m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{Company: strptr("Store B")})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got.Company != "Store B" {
		t.Fatalf("entry company %q", got.Company)
	}

	day := m.DayEntries("2025-03-09")
	if _, ok := day["Store A"]; ok {
		t.Fatalf("source company key must disappear when emptied")
	}
	if entries := day["Store B"]; len(entries) != 1 || entries[0].ID != e.ID {
		t.Fatalf("entry not moved: %+v", day)
	}
}

func TestUpdateEntryUnknownTargets(t *testing.T) {
	m := NewManager()
	e := m.AddEntry("2025-03-09", "Store A")
	if _, err := m.UpdateEntry("2025-03-10", "Store A", e.ID, Patch{}); err == nil {
		t.Fatalf("expected error for unknown day")
	}
	if _, err := m.UpdateEntry("2025-03-09", "Store B", e.ID, Patch{}); err == nil {
		t.Fatalf("expected error for unknown company")
	}
	if _, err := m.UpdateEntry("2025-03-09", "Store A", "nope", Patch{}); err == nil {
		t.Fatalf("expected error for unknown entry")
	}
}

func TestRemoveEntryPrunesEmptyKeys(t *testing.T) {
	m := NewManager()
	a := m.AddEntry("2025-03-09", "Store A")
	b := m.AddEntry("2025-03-09", "Store B")

	if err := m.RemoveEntry("2025-03-09", "Store A", a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	day := m.DayEntries("2025-03-09")
	if _, ok := day["Store A"]; ok {
		t.Fatalf("emptied company key must be deleted")
	}

	if err := m.RemoveEntry("2025-03-09", "Store B", b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if m.DayEntries("2025-03-09") != nil {
		t.Fatalf("emptied day key must be deleted")
	}
}

func TestDayTotal(t *testing.T) {
	m := NewManager()
	a := m.AddEntry("2025-03-09", "Store A")
	b := m.AddEntry("2025-03-09", "Store B")
	m.UpdateEntry("2025-03-09", "Store A", a.ID, Patch{Hours: strptr("4,5")})
	m.UpdateEntry("2025-03-09", "Store B", b.ID, Patch{StartTime: strptr("09:00"), EndTime: strptr("12:15")})

	if got := m.DayTotal("2025-03-09"); got != 7.75 {
		t.Fatalf("got %v, want 7.75", got)
	}
}

func TestValidateDay(t *testing.T) {
	m := NewManager()
	a := m.AddEntry("2025-03-09", "Store A")
	m.AddEntry("2025-03-09", "Store A") // stays blank
	m.UpdateEntry("2025-03-09", "Store A", a.ID, Patch{Hours: strptr("4")})

	err := m.ValidateDay("2025-03-09")
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %T", err)
	}
	if len(verr.Entries) != 1 {
		t.Fatalf("got %d entry errors, want 1", len(verr.Entries))
	}

	// Fix the blank entry and the day validates.
	for _, e := range m.DayEntries("2025-03-09")["Store A"] {
		if core.EntryHours(e) == 0 {
			m.UpdateEntry("2025-03-09", "Store A", e.ID, Patch{Hours: strptr("2")})
		}
	}
	if err := m.ValidateDay("2025-03-09"); err != nil {
		t.Fatalf("expected valid day, got %v", err)
	}
}

func TestValidateEntriesMatchesValidateDay(t *testing.T) {
	entries := []core.RegistrationEntry{
		{ID: "e1", Company: "Store A", Hours: "4"},
		{ID: "e2", Company: "Store A"},
		{ID: "e3", Company: "Store B", StartTime: "09:00", EndTime: "08:00"},
	}

	err := ValidateEntries("2025-03-09", entries)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %T", err)
	}
	if len(verr.Entries) != 2 {
		t.Fatalf("got %d entry errors, want 2", len(verr.Entries))
	}
	for _, bad := range verr.Entries {
		if bad.Message != "derived hours must be positive" {
			t.Fatalf("unexpected message %q", bad.Message)
		}
	}

	// The manager's per-day check delegates to the same rule, so identical
	// drafts fail identically.
	m := NewManager()
	for _, e := range entries {
		added := m.AddEntry("2025-03-09", e.Company)
		var patch Patch
		if e.Hours != "" {
			patch.Hours = strptr(e.Hours)
		}
		if e.StartTime != "" || e.EndTime != "" {
			patch.StartTime = strptr(e.StartTime)
			patch.EndTime = strptr(e.EndTime)
		}
		if _, err := m.UpdateEntry("2025-03-09", e.Company, added.ID, patch); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	var dayErr *ValidationError
	if !errors.As(m.ValidateDay("2025-03-09"), &dayErr) {
		t.Fatalf("manager must fail the same drafts")
	}
	if len(dayErr.Entries) != len(verr.Entries) {
		t.Fatalf("manager reported %d errors, direct check %d", len(dayErr.Entries), len(verr.Entries))
	}

	if err := ValidateEntries("2025-03-09", []core.RegistrationEntry{{ID: "e1", Hours: "2,5"}}); err != nil {
		t.Fatalf("expected valid entries, got %v", err)
	}
}

func TestAbandonDay(t *testing.T) {
	m := NewManager()
	m.AddEntry("2025-03-09", "Store A")
	m.AbandonDay("2025-03-09")
	if m.DayEntries("2025-03-09") != nil {
		t.Fatalf("abandoned day must hold no drafts")
	}
}
