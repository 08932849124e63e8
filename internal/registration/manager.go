// Package registration manages the per-day draft time entries a user edits
// before committing a day. Drafts live in memory only; persistence is the
// registration service's job.
package registration

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"horario/internal/core"
)

// Patch is a partial update for one draft entry. Nil fields are left alone.
type Patch struct {
	Company     *string
	StartTime   *string
	EndTime     *string
	Hours       *string
	Description *string
}

// EntryError describes why one entry failed day validation.
type EntryError struct {
	Company string
	EntryID string
	Message string
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %s (%s): %s", e.EntryID, e.Company, e.Message)
}

// ValidationError aggregates per-entry failures for a day. The caller must
// surface every item and commit nothing.
type ValidationError struct {
	DateKey string
	Entries []EntryError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("day %s has %d invalid entries", e.DateKey, len(e.Entries))
}

// Manager holds draft entries per day, per company display name. Empty
// company lists and empty day maps are deleted eagerly; an empty key is an
// invariant violation, not a state to detect later.
type Manager struct {
	days      map[string]map[string][]core.RegistrationEntry
	companies []string // known companies for the selected worker, first is the add default
}

func NewManager() *Manager {
	return &Manager{days: make(map[string]map[string][]core.RegistrationEntry)}
}

// SetCompanies replaces the known-company list used to default new entries.
func (m *Manager) SetCompanies(names []string) {
	m.companies = m.companies[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			m.companies = append(m.companies, n)
		}
	}
}

// AddEntry appends a blank draft for company on dateKey and returns it.
// An empty company defaults to the first known company, else the no-company
// sentinel. Always succeeds; duplicate entries per company represent
// separate shifts and are never merged.
func (m *Manager) AddEntry(dateKey, company string) core.RegistrationEntry {
	company = m.defaultCompany(company)
	entry := core.RegistrationEntry{ID: newEntryID(), Company: company}

	day, ok := m.days[dateKey]
	if !ok {
		day = make(map[string][]core.RegistrationEntry)
		m.days[dateKey] = day
	}
	day[company] = append(day[company], entry)
	return entry
}

// UpdateEntry applies patch to one entry.
//
// Contract:
//   - patch.Hours set: start/end are cleared (manual hours win).
//   - patch.StartTime or EndTime set: when both ends are populated, hours is
//     recomputed as the positive range in 2-decimal fractional hours, else
//     hours is cleared.
//   - patch.Company set: the entry moves from the source company's list to
//     the destination's, creating the destination and dropping the source
//     key if it empties. A structural move, not a copy.
func (m *Manager) UpdateEntry(dateKey, company, entryID string, patch Patch) (core.RegistrationEntry, error) {
	day, ok := m.days[dateKey]
	if !ok {
		return core.RegistrationEntry{}, fmt.Errorf("no entries for day %s", dateKey)
	}
	entries, ok := day[company]
	if !ok {
		return core.RegistrationEntry{}, fmt.Errorf("no entries for company %q on %s", company, dateKey)
	}
	idx := -1
	for i, e := range entries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return core.RegistrationEntry{}, fmt.Errorf("entry %s not found for company %q", entryID, company)
	}

	entry := entries[idx]
	if patch.Description != nil {
		entry.Description = *patch.Description
	}
	if patch.Hours != nil {
		entry.Hours = strings.TrimSpace(*patch.Hours)
		entry.StartTime = ""
		entry.EndTime = ""
	}
	if patch.StartTime != nil || patch.EndTime != nil {
		if patch.StartTime != nil {
			entry.StartTime = strings.TrimSpace(*patch.StartTime)
		}
		if patch.EndTime != nil {
			entry.EndTime = strings.TrimSpace(*patch.EndTime)
		}
		if v, ok := core.RangeHours(entry.StartTime, entry.EndTime); ok {
			entry.Hours = formatHours(v)
		} else {
			entry.Hours = ""
		}
	}

	dest := company
	if patch.Company != nil {
		dest = m.defaultCompany(*patch.Company)
		entry.Company = dest
	}

	if dest != company {
		entries = append(entries[:idx], entries[idx+1:]...)
		if len(entries) == 0 {
			delete(day, company)
		} else {
			day[company] = entries
		}
		day[dest] = append(day[dest], entry)
	} else {
		entries[idx] = entry
	}
	return entry, nil
}

// RemoveEntry deletes one entry, dropping the company key when its list
// empties and the day key when the whole day empties.
func (m *Manager) RemoveEntry(dateKey, company, entryID string) error {
	day, ok := m.days[dateKey]
	if !ok {
		return fmt.Errorf("no entries for day %s", dateKey)
	}
	entries, ok := day[company]
	if !ok {
		return fmt.Errorf("no entries for company %q on %s", company, dateKey)
	}
	for i, e := range entries {
		if e.ID != entryID {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		if len(entries) == 0 {
			delete(day, company)
		} else {
			day[company] = entries
		}
		if len(day) == 0 {
			delete(m.days, dateKey)
		}
		return nil
	}
	return fmt.Errorf("entry %s not found for company %q", entryID, company)
}

// DayEntries returns all drafts for a day grouped by company display name.
func (m *Manager) DayEntries(dateKey string) map[string][]core.RegistrationEntry {
	day, ok := m.days[dateKey]
	if !ok {
		return nil
	}
	out := make(map[string][]core.RegistrationEntry, len(day))
	for company, entries := range day {
		out[company] = append([]core.RegistrationEntry(nil), entries...)
	}
	return out
}

// FlatDayEntries returns the day's drafts as a single list.
func (m *Manager) FlatDayEntries(dateKey string) []core.RegistrationEntry {
	var out []core.RegistrationEntry
	for _, entries := range m.days[dateKey] {
		out = append(out, entries...)
	}
	return out
}

// DayTotal is the running total of derived hours shown before any save.
func (m *Manager) DayTotal(dateKey string) float64 {
	var total float64
	for _, entries := range m.days[dateKey] {
		for _, e := range entries {
			total += core.EntryHours(e)
		}
	}
	return core.Round2(total)
}

// AbandonDay drops every draft for a day, as when the user navigates away
// without saving.
func (m *Manager) AbandonDay(dateKey string) {
	delete(m.days, dateKey)
}

// ValidateDay checks every draft of a day before commit, applying the same
// rule the commit path enforces via ValidateEntries.
func (m *Manager) ValidateDay(dateKey string) error {
	return ValidateEntries(dateKey, m.FlatDayEntries(dateKey))
}

// ValidateEntries is the single day-validation rule: every entry must derive
// positive hours. Any failing entry is reported; the result lists them all so
// the caller can surface them together and commit nothing.
func ValidateEntries(dateKey string, entries []core.RegistrationEntry) error {
	var bad []EntryError
	for _, e := range entries {
		if core.EntryHours(e) <= 0 {
			bad = append(bad, EntryError{
				Company: e.Company,
				EntryID: e.ID,
				Message: "derived hours must be positive",
			})
		}
	}
	if len(bad) > 0 {
		return &ValidationError{DateKey: dateKey, Entries: bad}
	}
	return nil
}

func (m *Manager) defaultCompany(company string) string {
	company = strings.TrimSpace(company)
	if company != "" {
		return company
	}
	if len(m.companies) > 0 {
		return m.companies[0]
	}
	return core.NoCompanyLabel
}

func formatHours(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func newEntryID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("entry-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
