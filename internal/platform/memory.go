package platform

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"horario/internal/aggregate"
	"horario/internal/core"
)

// MemorySource is an in-process backend used for local development and
// tests. It serves seeded fixtures and records pushed registrations.
type MemorySource struct {
	mu          sync.Mutex
	workers     []core.Worker
	records     map[string][]aggregate.RawRecord // workerID -> raw records
	assignments []core.Assignment
	rates       []Rate
	pushed      map[string][]core.RegistrationEntry // workerID|dateKey -> entries
	failWith    error
}

var _ Source = (*MemorySource)(nil)

func NewMemorySource() *MemorySource {
	return &MemorySource{
		records: make(map[string][]aggregate.RawRecord),
		pushed:  make(map[string][]core.RegistrationEntry),
	}
}

// SeedWorkers replaces the worker fixture.
func (m *MemorySource) SeedWorkers(workers []core.Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = append([]core.Worker(nil), workers...)
}

// SeedRecords replaces one worker's raw record fixture.
func (m *MemorySource) SeedRecords(workerID string, records []aggregate.RawRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[workerID] = append([]aggregate.RawRecord(nil), records...)
}

// SeedAssignments replaces the assignment and rate fixtures.
func (m *MemorySource) SeedAssignments(assignments []core.Assignment, rates []Rate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append([]core.Assignment(nil), assignments...)
	m.rates = append([]Rate(nil), rates...)
}

// FailWith makes every subsequent call return err; nil restores normal
// operation. Lets tests exercise collaborator failures.
func (m *MemorySource) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

func (m *MemorySource) FetchWorkers(ctx context.Context) ([]core.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]core.Worker(nil), m.workers...), nil
}

func (m *MemorySource) FetchTimeRecords(ctx context.Context, workerID string, year, month int) ([]aggregate.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var out []aggregate.RawRecord
	for _, rec := range m.records[workerID] {
		if rawMatchesMonth(rec, prefix) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MemorySource) PushDayRegistration(ctx context.Context, workerID, dateKey string, entries []core.RegistrationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.pushed[workerID+"|"+dateKey] = append([]core.RegistrationEntry(nil), entries...)
	return nil
}

// Pushed returns the entries last pushed for (workerID, dateKey).
func (m *MemorySource) Pushed(workerID, dateKey string) []core.RegistrationEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushed[workerID+"|"+dateKey]
}

func (m *MemorySource) FetchAssignments(ctx context.Context, startKey, endKey string) ([]core.Assignment, []Rate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, nil, m.failWith
	}
	return append([]core.Assignment(nil), m.assignments...), append([]Rate(nil), m.rates...), nil
}

// rawMatchesMonth keeps fixture filtering permissive: any recognized date
// field starting with the YYYY-MM- prefix matches.
func rawMatchesMonth(rec aggregate.RawRecord, prefix string) bool {
	for _, field := range []string{"date", "day", "fecha"} {
		if v, ok := rec[field].(string); ok && strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
