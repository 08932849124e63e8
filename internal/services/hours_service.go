// Package services wires the domain packages into the operations the HTTP
// layer exposes: month hour views, day saves, and report exports.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"horario/internal/aggregate"
	"horario/internal/cache"
	"horario/internal/calendar"
	"horario/internal/core"
	"horario/internal/platform"
)

// ErrStaleLoad signals that a month load finished after the user had already
// selected a different worker or month. The result must be discarded, never
// rendered over the newer selection.
var ErrStaleLoad = errors.New("month load superseded by a newer selection")

// MonthSummaries maps date keys to their hour summaries.
type MonthSummaries map[string]core.DayHoursSummary

// MonthView is everything a calendar render needs for one (worker, month).
type MonthView struct {
	WorkerID  string
	Year      int
	Month     time.Month
	Days      []core.DayDescriptor
	Summaries MonthSummaries
}

type monthTag struct {
	workerID string
	year     int
	month    time.Month
}

// HoursService loads and caches month hour summaries for workers.
//
// Loads can be slow and the selection can change while one is in flight, so
// every load is tagged with its (worker, month) and a generation counter;
// a result whose generation is no longer current is discarded with
// ErrStaleLoad instead of overwriting the newer selection.
type HoursService struct {
	directory platform.WorkerDirectory
	records   platform.RecordSource
	cache     cache.Cache[MonthSummaries]
	clock     calendar.Clock

	mu         sync.Mutex
	generation uint64
}

func NewHoursService(directory platform.WorkerDirectory, records platform.RecordSource, summaries cache.Cache[MonthSummaries], clock calendar.Clock) *HoursService {
	if clock == nil {
		clock = calendar.SystemClock()
	}
	return &HoursService{
		directory: directory,
		records:   records,
		cache:     summaries,
		clock:     clock,
	}
}

// Workers lists the workers visible to the client.
func (s *HoursService) Workers(ctx context.Context) ([]core.Worker, error) {
	workers, err := s.directory.FetchWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch workers: %w", err)
	}
	return workers, nil
}

// MonthView builds the 42-day grid for (year, month) and loads the worker's
// summaries for it. The grid never depends on the backend: on a fetch
// failure the returned view still carries the full grid with empty
// summaries, alongside the wrapped error, so callers can render the month
// and surface the failure. A load that loses the race to a newer selection
// returns ErrStaleLoad and a nil view.
func (s *HoursService) MonthView(ctx context.Context, workerID string, year int, month time.Month) (*MonthView, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	gen := s.beginLoad()
	view := &MonthView{
		WorkerID:  workerID,
		Year:      year,
		Month:     month,
		Days:      calendar.MonthGrid(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), s.clock),
		Summaries: MonthSummaries{},
	}

	cacheKey := summariesCacheKey(workerID, year, month)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			view.Summaries = cached
			return view, nil
		}
	}

	raw, err := s.records.FetchTimeRecords(ctx, workerID, year, int(month))
	if !s.stillCurrent(gen) {
		slog.DebugContext(ctx, "Discarding stale month load",
			"worker_id", workerID, "year", year, "month", int(month))
		return nil, ErrStaleLoad
	}
	if err != nil {
		slog.WarnContext(ctx, "Month load failed, rendering empty summaries",
			"worker_id", workerID, "year", year, "month", int(month), "error", err)
		return view, fmt.Errorf("fetch time records: %w", err)
	}

	view.Summaries = aggregate.SummarizeRaw(raw)
	if s.cache != nil {
		s.cache.Set(cacheKey, view.Summaries)
	}
	return view, nil
}

// Invalidate drops the cached summaries for (worker, month), forcing the
// next view to refetch. Called after a day save changes the month's data.
func (s *HoursService) Invalidate(workerID string, year int, month time.Month) {
	if s.cache != nil {
		s.cache.Delete(summariesCacheKey(workerID, year, month))
	}
}

// beginLoad makes this load the current one and returns its generation.
func (s *HoursService) beginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

func (s *HoursService) stillCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

func summariesCacheKey(workerID string, year int, month time.Month) string {
	return fmt.Sprintf("%s|%04d-%02d", workerID, year, int(month))
}
