package services

import (
	"context"
	"fmt"
	"log/slog"

	"horario/internal/core"
	"horario/internal/registration"
	"horario/internal/storage"
)

// SyncPublisher emits a sync message for one committed day. The AMQP client
// implements it; a nil publisher means the worker relies on its startup
// catch-up pass alone.
type SyncPublisher interface {
	PublishRegistrationSync(ctx context.Context, workerID, dateKey string, version int64) error
}

// RegistrationService commits day registrations: validate everything, write
// the day wholesale, then notify the sync worker. A failed publish never
// rolls back the commit; the startup catch-up pass covers missed messages.
type RegistrationService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
	hours     *HoursService
}

func NewRegistrationService(storage *storage.SQLiteRepository, publisher SyncPublisher, hours *HoursService) *RegistrationService {
	return &RegistrationService{storage: storage, publisher: publisher, hours: hours}
}

// SaveDay validates and commits all of a worker's entries for one day,
// replacing whatever was stored before. Validation failures report every
// bad entry at once and commit nothing. Returns the day's new version.
func (s *RegistrationService) SaveDay(ctx context.Context, workerID, dateKey string, entries []core.RegistrationEntry) (int64, error) {
	if workerID == "" {
		return 0, core.ErrEmptyWorkerID
	}
	day, err := core.ParseDateKey(dateKey)
	if err != nil {
		return 0, err
	}
	if err := registration.ValidateEntries(dateKey, entries); err != nil {
		return 0, err
	}

	version, err := s.storage.ReplaceDayEntries(ctx, workerID, dateKey, entries)
	if err != nil {
		return 0, fmt.Errorf("save day %s: %w", dateKey, err)
	}
	slog.InfoContext(ctx, "Day registration saved",
		"worker_id", workerID,
		"date_key", dateKey,
		"entries", len(entries),
		"version", version)

	if s.hours != nil {
		s.hours.Invalidate(workerID, day.Year(), day.Month())
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRegistrationSync(ctx, workerID, dateKey, version); err != nil {
			// The commit stands; the worker's startup check picks this up.
			slog.WarnContext(ctx, "Failed to publish sync message, day stays pending",
				"worker_id", workerID,
				"date_key", dateKey,
				"error", err)
		}
	}
	return version, nil
}

// DayEntries returns the worker's stored entries for one day.
func (s *RegistrationService) DayEntries(ctx context.Context, workerID, dateKey string) ([]core.RegistrationEntry, error) {
	if _, err := core.ParseDateKey(dateKey); err != nil {
		return nil, err
	}
	saved, err := s.storage.GetDayEntries(ctx, workerID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", dateKey, err)
	}
	return storage.RegistrationEntries(saved), nil
}
