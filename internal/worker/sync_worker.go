// Package worker pushes locally saved day registrations to the remote
// platform.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"horario/internal/amqp"
	"horario/internal/platform"
	"horario/internal/storage"
)

// SyncWorker drains pending registration rows from local storage into the
// platform sink.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sink      platform.RegistrationSink
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sink platform.RegistrationSink, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{storage: storage, sink: sink, batchSize: batchSize}
}

// HandleSyncMessage processes one sync message: read the day's current rows
// and push them. A version older than the stored rows means a newer save
// already happened; the message is acked as done since the newer message
// will carry the day anyway.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RegistrationSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"worker_id", msg.WorkerID,
		"date_key", msg.DateKey,
		"version", msg.Version)

	saved, err := w.storage.GetDayEntries(ctx, msg.WorkerID, msg.DateKey)
	if err != nil {
		return fmt.Errorf("get day entries: %w", err)
	}
	if len(saved) == 0 {
		slog.WarnContext(ctx, "No stored rows for sync message, skipping",
			"worker_id", msg.WorkerID,
			"date_key", msg.DateKey)
		return nil
	}
	if saved[0].Version > msg.Version {
		slog.InfoContext(ctx, "Stale sync message superseded by newer save",
			"worker_id", msg.WorkerID,
			"date_key", msg.DateKey,
			"message_version", msg.Version,
			"stored_version", saved[0].Version)
		return nil
	}

	return w.pushDay(ctx, msg.WorkerID, msg.DateKey, saved)
}

// StartupSyncCheck pushes any pending days whose messages were missed, e.g.
// after a crash between commit and publish. A failed push is logged and the
// remaining days still get their turn; failed rows stay queued for the next
// pass.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	for {
		pending, err := w.storage.ListPendingDays(ctx, w.batchSize)
		if err != nil {
			return fmt.Errorf("list pending days: %w", err)
		}
		if len(pending) == 0 {
			return nil
		}
		failed := 0
		for _, p := range pending {
			saved, err := w.storage.GetDayEntries(ctx, p.WorkerID, p.DateKey)
			if err != nil {
				return fmt.Errorf("get day entries: %w", err)
			}
			if err := w.pushDay(ctx, p.WorkerID, p.DateKey, saved); err != nil {
				failed++
				slog.ErrorContext(ctx, "Startup sync push failed",
					"worker_id", p.WorkerID,
					"date_key", p.DateKey,
					"error", err)
			}
		}
		// Failed rows would reappear in the next batch; stop after one
		// attempt each and leave the retry to the next pass.
		if failed > 0 || len(pending) < w.batchSize {
			return nil
		}
	}
}

func (w *SyncWorker) pushDay(ctx context.Context, workerID, dateKey string, saved []storage.SavedEntry) error {
	entries := storage.RegistrationEntries(saved)
	if err := w.sink.PushDayRegistration(ctx, workerID, dateKey, entries); err != nil {
		if markErr := w.storage.MarkDaySynced(ctx, workerID, dateKey, storage.SyncFailed); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark day as failed", "error", markErr)
		}
		return fmt.Errorf("push day registration: %w", err)
	}
	if err := w.storage.MarkDaySynced(ctx, workerID, dateKey, storage.SyncDone); err != nil {
		return fmt.Errorf("mark day synced: %w", err)
	}
	slog.InfoContext(ctx, "Day registration synced",
		"worker_id", workerID,
		"date_key", dateKey,
		"entries", len(saved))
	return nil
}
