// Package platform is the boundary to the remote workforce data platform.
// The core treats it as a black box that may fail with a generic error.
package platform

import (
	"context"

	"horario/internal/aggregate"
	"horario/internal/core"
)

// Ports for the remote collaborator.
type (
	// WorkerDirectory lists the workers visible to the client.
	WorkerDirectory interface {
		FetchWorkers(ctx context.Context) ([]core.Worker, error)
	}

	// RecordSource returns a worker's raw time records for one month, in
	// the platform's loose wire shape. Normalization is the aggregator's
	// job, not the transport's.
	RecordSource interface {
		FetchTimeRecords(ctx context.Context, workerID string, year, month int) ([]aggregate.RawRecord, error)
	}

	// RegistrationSink receives a committed day of entries for a worker.
	RegistrationSink interface {
		PushDayRegistration(ctx context.Context, workerID, dateKey string, entries []core.RegistrationEntry) error
	}

	// AssignmentSource returns the assignments and rate table the export
	// compiler consumes for a date range.
	AssignmentSource interface {
		FetchAssignments(ctx context.Context, startKey, endKey string) ([]core.Assignment, []Rate, error)
	}
)

// Rate is one worker's hourly rate at one company. Pairs without a known
// rate are simply absent.
type Rate struct {
	WorkerID    string
	CompanyID   string
	CompanyName string
	HourlyRate  float64
}

// Source bundles every port a full backend provides.
type Source interface {
	WorkerDirectory
	RecordSource
	RegistrationSink
	AssignmentSource
}
