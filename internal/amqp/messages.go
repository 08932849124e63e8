package amqp

import (
	"encoding/json"
	"time"
)

// RegistrationSyncMessage asks the worker to push one saved day to the
// remote platform. It carries only identity and version; the worker reads
// the full rows from the local database.
type RegistrationSyncMessage struct {
	WorkerID  string    `json:"workerId"`
	DateKey   string    `json:"dateKey"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRegistrationSyncMessage creates a sync message for one saved day.
func NewRegistrationSyncMessage(workerID, dateKey string, version int64) *RegistrationSyncMessage {
	return &RegistrationSyncMessage{
		WorkerID:  workerID,
		DateKey:   dateKey,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RegistrationSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RegistrationSyncMessageFromJSON parses a message from JSON bytes.
func RegistrationSyncMessageFromJSON(data []byte) (*RegistrationSyncMessage, error) {
	var msg RegistrationSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
