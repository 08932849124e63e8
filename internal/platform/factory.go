package platform

import (
	"fmt"
	"log/slog"
	"time"
)

// BackendType selects the platform adapter.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	HTTPBackend   BackendType = "http"
)

func (bt BackendType) String() string { return string(bt) }

// IsValid returns true if the backend type is known.
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, HTTPBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type    BackendType
	BaseURL string
	Token   string
	Timeout time.Duration
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult pairs the built source with its optional cleanup.
type BackendResult struct {
	Source  Source
	Cleanup CleanupFunc
}

// NewBackend builds the platform source selected by config.
func NewBackend(config Config, logger *slog.Logger) (*BackendResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch config.Type {
	case HTTPBackend:
		client, err := NewHTTPClient(config.BaseURL, config.Token, config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("initialize platform http client: %w", err)
		}
		logger.Info("Initialized platform HTTP backend", "base_url", config.BaseURL)
		return &BackendResult{Source: client}, nil
	case MemoryBackend:
		logger.Info("Initialized platform memory backend")
		return &BackendResult{Source: NewMemorySource()}, nil
	default:
		return nil, fmt.Errorf("invalid platform backend type: %s", config.Type)
	}
}
