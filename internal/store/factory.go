package store

import (
	"fmt"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
)

// NewJobStore creates the job store variant selected by configuration.
// Callers depend only on the JobStore interface, so backends are
// interchangeable at wiring time.
func NewJobStore(cfg *config.Config, logger logging.Logger) (JobStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		ttl := cfg.Storage.TTL
		if ttl <= 0 {
			ttl = DefaultMemoryTTL
		}
		return NewMemoryJobStore(ttl), nil
	case "file":
		return NewFileJobStore(cfg.Storage.Dir, cfg.Storage.TTL, logger)
	case "redis":
		return NewRedisJobStore(cfg, cfg.Storage.TTL, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
