// Package store provides the job persistence abstraction with TTL-based
// expiry. All variants are idempotent full-record overwrites keyed by job
// id; expired entries are reported as absent and purged opportunistically.
package store

import (
	"context"
	"errors"
	"time"

	"scanmatch-utils/pkg/models"
)

// Default TTLs per backend. Ephemeral in-process tracking keeps jobs for an
// hour; durable variants keep them for a day. Both are overridable through
// storage.ttl configuration.
const (
	DefaultMemoryTTL  = 1 * time.Hour
	DefaultDurableTTL = 24 * time.Hour
)

// Common store errors
var (
	// ErrJobNotFound covers both true absence and TTL expiry; callers
	// cannot and should not distinguish the two.
	ErrJobNotFound = errors.New("job not found")

	// ErrStoreUnavailable indicates a storage-layer I/O failure
	ErrStoreUnavailable = errors.New("job store unavailable")

	// ErrCorruptRecord indicates a stored record that failed to decode.
	// Reads treat it as absence after logging.
	ErrCorruptRecord = errors.New("corrupt job record")
)

// JobStore defines the interface for persisting and retrieving jobs
type JobStore interface {
	// Save stores a job, overwriting any existing record with the same id
	Save(ctx context.Context, job *models.Job) error

	// FindByID retrieves a job by id. Unknown and expired ids return
	// ErrJobNotFound.
	FindByID(ctx context.Context, id string) (*models.Job, error)

	// Update replaces the stored record. Semantically identical to Save.
	Update(ctx context.Context, job *models.Job) error

	// Delete removes a job record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup purges expired records. Safe to call at any time.
	Cleanup(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
