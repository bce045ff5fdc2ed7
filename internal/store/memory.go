package store

import (
	"context"
	"sync"
	"time"

	"scanmatch-utils/pkg/models"
)

// MemoryJobStore implements JobStore using process-local storage. Jobs are
// lost on restart, which is acceptable for ephemeral job tracking.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
	ttl  time.Duration
}

// NewMemoryJobStore creates a new in-memory job store. A non-positive ttl
// falls back to DefaultMemoryTTL.
func NewMemoryJobStore(ttl time.Duration) *MemoryJobStore {
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}
	return &MemoryJobStore{
		jobs: make(map[string]*models.Job),
		ttl:  ttl,
	}
}

// Save stores a job and sweeps expired entries
func (s *MemoryJobStore) Save(ctx context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *job
	s.jobs[job.ID] = &copied
	s.sweepLocked(time.Now())
	return nil
}

// FindByID retrieves a job by id, purging it if expired
func (s *MemoryJobStore) FindByID(ctx context.Context, id string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return nil, ErrJobNotFound
	}

	if job.Age(time.Now()) > s.ttl {
		delete(s.jobs, id)
		return nil, ErrJobNotFound
	}

	copied := *job
	return &copied, nil
}

// Update replaces the stored record
func (s *MemoryJobStore) Update(ctx context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

// Delete removes a job record
func (s *MemoryJobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	return nil
}

// Cleanup purges all expired entries
func (s *MemoryJobStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(time.Now())
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryJobStore) Close() error {
	return nil
}

// Len returns the number of live records (for monitoring)
func (s *MemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *MemoryJobStore) sweepLocked(now time.Time) {
	for id, job := range s.jobs {
		if job.Age(now) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
