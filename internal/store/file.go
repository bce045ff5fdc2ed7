package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scanmatch-utils/internal/logging"
	"scanmatch-utils/pkg/models"
)

// FileJobStore implements JobStore with one JSON file per job under a
// storage directory. Expiry is determined by file modification time; every
// write fully rewrites the file.
type FileJobStore struct {
	dir    string
	ttl    time.Duration
	logger logging.Logger
}

// NewFileJobStore creates a file-backed job store rooted at dir. A
// non-positive ttl falls back to DefaultDurableTTL.
func NewFileJobStore(dir string, ttl time.Duration, logger logging.Logger) (*FileJobStore, error) {
	if ttl <= 0 {
		ttl = DefaultDurableTTL
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create storage directory: %v", ErrStoreUnavailable, err)
	}

	return &FileJobStore{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Save stores a job as a JSON file named by its id
func (s *FileJobStore) Save(ctx context.Context, job *models.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	if err := os.WriteFile(s.filePath(job.ID), data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write job %s: %v", ErrStoreUnavailable, job.ID, err)
	}

	return nil
}

// FindByID retrieves a job by id. Expired and corrupt records are purged
// and reported as absent.
func (s *FileJobStore) FindByID(ctx context.Context, id string) (*models.Job, error) {
	path := s.filePath(id)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: failed to stat job %s: %v", ErrStoreUnavailable, id, err)
	}

	if time.Since(info.ModTime()) > s.ttl {
		_ = os.Remove(path)
		return nil, ErrJobNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: failed to read job %s: %v", ErrStoreUnavailable, id, err)
	}

	var job models.Job
	if err := json.Unmarshal(data, &job); err != nil {
		s.logger.Error("Discarding corrupt job record", map[string]interface{}{
			"job_id": id,
			"path":   path,
			"error":  err.Error(),
		})
		_ = os.Remove(path)
		return nil, ErrJobNotFound
	}

	return &job, nil
}

// Update replaces the stored record. Same as Save for the file store.
func (s *FileJobStore) Update(ctx context.Context, job *models.Job) error {
	return s.Save(ctx, job)
}

// Delete removes a job file. A missing file is already deleted.
func (s *FileJobStore) Delete(ctx context.Context, id string) error {
	if err := os.Remove(s.filePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to delete job %s: %v", ErrStoreUnavailable, id, err)
	}
	return nil
}

// Cleanup removes all expired job files. Per-file failures are logged and
// never fatal.
func (s *FileJobStore) Cleanup(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("%w: failed to scan storage directory: %v", ErrStoreUnavailable, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > s.ttl {
			if err := os.Remove(path); err != nil {
				s.logger.Warn("Failed to remove expired job file", map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				})
			}
		}
	}

	return nil
}

// Close is a no-op for the file store
func (s *FileJobStore) Close() error {
	return nil
}

func (s *FileJobStore) filePath(id string) string {
	return filepath.Join(s.dir, id+".json")
}
