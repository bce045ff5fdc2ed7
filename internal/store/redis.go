package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
	"scanmatch-utils/pkg/models"
)

// RedisJobStore implements JobStore backed by a Redis key per job. The TTL
// is set server-side at write time, so key absence is the sole expiry
// signal on read.
type RedisJobStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisJobStore creates a Redis-backed job store from configuration. A
// non-positive ttl falls back to DefaultDurableTTL.
func NewRedisJobStore(cfg *config.Config, ttl time.Duration, logger logging.Logger) (*RedisJobStore, error) {
	if ttl <= 0 {
		ttl = DefaultDurableTTL
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &RedisJobStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Ping tests the Redis connection
func (s *RedisJobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Save stores a job under its key with the configured expiration
func (s *RedisJobStore) Save(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	if err := s.client.Set(ctx, s.jobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to write job %s: %v", ErrStoreUnavailable, job.ID, err)
	}

	return nil
}

// FindByID retrieves a job by id. Corrupt values are purged and reported
// as absent.
func (s *RedisJobStore) FindByID(ctx context.Context, id string) (*models.Job, error) {
	data, err := s.client.Get(ctx, s.jobKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: failed to read job %s: %v", ErrStoreUnavailable, id, err)
	}

	var job models.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		s.logger.Error("Discarding corrupt job record", map[string]interface{}{
			"job_id": id,
			"error":  err.Error(),
		})
		_ = s.client.Del(ctx, s.jobKey(id)).Err()
		return nil, ErrJobNotFound
	}

	return &job, nil
}

// Update replaces the stored record. Same as Save for Redis.
func (s *RedisJobStore) Update(ctx context.Context, job *models.Job) error {
	return s.Save(ctx, job)
}

// Delete removes a job key
func (s *RedisJobStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.jobKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete job %s: %v", ErrStoreUnavailable, id, err)
	}
	return nil
}

// Cleanup is a no-op: Redis enforces the TTL server-side
func (s *RedisJobStore) Cleanup(ctx context.Context) error {
	return nil
}

// Close closes the Redis connection
func (s *RedisJobStore) Close() error {
	return s.client.Close()
}

func (s *RedisJobStore) jobKey(id string) string {
	return "job:" + id
}
