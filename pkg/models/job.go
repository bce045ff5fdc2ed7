package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of an analysis job
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// Common job errors
var (
	ErrInvalidTransition = errors.New("invalid job state transition")
	ErrInvalidJobID      = errors.New("invalid job id format")
)

// ValidateJobID checks that the given text is a well-formed UUID job id
func ValidateJobID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidJobID, id)
	}
	return nil
}

// Job represents one resume-vs-job-description evaluation request and its
// lifecycle state. Jobs start in PROCESSING and make exactly one transition
// to COMPLETED or ERROR; terminal states are immutable.
type Job struct {
	ID           string     `json:"id"`
	Status       JobStatus  `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	Result       *Analysis  `json:"result,omitempty"`
}

// NewJob creates a new Job in the processing state with a fresh id
func NewJob(now time.Time) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusProcessing,
		CreatedAt: now.UTC(),
	}
}

// NewJobWithID creates a new Job in the processing state with the given id
func NewJobWithID(id string, now time.Time) (*Job, error) {
	if err := ValidateJobID(id); err != nil {
		return nil, err
	}
	return &Job{
		ID:        id,
		Status:    JobStatusProcessing,
		CreatedAt: now.UTC(),
	}, nil
}

// MarkCompleted transitions the job to the completed state with its result.
// Only legal from the processing state.
func (j *Job) MarkCompleted(result *Analysis) error {
	if j.Status != JobStatusProcessing {
		return fmt.Errorf("%w: cannot complete job in state %q", ErrInvalidTransition, j.Status)
	}
	if result == nil {
		return fmt.Errorf("%w: completed job requires a result", ErrInvalidTransition)
	}

	now := time.Now().UTC()
	if now.Before(j.CreatedAt) {
		now = j.CreatedAt
	}

	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.Result = result
	j.ErrorMessage = ""
	return nil
}

// MarkError transitions the job to the error state with a human-readable
// message. Only legal from the processing state.
func (j *Job) MarkError(message string) error {
	if j.Status != JobStatusProcessing {
		return fmt.Errorf("%w: cannot fail job in state %q", ErrInvalidTransition, j.Status)
	}

	j.Status = JobStatusError
	j.ErrorMessage = message
	j.Result = nil
	return nil
}

// IsCompleted checks if the job finished successfully
func (j *Job) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// HasError checks if the job failed
func (j *Job) HasError() bool {
	return j.Status == JobStatusError
}

// IsTerminal checks if the job reached a final state
func (j *Job) IsTerminal() bool {
	return j.IsCompleted() || j.HasError()
}

// Age returns how long ago the job was created
func (j *Job) Age(now time.Time) time.Duration {
	return now.Sub(j.CreatedAt)
}
