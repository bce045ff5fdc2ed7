package models

import (
	"time"
)

// AnalyzeAcceptedResponse is the immediate response returned by the submit
// endpoint while the analysis continues in the background
type AnalyzeAcceptedResponse struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message,omitempty"`
}

// JobStatusResponse is the polling projection of a job. Result is populated
// if and only if the job completed successfully.
type JobStatusResponse struct {
	JobID        string     `json:"job_id"`
	Status       JobStatus  `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Result       *Analysis  `json:"result,omitempty"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error payload returned by the API
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	JobID     string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateAnalyzeAcceptedResponse creates the accepted response for a new job
func CreateAnalyzeAcceptedResponse(job *Job) *AnalyzeAcceptedResponse {
	return &AnalyzeAcceptedResponse{
		JobID:     job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
		Message:   "Resume analysis accepted for background processing",
	}
}

// CreateJobStatusResponse projects a job into its polling view
func CreateJobStatusResponse(job *Job) *JobStatusResponse {
	resp := &JobStatusResponse{
		JobID:        job.ID,
		Status:       job.Status,
		CreatedAt:    job.CreatedAt,
		CompletedAt:  job.CompletedAt,
		ErrorMessage: job.ErrorMessage,
	}
	if job.IsCompleted() {
		resp.Result = job.Result
	}
	return resp
}

// CreateErrorResponse creates an error response payload
func CreateErrorResponse(errorCode, message string, jobID ...string) *ErrorResponse {
	response := &ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	}

	if len(jobID) > 0 && jobID[0] != "" {
		response.JobID = jobID[0]
	}

	return response
}
