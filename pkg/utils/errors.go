package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewJobNotFoundError returns an error for unknown or expired job ids
func NewJobNotFoundError(jobID string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: "Job not found",
		Detail:  jobID,
	}
}

// NewAnalysisError returns an error when the analysis engine exhausts retries
func NewAnalysisError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Resume analysis failed",
		Detail:  detail,
	}
}

// NewStorageError returns an error for job store I/O failures
func NewStorageError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusServiceUnavailable,
		Message: "Job storage unavailable",
		Detail:  detail,
	}
}

// NewExtractionError returns an error when no text could be extracted from
// the uploaded document
func NewExtractionError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Text extraction failed",
		Detail:  detail,
	}
}
