package models

// AnalyzeRequest represents a resume analysis submission
type AnalyzeRequest struct {
	ResumeFile     []byte `validate:"required"`
	FileName       string
	JobDescription string `validate:"required"`
}

// MaxResumeFileSize is the upload size ceiling for resume documents (5MB)
const MaxResumeFileSize = 5 * 1024 * 1024
