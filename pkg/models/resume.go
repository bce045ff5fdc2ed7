package models

import (
	"strings"
	"time"
)

// Minimum content lengths for analysis inputs
const (
	MinResumeContentLength         = 100
	MinJobDescriptionContentLength = 50
)

// Resume wraps the text extracted from an uploaded resume document.
// Constructed fresh per request and not persisted beyond it.
type Resume struct {
	ID         string
	Content    string
	FileName   string
	UploadedAt time.Time
}

// NewResume creates a Resume value object from extracted text
func NewResume(id, content, fileName string, uploadedAt time.Time) *Resume {
	if fileName == "" {
		fileName = "resume.pdf"
	}
	return &Resume{
		ID:         id,
		Content:    content,
		FileName:   fileName,
		UploadedAt: uploadedAt,
	}
}

// IsEmpty checks if the resume has no meaningful content
func (r *Resume) IsEmpty() bool {
	return strings.TrimSpace(r.Content) == ""
}

// HasValidContent checks the minimum content requirement
func (r *Resume) HasValidContent() bool {
	return len(r.Content) >= MinResumeContentLength
}

// JobDescription wraps the submitted job description text
type JobDescription struct {
	Content  string
	JobTitle string
}

// NewJobDescription creates a JobDescription value object
func NewJobDescription(content string) *JobDescription {
	return &JobDescription{Content: content}
}

// IsEmpty checks if the job description has no meaningful content
func (d *JobDescription) IsEmpty() bool {
	return strings.TrimSpace(d.Content) == ""
}

// HasValidContent checks the minimum content requirement
func (d *JobDescription) HasValidContent() bool {
	return len(d.Content) >= MinJobDescriptionContentLength
}
