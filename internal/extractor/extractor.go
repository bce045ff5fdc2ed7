// Package extractor provides document text extraction for uploaded
// resumes. The orchestrator consumes only the TextExtractor interface.
package extractor

import (
	"bytes"
)

// TextExtractor defines the text extraction capability
type TextExtractor interface {
	// ExtractText extracts plain text from a document. It fails when no
	// extractable text is found.
	ExtractText(data []byte) (string, error)
}

var pdfSignature = []byte("%PDF")

// IsPDF checks the magic number of an uploaded document
func IsPDF(data []byte) bool {
	return len(data) >= len(pdfSignature) && bytes.HasPrefix(data, pdfSignature)
}
