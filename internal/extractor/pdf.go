package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"scanmatch-utils/internal/logging"
)

// PDFExtractor extracts plain text from PDF documents in memory
type PDFExtractor struct {
	logger logging.Logger
}

// NewPDFExtractor creates a new PDF text extractor
func NewPDFExtractor(logger logging.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

// ExtractText extracts the text content of a PDF held in memory
func (p *PDFExtractor) ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document")
	}

	if !IsPDF(data) {
		return "", errors.New("file is not a valid PDF format")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, textReader); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.New("no text content found in PDF")
	}

	p.logger.Debug("PDF text extracted", map[string]interface{}{
		"file_size":   len(data),
		"text_length": len(text),
		"pages":       reader.NumPage(),
	})

	return text, nil
}
