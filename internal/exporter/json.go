package exporter

import (
	"encoding/json"
	"io"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// JSONWriter writes the report as indented JSON, the same shape the HTTP API
// returns.
type JSONWriter struct{}

// NewJSONWriter creates a JSON writer
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

// ContentType implements Writer
func (j *JSONWriter) ContentType() string { return "application/json" }

// Extension implements Writer
func (j *JSONWriter) Extension() string { return "json" }

// Write implements Writer
func (j *JSONWriter) Write(w io.Writer, report *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return apperrors.NewExportError("encode json", err)
	}
	return nil
}
