package exporter

import (
	"encoding/csv"
	"io"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes every report section into one CSV document. Each section
// starts with a title row and its header row; sections are separated by an
// empty line.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so Excel detects the encoding
	BOMPrefix bool
}

// NewCSVWriter creates a CSV writer with the BOM enabled
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true}
}

// ContentType implements Writer
func (c *CSVWriter) ContentType() string { return "text/csv; charset=utf-8" }

// Extension implements Writer
func (c *CSVWriter) Extension() string { return "csv" }

// Write implements Writer
func (c *CSVWriter) Write(w io.Writer, report *domain.Report) error {
	if c.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return apperrors.NewExportError("write BOM", err)
		}
	}

	writer := csv.NewWriter(w)
	for i, section := range Sections(report) {
		if i > 0 {
			if err := writer.Write([]string{}); err != nil {
				return apperrors.NewExportError("write separator", err)
			}
		}
		if err := writer.Write([]string{section.Title}); err != nil {
			return apperrors.NewExportError("write section title", err)
		}
		if err := writer.Write(section.Headers); err != nil {
			return apperrors.NewExportError("write headers", err)
		}
		for _, row := range section.Rows {
			record := make([]string, len(row))
			for j, cell := range row {
				record[j] = cellString(cell)
			}
			if err := writer.Write(record); err != nil {
				return apperrors.NewExportError("write record", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewExportError("flush csv", err)
	}
	return nil
}
