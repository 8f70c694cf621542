package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// Format names an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Writer encodes a report in one format.
type Writer interface {
	Write(w io.Writer, report *domain.Report) error
	ContentType() string
	Extension() string
}

// ParseFormat accepts a format name, case-insensitively. "txt" is an alias
// for text and "excel" for xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "":
		return FormatText, nil
	default:
		return "", apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", s))
	}
}

// New returns the writer for format.
func New(format Format) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(), nil
	case FormatXLSX:
		return NewXLSXWriter(), nil
	case FormatJSON:
		return NewJSONWriter(), nil
	case FormatText:
		return NewTextReporter(), nil
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
}

// Filename returns the download name for a report, e.g.
// meta-ads-report-realtime-2024-01-05.csv.
func Filename(report *domain.Report, w Writer) string {
	return fmt.Sprintf("meta-ads-report-%s.%s", report.View.String(), w.Extension())
}

// SaveFile writes report to path, creating parent directories as needed.
func SaveFile(path string, w Writer, report *domain.Report) error {
	slog.Info("writing report file",
		slog.String("file_path", path),
		slog.String("format", w.Extension()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewExportError("create directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportError("create file", err)
	}

	if err := w.Write(file, report); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return apperrors.NewExportError("close file", err)
	}
	return nil
}
