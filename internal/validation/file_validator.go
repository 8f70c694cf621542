// Package validation checks local paths the report tools read from and
// write to before any work starts.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"adpulse/internal/config"
	apperrors "adpulse/internal/errors"
	"adpulse/internal/infrastructure"
)

// FileValidator checks local export files and output locations
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateSource checks the local file of an xlsx or csv source. Sheets
// sources are not checked.
func (v *FileValidator) ValidateSource(cfg config.SourceConfig) error {
	switch cfg.Kind {
	case config.SourceXLSX:
		return v.ValidateExcelFile(cfg.FilePath)
	case config.SourceCSV:
		return v.ValidateCSVFile(cfg.FilePath)
	default:
		return nil
	}
}

// ValidateFile checks that path is an existing, readable, non-empty file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("source file does not exist", slog.String("file", path))
		return apperrors.NewSourceError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		return apperrors.NewSourceError(fmt.Sprintf("stat %s", path), err)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}
	if info.Size() == 0 {
		return apperrors.NewSourceError(fmt.Sprintf("file %s is empty", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewSourceError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("source file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is a workbook and not an Office lock
// file
func (v *FileValidator) ValidateExcelFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xlsm" {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is not an Excel workbook (extension %q)", path, ext))
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is a temporary Excel file", path))
	}
	return v.ValidateFile(path)
}

// ValidateCSVFile checks that path is a CSV file
func (v *FileValidator) ValidateCSVFile(path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is not a CSV file (extension %q)", path, ext))
	}
	return v.ValidateFile(path)
}

// ValidateOutputPath ensures the parent directory of path exists or can be
// created, and that path itself is not a directory.
func (v *FileValidator) ValidateOutputPath(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory", path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError(fmt.Sprintf("create output directory %s", dir), err)
	}
	return nil
}
