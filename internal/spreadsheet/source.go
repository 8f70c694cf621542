// Package spreadsheet reads the ads export from Google Sheets or local
// workbook files.
package spreadsheet

import (
	"context"
	"fmt"
	"log/slog"

	"adpulse/internal/config"
	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// Source supplies the raw worksheet a dataset is parsed from.
type Source interface {
	// Load reads the whole worksheet.
	Load(ctx context.Context) (domain.Table, error)
	// Name identifies the source in logs and dataset metadata.
	Name() string
}

// New builds the source selected by cfg.Kind.
func New(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Kind {
	case config.SourceSheets:
		return DialSheets(ctx, cfg, logger)
	case config.SourceXLSX:
		return NewExcelSource(cfg.FilePath, cfg.Worksheet, logger), nil
	case config.SourceCSV:
		return NewCSVSource(cfg.FilePath, logger), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown source kind %q", cfg.Kind), nil)
	}
}
