package spreadsheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"adpulse/internal/config"
	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SheetsOptions identifies the worksheet to read. SpreadsheetID wins over
// SpreadsheetName; a name is resolved through Drive on first use.
type SheetsOptions struct {
	SpreadsheetID   string
	SpreadsheetName string
	Worksheet       string
	Timeout         time.Duration
}

// SheetsSource reads a worksheet through the Sheets v4 values API.
type SheetsSource struct {
	sheets *sheets.Service
	drive  *drive.Service
	opts   SheetsOptions
	logger *slog.Logger

	mu         sync.Mutex
	resolvedID string
}

// DialSheets creates the Sheets and Drive clients from the configured
// service-account credentials. Inline JSON wins over a credentials file;
// with neither the application default credentials are used.
func DialSheets(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (*SheetsSource, error) {
	clientOpts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope, drive.DriveMetadataReadonlyScope),
	}
	switch {
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	sheetsSvc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create sheets service", err)
	}

	var driveSvc *drive.Service
	if cfg.SpreadsheetID == "" {
		driveSvc, err = drive.NewService(ctx, clientOpts...)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to create drive service", err)
		}
	}

	return NewSheetsSource(sheetsSvc, driveSvc, SheetsOptions{
		SpreadsheetID:   cfg.SpreadsheetID,
		SpreadsheetName: cfg.SpreadsheetName,
		Worksheet:       cfg.Worksheet,
		Timeout:         cfg.Timeout,
	}, logger), nil
}

// NewSheetsSource wraps existing clients. driveSvc may be nil when
// opts.SpreadsheetID is set.
func NewSheetsSource(sheetsSvc *sheets.Service, driveSvc *drive.Service, opts SheetsOptions, logger *slog.Logger) *SheetsSource {
	if opts.Worksheet == "" {
		opts.Worksheet = config.DefaultWorksheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsSource{
		sheets:     sheetsSvc,
		drive:      driveSvc,
		opts:       opts,
		logger:     logger.With(slog.String("component", "sheets_source")),
		resolvedID: opts.SpreadsheetID,
	}
}

// Name implements Source
func (s *SheetsSource) Name() string {
	return "sheets:" + s.opts.Worksheet
}

// Load implements Source
func (s *SheetsSource) Load(ctx context.Context) (domain.Table, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	id, err := s.spreadsheetID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.sheets.Spreadsheets.Values.Get(id, s.opts.Worksheet).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperrors.NewSourceError(fmt.Sprintf("failed to read worksheet %s", s.opts.Worksheet), err).
			WithContext("spreadsheet_id", id)
	}

	s.logger.DebugContext(ctx, "worksheet fetched",
		slog.String("spreadsheet_id", id),
		slog.String("range", resp.Range),
		slog.Int("rows", len(resp.Values)))

	return domain.Table(resp.Values), nil
}

// spreadsheetID returns the configured ID or looks the spreadsheet up by
// name. A successful lookup is remembered.
func (s *SheetsSource) spreadsheetID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolvedID != "" {
		return s.resolvedID, nil
	}
	if s.drive == nil || s.opts.SpreadsheetName == "" {
		return "", apperrors.NewConfigError("no spreadsheet id or name configured", nil)
	}

	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(s.opts.SpreadsheetName, "'", `\'`), spreadsheetMimeType)
	list, err := s.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", apperrors.NewSourceError("failed to look up spreadsheet", err).
			WithContext("name", s.opts.SpreadsheetName)
	}
	if len(list.Files) == 0 {
		return "", apperrors.NewSourceError(fmt.Sprintf("spreadsheet %q not shared with the service account", s.opts.SpreadsheetName), nil)
	}

	s.resolvedID = list.Files[0].Id
	s.logger.InfoContext(ctx, "spreadsheet resolved",
		slog.String("name", s.opts.SpreadsheetName),
		slog.String("spreadsheet_id", s.resolvedID))
	return s.resolvedID, nil
}
