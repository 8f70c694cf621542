package spreadsheet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// headerScanRows bounds how far into a sheet the Date header is searched for
// when the configured sheet is missing.
const headerScanRows = 10

// ExcelSource reads a worksheet from a local .xlsx workbook.
type ExcelSource struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewExcelSource creates a workbook source. When sheet is not in the workbook
// the first sheet carrying a Date header is used.
func NewExcelSource(path, sheet string, logger *slog.Logger) *ExcelSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelSource{
		path:   path,
		sheet:  sheet,
		logger: logger.With(slog.String("component", "excel_source")),
	}
}

// Name implements Source
func (s *ExcelSource) Name() string {
	return "xlsx:" + s.path
}

// Load implements Source
func (s *ExcelSource) Load(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, apperrors.NewSourceError("failed to open workbook", err).WithContext("path", s.path)
	}
	defer f.Close()

	sheet, rows, err := s.findSheet(f)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "worksheet read",
		slog.String("path", s.path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))

	return domain.StringTable(rows), nil
}

func (s *ExcelSource) findSheet(f *excelize.File) (string, [][]string, error) {
	if s.sheet != "" {
		if idx, _ := f.GetSheetIndex(s.sheet); idx >= 0 {
			rows, err := f.GetRows(s.sheet)
			if err != nil {
				return "", nil, apperrors.NewSourceError(fmt.Sprintf("failed to read sheet %s", s.sheet), err)
			}
			return s.sheet, rows, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if hasDateHeader(rows) {
			s.logger.Warn("configured sheet not found, using detected sheet",
				slog.String("configured", s.sheet),
				slog.String("detected", name))
			return name, rows, nil
		}
	}

	return "", nil, apperrors.NewSourceError(fmt.Sprintf("no sheet with a Date header in %s", s.path), nil)
}

func hasDateHeader(rows [][]string) bool {
	for i, row := range rows {
		if i >= headerScanRows {
			return false
		}
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), string(domain.ColumnDate)) {
				return true
			}
		}
	}
	return false
}
