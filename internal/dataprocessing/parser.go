package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// ErrMissingDateColumn is returned when no row of the table carries a Date
// header cell.
var ErrMissingDateColumn = apperrors.NewParsingError("no Date column found in worksheet", nil)

// Parser turns a raw worksheet into a Dataset.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger uses slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With(slog.String("component", "parser"))}
}

// ParseTable locates the header row, maps columns by name and coerces every
// data row. Blank rows are skipped. Any unparseable date fails the whole
// table with a *MalformedDateError.
func (p *Parser) ParseTable(ctx context.Context, source string, table domain.Table) (*domain.Dataset, error) {
	headerRow := findHeaderRow(table)
	if headerRow < 0 {
		return nil, ErrMissingDateColumn
	}

	header := make([]string, len(table[headerRow]))
	columnMap := make(map[string]int, len(header))
	for i, cell := range table[headerRow] {
		name := cellText(cell)
		header[i] = name
		key := strings.ToLower(name)
		if _, dup := columnMap[key]; !dup && key != "" {
			columnMap[key] = i
		}
	}

	var missing []string
	numeric := domain.NumericColumns()
	for _, col := range numeric {
		if _, ok := columnMap[strings.ToLower(string(col))]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		p.logger.WarnContext(ctx, "columns missing from header, values treated as absent",
			slog.String("source", source),
			slog.Any("columns", missing))
	}

	cell := func(row []any, col domain.Column) any {
		idx, ok := columnMap[strings.ToLower(string(col))]
		if !ok || idx >= len(row) {
			return nil
		}
		return row[idx]
	}

	ds := &domain.Dataset{
		Source:   source,
		Header:   header,
		Records:  make([]domain.Record, 0, len(table)-headerRow-1),
		LoadedAt: time.Now().UTC(),
	}

	skipped, dirty := 0, 0
	for i := headerRow + 1; i < len(table); i++ {
		row := table[i]
		if isBlankRow(row) {
			skipped++
			continue
		}

		rawDate := cell(row, domain.ColumnDate)
		date, err := ParseDate(rawDate)
		if err != nil {
			return nil, newMalformedDateError(i+1, cellText(rawDate))
		}

		rec := domain.Record{
			Date:         date,
			CampaignName: cellText(cell(row, domain.ColumnCampaignName)),
			Age:          cellText(cell(row, domain.ColumnAge)),
			Gender:       cellText(cell(row, domain.ColumnGender)),
			Metrics:      make(map[domain.Column]domain.Number, len(numeric)),
		}
		for _, col := range numeric {
			raw := cell(row, col)
			n := CoerceNumber(raw)
			if !n.Valid && cellText(raw) != "" {
				dirty++
			}
			rec.Metrics[col] = n
		}
		ds.Records = append(ds.Records, rec)
	}

	p.logger.DebugContext(ctx, "worksheet parsed",
		slog.String("source", source),
		slog.Int("header_row", headerRow+1),
		slog.Int("records", len(ds.Records)),
		slog.Int("blank_rows", skipped),
		slog.Int("non_numeric_cells", dirty))

	return ds, nil
}

// findHeaderRow returns the index of the first row containing a Date cell.
func findHeaderRow(table domain.Table) int {
	for i, row := range table {
		for _, c := range row {
			if strings.EqualFold(cellText(c), string(domain.ColumnDate)) {
				return i
			}
		}
	}
	return -1
}

func isBlankRow(row []any) bool {
	for _, c := range row {
		if cellText(c) != "" {
			return false
		}
	}
	return true
}
