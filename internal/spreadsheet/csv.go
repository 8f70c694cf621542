package spreadsheet

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSource reads a local UTF-8 CSV export. A leading byte order mark is
// ignored.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

// NewCSVSource creates a CSV source
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{
		path:   path,
		logger: logger.With(slog.String("component", "csv_source")),
	}
}

// Name implements Source
func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

// Load implements Source
func (s *CSVSource) Load(ctx context.Context) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewSourceError("failed to open csv", err).WithContext("path", s.path)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewSourceError("failed to read csv", err).WithContext("path", s.path)
	}

	s.logger.DebugContext(ctx, "csv read",
		slog.String("path", s.path),
		slog.Int("rows", len(rows)))

	return domain.StringTable(rows), nil
}
