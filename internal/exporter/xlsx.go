package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// Excel caps sheet names at 31 characters
const maxSheetName = 31

// XLSXWriter writes one worksheet per report section.
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSX writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// ContentType implements Writer
func (x *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Writer
func (x *XLSXWriter) Extension() string { return "xlsx" }

// Write implements Writer
func (x *XLSXWriter) Write(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewExportError("create header style", err)
	}

	for i, section := range Sections(report) {
		sheet := sheetName(section.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return apperrors.NewExportError("rename sheet", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return apperrors.NewExportError("add sheet "+sheet, err)
		}

		if err := f.SetSheetRow(sheet, "A1", &section.Headers); err != nil {
			return apperrors.NewExportError("write headers", err)
		}
		last, _ := excelize.ColumnNumberToName(len(section.Headers))
		if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
			return apperrors.NewExportError("style headers", err)
		}

		for r, row := range section.Rows {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = xlsxValue(v)
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				return apperrors.NewExportError(fmt.Sprintf("write row %d", r+2), err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return apperrors.NewExportError("write workbook", err)
	}
	return nil
}

// xlsxValue keeps numbers numeric; absent values become empty cells.
func xlsxValue(v any) any {
	if n, ok := v.(domain.Number); ok {
		if !n.Valid {
			return nil
		}
		return n.Value
	}
	return v
}

func sheetName(title string) string {
	runes := []rune(title)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}
