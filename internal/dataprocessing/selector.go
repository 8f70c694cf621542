package dataprocessing

import (
	"time"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

const noDataMessage = "no data for selected view"

// ErrNoDataForSelection is the outcome of a selection that matched no rows.
// Callers branch on it with errors.Is and show a notice instead of a report.
var ErrNoDataForSelection = apperrors.NewNoDataError(noDataMessage)

// Selection is the slice of a dataset a report is computed over.
type Selection struct {
	// Filtered holds the rows of the selected window, in dataset order.
	Filtered []domain.Record
	// Month holds the rows whose month number equals MonthAnchor, in any
	// year.
	Month       []domain.Record
	MonthAnchor time.Month
}

// Select narrows ds to the requested window.
//
// A realtime view keeps the rows dated on the anchor day and anchors the
// month window on the anchor's month. A historical view keeps every row and
// anchors the month window on the month of the first row.
func Select(ds *domain.Dataset, sel domain.ViewSelection) (Selection, error) {
	switch sel.Type {
	case domain.ViewRealTime:
		if sel.Anchor.IsZero() {
			return Selection{}, apperrors.NewAppValidationError("realtime view requires an anchor date")
		}
		day := domain.TruncateDay(sel.Anchor)

		var filtered []domain.Record
		for _, r := range records(ds) {
			if r.Date.Equal(day) {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			return Selection{}, noDataFor(sel)
		}
		return Selection{
			Filtered:    filtered,
			Month:       monthRows(ds, day.Month()),
			MonthAnchor: day.Month(),
		}, nil

	case domain.ViewHistorical:
		all := records(ds)
		if len(all) == 0 {
			return Selection{}, noDataFor(sel)
		}
		anchor := all[0].Date.Month()
		return Selection{
			Filtered:    all,
			Month:       monthRows(ds, anchor),
			MonthAnchor: anchor,
		}, nil

	default:
		return Selection{}, apperrors.NewAppValidationError("unknown view type " + string(sel.Type))
	}
}

func records(ds *domain.Dataset) []domain.Record {
	if ds == nil {
		return nil
	}
	return ds.Records
}

func monthRows(ds *domain.Dataset, month time.Month) []domain.Record {
	var rows []domain.Record
	for _, r := range records(ds) {
		if r.Date.Month() == month {
			rows = append(rows, r)
		}
	}
	return rows
}

func noDataFor(sel domain.ViewSelection) error {
	err := apperrors.NewNoDataError(noDataMessage).WithContext("view", string(sel.Type))
	if sel.Type == domain.ViewRealTime {
		err.WithContext("date", sel.Anchor.Format(domain.DateLayout))
	}
	return err
}
