// Package dataprocessing turns a raw ads worksheet into a Report.
//
// The flow is:
//
//	Table → Parser → Dataset → Select → aggregators → Report
//
// ParseTable coerces every cell once at the ingestion boundary: numeric
// cells become domain.Number values (absent when blank or non-numeric) and
// date cells must parse or the table is rejected with a *MalformedDateError.
//
// Pipeline.Run performs no I/O. A realtime view that matches no row returns
// ErrNoDataForSelection, which callers detect with errors.Is:
//
//	report, err := pipeline.Run(ctx, ds, domain.SingleDay(day))
//	if errors.Is(err, dataprocessing.ErrNoDataForSelection) {
//	    // show the no-data notice
//	}
//
// The month window compares month numbers only, so January 2023 and January
// 2024 rows fall in the same window. Historical views anchor the window on
// the month of the first row.
package dataprocessing
