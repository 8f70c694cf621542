// Package exporter writes reports to files and HTTP downloads.
//
// Every format implements Writer:
//
// CSVWriter: all nine report sections in one CSV document, with a UTF-8 BOM
// for Excel compatibility.
//
// XLSXWriter: one worksheet per section, built with excelize.
//
// JSONWriter: the report in the same shape the HTTP API returns.
//
// TextReporter: template-rendered tables for the terminal, money shown as
// ₹1,234.50.
//
// Example usage:
//
//	w, err := exporter.New(exporter.FormatXLSX)
//	if err != nil {
//		return err
//	}
//	err = exporter.SaveFile("out/report.xlsx", w, report)
package exporter
