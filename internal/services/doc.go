// Package services implements the business logic layer between the HTTP and
// CLI surfaces and the report pipeline.
//
// # Report service
//
// ReportService owns the dataset snapshot. It reads the worksheet through a
// spreadsheet.Source, parses it into a domain.Dataset and stores the result
// in a cache.Store for the configured TTL. Concurrent cache misses share one
// source read. Each call to Generate runs the pipeline against the current
// snapshot and records the outcome:
//
//	report, err := svc.Generate(ctx, domain.SingleDay(day))
//	switch {
//	case errors.Is(err, dataprocessing.ErrNoDataForSelection):
//		// show the no-data notice
//	case err != nil:
//		return err
//	}
//
// # Health service
//
// HealthService answers liveness, readiness and version probes. Readiness
// requires the dataset to load and the cache backend to answer a ping.
package services
