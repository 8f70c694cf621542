// Package app is the composition root of the AdPulse web server.
//
// New wires, in order:
//
//  1. OpenTelemetry providers and the report metrics
//  2. the spreadsheet source selected by source.kind
//  3. the snapshot store selected by cache.backend
//  4. the parser and report pipeline
//  5. the report and health services
//  6. the chi router with its middleware chain
//
// The middleware order is RequestID, RealIP, OTel, StructuredLogger,
// Recoverer, StripSlashes, SecurityHeaders and CORS. Routes under /api also
// get a JSON content type and the request timeout; report routes are rate
// limited when security.rate_limit.enabled is set.
//
// Run blocks until SIGINT or SIGTERM, then shuts the server down, closes the
// cache and flushes telemetry. Initialization errors are returned to main,
// which owns the exit code.
package app
