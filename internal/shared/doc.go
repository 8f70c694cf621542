// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and builders for raw ads-export tables used as fixtures by the
// parser, source, service and handler tests.
package shared
