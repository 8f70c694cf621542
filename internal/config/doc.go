// Package config loads adpulse configuration.
//
// Values are resolved in increasing order of precedence:
//
//  1. Default()
//  2. a YAML file (ADPULSE_CONFIG, or config.yaml / configs/config.yaml)
//  3. ADPULSE_* environment variables, optionally seeded from a .env file
//
// Nested sections map to underscored variable names, for example
// ADPULSE_SOURCE_SPREADSHEET_ID or ADPULSE_CACHE_REDIS_URL.
package config
