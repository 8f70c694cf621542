package config

import "time"

// Source kinds
const (
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"
	SourceCSV    = "csv"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

const (
	// DefaultSpreadsheetName is the Drive title of the exported ads workbook.
	DefaultSpreadsheetName = "meta_data_fetching"
	// DefaultWorksheet is the tab holding the flattened ads rows.
	DefaultWorksheet = "Final_Meta_Dashboard_Data"

	DefaultTopCampaigns   = 10
	DefaultCacheTTL       = 5 * time.Minute
	DefaultSourceTimeout  = 30 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultLogFile        = "logs/adpulse.log"
)

// API paths
const (
	APIBasePath     = "/api"
	HealthEndpoint  = "/healthz"
	MetricsEndpoint = "/metrics"
)
