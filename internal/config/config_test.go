package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults only",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, SourceSheets, cfg.Source.Kind)
				assert.Equal(t, DefaultSpreadsheetName, cfg.Source.SpreadsheetName)
				assert.Equal(t, DefaultWorksheet, cfg.Source.Worksheet)
				assert.Equal(t, CacheMemory, cfg.Cache.Backend)
				assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
				assert.Equal(t, DefaultTopCampaigns, cfg.Pipeline.TopCampaigns)
				assert.True(t, cfg.Pipeline.Parallel)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
source:
  kind: xlsx
  file_path: /data/export.xlsx
  worksheet: Sheet1
pipeline:
  top_campaigns: 5
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, SourceXLSX, cfg.Source.Kind)
				assert.Equal(t, "/data/export.xlsx", cfg.Source.FilePath)
				assert.Equal(t, "Sheet1", cfg.Source.Worksheet)
				assert.Equal(t, 5, cfg.Pipeline.TopCampaigns)
				// untouched sections keep defaults
				assert.Equal(t, CacheMemory, cfg.Cache.Backend)
			},
		},
		{
			name: "environment overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"ADPULSE_SERVER_PORT":                 "7070",
				"ADPULSE_SOURCE_SPREADSHEET_ID":       "sheet-123",
				"ADPULSE_CACHE_BACKEND":               "redis",
				"ADPULSE_CACHE_REDIS_URL":             "redis://localhost:6379/0",
				"ADPULSE_CACHE_TTL":                   "90s",
				"ADPULSE_SECURITY_ALLOWED_ORIGINS":    "http://a.test,http://b.test",
				"ADPULSE_PIPELINE_PARALLEL":           "false",
				"ADPULSE_TELEMETRY_SAMPLE_RATIO":      "0.25",
				"ADPULSE_SECURITY_RATE_LIMIT_ENABLED": "false",
				"ADPULSE_SOURCE_CREDENTIALS_JSON":     `{"type":"service_account"}`,
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "sheet-123", cfg.Source.SpreadsheetID)
				assert.Equal(t, CacheRedis, cfg.Cache.Backend)
				assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.False(t, cfg.Pipeline.Parallel)
				assert.False(t, cfg.Security.RateLimit.Enabled)
				assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
				assert.Equal(t, `{"type":"service_account"}`, cfg.Source.CredentialsJSON)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"ADPULSE_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "file source without path",
			env:     map[string]string{"ADPULSE_SOURCE_KIND": "csv"},
			wantErr: "csv source requires a file path",
		},
		{
			name:    "unknown source kind",
			env:     map[string]string{"ADPULSE_SOURCE_KIND": "ftp"},
			wantErr: "unknown source kind",
		},
		{
			name:    "redis without url",
			env:     map[string]string{"ADPULSE_CACHE_BACKEND": "redis"},
			wantErr: "requires a redis url",
		},
		{
			name:    "non positive top campaigns",
			file:    "pipeline:\n  top_campaigns: 0\n",
			wantErr: "top campaigns must be positive",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"ADPULSE_CACHE_TTL": "soon"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: "failed to load config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8181\n")
	t.Setenv("ADPULSE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestValidate_Normalizes(t *testing.T) {
	cfg := Default()
	cfg.Source.Kind = "  XLSX "
	cfg.Source.FilePath = "export.xlsx"
	cfg.Source.Worksheet = ""
	cfg.Logging.Output = "syslog"

	require.NoError(t, cfg.validate())
	assert.Equal(t, SourceXLSX, cfg.Source.Kind)
	assert.Equal(t, DefaultWorksheet, cfg.Source.Worksheet)
	assert.Equal(t, "console", cfg.Logging.Output)
}
