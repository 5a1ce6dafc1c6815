package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
node:
  url: http://localhost:8000
  request_timeout: 10s
syncer:
  poll_interval: 1s
  resync_depth: 20
db:
  path: /tmp/explorer.db
api:
  enabled: true
  listen_address: ":3001"
logging:
  default_level: debug
  component_levels:
    reorg-detector: warn
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Node.URL)
	assert.Equal(t, 10*time.Second, cfg.Node.RequestTimeout.Duration)
	assert.Equal(t, time.Second, cfg.Syncer.PollInterval.Duration)
	assert.Equal(t, uint64(20), cfg.Syncer.ResyncDepth)

	// Defaults applied
	assert.Equal(t, uint64(50), cfg.Syncer.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Syncer.ResyncInterval.Duration)
	assert.Equal(t, 5*time.Second, cfg.Syncer.ErrorCooldown.Duration)
	assert.Equal(t, "WAL", cfg.DB.JournalMode)
	assert.Equal(t, 25, cfg.API.DefaultPageSize)
	assert.Equal(t, 100, cfg.API.MaxPageSize)
	assert.Equal(t, "warn", cfg.Logging.GetComponentLevel("reorg-detector"))
	assert.Equal(t, "debug", cfg.Logging.GetComponentLevel("syncer"))
}

func TestLoadFromTOML(t *testing.T) {
	path := writeConfigFile(t, "config.toml", `
[node]
url = "http://localhost:8000"

[syncer]
batch_size = 25

[db]
path = "/tmp/explorer.db"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), cfg.Syncer.BatchSize)
}

func TestLoadFromJSON(t *testing.T) {
	path := writeConfigFile(t, "config.json", `{
  "node": {"url": "http://localhost:8000"},
  "db": {"path": "/tmp/explorer.db"}
}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Node.URL)
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	path := writeConfigFile(t, "config.ini", "")
	_, err := LoadFromFile(path)
	require.ErrorContains(t, err, "unsupported config file format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing node url",
			mutate:  func(c *Config) { c.Node.URL = "" },
			wantErr: "node.url is required",
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: "db.path is required",
		},
		{
			name:    "bad journal mode",
			mutate:  func(c *Config) { c.DB.JournalMode = "SIDEWAYS" },
			wantErr: "db.journal_mode",
		},
		{
			name: "bad component name",
			mutate: func(c *Config) {
				c.Logging = &LoggingConfig{
					DefaultLevel:    "info",
					ComponentLevels: map[string]string{"downloader": "debug"},
				}
			},
			wantErr: "unknown component",
		},
		{
			name: "page size inversion",
			mutate: func(c *Config) {
				c.API = &APIConfig{DefaultPageSize: 200, MaxPageSize: 100}
			},
			wantErr: "default_page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Node: NodeConfig{URL: "http://localhost:8000"},
				DB:   DatabaseConfig{Path: "/tmp/explorer.db"},
			}
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
