package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "testdb", cfg.Database.Name)
				assert.Equal(t, "testuser", cfg.Database.User)
				assert.Equal(t, "anthropic", cfg.Vision.Backend)
				assert.Equal(t, "claude-haiku-4-20250514", cfg.Vision.Anthropic.Model)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, 60*time.Second, cfg.Vision.Timeout)
				assert.Equal(t, 1.0, cfg.Vision.RateLimit.PerSecond)
				assert.Equal(t, 2, cfg.Vision.RateLimit.Burst)
				assert.Equal(t, int64(1000), cfg.Vision.RateLimit.DailyLimit)
				assert.Equal(t, 2*time.Second, cfg.Pipeline.ItemDelay)
				assert.Equal(t, 15*time.Minute, cfg.Pipeline.StuckThreshold)
				assert.Equal(t, 5*time.Minute, cfg.Pipeline.SweepInterval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
  password: "${TEST_DB_PASSWORD}"
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
			},
		},
		{
			name: "missing required database.host",
			yaml: `
database:
  name: testdb
  user: testuser
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
`,
			wantErr: "database.host is required",
		},
		{
			name: "missing required database.name",
			yaml: `
database:
  host: localhost
  user: testuser
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
`,
			wantErr: "database.name is required",
		},
		{
			name: "missing required database.user",
			yaml: `
database:
  host: localhost
  name: testdb
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
`,
			wantErr: "database.user is required",
		},
		{
			name: "invalid vision backend",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
vision:
  backend: invalid_backend
`,
			wantErr: `vision.backend must be one of: anthropic, gemini (got "invalid_backend")`,
		},
		{
			name: "anthropic backend missing model",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
vision:
  backend: anthropic
`,
			wantErr: "vision.anthropic.model is required when backend is anthropic",
		},
		{
			name: "gemini backend missing model",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
vision:
  backend: gemini
`,
			wantErr: "vision.gemini.model is required when backend is gemini",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "gemini backend valid config",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
vision:
  backend: gemini
  gemini:
    model: gemini-1.5-flash
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "gemini", cfg.Vision.Backend)
				assert.Equal(t, "gemini-1.5-flash", cfg.Vision.Gemini.Model)
			},
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
  write_timeout: 60s
database:
  host: db.example.com
  port: 5433
  name: relister_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
vision:
  backend: anthropic
  anthropic:
    model: claude-haiku-4-20250514
  timeout: 90s
  rate_limit:
    per_second: 0.5
    burst: 1
    daily_limit: 500
images:
  s3:
    bucket: relister-photos
    region: us-east-1
pipeline:
  item_delay: 5s
  stuck_threshold: 30m
  sweep_interval: 10m
seo:
  enabled: true
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, 90*time.Second, cfg.Vision.Timeout)
				assert.Equal(t, 0.5, cfg.Vision.RateLimit.PerSecond)
				assert.Equal(t, int64(500), cfg.Vision.RateLimit.DailyLimit)
				assert.Equal(t, "relister-photos", cfg.Images.S3.Bucket)
				assert.Equal(t, "us-east-1", cfg.Images.S3.Region)
				assert.Equal(t, 5*time.Second, cfg.Pipeline.ItemDelay)
				assert.Equal(t, 30*time.Minute, cfg.Pipeline.StuckThreshold)
				assert.Equal(t, 10*time.Minute, cfg.Pipeline.SweepInterval)
				assert.True(t, cfg.SEO.Enabled)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			// Set env vars for this test.
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Write YAML to a temp file.
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Name:     "testdb",
		User:     "testuser",
		Password: "testpass",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 dbname=testdb user=testuser password=testpass sslmode=disable"
	assert.Equal(t, want, cfg.DSN())
}
