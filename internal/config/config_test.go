package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/reservation-provisioner/internal/config"
	"github.com/aqasim81/reservation-provisioner/internal/database"
	"github.com/aqasim81/reservation-provisioner/internal/logging"
)

func TestNew_returnsDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.New()

	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.SchemaPath)
	assert.Equal(t, database.DriverPostgres, cfg.Driver)
	assert.Equal(t, config.DefaultConnectTimeout, cfg.ConnectTimeout)
	assert.Zero(t, cfg.StatementTimeout)
	assert.Zero(t, cfg.Pause)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "exec_sql", cfg.RPC.Function)
	assert.Equal(t, "sql", cfg.RPC.Param)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      string
		allowMissing bool
		writeFile    bool
		wantErr      bool
		errContains  string
		check        func(t *testing.T, cfg *config.Config)
	}{
		{
			name:      "valid file parses all fields",
			writeFile: true,
			content: `database_url: "postgres://localhost:5432/reservations"
driver: rpc
schema_path: ./schema
statement_timeout: 30s
connect_timeout: 5s
pause: 1s
log_format: json
log_level: debug
rpc:
  url: https://abcd.supabase.co
  key: service-role
  function: run_sql
  param: query
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://localhost:5432/reservations", cfg.DatabaseURL)
				assert.Equal(t, "rpc", cfg.Driver)
				assert.Equal(t, "./schema", cfg.SchemaPath)
				assert.Equal(t, 30*time.Second, cfg.StatementTimeout)
				assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
				assert.Equal(t, time.Second, cfg.Pause)
				assert.Equal(t, "json", cfg.LogFormat)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, config.RPC{
					URL: "https://abcd.supabase.co", Key: "service-role", Function: "run_sql", Param: "query",
				}, cfg.RPC)
			},
		},
		{
			name:      "partial file applies defaults",
			writeFile: true,
			content:   `database_url: "postgres://localhost/reservations"`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://localhost/reservations", cfg.DatabaseURL)
				assert.Equal(t, config.DefaultDriver, cfg.Driver)
				assert.Equal(t, config.DefaultConnectTimeout, cfg.ConnectTimeout)
				assert.Equal(t, "exec_sql", cfg.RPC.Function)
			},
		},
		{
			name:      "empty file returns defaults",
			writeFile: true,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.New(), cfg)
			},
		},
		{
			name:         "missing file with allowMissing returns defaults",
			allowMissing: true,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.New(), cfg)
			},
		},
		{
			name:        "missing file without allowMissing returns error",
			wantErr:     true,
			errContains: "reading config file",
		},
		{
			name:        "invalid YAML returns error",
			writeFile:   true,
			content:     "{{{invalid yaml",
			wantErr:     true,
			errContains: "parsing config file",
		},
		{
			name:        "invalid statement_timeout returns error",
			writeFile:   true,
			content:     `statement_timeout: "garbage"`,
			wantErr:     true,
			errContains: "parsing statement_timeout",
		},
		{
			name:        "invalid pause returns error",
			writeFile:   true,
			content:     `pause: "soon"`,
			wantErr:     true,
			errContains: "parsing pause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), config.DefaultConfigFile)

			if tt.writeFile {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			cfg, err := config.Load(path, tt.allowMissing)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestMergeEnv_overridesFields(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "overrides database URL",
			env:  map[string]string{"PROVISION_DATABASE_URL": "postgres://env-host/db"},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://env-host/db", cfg.DatabaseURL)
			},
		},
		{
			name: "falls back to DATABASE_URL",
			env:  map[string]string{"DATABASE_URL": "postgres://fallback/db"},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://fallback/db", cfg.DatabaseURL)
			},
		},
		{
			name: "PROVISION_DATABASE_URL wins over DATABASE_URL",
			env: map[string]string{
				"PROVISION_DATABASE_URL": "postgres://primary/db",
				"DATABASE_URL":           "postgres://fallback/db",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "postgres://primary/db", cfg.DatabaseURL)
			},
		},
		{
			name: "overrides rpc settings",
			env: map[string]string{
				"PROVISION_DRIVER":       "rpc",
				"PROVISION_RPC_URL":      "https://abcd.supabase.co",
				"PROVISION_RPC_KEY":      "service-role",
				"PROVISION_RPC_FUNCTION": "run_sql",
				"PROVISION_RPC_PARAM":    "query",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "rpc", cfg.Driver)
				assert.Equal(t, config.RPC{
					URL: "https://abcd.supabase.co", Key: "service-role", Function: "run_sql", Param: "query",
				}, cfg.RPC)
			},
		},
		{
			name: "falls back to hosted-service variables",
			env: map[string]string{
				"NEXT_PUBLIC_SUPABASE_URL":  "https://public.supabase.co",
				"SUPABASE_SERVICE_ROLE_KEY": "role-key",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "https://public.supabase.co", cfg.RPC.URL)
				assert.Equal(t, "role-key", cfg.RPC.Key)
			},
		},
		{
			name: "overrides durations",
			env: map[string]string{
				"PROVISION_STATEMENT_TIMEOUT": "2m",
				"PROVISION_CONNECT_TIMEOUT":   "3s",
				"PROVISION_PAUSE":             "250ms",
			},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, 2*time.Minute, cfg.StatementTimeout)
				assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
				assert.Equal(t, 250*time.Millisecond, cfg.Pause)
			},
		},
		{
			name: "overrides logging",
			env:  map[string]string{"PROVISION_LOG_FORMAT": "json", "PROVISION_LOG_LEVEL": "warn"},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "json", cfg.LogFormat)
				assert.Equal(t, "warn", cfg.LogLevel)
			},
		},
		{
			name: "no env vars leaves defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.New(), cfg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{
				"PROVISION_DATABASE_URL", "DATABASE_URL", "SUPABASE_URL",
				"NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY",
			} {
				t.Setenv(k, "")
			}

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := config.New()
			require.NoError(t, config.MergeEnv(cfg))
			tt.check(t, cfg)
		})
	}
}

func TestMergeEnv_invalidDuration(t *testing.T) {
	t.Setenv("PROVISION_PAUSE", "not-valid")

	cfg := config.New()
	err := config.MergeEnv(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVISION_PAUSE")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr error
	}{
		{
			name:   "postgres with URL",
			mutate: func(cfg *config.Config) { cfg.DatabaseURL = "postgres://localhost/db" },
		},
		{
			name:    "postgres without URL",
			mutate:  func(*config.Config) {},
			wantErr: config.ErrMissingDatabaseURL,
		},
		{
			name: "sqlite without DSN",
			mutate: func(cfg *config.Config) {
				cfg.Driver = database.DriverSQLite
			},
			wantErr: config.ErrMissingDatabaseURL,
		},
		{
			name: "rpc complete",
			mutate: func(cfg *config.Config) {
				cfg.Driver = database.DriverRPC
				cfg.RPC.URL = "https://abcd.supabase.co"
				cfg.RPC.Key = "key"
			},
		},
		{
			name: "rpc without url",
			mutate: func(cfg *config.Config) {
				cfg.Driver = database.DriverRPC
				cfg.RPC.Key = "key"
			},
			wantErr: config.ErrMissingRPCURL,
		},
		{
			name: "rpc without key",
			mutate: func(cfg *config.Config) {
				cfg.Driver = database.DriverRPC
				cfg.RPC.URL = "https://abcd.supabase.co"
			},
			wantErr: config.ErrMissingRPCKey,
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *config.Config) { cfg.Driver = "oracle" },
			wantErr: config.ErrUnknownDriver,
		},
		{
			name: "negative pause",
			mutate: func(cfg *config.Config) {
				cfg.DatabaseURL = "postgres://localhost/db"
				cfg.Pause = -time.Second
			},
			wantErr: config.ErrNegativeDuration,
		},
		{
			name: "unknown log format",
			mutate: func(cfg *config.Config) {
				cfg.DatabaseURL = "postgres://localhost/db"
				cfg.LogFormat = "xml"
			},
			wantErr: logging.ErrUnknownFormat,
		},
		{
			name: "unknown log level",
			mutate: func(cfg *config.Config) {
				cfg.DatabaseURL = "postgres://localhost/db"
				cfg.LogLevel = "chatty"
			},
			wantErr: logging.ErrUnknownLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.New()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseOptions(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cfg.DatabaseURL = "postgres://localhost/db"
	cfg.StatementTimeout = time.Minute

	opts := cfg.DatabaseOptions()

	assert.Equal(t, database.DriverPostgres, opts.Driver)
	assert.Equal(t, "postgres://localhost/db", opts.Postgres.URL)
	assert.Equal(t, time.Minute, opts.Postgres.StatementTimeout)
	assert.Equal(t, config.DefaultConnectTimeout, opts.Postgres.ConnectTimeout)
	assert.Equal(t, "postgres://localhost/db", opts.SQLDSN)
	assert.Equal(t, "exec_sql", opts.RPC.Function)
	assert.Equal(t, time.Minute, opts.RPC.Timeout)
}

func TestTarget_redactsSecrets(t *testing.T) {
	t.Parallel()

	cfg := config.New()
	cfg.DatabaseURL = "postgres://app:secret@db/reservations"
	assert.Equal(t, "postgres://app:***@db/reservations", cfg.Target())

	cfg.Driver = database.DriverRPC
	cfg.RPC.URL = "https://abcd.supabase.co"
	assert.Equal(t, "https://abcd.supabase.co", cfg.Target())
}
