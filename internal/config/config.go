package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aqasim81/reservation-provisioner/internal/database"
	"github.com/aqasim81/reservation-provisioner/internal/logging"
)

// Default values for configuration fields.
const (
	DefaultConfigFile     = "provision.yml"
	DefaultDriver         = database.DriverPostgres
	DefaultConnectTimeout = 10 * time.Second
	DefaultLogFormat      = "pretty"
	DefaultLogLevel       = "info"
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	DatabaseURL      string
	Driver           string
	SchemaPath       string // empty selects the embedded schema
	StatementTimeout time.Duration
	ConnectTimeout   time.Duration
	Pause            time.Duration
	LogFormat        string
	LogLevel         string
	RPC              RPC
}

// RPC configures the hosted-service handle.
type RPC struct {
	URL      string
	Key      string
	Function string
	Param    string
}

type yamlConfig struct {
	DatabaseURL      string  `yaml:"database_url"`
	Driver           string  `yaml:"driver"`
	SchemaPath       string  `yaml:"schema_path"`
	StatementTimeout string  `yaml:"statement_timeout"`
	ConnectTimeout   string  `yaml:"connect_timeout"`
	Pause            string  `yaml:"pause"`
	LogFormat        string  `yaml:"log_format"`
	LogLevel         string  `yaml:"log_level"`
	RPC              yamlRPC `yaml:"rpc"`
}

type yamlRPC struct {
	URL      string `yaml:"url"`
	Key      string `yaml:"key"`
	Function string `yaml:"function"`
	Param    string `yaml:"param"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		Driver:         DefaultDriver,
		ConnectTimeout: DefaultConnectTimeout,
		LogFormat:      DefaultLogFormat,
		LogLevel:       DefaultLogLevel,
		RPC: RPC{
			Function: database.DefaultRPCFunction,
			Param:    database.DefaultRPCParam,
		},
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw)
}

func fromYAML(raw *yamlConfig) (*Config, error) {
	cfg := New()

	setString(&cfg.DatabaseURL, raw.DatabaseURL)
	setString(&cfg.Driver, raw.Driver)
	setString(&cfg.SchemaPath, raw.SchemaPath)
	setString(&cfg.LogFormat, raw.LogFormat)
	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.RPC.URL, raw.RPC.URL)
	setString(&cfg.RPC.Key, raw.RPC.Key)
	setString(&cfg.RPC.Function, raw.RPC.Function)
	setString(&cfg.RPC.Param, raw.RPC.Param)

	durations := []struct {
		key string
		val string
		dst *time.Duration
	}{
		{"statement_timeout", raw.StatementTimeout, &cfg.StatementTimeout},
		{"connect_timeout", raw.ConnectTimeout, &cfg.ConnectTimeout},
		{"pause", raw.Pause, &cfg.Pause},
	}

	for _, d := range durations {
		if err := setDuration(d.dst, d.key, d.val); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// MergeEnv overrides config fields from PROVISION_* environment variables.
// DATABASE_URL, SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are honored when
// the PROVISION_* equivalent is unset.
func MergeEnv(cfg *Config) error {
	setString(&cfg.DatabaseURL, firstEnv("PROVISION_DATABASE_URL", "DATABASE_URL"))
	setString(&cfg.Driver, os.Getenv("PROVISION_DRIVER"))
	setString(&cfg.SchemaPath, os.Getenv("PROVISION_SCHEMA_PATH"))
	setString(&cfg.LogFormat, os.Getenv("PROVISION_LOG_FORMAT"))
	setString(&cfg.LogLevel, os.Getenv("PROVISION_LOG_LEVEL"))
	setString(&cfg.RPC.URL, firstEnv("PROVISION_RPC_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"))
	setString(&cfg.RPC.Key, firstEnv("PROVISION_RPC_KEY", "SUPABASE_SERVICE_ROLE_KEY"))
	setString(&cfg.RPC.Function, os.Getenv("PROVISION_RPC_FUNCTION"))
	setString(&cfg.RPC.Param, os.Getenv("PROVISION_RPC_PARAM"))

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"PROVISION_STATEMENT_TIMEOUT", &cfg.StatementTimeout},
		{"PROVISION_CONNECT_TIMEOUT", &cfg.ConnectTimeout},
		{"PROVISION_PAUSE", &cfg.Pause},
	}

	for _, d := range durations {
		if err := setDuration(d.dst, d.key, os.Getenv(d.key)); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the settings the selected driver depends on.
func (c *Config) Validate() error {
	switch c.Driver {
	case database.DriverPostgres, database.DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w for driver %s", ErrMissingDatabaseURL, c.Driver)
		}
	case database.DriverRPC:
		if c.RPC.URL == "" {
			return ErrMissingRPCURL
		}

		if c.RPC.Key == "" {
			return ErrMissingRPCKey
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}

	for key, d := range map[string]time.Duration{
		"statement_timeout": c.StatementTimeout,
		"connect_timeout":   c.ConnectTimeout,
		"pause":             c.Pause,
	} {
		if d < 0 {
			return fmt.Errorf("%s: %w", key, ErrNegativeDuration)
		}
	}

	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// DatabaseOptions converts the configuration into handle options.
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		Driver: c.Driver,
		Postgres: database.PostgresOptions{
			URL:              c.DatabaseURL,
			ConnectTimeout:   c.ConnectTimeout,
			StatementTimeout: c.StatementTimeout,
		},
		SQLDSN: c.DatabaseURL,
		RPC: database.RPCOptions{
			URL:      c.RPC.URL,
			Key:      c.RPC.Key,
			Function: c.RPC.Function,
			Param:    c.RPC.Param,
			Timeout:  c.StatementTimeout,
		},
	}
}

// Target describes the configured database for log output, with secrets removed.
func (c *Config) Target() string {
	if c.Driver == database.DriverRPC {
		return c.RPC.URL
	}

	return RedactURL(c.DatabaseURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parsing %s %q: %w", key, v, err)
	}

	*dst = d

	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}

	return ""
}
