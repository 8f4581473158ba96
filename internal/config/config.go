// Package config loads service settings from an optional YAML file, the
// environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rxcast/internal/domain"
)

// Storage drivers.
const (
	DriverMemory     = "memory"
	DriverBolt       = "bolt"
	DriverPostgres   = "postgres"
	DriverClickhouse = "clickhouse"
)

// EnvPrefix prefixes every environment override, e.g. RXCAST_SERVER_ADDR.
const EnvPrefix = "RXCAST"

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Orders   OrdersConfig   `mapstructure:"orders"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Log      LogConfig      `mapstructure:"log"`

	Seed       []domain.Drug `mapstructure:"seed"`
	SeedExtras bool          `mapstructure:"seed_extras"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type BackendConfig struct {
	URL          string        `mapstructure:"url"`
	PublicOrigin string        `mapstructure:"public_origin"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SingleFlight bool          `mapstructure:"single_flight"`
}

type ForecastConfig struct {
	NDCPrefix string `mapstructure:"ndc_prefix"`
}

type RiskConfig struct {
	SafetyBuffer int `mapstructure:"safety_buffer"`
}

type OrdersConfig struct {
	Window time.Duration `mapstructure:"window"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	BoltPath      string `mapstructure:"bolt_path"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

type StreamConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultSeed is the drug tracked when no seed is configured.
func DefaultSeed() []domain.Drug {
	return []domain.Drug{
		{NDC: "12345-6789", DrugName: "Tamiflu", OnHand: 50, OnOrder: 20, LeadTimeDays: 3},
	}
}

// ExtraSeed lists demo drugs added when seed_extras is set.
func ExtraSeed() []domain.Drug {
	return []domain.Drug{
		{NDC: "98765-4321", DrugName: "Amoxicillin", OnHand: 200, OnOrder: 0, LeadTimeDays: 5},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.public_origin", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.single_flight", true)
	v.SetDefault("forecast.ndc_prefix", "12345")
	v.SetDefault("risk.safety_buffer", 20)
	v.SetDefault("orders.window", time.Hour)
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.bolt_path", "data/inventory.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")
	v.SetDefault("stream.interval", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("seed_extras", false)
}

// Load reads configuration. configPath may be empty, in which case only
// defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The forecasting backend has always been configured by a bare BACKEND_URL.
	if err := v.BindEnv("backend.url", EnvPrefix+"_BACKEND_URL", "BACKEND_URL"); err != nil {
		return nil, fmt.Errorf("bind backend url env: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if len(cfg.Seed) == 0 {
		cfg.Seed = DefaultSeed()
	}
	if cfg.SeedExtras {
		cfg.Seed = append(cfg.Seed, ExtraSeed()...)
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	return &cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	if c.Risk.SafetyBuffer < 0 {
		errs = append(errs, errors.New("risk.safety_buffer must not be negative"))
	}
	if c.Stream.Interval <= 0 {
		errs = append(errs, errors.New("stream.interval must be positive"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverBolt:
		if c.Storage.BoltPath == "" {
			errs = append(errs, errors.New("storage.bolt_path is required for the bolt driver"))
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	case DriverClickhouse:
		if c.Storage.ClickhouseDSN == "" {
			errs = append(errs, errors.New("storage.clickhouse_dsn is required for the clickhouse driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	seen := make(map[string]bool, len(c.Seed))
	for i := range c.Seed {
		d := c.Seed[i]
		if !d.Validate() {
			errs = append(errs, fmt.Errorf("seed[%d]: invalid drug %q", i, d.NDC))
			continue
		}
		if seen[d.NDC] {
			errs = append(errs, fmt.Errorf("seed[%d]: duplicate ndc %q", i, d.NDC))
		}
		seen[d.NDC] = true
	}

	return errors.Join(errs...)
}
