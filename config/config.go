package config

import (
	"fmt"
	"time"

	"github.com/fleetsim/citysim/pkg/configparser"
)

// Config holds the settings that have sensible defaults and rarely
// change per-invocation: storage DSNs, the queue DSN, the default zone
// count, and the seed strategy. Per-run parameters that must be passed
// as CLI arguments (replications, output_folder, input file paths) are
// supplied as cobra flags and override nothing here.
type (
	Config struct {
		LogLevel string `env:"LOG_LEVEL" default:"INFO"`

		Database    DatabaseConfig
		RabbitMQ    RabbitMQConfig
		Simulation  SimulationConfig
		Diagnostics DiagnosticsConfig
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"citysim"`
		Password string `env:"DATABASE_PASSWORD" default:"citysim"`
		Database string `env:"DATABASE_DATABASE" default:"citysim"`

		MaxIdleTime string `env:"DATABASE_MAXIDLETIME" default:"15m"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"10"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"1"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Exchange string `env:"RABBITMQ_EXCHANGE" default:"citysim.replay"`
	}

	// SimulationConfig carries the defaults a deployment has already
	// decided on (zone count, seed strategy) when no CLI override is
	// given.
	SimulationConfig struct {
		DefaultZoneCount int   `env:"SIMULATION_DEFAULT_ZONE_COUNT" default:"263"`
		BaseSeed         int64 `env:"SIMULATION_BASE_SEED" default:"1"`
	}

	DiagnosticsConfig struct {
		Enabled bool   `env:"DIAGNOSTICS_ENABLED" default:"false"`
		Port    string `env:"DIAGNOSTICS_PORT" default:"9090"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// NewConfig loads Config from a YAML file (if filepath is non-empty)
// via the flattening env-var loader, then overlays it with whatever is
// already present in the process environment.
func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
