package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for SenseHub.
// All configuration is loaded from YAML and can be overridden by environment variables.
//
// Runtime publisher settings (broker address, intervals, credentials) are
// not configured here; they live in the settings table so they can change
// without a restart. Config covers identity, wiring and sensor hardware.
type Config struct {
	Hub       HubConfig       `yaml:"hub"`
	Database  DatabaseConfig  `yaml:"database"`
	Publisher PublisherConfig `yaml:"publisher"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HubConfig identifies this hub. The ID doubles as the MQTT client ID and
// the device identifier in auto-discovery descriptors.
type HubConfig struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// PublisherConfig contains the static parts of the MQTT publisher: topic
// layout and transport behaviour that do not change at runtime.
type PublisherConfig struct {
	// Prefix is the first topic segment for state and availability topics.
	Prefix string `yaml:"prefix"`

	// DiscoveryRoot is the auto-discovery topic root.
	DiscoveryRoot string `yaml:"discovery_root"`

	// QoS for published messages (0, 1 or 2).
	QoS int `yaml:"qos"`

	// ConnectTimeout bounds a single broker connection attempt (seconds).
	ConnectTimeout int `yaml:"connect_timeout"`

	// PublishTimeout bounds a single publish (seconds).
	PublishTimeout int `yaml:"publish_timeout"`
}

// SensorsConfig declares the attached sensor hardware.
type SensorsConfig struct {
	Climate     ClimateConfig     `yaml:"climate"`
	Particulate ParticulateConfig `yaml:"particulate"`
	Analog      AnalogConfig      `yaml:"analog"`
	Signal      SignalConfig      `yaml:"signal"`
}

// ClimateConfig configures the temperature and humidity sensor.
// TemperaturePath and HumidityPath point at the kernel's IIO sysfs
// value files for the attached sensor.
type ClimateConfig struct {
	Enabled         bool              `yaml:"enabled"`
	Name            string            `yaml:"name"`
	PollInterval    int               `yaml:"poll_interval"`
	TemperaturePath string            `yaml:"temperature_path"`
	HumidityPath    string            `yaml:"humidity_path"`
	Temperature     CalibrationConfig `yaml:"temperature"`
	Humidity        CalibrationConfig `yaml:"humidity"`
}

// CalibrationConfig contains a linear correction applied to raw readings.
type CalibrationConfig struct {
	Scale  float64 `yaml:"scale"`
	Offset float64 `yaml:"offset"`
}

// ParticulateConfig configures the PM1006 particulate sensor serial link.
type ParticulateConfig struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
	Port    string `yaml:"port"`
}

// AnalogConfig configures a generic analog channel read from an IIO
// sysfs value file.
type AnalogConfig struct {
	Enabled      bool              `yaml:"enabled"`
	Name         string            `yaml:"name"`
	Quantity     string            `yaml:"quantity"`
	Unit         string            `yaml:"unit"`
	Icon         string            `yaml:"icon"`
	Path         string            `yaml:"path"`
	PollInterval int               `yaml:"poll_interval"`
	Calibration  CalibrationConfig `yaml:"calibration"`
}

// SignalConfig configures wireless signal strength reporting.
type SignalConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Interface string `yaml:"interface"`
}

// InfluxDBConfig contains InfluxDB connection settings for the optional
// metrics mirror.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SENSEHUB_SECTION_KEY
// For example: SENSEHUB_DATABASE_PATH, SENSEHUB_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			ID:           "sensehub-001",
			Name:         "SenseHub",
			Manufacturer: "SenseHub",
			Model:        "Sensor Hub",
		},
		Database: DatabaseConfig{
			Path:        "./data/sensehub.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Publisher: PublisherConfig{
			Prefix:         "sensehub",
			DiscoveryRoot:  "homeassistant",
			QoS:            1,
			ConnectTimeout: 10,
			PublishTimeout: 5,
		},
		Sensors: SensorsConfig{
			Climate: ClimateConfig{
				PollInterval: 10,
				Temperature:  CalibrationConfig{Scale: 1},
				Humidity:     CalibrationConfig{Scale: 1},
			},
			Analog: AnalogConfig{
				PollInterval: 10,
				Calibration:  CalibrationConfig{Scale: 1},
			},
			Signal: SignalConfig{
				Enabled: true,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SENSEHUB_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Hub
	if v := os.Getenv("SENSEHUB_HUB_ID"); v != "" {
		cfg.Hub.ID = v
	}

	// Database
	if v := os.Getenv("SENSEHUB_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Particulate serial port
	if v := os.Getenv("SENSEHUB_PARTICULATE_PORT"); v != "" {
		cfg.Sensors.Particulate.Port = v
	}

	// InfluxDB
	if v := os.Getenv("SENSEHUB_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Hub validation
	if c.Hub.ID == "" {
		errs = append(errs, "hub.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// Publisher validation
	if c.Publisher.Prefix == "" {
		errs = append(errs, "publisher.prefix is required")
	}
	if c.Publisher.QoS < 0 || c.Publisher.QoS > 2 {
		errs = append(errs, "publisher.qos must be 0, 1, or 2")
	}

	// Sensor validation
	if c.Sensors.Climate.Enabled {
		if c.Sensors.Climate.TemperaturePath == "" || c.Sensors.Climate.HumidityPath == "" {
			errs = append(errs, "sensors.climate.temperature_path and humidity_path are required when the sensor is enabled")
		}
	}
	if c.Sensors.Particulate.Enabled && c.Sensors.Particulate.Port == "" {
		errs = append(errs, "sensors.particulate.port is required when the sensor is enabled")
	}
	if c.Sensors.Analog.Enabled && c.Sensors.Analog.Path == "" {
		errs = append(errs, "sensors.analog.path is required when the sensor is enabled")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled (set SENSEHUB_INFLUXDB_TOKEN)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetConnectTimeout returns the broker connect timeout as a Duration.
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.Publisher.ConnectTimeout) * time.Second
}

// GetPublishTimeout returns the publish timeout as a Duration.
func (c *Config) GetPublishTimeout() time.Duration {
	return time.Duration(c.Publisher.PublishTimeout) * time.Second
}

// GetClimatePollInterval returns the climate poll interval as a Duration.
func (c *Config) GetClimatePollInterval() time.Duration {
	return time.Duration(c.Sensors.Climate.PollInterval) * time.Second
}

// GetAnalogPollInterval returns the analog poll interval as a Duration.
func (c *Config) GetAnalogPollInterval() time.Duration {
	return time.Duration(c.Sensors.Analog.PollInterval) * time.Second
}
