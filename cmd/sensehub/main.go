// SenseHub - Environmental Sensor Hub
//
// This is the main entry point for the SenseHub daemon. SenseHub reads
// attached environmental sensors (temperature/humidity, particulate
// matter, analog channels, wireless signal strength), keeps rolling
// averages, and publishes the results over MQTT with Home Assistant
// auto-discovery.
//
// Design notes:
//   - Sensors and the publisher are driven by a single ticker goroutine;
//     the core packages hold no locks and take explicit time arguments.
//   - Broker settings live in SQLite and can change at runtime; the
//     YAML config covers identity and hardware wiring only.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/sensehub/internal/infrastructure/config"
	"github.com/nerrad567/sensehub/internal/infrastructure/database"
	"github.com/nerrad567/sensehub/internal/infrastructure/influxdb"
	"github.com/nerrad567/sensehub/internal/infrastructure/logging"
	"github.com/nerrad567/sensehub/internal/infrastructure/mqtt"
	"github.com/nerrad567/sensehub/internal/publish"
	"github.com/nerrad567/sensehub/internal/sensor"
	"github.com/nerrad567/sensehub/internal/sensor/pm1006"
	"github.com/nerrad567/sensehub/internal/settings"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// tickInterval is the driver loop period. Sensors and the publisher keep
// their own deadlines, so the loop just needs to tick often enough for
// the shortest poll interval.
const tickInterval = time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting SenseHub",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Load publisher settings from the settings table
	store, err := settings.NewSQLiteStore(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("creating settings store: %w", err)
	}
	pubSettings := settings.NewPublisher(store)
	if err := pubSettings.Load(ctx); err != nil {
		return fmt.Errorf("loading publisher settings: %w", err)
	}
	pubSettings.SetOnChange(func() {
		log.Info("publisher settings changed",
			"enabled", pubSettings.Enabled(),
			"server", pubSettings.ServerAddress(),
			"publish_interval", pubSettings.PublishInterval(),
		)
	})
	log.Info("publisher settings loaded",
		"enabled", pubSettings.Enabled(),
		"server", pubSettings.ServerAddress(),
	)

	// Build the sensor registry from configured hardware
	registry, closeSensors, err := buildRegistry(cfg, log)
	if err != nil {
		return fmt.Errorf("building sensor registry: %w", err)
	}
	defer closeSensors()
	log.Info("sensor registry initialised",
		"devices", registry.Len(),
		"enabled", registry.EnabledCount(),
	)

	// Topic layout and transport
	topics := publish.Topics{Prefix: cfg.Publisher.Prefix, Identifier: cfg.Hub.ID}
	transport := mqtt.NewClient(mqtt.Options{
		ClientID:       cfg.Hub.ID,
		QoS:            byte(cfg.Publisher.QoS),
		WillTopic:      topics.Availability(),
		WillPayload:    publish.PayloadOffline,
		ConnectTimeout: cfg.GetConnectTimeout(),
		PublishTimeout: cfg.GetPublishTimeout(),
	}, pubSettings)

	// Connection manager owns the retry schedule; discovery republishes
	// descriptors on every (re)connect.
	conn := publish.NewConnectionManager(transport, pubSettings, topics)
	conn.SetLogger(log.With("component", "mqtt"))

	discovery := publish.NewDiscovery(publish.HubInfo{
		Identifier:      cfg.Hub.ID,
		Manufacturer:    cfg.Hub.Manufacturer,
		Model:           cfg.Hub.Model,
		SoftwareVersion: version,
	}, cfg.Publisher.DiscoveryRoot, topics, transport)
	discovery.SetLogger(log.With("component", "discovery"))
	conn.SetOnConnect(func() {
		if pubErr := discovery.PublishAll(registry); pubErr != nil {
			log.Warn("auto-discovery publish incomplete", "error", pubErr)
		}
	})

	scheduler := publish.NewScheduler(registry, conn, transport, pubSettings, topics)
	scheduler.SetLogger(log.With("component", "publisher"))

	// Connect to InfluxDB (optional metrics mirror)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(writeErr error) {
			log.Error("InfluxDB write error", "error", writeErr)
		})
		scheduler.SetMetricSink(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	log.Info("initialisation complete, entering driver loop")

	// Driver loop: a single goroutine polls sensors and ticks the
	// publisher. All deadline logic lives behind these two calls.
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, cleaning up")
			shutdown(transport, topics, log)
			log.Info("SenseHub stopped")
			return nil
		case now := <-ticker.C:
			for _, dev := range registry.Devices() {
				dev.Poll(now)
			}
			scheduler.Tick(now)
		}
	}
}

// shutdown publishes the offline availability message and closes the
// broker session. The retained offline payload distinguishes a graceful
// stop from the LWT fired on a crash.
func shutdown(transport *mqtt.Client, topics publish.Topics, log *logging.Logger) {
	if transport.IsConnected() {
		if err := transport.Publish(topics.Availability(), []byte(publish.PayloadOffline), true); err != nil {
			log.Warn("publishing offline status", "error", err)
		}
	}
	transport.Disconnect()
}

// buildRegistry constructs sensor devices for every configured hardware
// source. Returns a cleanup function that closes any opened file handles.
func buildRegistry(cfg *config.Config, log *logging.Logger) (*sensor.Registry, func(), error) {
	registry := sensor.NewRegistry()
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn("closing sensor source", "error", err)
			}
		}
	}

	if cfg.Sensors.Climate.Enabled {
		climate := sensor.NewClimate(sensor.ClimateConfig{
			Name:         cfg.Sensors.Climate.Name,
			Identifier:   "climate",
			PollInterval: cfg.GetClimatePollInterval(),
			Temperature: sensor.Calibration{
				Scale:  cfg.Sensors.Climate.Temperature.Scale,
				Offset: cfg.Sensors.Climate.Temperature.Offset,
			},
			Humidity: sensor.Calibration{
				Scale:  cfg.Sensors.Climate.Humidity.Scale,
				Offset: cfg.Sensors.Climate.Humidity.Offset,
			},
		}, &sysfsClimateSource{
			temperaturePath: cfg.Sensors.Climate.TemperaturePath,
			humidityPath:    cfg.Sensors.Climate.HumidityPath,
		})
		if err := registry.Add(climate); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	if cfg.Sensors.Particulate.Enabled {
		port, err := openSerialPort(cfg.Sensors.Particulate.Port)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening particulate sensor port: %w", err)
		}
		closers = append(closers, port.Close)

		particulate := pm1006.NewDevice(cfg.Sensors.Particulate.Name, "air-quality", port)
		if err := registry.Add(particulate); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	if cfg.Sensors.Analog.Enabled {
		analog := sensor.NewAnalog(sensor.AnalogConfig{
			Name:         cfg.Sensors.Analog.Name,
			Identifier:   "analog",
			Quantity:     cfg.Sensors.Analog.Quantity,
			Unit:         cfg.Sensors.Analog.Unit,
			Icon:         cfg.Sensors.Analog.Icon,
			PollInterval: cfg.GetAnalogPollInterval(),
			Calibration: sensor.Calibration{
				Scale:  cfg.Sensors.Analog.Calibration.Scale,
				Offset: cfg.Sensors.Analog.Calibration.Offset,
			},
		}, &sysfsAnalogSource{path: cfg.Sensors.Analog.Path})
		if err := registry.Add(analog); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	if cfg.Sensors.Signal.Enabled {
		signalDev := sensor.NewSignal("Signal Strength", "signal",
			&wirelessSignalSource{iface: cfg.Sensors.Signal.Interface})
		if err := registry.Add(signalDev); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	return registry, closeAll, nil
}

// getConfigPath returns the configuration file path.
// Uses SENSEHUB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENSEHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
