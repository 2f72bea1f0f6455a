// Package influxdb provides InfluxDB connectivity for SenseHub.
//
// It wraps the official influxdb-client-go v2 library as the publish
// scheduler's metric sink: connection management plus batched writes.
//
// # Purpose
//
// This package is the optional long-term mirror for sensor readings.
// Everything published over MQTT is also written here when enabled, so
// averages can be charted over weeks instead of the last few samples.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "sensehub",
//	    Bucket: "metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Mirror a sensor reading
//	client.WriteSensorMetric("climate", "temperature", 21.5)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection errors are returned directly from Connect.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
