package publish

import "time"

// Transport is the broker connection consumed by the ConnectionManager and
// Scheduler. The production implementation wraps paho
// (internal/infrastructure/mqtt); tests substitute a fake.
//
// Connect must be bounded: it either succeeds or fails within its own
// timeout, short enough to treat as effectively non-blocking from the
// driver loop. Publish completes or fails synchronously within the tick
// that issued it; there is no in-flight cancellation.
type Transport interface {
	// Connect establishes the broker session, registering the last-will
	// availability message. Returns an error on failure; the caller owns
	// retry policy.
	Connect() error

	// Publish sends one message. retained messages are stored by the
	// broker for new subscribers.
	Publish(topic string, payload []byte, retained bool) error

	// IsConnected reports transport-level link liveness.
	IsConnected() bool

	// Disconnect tears the session down. Safe to call when disconnected.
	Disconnect()
}

// Settings supplies the runtime-configurable publisher settings. Reads are
// cheap and reflect the latest user edits; the scheduler detects interval
// changes between ticks and re-arms immediately.
type Settings interface {
	// Enabled reports whether MQTT publishing is switched on at all.
	Enabled() bool

	// ServerAddress returns the broker address. Empty disables the
	// feature without error.
	ServerAddress() string

	// PublishInterval is the period between publish cycles.
	PublishInterval() time.Duration

	// ReconnectInterval is the slow cooldown applied after the fast
	// retry burst is exhausted.
	ReconnectInterval() time.Duration
}

// Logger is the subset of the logging API this package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is used until a real logger is injected.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
