package settings

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Publisher setting keys as stored in the settings table.
const (
	keyEnabled           = "mqtt.enabled"
	keyServer            = "mqtt.server"
	keyPort              = "mqtt.port"
	keyUsername          = "mqtt.username"
	keyPassword          = "mqtt.password"
	keyPublishInterval   = "mqtt.publish_interval_seconds"
	keyReconnectInterval = "mqtt.reconnect_interval_seconds"
	keyKeepAlive         = "mqtt.keepalive_seconds"
)

// Publisher defaults, applied when no persisted value exists.
const (
	// DefaultPort is the standard unencrypted MQTT port.
	DefaultPort = 1883

	// DefaultPublishInterval is how often sensor state is published.
	DefaultPublishInterval = 30 * time.Second

	// DefaultReconnectInterval is the cooldown between reconnect bursts.
	DefaultReconnectInterval = 60 * time.Second

	// DefaultKeepAlive is the MQTT keepalive interval.
	DefaultKeepAlive = 30 * time.Second
)

// Publisher holds the typed MQTT publisher settings. It implements
// publish.Settings and persists every change through its Store.
//
// Publishing is disabled until a server is configured and enabled
// explicitly, so a fresh install stays quiet.
type Publisher struct {
	store    Store
	onChange func()

	enabled           bool
	server            string
	port              int
	username          string
	password          string
	publishInterval   time.Duration
	reconnectInterval time.Duration
	keepAlive         time.Duration
}

// NewPublisher creates publisher settings with defaults. Call Load to
// overlay persisted values before use.
func NewPublisher(store Store) *Publisher {
	return &Publisher{
		store:             store,
		port:              DefaultPort,
		publishInterval:   DefaultPublishInterval,
		reconnectInterval: DefaultReconnectInterval,
		keepAlive:         DefaultKeepAlive,
	}
}

// SetOnChange registers a callback fired after any setting changes.
// The callback runs synchronously in the setter's goroutine.
func (p *Publisher) SetOnChange(fn func()) {
	p.onChange = fn
}

// Load overlays persisted values onto the defaults. Unknown keys are
// ignored; values that fail to parse keep their default.
func (p *Publisher) Load(ctx context.Context) error {
	values, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading publisher settings: %w", err)
	}

	if v, ok := values[keyEnabled]; ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			p.enabled = enabled
		}
	}
	if v, ok := values[keyServer]; ok {
		p.server = v
	}
	if v, ok := values[keyPort]; ok {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			p.port = port
		}
	}
	if v, ok := values[keyUsername]; ok {
		p.username = v
	}
	if v, ok := values[keyPassword]; ok {
		p.password = v
	}
	p.publishInterval = loadSeconds(values, keyPublishInterval, p.publishInterval)
	p.reconnectInterval = loadSeconds(values, keyReconnectInterval, p.reconnectInterval)
	p.keepAlive = loadSeconds(values, keyKeepAlive, p.keepAlive)

	return nil
}

// loadSeconds parses a positive whole-second value, falling back to def.
func loadSeconds(values map[string]string, key string, def time.Duration) time.Duration {
	v, ok := values[key]
	if !ok {
		return def
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}

// Enabled reports whether publishing is enabled.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// Server returns the configured broker hostname, empty if unset.
func (p *Publisher) Server() string {
	return p.server
}

// Port returns the configured broker port.
func (p *Publisher) Port() int {
	return p.port
}

// ServerAddress returns the broker URL in the form tcp://host:port,
// or the empty string when no server is configured.
func (p *Publisher) ServerAddress() string {
	if p.server == "" {
		return ""
	}
	return fmt.Sprintf("tcp://%s:%d", p.server, p.port)
}

// Username returns the broker username, empty for anonymous access.
func (p *Publisher) Username() string {
	return p.username
}

// Password returns the broker password.
func (p *Publisher) Password() string {
	return p.password
}

// PublishInterval returns the time between publish cycles.
func (p *Publisher) PublishInterval() time.Duration {
	return p.publishInterval
}

// ReconnectInterval returns the cooldown between reconnect bursts.
func (p *Publisher) ReconnectInterval() time.Duration {
	return p.reconnectInterval
}

// KeepAlive returns the MQTT keepalive interval.
func (p *Publisher) KeepAlive() time.Duration {
	return p.keepAlive
}

// SetEnabled persists and applies the enabled flag.
func (p *Publisher) SetEnabled(ctx context.Context, enabled bool) error {
	if err := p.store.Save(ctx, keyEnabled, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	p.enabled = enabled
	p.notify()
	return nil
}

// SetServer persists and applies the broker hostname.
func (p *Publisher) SetServer(ctx context.Context, server string) error {
	if err := p.store.Save(ctx, keyServer, server); err != nil {
		return err
	}
	p.server = server
	p.notify()
	return nil
}

// SetPort persists and applies the broker port.
func (p *Publisher) SetPort(ctx context.Context, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidValue, port)
	}
	if err := p.store.Save(ctx, keyPort, strconv.Itoa(port)); err != nil {
		return err
	}
	p.port = port
	p.notify()
	return nil
}

// SetCredentials persists and applies the broker username and password.
func (p *Publisher) SetCredentials(ctx context.Context, username, password string) error {
	if err := p.store.Save(ctx, keyUsername, username); err != nil {
		return err
	}
	if err := p.store.Save(ctx, keyPassword, password); err != nil {
		return err
	}
	p.username = username
	p.password = password
	p.notify()
	return nil
}

// SetPublishInterval persists and applies the publish interval.
// The running publish cycle re-arms from the new value on its next tick.
func (p *Publisher) SetPublishInterval(ctx context.Context, interval time.Duration) error {
	if err := p.saveSeconds(ctx, keyPublishInterval, interval); err != nil {
		return err
	}
	p.publishInterval = interval
	p.notify()
	return nil
}

// SetReconnectInterval persists and applies the reconnect cooldown.
func (p *Publisher) SetReconnectInterval(ctx context.Context, interval time.Duration) error {
	if err := p.saveSeconds(ctx, keyReconnectInterval, interval); err != nil {
		return err
	}
	p.reconnectInterval = interval
	p.notify()
	return nil
}

// SetKeepAlive persists and applies the MQTT keepalive interval.
func (p *Publisher) SetKeepAlive(ctx context.Context, interval time.Duration) error {
	if err := p.saveSeconds(ctx, keyKeepAlive, interval); err != nil {
		return err
	}
	p.keepAlive = interval
	p.notify()
	return nil
}

// saveSeconds validates and persists a whole-second duration.
func (p *Publisher) saveSeconds(ctx context.Context, key string, interval time.Duration) error {
	seconds := int(interval / time.Second)
	if seconds <= 0 {
		return fmt.Errorf("%w: interval %s", ErrInvalidValue, interval)
	}
	return p.store.Save(ctx, key, strconv.Itoa(seconds))
}

func (p *Publisher) notify() {
	if p.onChange != nil {
		p.onChange()
	}
}
