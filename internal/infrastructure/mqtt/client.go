package mqtt

import (
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps paho.mqtt.golang behind the publish package's Transport
// interface.
//
// Each Connect builds a fresh paho client from the current settings, so
// a changed broker address or credentials take effect on the next
// attempt. There is no auto-reconnect; a lost link stays lost until the
// caller connects again.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	opts     Options
	settings Settings

	mu     sync.RWMutex
	client pahomqtt.Client
}

// NewClient creates a disconnected client. Call Connect to establish a
// session.
func NewClient(opts Options, settings Settings) *Client {
	return &Client{
		opts:     opts,
		settings: settings,
	}
}

// Connect makes a single bounded connection attempt to the broker.
//
// It performs the following setup:
//  1. Reads broker address and credentials from settings
//  2. Configures Last Will and Testament (LWT) for offline detection
//  3. Attempts the connection with a timeout
//
// Returns:
//   - error: ErrNoServer if no broker is configured, or a wrapped
//     ErrConnectionFailed describing the failure
func (c *Client) Connect() error {
	if c.settings.ServerAddress() == "" {
		return ErrNoServer
	}

	po := buildClientOptions(c.opts, c.settings)
	client := pahomqtt.NewClient(po)

	token := client.Connect()
	if !token.WaitTimeout(c.opts.connectTimeout()) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, c.opts.connectTimeout())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	return nil
}

// Publish sends a message to the specified MQTT topic and waits for
// acknowledgment at the configured QoS.
//
// Parameters:
//   - topic: The topic to publish to
//   - payload: The message payload (typically JSON)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	if client == nil || !client.IsConnected() {
		return ErrNotConnected
	}

	token := client.Publish(topic, c.opts.QoS, retained, payload)
	if !token.WaitTimeout(c.opts.publishTimeout()) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, c.opts.publishTimeout())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// IsConnected returns the current connection state as reported by the
// underlying session.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil && c.client.IsConnected()
}

// Disconnect closes the broker session, allowing a short quiesce period
// for in-flight messages. Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client != nil && client.IsConnected() {
		client.Disconnect(defaultDisconnectQuiesce)
	}
}
