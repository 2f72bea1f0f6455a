package publish

import (
	"fmt"
	"time"
)

// Backoff policy constants. Transient failures (broker restart) recover
// within the fast burst; persistent ones fall back to the user-configured
// reconnect interval so a dead broker address is not hammered indefinitely.
const (
	// maxFastRetries is the number of failed attempts before the slow
	// cooldown kicks in.
	maxFastRetries = 5

	// fastRetryInterval spaces the attempts within the fast burst.
	fastRetryInterval = 5 * time.Second
)

// State is the connection lifecycle state.
type State int

const (
	// StateDisconnected means no connection exists and none is pending.
	StateDisconnected State = iota

	// StateConnecting means attempts are being scheduled.
	StateConnecting

	// StateConnected means the transport link is up.
	StateConnected
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ConnectionManager drives the transport through connect and reconnect
// attempts with two-tier backoff.
//
// Waiting is never a sleep: the next attempt time is stored and compared
// on each Tick. On every transition into StateConnected the one-time
// post-connect side effect fires (availability message and auto-discovery,
// wired via SetOnConnect).
type ConnectionManager struct {
	transport Transport
	settings  Settings
	topics    Topics
	log       Logger

	state       State
	attempts    int
	nextAttempt time.Time
	lastAttempt time.Time
	lastErr     error

	onConnect func()
}

// NewConnectionManager creates a manager in StateDisconnected.
func NewConnectionManager(transport Transport, settings Settings, topics Topics) *ConnectionManager {
	return &ConnectionManager{
		transport: transport,
		settings:  settings,
		topics:    topics,
		log:       noopLogger{},
	}
}

// SetLogger injects a logger.
func (m *ConnectionManager) SetLogger(log Logger) {
	m.log = log
}

// SetOnConnect registers the side effect invoked once per successful
// (re)connection.
func (m *ConnectionManager) SetOnConnect(fn func()) {
	m.onConnect = fn
}

// State returns the current lifecycle state.
func (m *ConnectionManager) State() State {
	return m.state
}

// Tick resolves the connection state for this driver tick and reports
// whether the link is usable.
//
// From StateConnected it verifies transport liveness, dropping to
// StateDisconnected when the link was lost. Otherwise it starts or
// continues the connect schedule: an attempt is made only once nextAttempt
// has passed. On failure the attempt counter advances; after maxFastRetries
// failures the counter resets and the next attempt waits out the
// user-configured reconnect interval.
func (m *ConnectionManager) Tick(now time.Time) bool {
	if m.state == StateConnected {
		if m.transport.IsConnected() {
			return true
		}
		m.log.Warn("broker connection lost")
		m.state = StateDisconnected
	}

	if m.state == StateDisconnected {
		m.state = StateConnecting
		m.attempts = 0
		m.nextAttempt = now
	}

	if now.Before(m.nextAttempt) {
		return false
	}

	m.lastAttempt = now
	if err := m.transport.Connect(); err != nil {
		m.lastErr = err
		m.attempts++
		if m.attempts >= maxFastRetries {
			cooldown := m.settings.ReconnectInterval()
			m.attempts = 0
			m.nextAttempt = now.Add(cooldown)
			m.log.Warn("broker unreachable, backing off",
				"cooldown", cooldown,
				"error", err,
			)
		} else {
			m.nextAttempt = now.Add(fastRetryInterval)
			m.log.Debug("connect attempt failed",
				"attempt", m.attempts,
				"error", err,
			)
		}
		return false
	}

	m.state = StateConnected
	m.lastErr = nil
	m.log.Info("broker connected")

	// One-time post-connect side effect: announce availability, then let
	// the hook republish discovery descriptors.
	if err := m.transport.Publish(m.topics.Availability(), []byte(PayloadOnline), true); err != nil {
		m.log.Warn("publishing availability", "error", err)
	}
	if m.onConnect != nil {
		m.onConnect()
	}
	return true
}

// Disconnect tears down the transport link and returns to
// StateDisconnected. Used during shutdown.
func (m *ConnectionManager) Disconnect() {
	if m.state == StateConnected {
		m.transport.Disconnect()
	}
	m.state = StateDisconnected
	m.attempts = 0
}

// Status returns a human-readable connection status line.
func (m *ConnectionManager) Status(now time.Time) string {
	switch m.state {
	case StateConnected:
		return "connected"
	case StateConnecting:
		if m.lastErr != nil {
			return fmt.Sprintf("last connection attempt %d seconds ago: %v",
				int(now.Sub(m.lastAttempt).Seconds()), m.lastErr)
		}
		return "connecting"
	default:
		return "disconnected"
	}
}
