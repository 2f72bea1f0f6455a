package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/sensehub/internal/sensor"
)

// MetricSink mirrors published readings into a time-series store. Optional;
// implemented by internal/infrastructure/influxdb.
type MetricSink interface {
	WriteSensorMetric(deviceID, quantity string, value float64)
}

// Scheduler owns publish timing. Once per configured interval it runs a
// publish pass: fold the registered devices with unpublished data into one
// aggregate JSON object and transmit it on the state topic.
//
// The period is stable: the baseline advances on every due cycle whether or
// not the transmit succeeds, so retries never skew the schedule. A transmit
// failure is recorded for the status line and the next cycle tries again.
type Scheduler struct {
	registry  *sensor.Registry
	conn      *ConnectionManager
	transport Transport
	settings  Settings
	topics    Topics
	log       Logger

	// metrics is optional; nil disables mirroring.
	metrics MetricSink

	started           bool
	interval          time.Duration
	lastPublish       time.Time
	triedPublish      bool
	lastPublishFailed bool
}

// NewScheduler creates a scheduler over the given registry and connection
// manager.
func NewScheduler(registry *sensor.Registry, conn *ConnectionManager, transport Transport, settings Settings, topics Topics) *Scheduler {
	return &Scheduler{
		registry:  registry,
		conn:      conn,
		transport: transport,
		settings:  settings,
		topics:    topics,
		log:       noopLogger{},
	}
}

// SetLogger injects a logger.
func (s *Scheduler) SetLogger(log Logger) {
	s.log = log
}

// SetMetricSink enables mirroring of published averages into a time-series
// store.
func (s *Scheduler) SetMetricSink(sink MetricSink) {
	s.metrics = sink
}

// Tick advances the scheduler. Non-blocking, O(registry size).
//
// Publishing is suppressed entirely while disabled, while no broker
// address is configured, or while no devices are attached — configuration
// gaps degrade to "feature off", never to an error. The connection state is
// resolved first; a due cycle that finds the link down consumes its slot
// and the next cycle retries.
func (s *Scheduler) Tick(now time.Time) {
	if !s.settings.Enabled() || s.settings.ServerAddress() == "" {
		return
	}

	connected := s.conn.Tick(now)

	interval := s.settings.PublishInterval()
	if !s.started {
		// First tick: arm with the configured interval and leave the
		// baseline at zero so the first cycle fires immediately.
		s.started = true
		s.interval = interval
	} else if interval != s.interval {
		// Interval edited between ticks: re-arm from now instead of
		// letting the stale interval play out.
		s.interval = interval
		s.lastPublish = now
		s.log.Debug("publish interval changed", "interval", interval)
		return
	}

	if now.Sub(s.lastPublish) < s.interval {
		return
	}
	s.lastPublish = now

	if !connected || s.registry.Len() == 0 {
		return
	}

	s.publish(now)
}

// publish runs one publish pass and transmits the aggregate payload.
func (s *Scheduler) publish(now time.Time) {
	payload := make(map[string]any, s.registry.EnabledCount())
	for _, dev := range s.registry.Devices() {
		if !dev.IsEnabled() || !dev.HasUnpublishedData() {
			continue
		}
		payload[dev.Identifier()] = dev.RenderPayload()
		dev.MarkPublished()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.triedPublish = true
		s.lastPublishFailed = true
		s.log.Error("marshalling state payload", "error", err)
		return
	}

	s.triedPublish = true
	if err := s.transport.Publish(s.topics.State(), data, true); err != nil {
		s.lastPublishFailed = true
		s.log.Warn("state publish failed", "error", err)
		return
	}
	s.lastPublishFailed = false
	s.log.Debug("state published", "devices", len(payload), "bytes", len(data))

	s.mirror(payload)
}

// mirror forwards the published values to the metric sink, one point per
// quantity. Accumulated quantities contribute their window average; live
// quantities (plain numbers, e.g. signal strength) contribute their value.
func (s *Scheduler) mirror(payload map[string]any) {
	if s.metrics == nil {
		return
	}
	for deviceID, state := range payload {
		block, ok := state.(map[string]any)
		if !ok {
			continue
		}
		for quantity, value := range block {
			switch v := value.(type) {
			case map[string]any:
				if avg, ok := v["average"].(float64); ok {
					s.metrics.WriteSensorMetric(deviceID, quantity, avg)
				}
			case float64:
				s.metrics.WriteSensorMetric(deviceID, quantity, v)
			case int:
				s.metrics.WriteSensorMetric(deviceID, quantity, float64(v))
			}
		}
	}
}

// Status returns a human-readable publisher status line.
func (s *Scheduler) Status(now time.Time) string {
	if !s.settings.Enabled() {
		return "MQTT is disabled"
	}
	if s.settings.ServerAddress() == "" {
		return "no server is configured"
	}
	if s.registry.Len() == 0 {
		return "no devices attached for publishing"
	}
	if s.conn.State() != StateConnected {
		return s.conn.Status(now)
	}
	if !s.triedPublish {
		return "never published"
	}
	outcome := "succeeded"
	if s.lastPublishFailed {
		outcome = "failed"
	}
	return fmt.Sprintf("last publish %s %d seconds ago",
		outcome, int(now.Sub(s.lastPublish).Seconds()))
}
