package publish

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/sensehub/internal/sensor"
)

// HubInfo identifies the hub in discovery messages. All capabilities share
// one device block so consumers group them under a single device.
type HubInfo struct {
	// Identifier is the stable hub identifier, also the MQTT client ID.
	Identifier string

	// Manufacturer, Model and SoftwareVersion fill the discovery device
	// block.
	Manufacturer    string
	Model           string
	SoftwareVersion string
}

// Discovery constructs and publishes one retained auto-discovery descriptor
// per enabled sensor capability.
//
// Publishing is idempotent: descriptors are retained messages keyed by
// unique ID, so repeating the pass on every reconnect simply overwrites
// identical content.
type Discovery struct {
	hub       HubInfo
	root      string
	topics    Topics
	transport Transport
	log       Logger
}

// NewDiscovery creates a discovery builder. root is the discovery topic
// root; empty means DefaultDiscoveryRoot.
func NewDiscovery(hub HubInfo, root string, topics Topics, transport Transport) *Discovery {
	if root == "" {
		root = DefaultDiscoveryRoot
	}
	return &Discovery{
		hub:       hub,
		root:      root,
		topics:    topics,
		transport: transport,
		log:       noopLogger{},
	}
}

// SetLogger injects a logger.
func (d *Discovery) SetLogger(log Logger) {
	d.log = log
}

// PublishAll publishes a descriptor for every capability of every enabled
// device in the registry. Individual failures are logged and do not stop
// the pass; the first error is returned for status reporting.
func (d *Discovery) PublishAll(registry *sensor.Registry) error {
	device := map[string]any{
		"identifiers":  []string{d.hub.Identifier},
		"manufacturer": d.hub.Manufacturer,
		"model":        d.hub.Model,
		"name":         d.hub.Identifier,
		"sw_version":   d.hub.SoftwareVersion,
	}

	var firstErr error
	for _, dev := range registry.Devices() {
		if !dev.IsEnabled() {
			continue
		}
		for _, def := range dev.Definitions() {
			payload := d.descriptor(device, def)
			data, err := json.Marshal(payload)
			if err != nil {
				// Definitions are static; this is a programming error.
				d.log.Error("marshalling discovery descriptor",
					"device", dev.Identifier(),
					"error", err,
				)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}

			topic := d.topics.DiscoveryConfig(d.root, d.hub.Identifier+def.UniqueIDSuffix)
			if err := d.transport.Publish(topic, data, true); err != nil {
				d.log.Warn("publishing discovery descriptor",
					"topic", topic,
					"error", err,
				)
				if firstErr == nil {
					firstErr = fmt.Errorf("publishing %s: %w", topic, err)
				}
			}
		}
	}
	return firstErr
}

// descriptor builds one discovery payload from the shared device block and
// a capability definition. Capabilities without an attributes template omit
// the attribute fields entirely.
func (d *Discovery) descriptor(device map[string]any, def sensor.Definition) map[string]any {
	payload := map[string]any{
		"device":              device,
		"availability_topic":  d.topics.Availability(),
		"state_topic":         d.topics.State(),
		"name":                d.hub.Identifier + def.NameSuffix,
		"value_template":      def.ValueTemplate,
		"unique_id":           d.hub.Identifier + def.UniqueIDSuffix,
		"unit_of_measurement": def.UnitOfMeasurement,
		"icon":                def.Icon,
	}
	if def.AttributesTemplate != "" {
		payload["json_attributes_topic"] = d.topics.State()
		payload["json_attributes_template"] = def.AttributesTemplate
	}
	return payload
}
