package publish

import "fmt"

// Availability payloads. The will message registered at connect time
// carries PayloadOffline so subscribers see the hub drop.
const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"
)

// DefaultDiscoveryRoot is the Home Assistant discovery prefix.
const DefaultDiscoveryRoot = "homeassistant"

// Topics builds the hub's MQTT topic names from the configured prefix and
// identifier. All hub topics live under {prefix}/{identifier}/.
type Topics struct {
	Prefix     string
	Identifier string
}

// Availability returns the retained online/offline status topic.
//
// Example: sensehub/attic-hub/status
func (t Topics) Availability() string {
	return fmt.Sprintf("%s/%s/status", t.Prefix, t.Identifier)
}

// State returns the aggregated sensor state topic.
//
// Example: sensehub/attic-hub/state
func (t Topics) State() string {
	return fmt.Sprintf("%s/%s/state", t.Prefix, t.Identifier)
}

// DiscoveryConfig returns the auto-discovery config topic for one sensor
// capability. uniqueID is the hub identifier plus the capability's
// unique-id suffix.
//
// Example: homeassistant/sensor/sensehub/attic-hub_pm25/config
func (t Topics) DiscoveryConfig(root, uniqueID string) string {
	return fmt.Sprintf("%s/sensor/%s/%s/config", root, t.Prefix, uniqueID)
}
