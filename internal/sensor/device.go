package sensor

import "time"

// Definition describes one published sensor capability for auto-discovery
// consumers such as Home Assistant.
//
// The hub identifier is combined with NameSuffix to form a human-readable
// entity name and with UniqueIDSuffix to form a system-wide unique ID.
type Definition struct {
	// NameSuffix is appended to the hub identifier for the entity name,
	// e.g. " temperature".
	NameSuffix string

	// ValueTemplate extracts the primary value from the state payload,
	// e.g. "{{value_json.climate.temperature.average}}".
	ValueTemplate string

	// UniqueIDSuffix is appended to the hub identifier for the unique ID,
	// e.g. "_temperature". Follows identifier rules, not display rules.
	UniqueIDSuffix string

	// UnitOfMeasurement is the unit string, e.g. "°C" or "μg/m³".
	UnitOfMeasurement string

	// AttributesTemplate extracts secondary attributes from the state
	// payload. Empty when the capability has no attributes; discovery
	// skips the attribute fields in that case.
	AttributesTemplate string

	// Icon is the display icon, e.g. "mdi:thermometer".
	Icon string
}

// Device is the capability interface every sensor implements.
//
// Poll is invoked once per driver tick and must not block; devices that
// sample on an interval keep a deadline internally and compare it against
// the supplied time. RenderPayload must be side-effect-free with respect to
// other devices — the scheduler folds payloads under independent keys.
type Device interface {
	// Name is the human-readable device name.
	Name() string

	// Identifier is the stable device key used in the aggregate payload
	// and in the registry. Unique per hub.
	Identifier() string

	// IsEnabled reports whether the device participates in polling and
	// publishing. Disabled devices are skipped entirely.
	IsEnabled() bool

	// Definitions returns the published capability descriptors.
	Definitions() []Definition

	// Poll advances the device: read hardware, parse input, record
	// samples. Non-blocking; called at high frequency.
	Poll(now time.Time)

	// HasUnpublishedData reports whether RenderPayload would produce
	// anything new since the last MarkPublished.
	HasUnpublishedData() bool

	// RenderPayload returns the device state object published under the
	// device identifier.
	RenderPayload() map[string]any

	// MarkPublished records that the current state has been transmitted.
	// Devices reporting live environmental state rather than accumulated
	// samples implement this as a no-op (see Signal).
	MarkPublished()

	// Status returns a human-readable one-line status for diagnostics.
	Status() string
}

// base carries the identity and publish bookkeeping shared by the concrete
// devices. It is embedded, not exported; devices implement the rest of the
// Device interface themselves.
type base struct {
	name        string
	identifier  string
	enabled     bool
	unpublished bool
}

func newBase(name, identifier string) base {
	return base{name: name, identifier: identifier, enabled: true}
}

func (b *base) Name() string       { return b.name }
func (b *base) Identifier() string { return b.identifier }
func (b *base) IsEnabled() bool    { return b.enabled }

// SetEnabled switches the device on or off. Disabled devices are skipped by
// both the driver loop and the publish pass.
func (b *base) SetEnabled(enabled bool) { b.enabled = enabled }

// markDirty flags new data for the next publish pass.
func (b *base) markDirty() { b.unpublished = true }

func (b *base) HasUnpublishedData() bool { return b.unpublished }
func (b *base) MarkPublished()           { b.unpublished = false }
