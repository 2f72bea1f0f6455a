package sensor

import (
	"fmt"
	"time"
)

// SignalSource reports the current network link state.
type SignalSource interface {
	// Strength returns the received signal strength in dBm, the network
	// name, and the local address.
	Strength() (rssi int, network, address string, err error)
}

// Signal publishes the link signal strength with the network name and
// address as attributes.
//
// Unlike the accumulating devices, Signal represents live environmental
// state rather than collected samples: it always reports unpublished data
// while a reading is available, and MarkPublished is deliberately a no-op.
// Every publish cycle carries the current link state.
type Signal struct {
	base
	source       SignalSource
	rssi         *Accumulator[int]
	network      string
	address      string
	pollInterval time.Duration
	nextPoll     time.Time
	lastErr      error
	definitions  []Definition
}

// NewSignal creates a signal-strength device reading from source.
func NewSignal(name, identifier string, source SignalSource) *Signal {
	s := &Signal{
		base:         newBase(name, identifier),
		source:       source,
		rssi:         NewAccumulator[int](DefaultAveragePoints),
		pollInterval: 5 * time.Second,
	}
	s.definitions = []Definition{
		{
			NameSuffix:        " " + name,
			ValueTemplate:     fmt.Sprintf("{{value_json.%s.rssi}}", identifier),
			UniqueIDSuffix:    "_" + identifier,
			UnitOfMeasurement: "dBm",
			AttributesTemplate: fmt.Sprintf(
				`{"network": "{{value_json.%s.network}}", "address": "{{value_json.%s.address}}"}`,
				identifier, identifier),
			Icon: "mdi:wifi",
		},
	}
	return s
}

// Definitions returns the signal-strength capability descriptor.
func (s *Signal) Definitions() []Definition { return s.definitions }

// Poll refreshes the link state. Failures leave the previous reading in
// place.
func (s *Signal) Poll(now time.Time) {
	if !s.enabled || now.Before(s.nextPoll) {
		return
	}
	s.nextPoll = now.Add(s.pollInterval)
	rssi, network, address, err := s.source.Strength()
	if err != nil {
		s.lastErr = err
		return
	}
	s.lastErr = nil
	s.network = network
	s.address = address
	s.rssi.Record(rssi)
}

// HasUnpublishedData always reports true once a reading exists: the device
// publishes live state on every cycle rather than accumulated samples.
func (s *Signal) HasUnpublishedData() bool {
	return s.rssi.HasAccumulation()
}

// MarkPublished is a no-op: live state is never "consumed" by a publish.
func (s *Signal) MarkPublished() {}

// RenderPayload returns the current link state.
func (s *Signal) RenderPayload() map[string]any {
	last, _ := s.rssi.Last()
	return map[string]any{
		"rssi":    last,
		"network": s.network,
		"address": s.address,
	}
}

// Status returns a one-line link summary for diagnostics.
func (s *Signal) Status() string {
	if !s.enabled {
		return s.name + " is disabled"
	}
	if s.lastErr != nil {
		return fmt.Sprintf("link state unavailable: %v", s.lastErr)
	}
	last, ok := s.rssi.Last()
	if !ok {
		return "no link reading yet"
	}
	return fmt.Sprintf("%s: %d dBm", s.network, last)
}
