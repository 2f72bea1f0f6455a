package sensor

import (
	"fmt"
	"time"
)

// AnalogSource reads a single analog channel, already converted to a raw
// numeric value by the ADC driver.
type AnalogSource interface {
	Sample() (float64, error)
}

// Analog is a generic calibrated analog device: a thermistor, light sensor
// or any other single-quantity channel. The raw reading passes through a
// linear calibration before entering the accumulator.
type Analog struct {
	base
	source       AnalogSource
	reading      *Accumulator[float64]
	calibration  Calibration
	quantity     string
	unit         string
	icon         string
	pollInterval time.Duration
	nextPoll     time.Time
	readFailures int
	lastErr      error
	definitions  []Definition
}

// AnalogConfig configures an Analog device.
type AnalogConfig struct {
	Name       string
	Identifier string

	// Quantity is the payload key for the measured value, e.g.
	// "temperature" or "brightness".
	Quantity string

	// Unit is the unit of measurement for discovery, e.g. "°C".
	Unit string

	// Icon is the discovery icon. Default "mdi:gauge".
	Icon string

	// PollInterval is how often the source is sampled. Default 10s.
	PollInterval time.Duration

	// Calibration converts the raw channel value to the published unit.
	Calibration Calibration
}

// NewAnalog creates an analog device reading from source.
func NewAnalog(cfg AnalogConfig, source AnalogSource) *Analog {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	icon := cfg.Icon
	if icon == "" {
		icon = "mdi:gauge"
	}
	a := &Analog{
		base:         newBase(cfg.Name, cfg.Identifier),
		source:       source,
		reading:      NewAccumulator[float64](DefaultAveragePoints),
		calibration:  cfg.Calibration,
		quantity:     cfg.Quantity,
		unit:         cfg.Unit,
		icon:         icon,
		pollInterval: interval,
	}
	a.definitions = []Definition{
		{
			NameSuffix:        " " + cfg.Name,
			ValueTemplate:     fmt.Sprintf("{{value_json.%s.%s.average}}", cfg.Identifier, cfg.Quantity),
			UniqueIDSuffix:    "_" + cfg.Identifier,
			UnitOfMeasurement: cfg.Unit,
			AttributesTemplate: fmt.Sprintf(
				`{"last": "{{value_json.%s.%s.last}}", "age": "{{value_json.%s.%s.sample_age_ms}}"}`,
				cfg.Identifier, cfg.Quantity, cfg.Identifier, cfg.Quantity),
			Icon: icon,
		},
	}
	return a
}

// Definitions returns the single capability descriptor.
func (a *Analog) Definitions() []Definition { return a.definitions }

// Poll samples the channel when the poll interval has elapsed.
func (a *Analog) Poll(now time.Time) {
	if !a.enabled || now.Before(a.nextPoll) {
		return
	}
	a.nextPoll = now.Add(a.pollInterval)

	raw, err := a.source.Sample()
	if err != nil {
		a.readFailures++
		a.lastErr = err
		return
	}
	a.lastErr = nil
	a.reading.Record(a.calibration.Apply(raw))
	a.markDirty()
}

// HasUnpublishedData reports whether a sample has been recorded since the
// last publish.
func (a *Analog) HasUnpublishedData() bool {
	return a.unpublished && a.reading.HasAccumulation()
}

// RenderPayload returns the accumulator state under the quantity name.
func (a *Analog) RenderPayload() map[string]any {
	return map[string]any{a.quantity: a.reading.State()}
}

// Status returns a one-line reading summary for diagnostics.
func (a *Analog) Status() string {
	if !a.enabled {
		return a.name + " is disabled"
	}
	if a.lastErr != nil {
		return fmt.Sprintf("last read failed: %v (%d failures)", a.lastErr, a.readFailures)
	}
	last, ok := a.reading.Last()
	if !ok {
		return "no readings have been performed"
	}
	return fmt.Sprintf("%.1f %s, %d seconds since last reading",
		last, a.unit, int(a.reading.SampleAge().Seconds()))
}
