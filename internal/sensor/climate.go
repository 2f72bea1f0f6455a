package sensor

import (
	"fmt"
	"time"
)

// ClimateSource reads a temperature/humidity sensor such as an SHT31-D or
// DHT22. Sample must return quickly; slow buses should cache behind the
// interface.
type ClimateSource interface {
	// Sample returns the current temperature in °C and relative humidity
	// in percent, or an error if the read failed.
	Sample() (temperature, humidity float64, err error)
}

// Calibration applies a linear correction to raw readings.
// The zero value (scale 0 is treated as 1) leaves readings untouched.
type Calibration struct {
	Scale  float64
	Offset float64
}

// Apply returns scale*value + offset.
func (c Calibration) Apply(value float64) float64 {
	scale := c.Scale
	if scale == 0 {
		scale = 1
	}
	return scale*value + c.Offset
}

// Climate is a temperature and humidity device. It polls its source on a
// fixed interval and feeds a rolling accumulator per quantity.
type Climate struct {
	base
	source       ClimateSource
	temperature  *Accumulator[float64]
	humidity     *Accumulator[float64]
	tempCal      Calibration
	humidityCal  Calibration
	pollInterval time.Duration
	nextPoll     time.Time
	readFailures int
	lastErr      error
	definitions  []Definition
}

// ClimateConfig configures a Climate device.
type ClimateConfig struct {
	// Name is the human-readable device name, e.g. "SHT31-D".
	Name string

	// Identifier is the payload key and registry ID, e.g. "sht31".
	Identifier string

	// PollInterval is how often the source is sampled. Default 10s.
	PollInterval time.Duration

	// Temperature and Humidity calibrate the raw readings.
	Temperature Calibration
	Humidity    Calibration
}

// NewClimate creates a temperature/humidity device reading from source.
func NewClimate(cfg ClimateConfig, source ClimateSource) *Climate {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	c := &Climate{
		base:         newBase(cfg.Name, cfg.Identifier),
		source:       source,
		temperature:  NewAccumulator[float64](DefaultAveragePoints),
		humidity:     NewAccumulator[float64](DefaultAveragePoints),
		tempCal:      cfg.Temperature,
		humidityCal:  cfg.Humidity,
		pollInterval: interval,
	}
	c.definitions = []Definition{
		{
			NameSuffix:        " " + cfg.Name + " Temperature",
			ValueTemplate:     fmt.Sprintf("{{value_json.%s.temperature.average}}", cfg.Identifier),
			UniqueIDSuffix:    "_" + cfg.Identifier + "_temperature",
			UnitOfMeasurement: "°C",
			AttributesTemplate: fmt.Sprintf(
				`{"last": "{{value_json.%s.temperature.last}}", "age": "{{value_json.%s.temperature.sample_age_ms}}"}`,
				cfg.Identifier, cfg.Identifier),
			Icon: "mdi:thermometer",
		},
		{
			NameSuffix:        " " + cfg.Name + " Humidity",
			ValueTemplate:     fmt.Sprintf("{{value_json.%s.humidity.average}}", cfg.Identifier),
			UniqueIDSuffix:    "_" + cfg.Identifier + "_humidity",
			UnitOfMeasurement: "%",
			AttributesTemplate: fmt.Sprintf(
				`{"last": "{{value_json.%s.humidity.last}}", "age": "{{value_json.%s.humidity.sample_age_ms}}"}`,
				cfg.Identifier, cfg.Identifier),
			Icon: "mdi:water-percent",
		},
	}
	return c
}

// Definitions returns the temperature and humidity capability descriptors.
func (c *Climate) Definitions() []Definition { return c.definitions }

// Poll samples the source when the poll interval has elapsed. A failed read
// is counted and kept for the status line but never fatal; the previous
// accumulation remains valid.
func (c *Climate) Poll(now time.Time) {
	if !c.enabled || now.Before(c.nextPoll) {
		return
	}
	c.nextPoll = now.Add(c.pollInterval)

	temperature, humidity, err := c.source.Sample()
	if err != nil {
		c.readFailures++
		c.lastErr = err
		return
	}
	c.lastErr = nil
	c.temperature.Record(c.tempCal.Apply(temperature))
	c.humidity.Record(c.humidityCal.Apply(humidity))
	c.markDirty()
}

// HasUnpublishedData reports whether a sample has been recorded since the
// last publish.
func (c *Climate) HasUnpublishedData() bool {
	return c.unpublished && (c.temperature.HasAccumulation() || c.humidity.HasAccumulation())
}

// RenderPayload returns the climate state: one accumulator block per
// quantity.
func (c *Climate) RenderPayload() map[string]any {
	return map[string]any{
		"temperature": c.temperature.State(),
		"humidity":    c.humidity.State(),
	}
}

// Status returns a one-line reading summary for diagnostics.
func (c *Climate) Status() string {
	if !c.enabled {
		return c.name + " is disabled"
	}
	if c.lastErr != nil {
		return fmt.Sprintf("last read failed: %v (%d failures)", c.lastErr, c.readFailures)
	}
	if !c.temperature.HasAccumulation() {
		return "no readings have been performed"
	}
	avgT, _ := c.temperature.Average()
	avgH, _ := c.humidity.Average()
	return fmt.Sprintf("accumulated %d readings; average temperature %.1f°C, average humidity %.1f%%, %d seconds since last reading",
		c.temperature.SampleCount(), avgT, avgH, int(c.temperature.SampleAge().Seconds()))
}
