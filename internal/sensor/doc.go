// Package sensor provides the device model for SenseHub.
//
// A Device is anything that can be polled for readings in the main loop and
// can render its accumulated state for MQTT publishing. Each device owns one
// or more Accumulators — fixed-window rolling averages over the most recent
// N samples — and exposes one Definition per published quantity so that
// auto-discovery consumers (Home Assistant) can recognise it.
//
// # Key Types
//
//   - Accumulator: generic ring-buffer rolling average with last-value,
//     sample-count and sample-age tracking
//   - Device: the capability interface polled by the driver loop and folded
//     into the aggregate state payload by the publish scheduler
//   - Definition: one published sensor capability (name suffix, value
//     template, unique-id suffix, unit, optional attributes template, icon)
//   - Registry: the ordered, unique-by-identifier device collection;
//     registration order is publish order
//
// Concrete devices live alongside the interface: Climate (temperature and
// humidity), Analog (calibrated analog channel) and Signal (link signal
// strength). The particulate-matter device has its own framing protocol and
// lives in the pm1006 subpackage.
//
// # Concurrency
//
// The whole sensor pipeline is single-threaded by construction: devices are
// polled and published from one cooperative driver loop, and nothing in this
// package takes locks. Registration must complete before the loop starts.
package sensor
