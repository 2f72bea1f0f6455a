package pm1006

import (
	"fmt"
	"io"
	"time"

	"github.com/nerrad567/sensehub/internal/sensor"
)

// bufferSize bounds the receive buffer. Frames are 20 bytes; 64 bytes rides
// out a burst of noise while keeping the corrupt-stream reset cheap.
const bufferSize = 64

// readState tracks the outcome of the most recent parse attempt.
type readState int

const (
	neverRead readState = iota
	frameRead
	noHeaderFound
)

// Device is the particulate-matter sensor. It accumulates raw serial bytes
// from the sensor UART, recovers frames with FindFrame, and feeds decoded
// PM2.5 readings into a rolling accumulator.
//
// The device owns its receive buffer exclusively. After a consumed frame,
// trailing bytes are compacted to the front so a partial next frame
// survives to the following poll. If the buffer fills without yielding a
// valid frame the stream is treated as corrupt and the buffer is reset.
type Device struct {
	name        string
	identifier  string
	enabled     bool
	unpublished bool

	source io.Reader
	buf    [bufferSize]byte
	length int

	pm25  *sensor.Accumulator[uint16]
	state readState

	readErrors  int
	lastErr     error
	definitions []sensor.Definition
}

// NewDevice creates a PM1006 device reading raw bytes from source.
//
// source must behave non-blockingly: Read returns the bytes currently
// pending (possibly zero) rather than waiting for more. Serial ports opened
// with a zero read timeout satisfy this.
func NewDevice(name, identifier string, source io.Reader) *Device {
	d := &Device{
		name:       name,
		identifier: identifier,
		enabled:    true,
		source:     source,
		pm25:       sensor.NewAccumulator[uint16](sensor.DefaultAveragePoints),
	}
	d.definitions = []sensor.Definition{
		{
			NameSuffix:        " PM 2.5",
			ValueTemplate:     fmt.Sprintf("{{value_json.%s.pm25.average}}", identifier),
			UniqueIDSuffix:    "_pm25",
			UnitOfMeasurement: "μg/m³",
			Icon:              "mdi:air-filter",
		},
	}
	return d
}

func (d *Device) Name() string       { return d.name }
func (d *Device) Identifier() string { return d.identifier }
func (d *Device) IsEnabled() bool    { return d.enabled }

// SetEnabled switches the device on or off.
func (d *Device) SetEnabled(enabled bool) { d.enabled = enabled }

// Definitions returns the PM2.5 capability descriptor. The PM1006 reports a
// single value with no attributes, so the attributes template is absent.
func (d *Device) Definitions() []sensor.Definition { return d.definitions }

// Poll drains pending serial bytes into the receive buffer and attempts to
// recover one frame. Non-blocking; called once per driver tick.
func (d *Device) Poll(now time.Time) {
	if !d.enabled {
		return
	}

	n, err := d.source.Read(d.buf[d.length:])
	if err != nil && err != io.EOF {
		d.readErrors++
		d.lastErr = err
		return
	}
	d.lastErr = nil
	d.length += n

	if d.length < FrameSize {
		return
	}

	offset, ok := FindFrame(d.buf[:d.length])
	if !ok {
		d.state = noHeaderFound
		// Full buffer with no valid frame: the stream is stuck or
		// corrupt. Reset rather than hold garbage forever.
		if d.length == len(d.buf) {
			d.length = 0
		}
		return
	}

	d.pm25.Record(Decode(d.buf[offset:]))
	d.state = frameRead
	d.unpublished = true

	// Compact trailing bytes to the front; a partial next frame remains
	// available for the following poll.
	consumed := offset + FrameSize
	copy(d.buf[:], d.buf[consumed:d.length])
	d.length -= consumed
}

// HasUnpublishedData reports whether a frame has been decoded since the
// last publish.
func (d *Device) HasUnpublishedData() bool {
	return d.unpublished && d.pm25.HasAccumulation()
}

// RenderPayload returns the PM2.5 accumulator state.
func (d *Device) RenderPayload() map[string]any {
	return map[string]any{"pm25": d.pm25.State()}
}

// MarkPublished clears the unpublished-data flag.
func (d *Device) MarkPublished() { d.unpublished = false }

// Status returns a one-line reading summary for diagnostics.
func (d *Device) Status() string {
	if !d.enabled {
		return d.name + " is disabled"
	}
	if d.lastErr != nil {
		return fmt.Sprintf("last read failed: %v (%d failures)", d.lastErr, d.readErrors)
	}
	switch d.state {
	case neverRead:
		return "never got a reading"
	case noHeaderFound:
		return "did not find a frame in the bytes read"
	default:
		last, _ := d.pm25.Last()
		return fmt.Sprintf("%d μg/m³, %d seconds since last reading",
			last, int(d.pm25.SampleAge().Seconds()))
	}
}
