package pm1006

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// chunkSource feeds scripted byte chunks, one per Read call, mimicking a
// non-blocking serial port.
type chunkSource struct {
	chunks [][]byte
}

func (c *chunkSource) push(chunk []byte) {
	c.chunks = append(c.chunks, chunk)
}

func (c *chunkSource) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, nil
	}
	chunk := c.chunks[0]
	c.chunks = c.chunks[1:]
	return copy(p, chunk), nil
}

func TestDevicePollDecodesFrame(t *testing.T) {
	src := &chunkSource{}
	src.push(buildFrame(37))
	d := NewDevice("Vindriktning", "vindriktning", src)

	d.Poll(time.Unix(1000, 0))

	if !d.HasUnpublishedData() {
		t.Fatal("HasUnpublishedData() = false after full frame, want true")
	}
	payload := d.RenderPayload()
	block, ok := payload["pm25"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing pm25 block: %v", payload)
	}
	if block["last"] != uint16(37) {
		t.Errorf("pm25 last = %v, want 37", block["last"])
	}
}

func TestDevicePartialFrameAcrossPolls(t *testing.T) {
	frame := buildFrame(12)
	src := &chunkSource{}
	src.push(frame[:8])
	src.push(frame[8:])
	d := NewDevice("Vindriktning", "vindriktning", src)

	now := time.Unix(1000, 0)
	d.Poll(now)
	if d.HasUnpublishedData() {
		t.Fatal("HasUnpublishedData() = true with half a frame, want false")
	}

	d.Poll(now.Add(time.Second))
	if !d.HasUnpublishedData() {
		t.Fatal("HasUnpublishedData() = false after frame completed, want true")
	}
}

func TestDeviceCompactsTrailingBytes(t *testing.T) {
	// One frame plus the first half of the next arrive together; the
	// trailing half must survive compaction and complete on the next poll.
	first := buildFrame(10)
	second := buildFrame(20)
	src := &chunkSource{}
	src.push(append(append([]byte{}, first...), second[:10]...))
	src.push(second[10:])
	d := NewDevice("Vindriktning", "vindriktning", src)

	now := time.Unix(1000, 0)
	d.Poll(now)
	if last, _ := d.pm25.Last(); last != 10 {
		t.Fatalf("first decoded reading = %d, want 10", last)
	}
	if d.length != 10 {
		t.Fatalf("buffer length after compaction = %d, want 10", d.length)
	}

	d.Poll(now.Add(time.Second))
	if last, _ := d.pm25.Last(); last != 20 {
		t.Errorf("second decoded reading = %d, want 20", last)
	}
	if d.length != 0 {
		t.Errorf("buffer length after second frame = %d, want 0", d.length)
	}
}

func TestDeviceNoHeaderStatus(t *testing.T) {
	src := &chunkSource{}
	noise := make([]byte, FrameSize)
	for i := range noise {
		noise[i] = 0x55
	}
	src.push(noise)
	d := NewDevice("Vindriktning", "vindriktning", src)

	d.Poll(time.Unix(1000, 0))

	if d.HasUnpublishedData() {
		t.Error("HasUnpublishedData() = true for noise, want false")
	}
	if !strings.Contains(d.Status(), "did not find a frame") {
		t.Errorf("Status() = %q, want no-frame status", d.Status())
	}
	// Noise is retained: more bytes may still complete a frame.
	if d.length != FrameSize {
		t.Errorf("buffer length = %d, want %d (data kept)", d.length, FrameSize)
	}
}

func TestDeviceFullBufferResets(t *testing.T) {
	src := &chunkSource{}
	d := NewDevice("Vindriktning", "vindriktning", src)

	// Fill the buffer completely with frameless noise.
	for filled := 0; filled < bufferSize; filled += 16 {
		chunk := make([]byte, 16)
		for i := range chunk {
			chunk[i] = 0x42
		}
		src.push(chunk)
		d.Poll(time.Unix(1000, 0))
	}

	if d.length != 0 {
		t.Errorf("buffer length after full-buffer reset = %d, want 0", d.length)
	}

	// The device recovers once real frames arrive.
	src.push(buildFrame(5))
	d.Poll(time.Unix(1001, 0))
	if !d.HasUnpublishedData() {
		t.Error("device did not recover after buffer reset")
	}
}

// failingSource always errors, mimicking a dead serial port.
type failingSource struct{ err error }

func (f *failingSource) Read(p []byte) (int, error) { return 0, f.err }

func TestDeviceReadFailureStatus(t *testing.T) {
	src := &failingSource{err: errors.New("device not configured")}
	d := NewDevice("Vindriktning", "vindriktning", src)

	d.Poll(time.Unix(1000, 0))
	d.Poll(time.Unix(1001, 0))

	status := d.Status()
	if !strings.Contains(status, "last read failed") {
		t.Errorf("Status() = %q, want read-failure status", status)
	}
	if !strings.Contains(status, "2 failures") {
		t.Errorf("Status() = %q, want failure count 2", status)
	}
}

func TestDeviceReadRecoveryClearsFailureStatus(t *testing.T) {
	src := &chunkSource{}
	d := NewDevice("Vindriktning", "vindriktning", src)
	d.source = &failingSource{err: errors.New("device not configured")}

	d.Poll(time.Unix(1000, 0))

	src.push(buildFrame(12))
	d.source = src
	d.Poll(time.Unix(1001, 0))

	if status := d.Status(); strings.Contains(status, "failed") {
		t.Errorf("Status() = %q, want recovery after good read", status)
	}
}

func TestDeviceDisabled(t *testing.T) {
	src := &chunkSource{}
	src.push(buildFrame(37))
	d := NewDevice("Vindriktning", "vindriktning", src)
	d.SetEnabled(false)

	d.Poll(time.Unix(1000, 0))

	if d.HasUnpublishedData() {
		t.Error("disabled device decoded data")
	}
	if d.length != 0 {
		t.Error("disabled device consumed serial bytes")
	}
}

func TestDeviceMarkPublished(t *testing.T) {
	src := &chunkSource{}
	src.push(buildFrame(37))
	d := NewDevice("Vindriktning", "vindriktning", src)

	d.Poll(time.Unix(1000, 0))
	d.MarkPublished()

	if d.HasUnpublishedData() {
		t.Error("HasUnpublishedData() = true after MarkPublished, want false")
	}
}
