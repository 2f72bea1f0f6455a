package sensor

import (
	"errors"
	"testing"
	"time"
)

type fakeSignalSource struct {
	rssi    int
	network string
	address string
	err     error
}

func (f *fakeSignalSource) Strength() (int, string, string, error) {
	return f.rssi, f.network, f.address, f.err
}

func TestSignalAlwaysHasUnpublishedData(t *testing.T) {
	src := &fakeSignalSource{rssi: -61, network: "attic", address: "192.168.1.30"}
	s := NewSignal("WiFi", "wifi", src)

	if s.HasUnpublishedData() {
		t.Error("HasUnpublishedData() = true before first reading, want false")
	}

	s.Poll(time.Unix(1000, 0))
	if !s.HasUnpublishedData() {
		t.Fatal("HasUnpublishedData() = false after reading, want true")
	}

	// MarkPublished is a documented no-op: live state is republished
	// on every cycle.
	s.MarkPublished()
	if !s.HasUnpublishedData() {
		t.Error("HasUnpublishedData() = false after MarkPublished, want true")
	}
}

func TestSignalRenderPayload(t *testing.T) {
	src := &fakeSignalSource{rssi: -48, network: "attic", address: "192.168.1.30"}
	s := NewSignal("WiFi", "wifi", src)
	s.Poll(time.Unix(1000, 0))

	payload := s.RenderPayload()
	if payload["rssi"] != -48 {
		t.Errorf("payload rssi = %v, want -48", payload["rssi"])
	}
	if payload["network"] != "attic" {
		t.Errorf("payload network = %v, want attic", payload["network"])
	}
	if payload["address"] != "192.168.1.30" {
		t.Errorf("payload address = %v, want 192.168.1.30", payload["address"])
	}
}

func TestSignalReadFailureKeepsLastReading(t *testing.T) {
	src := &fakeSignalSource{rssi: -55, network: "attic"}
	s := NewSignal("WiFi", "wifi", src)

	now := time.Unix(1000, 0)
	s.Poll(now)

	src.err = errors.New("interface down")
	s.Poll(now.Add(10 * time.Second))

	last, ok := s.rssi.Last()
	if !ok || last != -55 {
		t.Errorf("rssi after failed poll = %v, %v; want -55, true", last, ok)
	}
}
