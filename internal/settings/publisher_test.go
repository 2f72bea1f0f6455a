package settings

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	values  map[string]string
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Load(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) Save(_ context.Context, key, value string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.values[key] = value
	s.saves++
	return nil
}

func TestPublisherDefaults(t *testing.T) {
	p := NewPublisher(newFakeStore())

	if p.Enabled() {
		t.Error("publisher enabled by default")
	}
	if got := p.ServerAddress(); got != "" {
		t.Errorf("ServerAddress() = %q, want empty for unconfigured server", got)
	}
	if got := p.Port(); got != 1883 {
		t.Errorf("Port() = %d, want 1883", got)
	}
	if got := p.PublishInterval(); got != 30*time.Second {
		t.Errorf("PublishInterval() = %s, want 30s", got)
	}
	if got := p.ReconnectInterval(); got != 60*time.Second {
		t.Errorf("ReconnectInterval() = %s, want 60s", got)
	}
	if got := p.KeepAlive(); got != 30*time.Second {
		t.Errorf("KeepAlive() = %s, want 30s", got)
	}
}

func TestPublisherLoad(t *testing.T) {
	store := newFakeStore()
	store.values = map[string]string{
		"mqtt.enabled":                    "true",
		"mqtt.server":                     "broker.local",
		"mqtt.port":                       "8883",
		"mqtt.username":                   "hub",
		"mqtt.password":                   "secret",
		"mqtt.publish_interval_seconds":   "120",
		"mqtt.reconnect_interval_seconds": "300",
		"mqtt.keepalive_seconds":          "15",
		"mqtt.some_future_setting":        "ignored",
	}

	p := NewPublisher(store)
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !p.Enabled() {
		t.Error("enabled not loaded")
	}
	if got := p.ServerAddress(); got != "tcp://broker.local:8883" {
		t.Errorf("ServerAddress() = %q", got)
	}
	if p.Username() != "hub" || p.Password() != "secret" {
		t.Error("credentials not loaded")
	}
	if got := p.PublishInterval(); got != 2*time.Minute {
		t.Errorf("PublishInterval() = %s, want 2m", got)
	}
	if got := p.ReconnectInterval(); got != 5*time.Minute {
		t.Errorf("ReconnectInterval() = %s, want 5m", got)
	}
	if got := p.KeepAlive(); got != 15*time.Second {
		t.Errorf("KeepAlive() = %s, want 15s", got)
	}
}

func TestPublisherLoadKeepsDefaultsOnBadValues(t *testing.T) {
	store := newFakeStore()
	store.values = map[string]string{
		"mqtt.enabled":                  "maybe",
		"mqtt.port":                     "-1",
		"mqtt.publish_interval_seconds": "soon",
	}

	p := NewPublisher(store)
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Enabled() {
		t.Error("unparseable enabled flag did not keep default")
	}
	if got := p.Port(); got != 1883 {
		t.Errorf("Port() = %d, want default after invalid value", got)
	}
	if got := p.PublishInterval(); got != 30*time.Second {
		t.Errorf("PublishInterval() = %s, want default after invalid value", got)
	}
}

func TestPublisherSettersPersistAndNotify(t *testing.T) {
	store := newFakeStore()
	p := NewPublisher(store)

	changes := 0
	p.SetOnChange(func() { changes++ })

	ctx := context.Background()
	if err := p.SetEnabled(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := p.SetServer(ctx, "broker.local"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetPublishInterval(ctx, 10*time.Second); err != nil {
		t.Fatal(err)
	}

	if changes != 3 {
		t.Errorf("onChange fired %d times, want 3", changes)
	}
	if store.values["mqtt.enabled"] != "true" {
		t.Errorf("persisted enabled = %q", store.values["mqtt.enabled"])
	}
	if store.values["mqtt.server"] != "broker.local" {
		t.Errorf("persisted server = %q", store.values["mqtt.server"])
	}
	if store.values["mqtt.publish_interval_seconds"] != "10" {
		t.Errorf("persisted interval = %q", store.values["mqtt.publish_interval_seconds"])
	}

	// Round-trip: a fresh instance sees the persisted values.
	fresh := NewPublisher(store)
	if err := fresh.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if !fresh.Enabled() || fresh.Server() != "broker.local" || fresh.PublishInterval() != 10*time.Second {
		t.Error("persisted settings did not survive reload")
	}
}

func TestPublisherSetterFailureKeepsOldValue(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")

	p := NewPublisher(store)
	p.SetOnChange(func() { t.Error("onChange fired for failed save") })

	if err := p.SetEnabled(context.Background(), true); err == nil {
		t.Fatal("SetEnabled() succeeded despite store failure")
	}
	if p.Enabled() {
		t.Error("failed save still changed the in-memory value")
	}
}

func TestPublisherRejectsInvalidValues(t *testing.T) {
	p := NewPublisher(newFakeStore())
	ctx := context.Background()

	if err := p.SetPort(ctx, 0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetPort(0) error = %v, want ErrInvalidValue", err)
	}
	if err := p.SetPort(ctx, 70000); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetPort(70000) error = %v, want ErrInvalidValue", err)
	}
	if err := p.SetPublishInterval(ctx, 0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetPublishInterval(0) error = %v, want ErrInvalidValue", err)
	}
	if err := p.SetReconnectInterval(ctx, 500*time.Millisecond); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("SetReconnectInterval(500ms) error = %v, want ErrInvalidValue", err)
	}
}
