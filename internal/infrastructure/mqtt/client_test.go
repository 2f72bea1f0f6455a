package mqtt

import (
	"errors"
	"testing"
	"time"
)

type stubSettings struct {
	server    string
	username  string
	password  string
	keepAlive time.Duration
}

func (s stubSettings) ServerAddress() string    { return s.server }
func (s stubSettings) Username() string         { return s.username }
func (s stubSettings) Password() string         { return s.password }
func (s stubSettings) KeepAlive() time.Duration { return s.keepAlive }

func TestConnectRequiresServer(t *testing.T) {
	client := NewClient(Options{ClientID: "test"}, stubSettings{})

	err := client.Connect()
	if !errors.Is(err, ErrNoServer) {
		t.Errorf("Connect() error = %v, want ErrNoServer", err)
	}
}

func TestPublishRequiresConnection(t *testing.T) {
	client := NewClient(Options{ClientID: "test"}, stubSettings{server: "tcp://broker.local:1883"})

	err := client.Publish("sensehub/test/state", []byte("{}"), false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestPublishRejectsEmptyTopic(t *testing.T) {
	client := NewClient(Options{ClientID: "test"}, stubSettings{server: "tcp://broker.local:1883"})

	err := client.Publish("", []byte("{}"), false)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestDisconnectWithoutConnection(t *testing.T) {
	client := NewClient(Options{ClientID: "test"}, stubSettings{})

	// Must not panic
	client.Disconnect()

	if client.IsConnected() {
		t.Error("IsConnected() = true for never-connected client")
	}
}

func TestBuildClientOptions(t *testing.T) {
	settings := stubSettings{
		server:    "tcp://broker.local:1883",
		username:  "hub",
		password:  "secret",
		keepAlive: 30 * time.Second,
	}
	opts := Options{
		ClientID:    "attic-hub",
		QoS:         1,
		WillTopic:   "sensehub/attic-hub/status",
		WillPayload: "offline",
	}

	po := buildClientOptions(opts, settings)

	if len(po.Servers) != 1 || po.Servers[0].String() != "tcp://broker.local:1883" {
		t.Errorf("broker servers = %v", po.Servers)
	}
	if po.ClientID != "attic-hub" {
		t.Errorf("client ID = %q", po.ClientID)
	}
	if po.Username != "hub" || po.Password != "secret" {
		t.Error("credentials not applied")
	}
	if po.AutoReconnect {
		t.Error("auto-reconnect enabled; retry policy belongs to the caller")
	}
	if po.ConnectRetry {
		t.Error("connect retry enabled; retry policy belongs to the caller")
	}
	if !po.CleanSession {
		t.Error("clean session disabled")
	}
	if po.WillTopic != "sensehub/attic-hub/status" || string(po.WillPayload) != "offline" {
		t.Errorf("will = %q %q", po.WillTopic, po.WillPayload)
	}
	if !po.WillRetained {
		t.Error("will not retained")
	}
	if po.KeepAlive != 30 {
		t.Errorf("keepalive = %v, want 30", po.KeepAlive)
	}
}

func TestBuildClientOptionsAnonymous(t *testing.T) {
	po := buildClientOptions(Options{ClientID: "test"}, stubSettings{server: "tcp://broker.local:1883"})

	if po.Username != "" {
		t.Errorf("username = %q, want empty for anonymous access", po.Username)
	}
	if po.WillEnabled {
		t.Error("will enabled without a will topic")
	}
}

func TestOptionsTimeoutDefaults(t *testing.T) {
	var opts Options

	if got := opts.connectTimeout(); got != defaultConnectTimeout {
		t.Errorf("connectTimeout() = %v, want default", got)
	}
	if got := opts.publishTimeout(); got != defaultPublishTimeout {
		t.Errorf("publishTimeout() = %v, want default", got)
	}

	opts.ConnectTimeout = 2 * time.Second
	opts.PublishTimeout = 3 * time.Second
	if got := opts.connectTimeout(); got != 2*time.Second {
		t.Errorf("connectTimeout() = %v, want 2s", got)
	}
	if got := opts.publishTimeout(); got != 3*time.Second {
		t.Errorf("publishTimeout() = %v, want 3s", got)
	}
}
