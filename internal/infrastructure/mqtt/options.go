package mqtt

import (
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for a connection attempt.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds
)

// Options contains the static client configuration: identity, topic
// targets for the will message and operation timeouts. Broker address
// and credentials are read from Settings at connect time instead.
type Options struct {
	// ClientID identifies this client to the broker.
	ClientID string

	// QoS is the quality of service level for published messages.
	QoS byte

	// WillTopic and WillPayload configure the Last Will and Testament.
	// The broker publishes the will (retained) if the client drops
	// without a clean disconnect, so consumers see the hub go offline.
	WillTopic   string
	WillPayload string

	// ConnectTimeout bounds a single connection attempt.
	// Zero means defaultConnectTimeout.
	ConnectTimeout time.Duration

	// PublishTimeout bounds a single publish acknowledgment wait.
	// Zero means defaultPublishTimeout.
	PublishTimeout time.Duration
}

// Settings supplies the runtime connection parameters. Implemented by
// settings.Publisher; values are re-read on every connection attempt.
type Settings interface {
	ServerAddress() string
	Username() string
	Password() string
	KeepAlive() time.Duration
}

// buildClientOptions creates paho MQTT options for one connection attempt.
//
// Auto-reconnect and connect retry are disabled: the caller owns the
// retry schedule and calls Connect again when it decides to.
func buildClientOptions(opts Options, settings Settings) *pahomqtt.ClientOptions {
	po := pahomqtt.NewClientOptions()

	po.AddBroker(settings.ServerAddress())
	po.SetClientID(opts.ClientID)

	if username := settings.Username(); username != "" {
		po.SetUsername(username)
		po.SetPassword(settings.Password())
	}

	// Clean session - start fresh on connect (no persistent session on broker)
	po.SetCleanSession(true)

	po.SetAutoReconnect(false)
	po.SetConnectRetry(false)
	po.SetConnectTimeout(opts.connectTimeout())
	po.SetKeepAlive(settings.KeepAlive())

	if opts.WillTopic != "" {
		po.SetWill(opts.WillTopic, opts.WillPayload, opts.QoS, true)
	}

	return po
}

func (o Options) connectTimeout() time.Duration {
	if o.ConnectTimeout > 0 {
		return o.ConnectTimeout
	}
	return defaultConnectTimeout
}

func (o Options) publishTimeout() time.Duration {
	if o.PublishTimeout > 0 {
		return o.PublishTimeout
	}
	return defaultPublishTimeout
}
