// Package mqtt provides MQTT broker connectivity for SenseHub.
//
// This package manages:
//   - Single bounded connection attempts to the broker
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//
// # Architecture
//
// The client deliberately disables paho's auto-reconnect and connect
// retry. Reconnection policy (fast retries, cooldown, counters) is owned
// by the publish package's connection manager, which calls Connect again
// when its schedule says so. The client's job is one attempt, bounded by
// a timeout, with a clear error.
//
//	publish.ConnectionManager ──► mqtt.Client ──► broker
//
// Broker address and credentials come from the settings layer at connect
// time, so a settings change is picked up on the next attempt without a
// restart.
//
// # Security Considerations
//
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted in transit
//
// # Usage
//
//	client := mqtt.NewClient(mqtt.Options{
//	    ClientID:    cfg.Hub.ID,
//	    QoS:         byte(cfg.Publisher.QoS),
//	    WillTopic:   topics.Availability(),
//	    WillPayload: "offline",
//	}, pubSettings)
//
//	if err := client.Connect(); err != nil {
//	    // the connection manager schedules the next attempt
//	}
//	client.Publish(topics.State(), payload, true)
package mqtt
