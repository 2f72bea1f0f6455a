// Package publish contains the MQTT publishing core of SenseHub: the
// connection state machine, the publish-cycle scheduler, and the Home
// Assistant auto-discovery builder.
//
// # Architecture
//
//	driver loop ──tick──▶ Scheduler ──due?──▶ publish pass over Registry
//	                          │
//	                          ▼
//	                  ConnectionManager ──connect/backoff──▶ Transport (MQTT)
//	                          │
//	                on transition to connected:
//	                availability "online" + Discovery.PublishAll
//
// Everything here is cooperative and non-blocking: the driver calls
// Scheduler.Tick at high frequency with the current time, and waiting is
// expressed as stored deadlines compared against that time, never as a
// sleep. Within one tick the connection state is resolved strictly before
// the scheduler decides whether to transmit.
//
// # Failure model
//
// Connectivity failures are retried by the ConnectionManager's two-tier
// backoff: a bounded burst of fast retries for transient faults (broker
// restart), then the user-configured reconnect interval so a persistent
// fault does not hammer the network. A failed transmit is recorded for the
// status line and retried on the next scheduled cycle, never within the
// same one. Nothing in this package terminates the process.
package publish
