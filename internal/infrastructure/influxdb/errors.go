package influxdb

import "errors"

var (
	// ErrDisabled is returned by Connect when the mirror is switched off
	// in config. Callers treat it as "run without history".
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed wraps ping failures during Connect.
	ErrConnectionFailed = errors.New("influxdb: connection failed")
)
