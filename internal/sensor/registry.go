package sensor

import (
	"errors"
	"fmt"
)

// ErrDuplicateDevice is returned when a device identifier is registered twice.
var ErrDuplicateDevice = errors.New("sensor: duplicate device identifier")

// Registry is the ordered collection of registered devices.
//
// Registration order is publish order: the aggregate payload lists device
// keys in the order devices were added. Identifiers are unique. The registry
// is populated during startup and read-only thereafter; the scheduler and
// discovery builder borrow it for the duration of a pass.
type Registry struct {
	devices []Device
	byID    map[string]Device
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Device)}
}

// Add registers a device. Returns ErrDuplicateDevice if a device with the
// same identifier is already registered.
func (r *Registry) Add(d Device) error {
	id := d.Identifier()
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDevice, id)
	}
	r.byID[id] = d
	r.devices = append(r.devices, d)
	return nil
}

// Devices returns the registered devices in registration order.
// The returned slice is shared; callers must treat it as read-only.
func (r *Registry) Devices() []Device {
	return r.devices
}

// Get looks up a device by identifier.
func (r *Registry) Get(identifier string) (Device, bool) {
	d, ok := r.byID[identifier]
	return d, ok
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	return len(r.devices)
}

// EnabledCount returns the number of enabled devices. The publish scheduler
// sizes its aggregate buffer proportionally to this.
func (r *Registry) EnabledCount() int {
	n := 0
	for _, d := range r.devices {
		if d.IsEnabled() {
			n++
		}
	}
	return n
}
