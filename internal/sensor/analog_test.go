package sensor

import (
	"testing"
	"time"
)

type fakeAnalogSource struct {
	value float64
	err   error
}

func (f *fakeAnalogSource) Sample() (float64, error) {
	return f.value, f.err
}

func TestAnalogCalibratedReading(t *testing.T) {
	src := &fakeAnalogSource{value: 512}
	a := NewAnalog(AnalogConfig{
		Name:        "Thermistor",
		Identifier:  "thermistor",
		Quantity:    "temperature",
		Unit:        "°C",
		Calibration: Calibration{Scale: 0.5, Offset: -20},
	}, src)

	a.Poll(time.Unix(1000, 0))

	payload := a.RenderPayload()
	block, ok := payload["temperature"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing temperature block: %v", payload)
	}
	if block["last"] != 236.0 { // 0.5*512 - 20
		t.Errorf("calibrated last = %v, want 236", block["last"])
	}
}

func TestAnalogDefinitionDefaults(t *testing.T) {
	a := NewAnalog(AnalogConfig{Name: "Light", Identifier: "light", Quantity: "brightness"}, &fakeAnalogSource{})

	defs := a.Definitions()
	if len(defs) != 1 {
		t.Fatalf("Definitions() len = %d, want 1", len(defs))
	}
	if defs[0].Icon != "mdi:gauge" {
		t.Errorf("default icon = %q, want mdi:gauge", defs[0].Icon)
	}
	if defs[0].ValueTemplate != "{{value_json.light.brightness.average}}" {
		t.Errorf("value template = %q", defs[0].ValueTemplate)
	}
}
