package sim

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()

	if err := p.Validate(); err != nil {
		t.Fatalf("default parameters invalid: %v", err)
	}
	if math.Abs(p.InitialAngle-math.Pi/4) > 1e-12 {
		t.Errorf("expected 45 degrees in radians, got %f", p.InitialAngle)
	}
	if p.Dt != 0.01 || p.Duration != 600 {
		t.Errorf("unexpected dt/duration: %v/%v", p.Dt, p.Duration)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
		ok     bool
	}{
		{"defaults", func(p *Parameters) {}, true},
		{"zero drag and wind", func(p *Parameters) { p.DragCoeff, p.WindForce = 0, 0 }, true},
		{"negative angle", func(p *Parameters) { p.InitialAngle = -1 }, true},
		{"zero length", func(p *Parameters) { p.Length = 0 }, false},
		{"zero mass", func(p *Parameters) { p.Mass = 0 }, false},
		{"negative dt", func(p *Parameters) { p.Dt = -0.01 }, false},
		{"zero duration", func(p *Parameters) { p.Duration = 0 }, false},
		{"negative wind", func(p *Parameters) { p.WindForce = -1 }, false},
		{"NaN velocity", func(p *Parameters) { p.InitialVelocity = math.NaN() }, false},
		{"infinite length", func(p *Parameters) { p.Length = math.Inf(1) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestParseRestMode(t *testing.T) {
	for _, m := range []RestMode{RestAccumulating, RestConsecutive} {
		got, ok := ParseRestMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseRestMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseRestMode("contiguous"); ok {
		t.Error("expected unknown mode to be rejected")
	}
}
