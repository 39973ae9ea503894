package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/physics"
)

func TestEnergyDrift(t *testing.T) {
	swing := physics.NewSwing(1.0, 1.0, 0, 0)
	m := NewEnergyDrift(swing)

	m.Observe(dynamo.State{math.Pi / 4, 0}, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift after one sample, got %f", m.Value())
	}

	// half the initial energy left
	e0 := swing.Energy(dynamo.State{math.Pi / 4, 0})
	angle := math.Acos(1 - e0/2/(9.81))
	m.Observe(dynamo.State{angle, 0}, 0.01)
	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("expected drift 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyLoss(t *testing.T) {
	swing := physics.NewSwing(2.0, 30.0, 0, 0)
	m := NewEnergyLoss(swing)

	if m.Value() != 0 {
		t.Error("expected zero before any sample")
	}

	start := dynamo.State{1.0, 0}
	end := dynamo.State{0, 0}
	m.Observe(start, 0)
	m.Observe(end, 1)

	want := swing.Energy(start)
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("expected loss %f, got %f", want, m.Value())
	}
}

func TestPeakSpeed(t *testing.T) {
	m := NewPeakSpeed()
	for _, v := range []float64{0.5, -2.0, 1.5} {
		m.Observe(dynamo.State{0, v}, 0)
	}
	if m.Value() != 2.0 {
		t.Errorf("expected peak 2.0, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestZeroCrossings(t *testing.T) {
	tests := []struct {
		name   string
		angles []float64
		want   float64
	}{
		{"none", []float64{0.3, 0.2, 0.1}, 0},
		{"one", []float64{0.1, -0.1}, 1},
		{"exact zero skipped", []float64{0.1, 0, -0.1}, 0},
		{"several", []float64{1, -1, 1, -1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewZeroCrossings()
			for _, a := range tt.angles {
				m.Observe(dynamo.State{a, 0}, 0)
			}
			if m.Value() != tt.want {
				t.Errorf("expected %v crossings, got %v", tt.want, m.Value())
			}
		})
	}
}

func TestStandard(t *testing.T) {
	ms := Standard(physics.NewSwing(2, 30, 0.1, 1))
	seen := make(map[string]bool)
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
