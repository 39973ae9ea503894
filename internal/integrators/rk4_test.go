package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/swingsim/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	dyn := &harmonicOscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4ScratchResize(t *testing.T) {
	integ := NewRK4()
	integ.Step(&harmonicOscillator{}, dynamo.State{1, 0}, 0, 0.01)
	if len(integ.k1) != 2 {
		t.Fatalf("scratch len = %d, want 2", len(integ.k1))
	}
}
